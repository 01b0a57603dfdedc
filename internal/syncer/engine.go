package syncer

import (
	"context"
	"time"

	"storefront-sync/internal/models"
	"storefront-sync/internal/state"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resource names one of the four remote lists.
type Resource string

const (
	ResourceSales         Resource = "sales"
	ResourceMarkets       Resource = "markets"
	ResourceAnnouncements Resource = "announcements"
	ResourceEvents        Resource = "events"
)

// AllResources in fallback order.
var AllResources = []Resource{ResourceSales, ResourceMarkets, ResourceAnnouncements, ResourceEvents}

// Fetcher reads the remote lists. remote.Client implements it.
type Fetcher interface {
	FetchSales(ctx context.Context) ([]models.Sale, error)
	FetchMarkets(ctx context.Context) ([]models.PopUpMarket, error)
	FetchAnnouncements(ctx context.Context) ([]models.Announcement, error)
	FetchEvents(ctx context.Context) ([]models.Event, error)
}

// Inbox receives newly discovered announcements and sales.
type Inbox interface {
	SyncAnnouncements(ctx context.Context, announcements []models.Announcement) int
	SyncSales(ctx context.Context, sales []models.Sale, now time.Time) int
}

// AlertSettings decides whether sales reach the inbox.
type AlertSettings interface {
	SaleAlertsEnabled() bool
}

// SyncResult describes one refresh.
type SyncResult struct {
	// Combined is true when the four-way fetch succeeded as a whole.
	Combined      bool
	Updated       []Resource
	Errors        map[Resource]error
	NewInboxItems int
}

// OK reports whether every resource was refreshed.
func (r SyncResult) OK() bool {
	return len(r.Errors) == 0
}

type Engine struct {
	fetcher Fetcher
	state   *state.State
	inbox   Inbox
	alerts  AlertSettings
	logger  *zap.Logger
	now     func() time.Time
}

func NewEngine(fetcher Fetcher, st *state.State, inbox Inbox, alerts AlertSettings, logger *zap.Logger) *Engine {
	return &Engine{
		fetcher: fetcher,
		state:   st,
		inbox:   inbox,
		alerts:  alerts,
		logger:  logger,
		now:     time.Now,
	}
}

// State exposes the container the engine writes to.
func (e *Engine) State() *state.State {
	return e.state
}

// Refresh fetches all four resources concurrently. If any fails, each is
// fetched again on its own and every success replaces only its own list.
// Errors are never fatal; previously fetched data stays in place.
func (e *Engine) Refresh(ctx context.Context) SyncResult {
	counted := e.state.BeginRefresh()
	defer e.state.EndRefresh(counted)

	result := SyncResult{Errors: make(map[Resource]error)}

	if err := e.fetchCombined(ctx); err == nil {
		result.Combined = true
		result.Updated = append(result.Updated, AllResources...)
	} else {
		e.logger.Warn("Combined refresh failed, fetching resources individually", zap.Error(err))
		e.fetchIndividually(ctx, &result)
	}

	now := e.now()
	result.NewInboxItems += e.inbox.SyncAnnouncements(ctx, e.state.Announcements())
	if e.alerts == nil || e.alerts.SaleAlertsEnabled() {
		result.NewInboxItems += e.inbox.SyncSales(ctx, e.state.Sales(), now)
	}

	e.logger.Info("Refresh finished",
		zap.Bool("combined", result.Combined),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Errors)),
		zap.Int("new_inbox_items", result.NewInboxItems),
	)
	return result
}

func (e *Engine) fetchCombined(ctx context.Context) error {
	var (
		g             errgroup.Group
		sales         []models.Sale
		markets       []models.PopUpMarket
		announcements []models.Announcement
		events        []models.Event
	)

	g.Go(func() (err error) {
		sales, err = e.fetcher.FetchSales(ctx)
		return err
	})
	g.Go(func() (err error) {
		markets, err = e.fetcher.FetchMarkets(ctx)
		return err
	})
	g.Go(func() (err error) {
		announcements, err = e.fetcher.FetchAnnouncements(ctx)
		return err
	})
	g.Go(func() (err error) {
		events, err = e.fetcher.FetchEvents(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	e.state.ReplaceAll(sales, markets, announcements, events)
	return nil
}

func (e *Engine) fetchIndividually(ctx context.Context, result *SyncResult) {
	for _, r := range AllResources {
		if err := e.fetchOne(ctx, r); err != nil {
			e.logger.Warn("Resource refresh failed", zap.String("resource", string(r)), zap.Error(err))
			result.Errors[r] = err
			continue
		}
		result.Updated = append(result.Updated, r)
	}
}

func (e *Engine) fetchOne(ctx context.Context, r Resource) error {
	switch r {
	case ResourceSales:
		sales, err := e.fetcher.FetchSales(ctx)
		if err != nil {
			return err
		}
		e.state.SetSales(sales)
	case ResourceMarkets:
		markets, err := e.fetcher.FetchMarkets(ctx)
		if err != nil {
			return err
		}
		e.state.SetMarkets(markets)
	case ResourceAnnouncements:
		announcements, err := e.fetcher.FetchAnnouncements(ctx)
		if err != nil {
			return err
		}
		e.state.SetAnnouncements(announcements)
	case ResourceEvents:
		events, err := e.fetcher.FetchEvents(ctx)
		if err != nil {
			return err
		}
		e.state.SetEvents(events)
	}
	return nil
}
