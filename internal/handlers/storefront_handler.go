package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storefront-sync/internal/device"
	"storefront-sync/internal/inbox"
	"storefront-sync/internal/models"
	"storefront-sync/internal/preferences"
	"storefront-sync/internal/remote"
	"storefront-sync/internal/state"
	"storefront-sync/internal/syncer"
	apperrors "storefront-sync/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Refresher runs one sync cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) syncer.SyncResult
}

// TriggerSink queues lifecycle triggers for the scheduler.
type TriggerSink interface {
	Trigger(t models.Trigger) bool
}

// CatalogReader serves the normalized catalog.
type CatalogReader interface {
	Items(ctx context.Context) ([]models.CatalogItem, error)
}

// DeviceRegistrar accepts push credentials and reports registration state.
type DeviceRegistrar interface {
	SetPushToken(ctx context.Context, token string) (device.RetryResult, error)
	Status() device.Status
}

// StorefrontHandler serves the synced storefront state and the local inbox.
type StorefrontHandler struct {
	logger      *zap.Logger
	state       *state.State
	refresher   Refresher
	triggers    TriggerSink
	catalog     CatalogReader
	inbox       *inbox.Inbox
	preferences *preferences.Service
	registrar   DeviceRegistrar
	now         func() time.Time
}

// Dependencies groups what the handler reads from and writes to.
type Dependencies struct {
	State       *state.State
	Refresher   Refresher
	Triggers    TriggerSink
	Catalog     CatalogReader
	Inbox       *inbox.Inbox
	Preferences *preferences.Service
	Registrar   DeviceRegistrar
}

func NewStorefrontHandler(deps Dependencies, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		logger:      logger,
		state:       deps.State,
		refresher:   deps.Refresher,
		triggers:    deps.Triggers,
		catalog:     deps.Catalog,
		inbox:       deps.Inbox,
		preferences: deps.Preferences,
		registrar:   deps.Registrar,
		now:         time.Now,
	}
}

// Health handles GET /api/v1/health
// @Summary      Health check
// @Description  Reports whether the daemon is up, whether the first sale load is still running, and the device registration state.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *StorefrontHandler) Health(c *gin.Context) {
	snapshot := h.state.Snapshot()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "storefront-sync",
		Timestamp: h.now().UTC(),
		IsLoading: snapshot.IsLoading,
		UpdatedAt: snapshot.UpdatedAt,
		Device:    h.registrar.Status().State,
	})
}

// ActiveSales handles GET /api/v1/sales/active
// With ?preferred=true only sales for the customer's preferred cuts are listed.
// @Summary      List active sales
// @Description  Sales whose end date is in the future, newest first, with discount and time remaining.
// @Tags         sales
// @Produce      json
// @Param        preferred  query     bool  false  "Only sales for preferred cuts"
// @Success      200        {object}  SalesResponse
// @Router       /sales/active [get]
func (h *StorefrontHandler) ActiveSales(c *gin.Context) {
	now := h.now()
	sales := h.state.ActiveSales(now)
	if preferred, _ := strconv.ParseBool(c.Query("preferred")); preferred {
		sales = h.preferences.FilterSales(sales)
	}
	h.writeSales(c, sales, now)
}

// ExpiredSales handles GET /api/v1/sales/expired
// @Summary      List expired sales
// @Tags         sales
// @Produce      json
// @Success      200  {object}  SalesResponse
// @Router       /sales/expired [get]
func (h *StorefrontHandler) ExpiredSales(c *gin.Context) {
	now := h.now()
	h.writeSales(c, h.state.ExpiredSales(now), now)
}

func (h *StorefrontHandler) writeSales(c *gin.Context, sales []models.Sale, now time.Time) {
	c.JSON(http.StatusOK, SalesResponse{
		Sales:     toSaleResponses(sales, now, h.preferences.IsFavorite),
		Total:     len(sales),
		IsLoading: h.state.IsLoading(),
	})
}

// ListMarkets handles GET /api/v1/markets
// @Summary      List pop-up markets
// @Tags         markets
// @Produce      json
// @Success      200  {object}  MarketsResponse
// @Router       /markets [get]
func (h *StorefrontHandler) ListMarkets(c *gin.Context) {
	markets := h.state.Markets()
	c.JSON(http.StatusOK, MarketsResponse{Markets: markets, Total: len(markets)})
}

// ListEvents handles GET /api/v1/events?when=upcoming|past
// @Summary      List events
// @Description  Upcoming events sorted soonest first, or past events sorted most recent first.
// @Tags         events
// @Produce      json
// @Param        when  query     string  false  "upcoming or past"  Enums(upcoming, past)  default(upcoming)
// @Success      200   {object}  EventsResponse
// @Failure      400   {object}  errors.StandardError
// @Router       /events [get]
func (h *StorefrontHandler) ListEvents(c *gin.Context) {
	when := c.DefaultQuery("when", "upcoming")
	now := h.now()

	var events []models.Event
	switch when {
	case "upcoming":
		events = models.UpcomingEvents(h.state.Events(), now)
	case "past":
		events = models.PastEvents(h.state.Events(), now)
	default:
		_ = c.Error(apperrors.NewValidationError("when must be upcoming or past", "when"))
		return
	}

	c.JSON(http.StatusOK, EventsResponse{Events: events, Total: len(events), When: when})
}

// ListAnnouncements handles GET /api/v1/announcements
// @Summary      List announcements
// @Tags         announcements
// @Produce      json
// @Success      200  {object}  AnnouncementsResponse
// @Router       /announcements [get]
func (h *StorefrontHandler) ListAnnouncements(c *gin.Context) {
	announcements := h.state.Announcements()
	c.JSON(http.StatusOK, AnnouncementsResponse{Announcements: announcements, Total: len(announcements)})
}

// GetCatalog handles GET /api/v1/catalog
// @Summary      Get catalog
// @Description  Catalog items grouped from the dashboard rows. Served from cache when fresh, otherwise from the last good copy when the dashboard fails.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  CatalogResponse
// @Failure      502  {object}  errors.StandardError
// @Failure      503  {object}  errors.StandardError
// @Router       /catalog [get]
func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	items, err := h.catalog.Items(c.Request.Context())
	if err != nil {
		h.logger.Warn("Catalog unavailable", zap.Error(err))
		_ = c.Error(catalogError(err))
		return
	}
	c.JSON(http.StatusOK, CatalogResponse{Items: toCatalogResponses(items), Total: len(items)})
}

func catalogError(err error) *apperrors.StandardError {
	switch remote.KindOf(err) {
	case remote.KindNotConfigured:
		return apperrors.NewNotConfigured("catalog")
	case remote.KindDecode:
		return apperrors.NewDecodeError("catalog", err)
	default:
		return apperrors.NewUpstreamError("catalog", err)
	}
}

// Refresh handles POST /api/v1/refresh and waits for the cycle to finish.
// Partial failures still return 200; the errors are listed per resource.
// @Summary      Refresh storefront data
// @Description  Runs one refresh cycle and returns which resources were updated. Send X-Request-ID to make retries idempotent.
// @Tags         sync
// @Produce      json
// @Param        X-Request-ID  header    string  false  "Idempotency key"
// @Success      200           {object}  RefreshResponse
// @Router       /refresh [post]
func (h *StorefrontHandler) Refresh(c *gin.Context) {
	result := h.refresher.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, toRefreshResponse(result))
}

// Lifecycle handles POST /api/v1/lifecycle/:trigger
// @Summary      Queue a lifecycle trigger
// @Tags         sync
// @Produce      json
// @Param        trigger       path      string  true   "Lifecycle trigger"  Enums(launch, foreground, background, permission)
// @Param        X-Request-ID  header    string  false  "Idempotency key"
// @Success      202           {object}  LifecycleResponse
// @Failure      400           {object}  errors.StandardError
// @Router       /lifecycle/{trigger} [post]
func (h *StorefrontHandler) Lifecycle(c *gin.Context) {
	trigger, ok := models.ParseLifecycleTrigger(c.Param("trigger"))
	if !ok {
		_ = c.Error(apperrors.NewValidationError("unknown lifecycle trigger", "trigger"))
		return
	}

	queued := h.triggers.Trigger(trigger)
	c.JSON(http.StatusAccepted, LifecycleResponse{Trigger: trigger, Queued: queued})
}
