package inbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-sync/internal/models"
	"storefront-sync/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Inbox is the persisted, newest-first list of notifications plus the seen
// sets that keep polled announcements and sales from being added twice.
// Every mutation updates memory first and then persists under the same lock.
type Inbox struct {
	mu     sync.Mutex
	kv     store.KeyValueStore
	logger *zap.Logger

	items             []models.InboxItem
	dismissed         map[string]struct{}
	seenAnnouncements map[string]struct{}
	seenSales         map[string]struct{}

	now   func() time.Time
	newID func() string
}

// New loads the inbox from kv. Corrupt entries are logged and start empty.
func New(ctx context.Context, kv store.KeyValueStore, logger *zap.Logger) *Inbox {
	in := &Inbox{
		kv:     kv,
		logger: logger,
		items:  []models.InboxItem{},
		now:    time.Now,
		newID:  uuid.NewString,
	}

	if err := store.GetJSON(ctx, kv, store.KeyInboxItems, &in.items); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Warn("Failed to load inbox items", zap.Error(err))
		in.items = []models.InboxItem{}
	}
	in.dismissed = in.loadSet(ctx, store.KeyDismissedHomeIDs)
	in.seenAnnouncements = in.loadSet(ctx, store.KeySeenAnnouncementKeys)
	in.seenSales = in.loadSet(ctx, store.KeySeenSaleKeys)

	logger.Debug("Inbox loaded",
		zap.Int("items", len(in.items)),
		zap.Int("seen_announcements", len(in.seenAnnouncements)),
		zap.Int("seen_sales", len(in.seenSales)),
	)
	return in
}

func (in *Inbox) loadSet(ctx context.Context, key string) map[string]struct{} {
	set, err := store.LoadSet(ctx, in.kv, key)
	if err != nil {
		in.logger.Warn("Failed to load set", zap.String("key", key), zap.Error(err))
	}
	return set
}

// SyncAnnouncements adds an item for each active announcement whose dedup key
// has not been seen. It returns the number added. No push is sent.
func (in *Inbox) SyncAnnouncements(ctx context.Context, announcements []models.Announcement) int {
	in.mu.Lock()
	defer in.mu.Unlock()

	added := 0
	for _, a := range announcements {
		if !a.IsActive {
			continue
		}
		key := a.DedupKey()
		if _, seen := in.seenAnnouncements[key]; seen {
			continue
		}
		in.prepend(a.Title, a.Message)
		in.seenAnnouncements[key] = struct{}{}
		added++
	}

	if added > 0 {
		in.persist(ctx, map[string]interface{}{
			store.KeyInboxItems:           in.items,
			store.KeySeenAnnouncementKeys: store.SetMembers(in.seenAnnouncements),
		})
		in.logger.Info("New announcements added to inbox", zap.Int("count", added))
	}
	return added
}

// SyncSales adds an item for each sale active at now that has not been seen.
func (in *Inbox) SyncSales(ctx context.Context, sales []models.Sale, now time.Time) int {
	in.mu.Lock()
	defer in.mu.Unlock()

	added := 0
	for _, s := range sales {
		if !s.IsActiveNow(now) {
			continue
		}
		key := SaleKey(s.ID)
		if _, seen := in.seenSales[key]; seen {
			continue
		}
		title, body := SaleNotification(s)
		in.prepend(title, body)
		in.seenSales[key] = struct{}{}
		added++
	}

	if added > 0 {
		in.persist(ctx, map[string]interface{}{
			store.KeyInboxItems:   in.items,
			store.KeySeenSaleKeys: store.SetMembers(in.seenSales),
		})
		in.logger.Info("New flash sales added to inbox", zap.Int("count", added))
	}
	return added
}

// SaleKey is the dedup key for a sale.
func SaleKey(id string) string {
	return "sale-" + id
}

// SaleNotification renders the inbox title and body for a sale.
func SaleNotification(s models.Sale) (title, body string) {
	return "Flash Sale: " + s.Title, fmt.Sprintf("%d%% off — now $%.2f", s.DiscountPercent(), s.SalePrice)
}

// AddItem records a notification that arrived by push.
func (in *Inbox) AddItem(ctx context.Context, title, body string) models.InboxItem {
	in.mu.Lock()
	defer in.mu.Unlock()

	item := in.prepend(title, body)
	in.persistItems(ctx)
	return item
}

// MarkRead marks one item read. It reports whether the item exists.
func (in *Inbox) MarkRead(ctx context.Context, id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.items {
		if in.items[i].ID != id {
			continue
		}
		if !in.items[i].IsRead {
			in.items[i].IsRead = true
			in.persistItems(ctx)
		}
		return true
	}
	return false
}

// MarkAllRead marks every item read and returns how many changed.
func (in *Inbox) MarkAllRead(ctx context.Context) int {
	in.mu.Lock()
	defer in.mu.Unlock()

	changed := 0
	for i := range in.items {
		if !in.items[i].IsRead {
			in.items[i].IsRead = true
			changed++
		}
	}
	if changed > 0 {
		in.persistItems(ctx)
	}
	return changed
}

// Remove deletes one item. It reports whether the item existed.
func (in *Inbox) Remove(ctx context.Context, id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.items {
		if in.items[i].ID == id {
			in.items = append(in.items[:i], in.items[i+1:]...)
			in.persistItems(ctx)
			return true
		}
	}
	return false
}

// Clear removes every item. Seen sets are kept so cleared items do not return.
func (in *Inbox) Clear(ctx context.Context) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.items = []models.InboxItem{}
	in.persistItems(ctx)
}

// DismissFromHome hides an item from the home feed without marking it read.
func (in *Inbox) DismissFromHome(ctx context.Context, id string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.dismissed[id]; ok {
		return
	}
	in.dismissed[id] = struct{}{}
	in.persist(ctx, map[string]interface{}{
		store.KeyDismissedHomeIDs: store.SetMembers(in.dismissed),
	})
}

// HomeNotifications returns the items not dismissed from home, newest first.
func (in *Inbox) HomeNotifications() []models.InboxItem {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]models.InboxItem, 0, len(in.items))
	for _, item := range in.items {
		if _, dismissed := in.dismissed[item.ID]; !dismissed {
			out = append(out, item)
		}
	}
	return out
}

func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	n := 0
	for _, item := range in.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// Items returns a copy of the inbox, newest first.
func (in *Inbox) Items() []models.InboxItem {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]models.InboxItem, len(in.items))
	copy(out, in.items)
	return out
}

// prepend inserts a new unread item at the front. Caller holds mu.
func (in *Inbox) prepend(title, body string) models.InboxItem {
	item := models.InboxItem{
		ID:         in.newID(),
		Title:      title,
		Body:       body,
		ReceivedAt: in.now(),
	}
	in.items = append([]models.InboxItem{item}, in.items...)
	return item
}

func (in *Inbox) persistItems(ctx context.Context) {
	in.persist(ctx, map[string]interface{}{store.KeyInboxItems: in.items})
}

// persist writes the given values in one batch. Failures are logged only;
// memory stays authoritative for the session. Caller holds mu.
func (in *Inbox) persist(ctx context.Context, values map[string]interface{}) {
	batch := store.Batch{}
	for key, v := range values {
		if err := batch.Add(key, v); err != nil {
			in.logger.Error("Failed to encode inbox state", zap.String("key", key), zap.Error(err))
			return
		}
	}
	if err := in.kv.PutMany(ctx, batch); err != nil {
		in.logger.Warn("Failed to persist inbox state", zap.Error(err))
	}
}
