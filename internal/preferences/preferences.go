package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-sync/internal/models"
	"storefront-sync/internal/store"

	"go.uber.org/zap"
)

// Service owns notification preferences and favorite sales.
type Service struct {
	mu        sync.RWMutex
	kv        store.KeyValueStore
	logger    *zap.Logger
	prefs     models.NotificationPreferences
	favorites map[string]struct{}
}

// New loads saved preferences, falling back to defaults.
func New(ctx context.Context, kv store.KeyValueStore, logger *zap.Logger) *Service {
	s := &Service{
		kv:     kv,
		logger: logger,
		prefs:  models.DefaultNotificationPreferences(),
	}

	var saved models.NotificationPreferences
	err := store.GetJSON(ctx, kv, store.KeyNotificationPreferences, &saved)
	switch {
	case err == nil:
		s.prefs = saved
	case !errors.Is(err, store.ErrNotFound):
		logger.Warn("Failed to load notification preferences, using defaults", zap.Error(err))
	}

	favorites, err := store.LoadSet(ctx, kv, store.KeyFavoriteSaleIDs)
	if err != nil {
		logger.Warn("Failed to load favorites", zap.Error(err))
	}
	s.favorites = favorites
	return s
}

func (s *Service) Get() models.NotificationPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyPrefs(s.prefs)
}

// Update replaces preferences. Unknown cut names are rejected.
func (s *Service) Update(ctx context.Context, prefs models.NotificationPreferences) error {
	for _, c := range prefs.PreferredCuts {
		if !isKnownCut(c) {
			return fmt.Errorf("%w: %q", ErrUnknownCut, c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = copyPrefs(prefs)
	if err := store.PutJSON(ctx, s.kv, store.KeyNotificationPreferences, s.prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// SaleAlertsEnabled reports whether new flash sales should reach the inbox.
func (s *Service) SaleAlertsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs.FlashSalesEnabled
}

// FilterSales keeps sales whose cut is in the preferred set.
func (s *Service) FilterSales(sales []models.Sale) []models.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if s.prefs.WantsCut(sale.CutType) {
			out = append(out, sale)
		}
	}
	return out
}

func (s *Service) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return store.SetMembers(s.favorites)
}

func (s *Service) IsFavorite(saleID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.favorites[saleID]
	return ok
}

func (s *Service) AddFavorite(ctx context.Context, saleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites[saleID] = struct{}{}
	return s.saveFavorites(ctx)
}

func (s *Service) RemoveFavorite(ctx context.Context, saleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favorites, saleID)
	return s.saveFavorites(ctx)
}

func (s *Service) saveFavorites(ctx context.Context) error {
	if err := store.PutJSON(ctx, s.kv, store.KeyFavoriteSaleIDs, store.SetMembers(s.favorites)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

var ErrUnknownCut = errors.New("unknown cut type")

func isKnownCut(c models.CutType) bool {
	for _, known := range models.AllCutTypes {
		if c == known {
			return true
		}
	}
	return false
}

func copyPrefs(p models.NotificationPreferences) models.NotificationPreferences {
	cuts := make([]models.CutType, len(p.PreferredCuts))
	copy(cuts, p.PreferredCuts)
	p.PreferredCuts = cuts
	return p
}
