package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-sync/internal/cache"
	"storefront-sync/internal/models"
	"storefront-sync/internal/remote"

	"go.uber.org/zap"
)

// Source produces the full normalized catalog.
type Source interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogItem, error)
}

// DashboardSource reads the dashboard's flat catalog rows.
type DashboardSource struct {
	client *remote.Client
}

func NewDashboardSource(client *remote.Client) *DashboardSource {
	return &DashboardSource{client: client}
}

func (d *DashboardSource) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := d.client.FetchCatalogRows(ctx)
	if err != nil {
		return nil, err
	}
	return GroupRows(rows), nil
}

// Service serves the catalog cache-first and falls back to the last good
// copy when the source fails.
type Service struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	lastGood []models.CatalogItem
}

func NewService(source Source, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Items returns the catalog. Errors surface only when nothing has ever been
// fetched successfully.
func (s *Service) Items(ctx context.Context) ([]models.CatalogItem, error) {
	var cached []models.CatalogItem
	err := cache.GetJSON(ctx, s.cache, cache.CatalogItemsKey, &cached)
	if err == nil {
		s.logger.Debug("Catalog cache hit", zap.Int("items", len(cached)))
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Catalog cache read failed", zap.Error(err))
	}

	items, err := s.source.FetchCatalog(ctx)
	if err != nil {
		s.mu.RLock()
		stale := s.lastGood
		s.mu.RUnlock()
		if stale != nil {
			s.logger.Warn("Catalog fetch failed, serving last good copy", zap.Error(err))
			return stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.lastGood = items
	s.mu.Unlock()

	if err := cache.SetJSON(ctx, s.cache, cache.CatalogItemsKey, items, s.ttl); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
	return items, nil
}

// Invalidate drops cached catalog entries so the next read hits the source.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, cache.CatalogKeyPattern)
}
