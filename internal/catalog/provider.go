package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storefront-sync/internal/config"
	"storefront-sync/internal/models"
	"storefront-sync/internal/remote"

	"go.uber.org/zap"
)

// InventoryBatchSize is the provider's limit on ids per batch-retrieve call.
const InventoryBatchSize = 100

const (
	resourceCatalogList = "/catalog/list"
	resourceInventory   = "/inventory/counts/batch-retrieve"
)

// ProviderClient reads the commerce provider's catalog and inventory.
type ProviderClient struct {
	baseURL        string
	version        string
	token          string
	http           *http.Client
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewProviderClient(cfg *config.Config, logger *zap.Logger) *ProviderClient {
	return &ProviderClient{
		baseURL:        cfg.CatalogProviderURL,
		version:        cfg.CatalogProviderVersion,
		token:          cfg.CatalogProviderToken,
		http:           &http.Client{Timeout: time.Duration(cfg.ResourceTimeoutSec) * time.Second},
		requestTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		logger:         logger,
	}
}

type listResponse struct {
	Objects []ProviderObject `json:"objects"`
	Cursor  *string          `json:"cursor"`
}

type inventoryRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
}

type inventoryResponse struct {
	Counts []ProviderCount `json:"counts"`
}

// FetchCatalog lists every item page, then merges inventory counts.
func (p *ProviderClient) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	if p.token == "" {
		return nil, &remote.FetchError{Kind: remote.KindNotConfigured, Resource: resourceCatalogList}
	}

	objects, err := p.listItems(ctx)
	if err != nil {
		return nil, err
	}

	ids := VariationIDs(objects)
	p.logger.Debug("Provider catalog fetched",
		zap.Int("items", len(objects)),
		zap.Int("variations", len(ids)),
	)

	counts, err := p.inventoryCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Normalize(objects, counts), nil
}

func (p *ProviderClient) listItems(ctx context.Context) ([]ProviderObject, error) {
	objects := make([]ProviderObject, 0)
	cursor := ""
	for {
		q := url.Values{"types": {"ITEM"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, status, err := p.do(ctx, http.MethodGet, resourceCatalogList+"?"+q.Encode(), nil)
		if err != nil {
			return nil, &remote.FetchError{Kind: remote.KindServer, Resource: resourceCatalogList, Err: err}
		}
		if status != http.StatusOK {
			p.logger.Warn("Provider catalog error", zap.Int("status", status), zap.ByteString("body", truncate(body)))
			return nil, &remote.FetchError{Kind: remote.KindServer, Resource: resourceCatalogList, Status: status}
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &remote.FetchError{Kind: remote.KindDecode, Resource: resourceCatalogList, Status: status, Err: err}
		}
		objects = append(objects, page.Objects...)

		if page.Cursor == nil || *page.Cursor == "" {
			return objects, nil
		}
		cursor = *page.Cursor
	}
}

// inventoryCounts retrieves counts in batches. A failed batch is skipped so
// its variations stay untracked.
func (p *ProviderClient) inventoryCounts(ctx context.Context, ids []string) (map[string]float64, error) {
	all := make([]ProviderCount, 0)
	for start := 0; start < len(ids); start += InventoryBatchSize {
		end := start + InventoryBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		payload, err := json.Marshal(inventoryRequest{CatalogObjectIDs: ids[start:end]})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal inventory request: %w", err)
		}

		body, status, err := p.do(ctx, http.MethodPost, resourceInventory, payload)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			p.logger.Warn("Inventory batch failed", zap.Int("offset", start), zap.Error(err))
			continue
		}
		if status != http.StatusOK {
			p.logger.Warn("Inventory batch rejected",
				zap.Int("offset", start),
				zap.Int("status", status),
				zap.ByteString("body", truncate(body)),
			)
			continue
		}

		var resp inventoryResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &remote.FetchError{Kind: remote.KindDecode, Resource: resourceInventory, Status: status, Err: err}
		}
		all = append(all, resp.Counts...)
	}
	return SumCounts(all), nil
}

func (p *ProviderClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	if p.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestTimeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Square-Version", p.version)
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) []byte {
	const limit = 512
	if len(b) > limit {
		return b[:limit]
	}
	return b
}
