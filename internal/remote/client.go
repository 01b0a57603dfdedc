package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-sync/internal/config"
	"storefront-sync/internal/models"

	"go.uber.org/zap"
)

// Resource paths under the public API prefix.
const (
	PathFlashSales     = "/flash-sales"
	PathPopUpMarkets   = "/pop-up-markets"
	PathAnnouncements  = "/announcements"
	PathEvents         = "/events"
	PathCatalog        = "/catalog"
	PathRegisterDevice = "/register-device"
)

// Client talks to the dashboard backend. It never retries and holds no
// shared state besides its http.Client.
type Client struct {
	cfg            *config.Config
	http           *http.Client
	logger         *zap.Logger
	requestTimeout time.Duration
	now            func() time.Time
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: time.Duration(cfg.ResourceTimeoutSec) * time.Second},
		logger:         logger,
		requestTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		now:            time.Now,
	}
}

// FetchResource GETs path and decodes a 200 body with decode. Non-200
// responses and transport failures are KindServer; decode failures are
// KindDecode unless decode already returned a *FetchError.
func FetchResource[T any](ctx context.Context, c *Client, path string, decode func([]byte) (T, error)) (T, error) {
	var zero T

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}

	out, err := decode(body)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			if fe.Resource == "" {
				fe.Resource = path
			}
			return zero, fe
		}
		return zero, &FetchError{Kind: KindDecode, Resource: path, Status: http.StatusOK, Err: err}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BackendURL(path), reqBody)
	if err != nil {
		return nil, &FetchError{Kind: KindServer, Resource: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("path", path), zap.Error(err))
		return nil, &FetchError{Kind: KindServer, Resource: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindServer, Resource: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: KindServer, Resource: path, Status: resp.StatusCode}
	}
	return body, nil
}

// FetchSales returns the producer's flash sales.
func (c *Client) FetchSales(ctx context.Context) ([]models.Sale, error) {
	now := c.now()
	return FetchResource(ctx, c, PathFlashSales, func(b []byte) ([]models.Sale, error) {
		var dtos []SaleDTO
		if err := json.Unmarshal(b, &dtos); err != nil {
			return nil, err
		}
		out := make([]models.Sale, 0, len(dtos))
		for _, d := range dtos {
			out = append(out, d.ToSale(now))
		}
		return out, nil
	})
}

func (c *Client) FetchMarkets(ctx context.Context) ([]models.PopUpMarket, error) {
	return FetchResource(ctx, c, PathPopUpMarkets, func(b []byte) ([]models.PopUpMarket, error) {
		var dtos []MarketDTO
		if err := json.Unmarshal(b, &dtos); err != nil {
			return nil, err
		}
		out := make([]models.PopUpMarket, 0, len(dtos))
		for _, d := range dtos {
			out = append(out, d.ToMarket())
		}
		return out, nil
	})
}

func (c *Client) FetchAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return FetchResource(ctx, c, PathAnnouncements, func(b []byte) ([]models.Announcement, error) {
		var dtos []AnnouncementDTO
		if err := json.Unmarshal(b, &dtos); err != nil {
			return nil, err
		}
		out := make([]models.Announcement, 0, len(dtos))
		for _, d := range dtos {
			out = append(out, d.ToAnnouncement())
		}
		return out, nil
	})
}

// FetchEvents drops events whose date cannot be parsed.
func (c *Client) FetchEvents(ctx context.Context) ([]models.Event, error) {
	return FetchResource(ctx, c, PathEvents, func(b []byte) ([]models.Event, error) {
		var dtos []EventDTO
		if err := json.Unmarshal(b, &dtos); err != nil {
			return nil, err
		}
		out := make([]models.Event, 0, len(dtos))
		for _, d := range dtos {
			e, ok := d.ToEvent()
			if !ok {
				c.logger.Warn("Skipping event with invalid date",
					zap.String("event_id", string(d.ID)),
					zap.String("date", d.Date),
				)
				continue
			}
			out = append(out, e)
		}
		return out, nil
	})
}

// FetchCatalogRows returns the dashboard's flat catalog rows. A body of the
// form {"error": "..."} means no commerce provider is configured yet.
func (c *Client) FetchCatalogRows(ctx context.Context) ([]CatalogRow, error) {
	return FetchResource(ctx, c, PathCatalog, DecodeCatalogRows)
}

// DecodeCatalogRows decodes the dashboard catalog body.
func DecodeCatalogRows(b []byte) ([]CatalogRow, error) {
	var errResp errorResponse
	if err := json.Unmarshal(b, &errResp); err == nil && errResp.Error != nil {
		return nil, &FetchError{Kind: KindNotConfigured, Resource: PathCatalog, Status: http.StatusOK, Err: errors.New(*errResp.Error)}
	}
	var resp catalogResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("catalog body has no items")
	}
	return resp.Items, nil
}

// RegisterDevice posts a device registration. Any non-200 is a KindServer error.
func (c *Client) RegisterDevice(ctx context.Context, reg RegistrationRequest) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, PathRegisterDevice, payload)
	return err
}
