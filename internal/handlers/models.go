package handlers

import (
	"time"

	"storefront-sync/internal/device"
	"storefront-sync/internal/models"
	"storefront-sync/internal/syncer"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	IsLoading bool      `json:"isLoading"`
	UpdatedAt time.Time `json:"updatedAt"`
	Device    string    `json:"device"`
}

// SaleResponse is a sale with its derived display values
type SaleResponse struct {
	models.Sale
	DiscountPercent int     `json:"discountPercent"`
	PricePerLb      float64 `json:"pricePerLb"`
	TimeRemaining   string  `json:"timeRemaining"`
	IsFavorite      bool    `json:"isFavorite"`
}

type SalesResponse struct {
	Sales     []SaleResponse `json:"sales"`
	Total     int            `json:"total"`
	IsLoading bool           `json:"isLoading"`
}

type MarketsResponse struct {
	Markets []models.PopUpMarket `json:"markets"`
	Total   int                  `json:"total"`
}

type EventsResponse struct {
	Events []models.Event `json:"events"`
	Total  int            `json:"total"`
	When   string         `json:"when"`
}

type AnnouncementsResponse struct {
	Announcements []models.Announcement `json:"announcements"`
	Total         int                   `json:"total"`
}

// CatalogItemResponse is a catalog item with its stock flags
type CatalogItemResponse struct {
	models.CatalogItem
	IsSoldOut        bool   `json:"isSoldOut"`
	IsLowStock       bool   `json:"isLowStock"`
	LowestPriceCents *int64 `json:"lowestPriceCents,omitempty"`
}

type CatalogResponse struct {
	Items []CatalogItemResponse `json:"items"`
	Total int                   `json:"total"`
}

// RefreshResponse summarizes one sync cycle
type RefreshResponse struct {
	Combined      bool              `json:"combined"`
	Updated       []syncer.Resource `json:"updated"`
	Errors        map[string]string `json:"errors,omitempty"`
	NewInboxItems int               `json:"newInboxItems"`
}

type LifecycleResponse struct {
	Trigger models.Trigger `json:"trigger"`
	Queued  bool           `json:"queued"`
}

type InboxResponse struct {
	Items       []models.InboxItem `json:"items"`
	UnreadCount int                `json:"unreadCount"`
}

type HomeNotificationsResponse struct {
	Items []models.InboxItem `json:"items"`
}

type MarkAllReadResponse struct {
	Marked      int `json:"marked"`
	UnreadCount int `json:"unreadCount"`
}

// PushTokenRequest carries the push credential issued to the device
type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegistrationResponse reports a registration attempt
type RegistrationResponse struct {
	Identity string        `json:"identity"`
	Success  bool          `json:"success"`
	Skipped  bool          `json:"skipped"`
	Attempts int           `json:"attempts"`
	Error    string        `json:"error,omitempty"`
	Device   device.Status `json:"device"`
}

type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

func toSaleResponses(sales []models.Sale, now time.Time, isFavorite func(string) bool) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = SaleResponse{
			Sale:            s,
			DiscountPercent: s.DiscountPercent(),
			PricePerLb:      s.PricePerLb(),
			TimeRemaining:   s.TimeRemaining(now),
			IsFavorite:      isFavorite(s.ID),
		}
	}
	return out
}

func toCatalogResponses(items []models.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, len(items))
	for i, item := range items {
		resp := CatalogItemResponse{
			CatalogItem: item,
			IsSoldOut:   item.IsSoldOut(),
			IsLowStock:  item.IsLowStock(),
		}
		if price, ok := item.LowestPrice(); ok {
			resp.LowestPriceCents = &price
		}
		out[i] = resp
	}
	return out
}

func toRefreshResponse(result syncer.SyncResult) RefreshResponse {
	resp := RefreshResponse{
		Combined:      result.Combined,
		Updated:       result.Updated,
		NewInboxItems: result.NewInboxItems,
	}
	if resp.Updated == nil {
		resp.Updated = []syncer.Resource{}
	}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for r, err := range result.Errors {
			resp.Errors[string(r)] = err.Error()
		}
	}
	return resp
}
