package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront-sync/internal/models"
)

// ID accepts either a JSON string or a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ParseTime accepts RFC 3339 timestamps with or without fractional seconds.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type SaleDTO struct {
	ID              ID      `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	CutType         string  `json:"cut_type"`
	OriginalPrice   float64 `json:"original_price"`
	SalePrice       float64 `json:"sale_price"`
	WeightLbs       float64 `json:"weight_lbs"`
	StartsAt        *string `json:"starts_at"`
	ExpiresAt       *string `json:"expires_at"`
	ImageSystemName string  `json:"image_system_name"`
	IsActive        bool    `json:"is_active"`
}

// ToSale maps the payload into the domain. A missing start is treated as now
// and a missing expiry as 24 hours from now.
func (d SaleDTO) ToSale(now time.Time) models.Sale {
	startsAt, ok := parseOptional(d.StartsAt)
	if !ok {
		startsAt = now
	}
	expiresAt, ok := parseOptional(d.ExpiresAt)
	if !ok {
		expiresAt = now.Add(24 * time.Hour)
	}
	description := ""
	if d.Description != nil {
		description = *d.Description
	}
	return models.Sale{
		ID:              string(d.ID),
		Title:           d.Title,
		Description:     description,
		CutType:         models.ParseCutType(d.CutType),
		OriginalPrice:   d.OriginalPrice,
		SalePrice:       d.SalePrice,
		WeightLbs:       d.WeightLbs,
		StartsAt:        startsAt,
		ExpiresAt:       expiresAt,
		ImageSystemName: d.ImageSystemName,
		IsActive:        d.IsActive,
	}
}

type MarketDTO struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StartsAt    *string `json:"starts_at"`
	EndsAt      *string `json:"ends_at"`
	IsActive    bool    `json:"is_active"`
}

func (d MarketDTO) ToMarket() models.PopUpMarket {
	return models.PopUpMarket{
		ID:          string(d.ID),
		Title:       d.Title,
		Description: deref(d.Description),
		Address:     deref(d.Address),
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		StartsAt:    deref(d.StartsAt),
		EndsAt:      deref(d.EndsAt),
		IsActive:    d.IsActive,
	}
}

type AnnouncementDTO struct {
	ID        ID      `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	CreatedAt *string `json:"created_at"`
	IsActive  bool    `json:"is_active"`
}

// ToAnnouncement keeps created_at as raw server text so dedup keys stay stable.
func (d AnnouncementDTO) ToAnnouncement() models.Announcement {
	return models.Announcement{
		ID:        string(d.ID),
		Title:     d.Title,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
		IsActive:  d.IsActive,
	}
}

type EventDTO struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	EndDate     *string  `json:"end_date"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// ToEvent fails when the event date cannot be parsed.
func (d EventDTO) ToEvent() (models.Event, bool) {
	date, ok := ParseTime(d.Date)
	if !ok {
		return models.Event{}, false
	}
	e := models.Event{
		ID:          string(d.ID),
		Title:       d.Title,
		Date:        date,
		Location:    d.Location,
		Description: d.Description,
		Icon:        d.Icon,
	}
	if end, ok := parseOptional(d.EndDate); ok {
		e.EndDate = &end
	}
	if d.Latitude != nil {
		e.Latitude = *d.Latitude
	}
	if d.Longitude != nil {
		e.Longitude = *d.Longitude
	}
	return e, true
}

// CatalogRow is one flat item/variation row from the dashboard catalog.
type CatalogRow struct {
	ID            ID      `json:"id"`
	VariationID   ID      `json:"variationId"`
	Name          string  `json:"name"`
	VariationName string  `json:"variationName"`
	Description   *string `json:"description"`
	Price         float64 `json:"price"`
	PriceCurrency *string `json:"priceCurrency"`
	Category      *string `json:"category"`
	IsAvailable   *bool   `json:"isAvailable"`
}

type catalogResponse struct {
	Items []CatalogRow `json:"items"`
	Count *int         `json:"count"`
}

type errorResponse struct {
	Error *string `json:"error"`
}

// RegistrationRequest is the body of POST /register-device.
type RegistrationRequest struct {
	Token           string `json:"token"`
	Platform        string `json:"platform"`
	DeviceID        string `json:"device_id"`
	DeviceName      string `json:"device_name"`
	APNsEnvironment string `json:"apns_environment,omitempty"`
}

func parseOptional(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	return ParseTime(*raw)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
