package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CutType is the product cut a flash sale is for.
type CutType string

const (
	CutRibeye      CutType = "Ribeye"
	CutNYStrip     CutType = "NY Strip"
	CutFiletMignon CutType = "Filet Mignon"
	CutSirloin     CutType = "Sirloin"
	CutGroundBeef  CutType = "Ground Beef"
	CutBrisket     CutType = "Brisket"
	CutRoast       CutType = "Chuck Roast"
	CutTBone       CutType = "T-Bone"
	CutBundle      CutType = "Bundle"
	CutCustom      CutType = "Custom Box"
)

// AllCutTypes lists the fixed catalog of cuts in display order.
var AllCutTypes = []CutType{
	CutRibeye, CutNYStrip, CutFiletMignon, CutSirloin, CutGroundBeef,
	CutBrisket, CutRoast, CutTBone, CutBundle, CutCustom,
}

// ParseCutType maps a raw server value onto the fixed set, falling back to CutCustom.
func ParseCutType(raw string) CutType {
	for _, c := range AllCutTypes {
		if string(c) == raw {
			return c
		}
	}
	return CutCustom
}

// Sale is a time-boxed flash sale published by the producer.
type Sale struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CutType         CutType   `json:"cutType"`
	OriginalPrice   float64   `json:"originalPrice"`
	SalePrice       float64   `json:"salePrice"`
	WeightLbs       float64   `json:"weightLbs"`
	StartsAt        time.Time `json:"startsAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
	ImageSystemName string    `json:"imageSystemName"`
	IsActive        bool      `json:"isActive"`
}

// DiscountPercent is the rounded percentage saved off the original price.
func (s Sale) DiscountPercent() int {
	if s.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((s.OriginalPrice - s.SalePrice) / s.OriginalPrice * 100))
}

// IsExpired reports whether now is at or past the expiry.
func (s Sale) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsActiveNow combines the producer's intent flag with the time window.
func (s Sale) IsActiveNow(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}

// PricePerLb returns the sale price per pound, or 0 when the weight is unknown.
func (s Sale) PricePerLb() float64 {
	if s.WeightLbs <= 0 {
		return 0
	}
	return s.SalePrice / s.WeightLbs
}

// TimeRemaining renders the countdown label shown on sale cards.
func (s Sale) TimeRemaining(now time.Time) string {
	if s.IsExpired(now) {
		return "Expired"
	}
	remaining := s.ExpiresAt.Sub(now)
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	}
	return fmt.Sprintf("%dm left", minutes)
}

// ActiveSales returns sales that are active now, soonest-expiring first.
// The sort is stable so ties keep server order.
func ActiveSales(sales []Sale, now time.Time) []Sale {
	active := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if s.IsActiveNow(now) {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].ExpiresAt.Before(active[j].ExpiresAt)
	})
	return active
}

// ExpiredSales returns sales that are expired or switched off by the producer.
func ExpiredSales(sales []Sale, now time.Time) []Sale {
	expired := make([]Sale, 0)
	for _, s := range sales {
		if s.IsExpired(now) || !s.IsActive {
			expired = append(expired, s)
		}
	}
	return expired
}
