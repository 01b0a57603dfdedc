package models

import "time"

// InboxItem is a notification kept in the local inbox.
type InboxItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"receivedAt"`
	IsRead     bool      `json:"isRead"`
}

// NotificationPreferences is the customer's alert configuration.
type NotificationPreferences struct {
	FlashSalesEnabled  bool      `json:"flashSalesEnabled"`
	PriceDropsEnabled  bool      `json:"priceDropsEnabled"`
	NewArrivalsEnabled bool      `json:"newArrivalsEnabled"`
	WeeklyDealsEnabled bool      `json:"weeklyDealsEnabled"`
	PreferredCuts      []CutType `json:"preferredCuts"`
}

// DefaultNotificationPreferences mirrors a fresh install.
func DefaultNotificationPreferences() NotificationPreferences {
	cuts := make([]CutType, len(AllCutTypes))
	copy(cuts, AllCutTypes)
	return NotificationPreferences{
		FlashSalesEnabled:  true,
		PriceDropsEnabled:  true,
		NewArrivalsEnabled: false,
		WeeklyDealsEnabled: true,
		PreferredCuts:      cuts,
	}
}

// WantsCut reports whether sale alerts for the cut are enabled.
func (p NotificationPreferences) WantsCut(cut CutType) bool {
	for _, c := range p.PreferredCuts {
		if c == cut {
			return true
		}
	}
	return false
}
