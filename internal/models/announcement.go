package models

import (
	"sort"
	"time"
)

// Announcement is a producer message pushed to every customer.
type Announcement struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	CreatedAt *string `json:"createdAt,omitempty"`
	IsActive  bool    `json:"isActive"`
}

// DedupKey identifies an announcement revision. A recreated announcement with a
// new creation timestamp yields a different key even when the id is reused.
func (a Announcement) DedupKey() string {
	createdAt := ""
	if a.CreatedAt != nil {
		createdAt = *a.CreatedAt
	}
	return "announcement-" + a.ID + "-" + createdAt
}

// PopUpMarket is a temporary market location where the producer sells in person.
type PopUpMarket struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StartsAt    string  `json:"startsAt,omitempty"`
	EndsAt      string  `json:"endsAt,omitempty"`
	IsActive    bool    `json:"isActive"`
}

// Event is a dated appearance (fair, tasting, market day).
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        time.Time  `json:"date"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Latitude    float64    `json:"latitude,omitempty"`
	Longitude   float64    `json:"longitude,omitempty"`
}

// UpcomingEvents returns events dated today or later, earliest first.
func UpcomingEvents(events []Event, now time.Time) []Event {
	start := startOfDay(now)
	out := make([]Event, 0)
	for _, e := range events {
		if !e.Date.Before(start) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PastEvents returns events dated before today, most recent first.
func PastEvents(events []Event, now time.Time) []Event {
	start := startOfDay(now)
	out := make([]Event, 0)
	for _, e := range events {
		if e.Date.Before(start) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
