package state

import (
	"sync"
	"time"

	"storefront-sync/internal/models"
)

// State holds the latest remote data. Every read returns a copy.
type State struct {
	mu            sync.RWMutex
	sales         []models.Sale
	markets       []models.PopUpMarket
	announcements []models.Announcement
	events        []models.Event
	loading       int
	updatedAt     time.Time
}

// Snapshot is a consistent copy of the whole state.
type Snapshot struct {
	Sales         []models.Sale         `json:"sales"`
	Markets       []models.PopUpMarket  `json:"markets"`
	Announcements []models.Announcement `json:"announcements"`
	Events        []models.Event        `json:"events"`
	IsLoading     bool                  `json:"isLoading"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func New() *State {
	return &State{
		sales:         []models.Sale{},
		markets:       []models.PopUpMarket{},
		announcements: []models.Announcement{},
		events:        []models.Event{},
	}
}

// BeginRefresh raises the loading flag only when there are no sales to show.
// It reports whether the refresh counts toward the flag; pass the result to
// EndRefresh.
func (s *State) BeginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sales) != 0 {
		return false
	}
	s.loading++
	return true
}

// EndRefresh releases a refresh started by BeginRefresh. The loading flag
// clears once no counted refresh is in flight.
func (s *State) EndRefresh(counted bool) {
	if !counted {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading > 0 {
		s.loading--
	}
}

func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading > 0
}

// ReplaceAll swaps all four lists in one step.
func (s *State) ReplaceAll(sales []models.Sale, markets []models.PopUpMarket, announcements []models.Announcement, events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = clone(sales)
	s.markets = clone(markets)
	s.announcements = clone(announcements)
	s.events = clone(events)
	s.updatedAt = time.Now()
}

func (s *State) SetSales(sales []models.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = clone(sales)
	s.updatedAt = time.Now()
}

func (s *State) SetMarkets(markets []models.PopUpMarket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markets = clone(markets)
	s.updatedAt = time.Now()
}

func (s *State) SetAnnouncements(announcements []models.Announcement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.announcements = clone(announcements)
	s.updatedAt = time.Now()
}

func (s *State) SetEvents(events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = clone(events)
	s.updatedAt = time.Now()
}

func (s *State) Sales() []models.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.sales)
}

func (s *State) Markets() []models.PopUpMarket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.markets)
}

func (s *State) Announcements() []models.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.announcements)
}

func (s *State) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.events)
}

// ActiveSales are active and unexpired, soonest-expiring first.
func (s *State) ActiveSales(now time.Time) []models.Sale {
	return models.ActiveSales(s.Sales(), now)
}

// ExpiredSales are expired or switched off.
func (s *State) ExpiredSales(now time.Time) []models.Sale {
	return models.ExpiredSales(s.Sales(), now)
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Sales:         clone(s.sales),
		Markets:       clone(s.markets),
		Announcements: clone(s.announcements),
		Events:        clone(s.events),
		IsLoading:     s.loading > 0,
		UpdatedAt:     s.updatedAt,
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
