package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Persisted keys
const (
	KeyNotificationPreferences = "notification_preferences"
	KeyInboxItems              = "inbox_items"
	KeyDismissedHomeIDs        = "dismissed_home_ids"
	KeySeenAnnouncementKeys    = "seen_announcement_keys"
	KeySeenSaleKeys            = "seen_sale_keys"
	KeyFavoriteSaleIDs         = "favorite_sale_ids"
)

var ErrNotFound = errors.New("key not found")

// KeyValueStore is local durable storage for small JSON documents.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes every entry atomically.
	PutMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a KeyValueStore that lives for the process only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	return m.PutMany(ctx, map[string][]byte{key: value})
}

func (m *MemoryStore) PutMany(ctx context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range entries {
		cp := make([]byte, len(v))
		copy(cp, v)
		m.data[k] = cp
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// GetJSON decodes the value under key into dest. A missing key returns
// ErrNotFound and leaves dest untouched.
func GetJSON(ctx context.Context, s KeyValueStore, key string, dest interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes value and stores it under key.
func PutJSON(ctx context.Context, s KeyValueStore, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

// Batch collects JSON values to be written together.
type Batch map[string][]byte

// Add encodes value into the batch.
func (b Batch) Add(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	b[key] = data
	return nil
}

// LoadSet reads a persisted string set. Missing keys yield an empty set.
func LoadSet(ctx context.Context, s KeyValueStore, key string) (map[string]struct{}, error) {
	var members []string
	if err := GetJSON(ctx, s, key, &members); err != nil && !errors.Is(err, ErrNotFound) {
		return make(map[string]struct{}), err
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set, nil
}

// SetMembers returns the members sorted, ready to persist as a JSON array.
func SetMembers(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
