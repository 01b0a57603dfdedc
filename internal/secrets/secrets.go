package secrets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-sync/internal/store"
)

// KeyDeviceID holds the weak device identity.
const KeyDeviceID = "device_id"

var ErrNotFound = errors.New("secret not found")

// SecretStore is durable storage for small secrets such as the device id.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KVSecretStore keeps secrets in the key-value store under a reserved prefix.
type KVSecretStore struct {
	kv     store.KeyValueStore
	prefix string
}

func NewKVSecretStore(kv store.KeyValueStore) *KVSecretStore {
	return &KVSecretStore{kv: kv, prefix: "secret:"}
}

func (s *KVSecretStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, s.prefix+key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read secret %s: %w", key, err)
	}
	return string(v), nil
}

func (s *KVSecretStore) Set(ctx context.Context, key, value string) error {
	if err := s.kv.Put(ctx, s.prefix+key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write secret %s: %w", key, err)
	}
	return nil
}

func (s *KVSecretStore) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.prefix+key)
}

// MemorySecretStore is an in-process SecretStore for tests.
type MemorySecretStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{data: make(map[string]string)}
}

func (m *MemorySecretStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemorySecretStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MemorySecretStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
