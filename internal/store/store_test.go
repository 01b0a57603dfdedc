package store

import (
	"context"
	"path/filepath"
	"testing"

	"storefront-sync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "state.db")}
	s, err := NewSQLiteStore(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) KeyValueStore{
		"memory": func(t *testing.T) KeyValueStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) KeyValueStore { return newSQLite(t) },
	}

	for name, factory := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			_, err := s.Get(ctx, KeyInboxItems)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, KeyInboxItems, []byte(`[]`)))
			require.NoError(t, s.Put(ctx, KeyInboxItems, []byte(`[{"id":"1"}]`)))
			val, err := s.Get(ctx, KeyInboxItems)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, string(val))

			require.NoError(t, s.PutMany(ctx, map[string][]byte{
				KeySeenSaleKeys:     []byte(`["sale-1"]`),
				KeyDismissedHomeIDs: []byte(`["a"]`),
			}))
			val, err = s.Get(ctx, KeySeenSaleKeys)
			require.NoError(t, err)
			assert.JSONEq(t, `["sale-1"]`, string(val))

			require.NoError(t, s.Delete(ctx, KeySeenSaleKeys))
			_, err = s.Get(ctx, KeySeenSaleKeys)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "state.db")}

	s, err := NewSQLiteStore(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, PutJSON(ctx, s, KeyFavoriteSaleIDs, []string{"s1", "s2"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	set, err := LoadSet(ctx, reopened, KeyFavoriteSaleIDs)
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "s1")
}

func TestLoadSet_MissingKeyIsEmpty(t *testing.T) {
	set, err := LoadSet(context.Background(), NewMemoryStore(), KeySeenAnnouncementKeys)

	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestSetMembers_Sorted(t *testing.T) {
	set := map[string]struct{}{"b": {}, "a": {}, "c": {}}

	assert.Equal(t, []string{"a", "b", "c"}, SetMembers(set))
}

func TestBatch_WritesTogether(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	b := Batch{}

	require.NoError(t, b.Add(KeyInboxItems, []string{"x"}))
	require.NoError(t, b.Add(KeySeenAnnouncementKeys, []string{"announcement-1-"}))
	require.NoError(t, s.PutMany(ctx, b))

	var keys []string
	require.NoError(t, GetJSON(ctx, s, KeySeenAnnouncementKeys, &keys))
	assert.Equal(t, []string{"announcement-1-"}, keys)
}

func TestNew_EmptyPathUsesMemory(t *testing.T) {
	s, closeFn, err := New(&config.Config{}, zap.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, closeFn())
}
