package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-sync/internal/cache"
	"storefront-sync/internal/device"
	"storefront-sync/internal/inbox"
	"storefront-sync/internal/models"
	"storefront-sync/internal/preferences"
	"storefront-sync/internal/remote"
	"storefront-sync/internal/state"
	"storefront-sync/internal/store"
	"storefront-sync/internal/syncer"
	"storefront-sync/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRefresher is a mock implementation of Refresher
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context) syncer.SyncResult {
	args := m.Called(ctx)
	return args.Get(0).(syncer.SyncResult)
}

// MockTriggers is a mock implementation of TriggerSink
type MockTriggers struct {
	mock.Mock
}

func (m *MockTriggers) Trigger(t models.Trigger) bool {
	args := m.Called(t)
	return args.Bool(0)
}

// MockCatalog is a mock implementation of CatalogReader
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Items(ctx context.Context) ([]models.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogItem), args.Error(1)
}

// MockRegistrar is a mock implementation of DeviceRegistrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) SetPushToken(ctx context.Context, token string) (device.RetryResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(device.RetryResult), args.Error(1)
}

func (m *MockRegistrar) Status() device.Status {
	args := m.Called()
	return args.Get(0).(device.Status)
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router    *gin.Engine
	handler   *StorefrontHandler
	state     *state.State
	inbox     *inbox.Inbox
	prefs     *preferences.Service
	refresher *MockRefresher
	triggers  *MockTriggers
	catalog   *MockCatalog
	registrar *MockRegistrar
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	logger := zap.NewNop()
	kv := store.NewMemoryStore()

	env := &testEnv{
		state:     state.New(),
		inbox:     inbox.New(ctx, kv, logger),
		prefs:     preferences.New(ctx, kv, logger),
		refresher: new(MockRefresher),
		triggers:  new(MockTriggers),
		catalog:   new(MockCatalog),
		registrar: new(MockRegistrar),
	}
	env.handler = NewStorefrontHandler(Dependencies{
		State:       env.state,
		Refresher:   env.refresher,
		Triggers:    env.triggers,
		Catalog:     env.catalog,
		Inbox:       env.inbox,
		Preferences: env.prefs,
		Registrar:   env.registrar,
	}, logger)
	env.handler.now = func() time.Time { return testNow }

	requestIDs := middleware.NewCacheRequestIDStore(cache.NewInMemoryCache(logger))
	env.router = NewRouter(env.handler, requestIDs, logger)
	return env
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)
	env.registrar.On("Status").Return(device.Status{State: "weak"})

	w := env.do(http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "weak", resp.Device)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSales(t *testing.T) {
	env := setupTestRouter(t)
	env.state.SetSales([]models.Sale{
		{ID: "live", Title: "Ribeye", CutType: models.CutRibeye, OriginalPrice: 40, SalePrice: 30, WeightLbs: 2, IsActive: true, ExpiresAt: testNow.Add(90 * time.Minute)},
		{ID: "brisket", Title: "Brisket", CutType: models.CutBrisket, OriginalPrice: 50, SalePrice: 40, IsActive: true, ExpiresAt: testNow.Add(time.Hour)},
		{ID: "gone", Title: "Sirloin", CutType: models.CutSirloin, OriginalPrice: 20, SalePrice: 15, IsActive: true, ExpiresAt: testNow},
	})
	require.NoError(t, env.prefs.AddFavorite(context.Background(), "live"))

	t.Run("active", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/sales/active", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[SalesResponse](t, w)
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, "brisket", resp.Sales[0].ID)
		assert.Equal(t, "live", resp.Sales[1].ID)
		assert.Equal(t, 25, resp.Sales[1].DiscountPercent)
		assert.Equal(t, 15.0, resp.Sales[1].PricePerLb)
		assert.Equal(t, "1h 30m left", resp.Sales[1].TimeRemaining)
		assert.True(t, resp.Sales[1].IsFavorite)
	})

	t.Run("preferred cuts only", func(t *testing.T) {
		prefs := models.DefaultNotificationPreferences()
		prefs.PreferredCuts = []models.CutType{models.CutRibeye}
		require.NoError(t, env.prefs.Update(context.Background(), prefs))

		resp := decode[SalesResponse](t, env.do(http.MethodGet, "/api/v1/sales/active?preferred=true", ""))

		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "live", resp.Sales[0].ID)
	})

	t.Run("expired", func(t *testing.T) {
		resp := decode[SalesResponse](t, env.do(http.MethodGet, "/api/v1/sales/expired", ""))

		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "gone", resp.Sales[0].ID)
		assert.Equal(t, "Expired", resp.Sales[0].TimeRemaining)
	})
}

func TestEvents(t *testing.T) {
	env := setupTestRouter(t)
	env.state.SetEvents([]models.Event{
		{ID: "old", Date: testNow.AddDate(0, 0, -3)},
		{ID: "today", Date: time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)},
		{ID: "next", Date: testNow.AddDate(0, 0, 5)},
	})

	upcoming := decode[EventsResponse](t, env.do(http.MethodGet, "/api/v1/events", ""))
	assert.Equal(t, "upcoming", upcoming.When)
	require.Len(t, upcoming.Events, 2)
	assert.Equal(t, "today", upcoming.Events[0].ID)

	past := decode[EventsResponse](t, env.do(http.MethodGet, "/api/v1/events?when=past", ""))
	require.Len(t, past.Events, 1)
	assert.Equal(t, "old", past.Events[0].ID)

	w := env.do(http.MethodGet, "/api/v1/events?when=later", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog(t *testing.T) {
	qty := func(f float64) *float64 { return &f }
	price := func(c int64) *int64 { return &c }

	t.Run("items with stock flags", func(t *testing.T) {
		env := setupTestRouter(t)
		env.catalog.On("Items", mock.Anything).Return([]models.CatalogItem{
			{ID: "i1", Name: "Ribeye", Variations: []models.CatalogVariation{
				{ID: "v1", PriceCents: price(2500), Quantity: qty(0)},
			}},
			{ID: "i2", Name: "Brisket", Variations: []models.CatalogVariation{
				{ID: "v2", PriceCents: price(1800), Quantity: qty(3)},
				{ID: "v3", PriceCents: price(1500)},
			}},
		}, nil)

		w := env.do(http.MethodGet, "/api/v1/catalog", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[CatalogResponse](t, w)
		require.Len(t, resp.Items, 2)
		assert.True(t, resp.Items[0].IsSoldOut)
		assert.False(t, resp.Items[1].IsSoldOut)
		assert.True(t, resp.Items[1].IsLowStock)
		require.NotNil(t, resp.Items[1].LowestPriceCents)
		assert.Equal(t, int64(1500), *resp.Items[1].LowestPriceCents)
	})

	testCases := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{"not configured", &remote.FetchError{Kind: remote.KindNotConfigured, Resource: remote.PathCatalog}, http.StatusServiceUnavailable, "Menu is being set up. Check back soon!"},
		{"decode", &remote.FetchError{Kind: remote.KindDecode, Resource: remote.PathCatalog}, http.StatusBadGateway, "Unexpected response from server."},
		{"server", errors.New("dial tcp: refused"), http.StatusBadGateway, "Unable to reach the server. Please try again."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupTestRouter(t)
			env.catalog.On("Items", mock.Anything).Return(nil, tc.err)

			w := env.do(http.MethodGet, "/api/v1/catalog", "")

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.text)
		})
	}
}

func TestRefresh(t *testing.T) {
	env := setupTestRouter(t)
	env.refresher.On("Refresh", mock.Anything).Return(syncer.SyncResult{
		Updated:       []syncer.Resource{syncer.ResourceSales, syncer.ResourceEvents},
		Errors:        map[syncer.Resource]error{syncer.ResourceMarkets: remote.ErrServer},
		NewInboxItems: 2,
	}).Once()

	first := env.do(http.MethodPost, "/api/v1/refresh", "", middleware.RequestIDHeader, "refresh-1")
	replay := env.do(http.MethodPost, "/api/v1/refresh", "", middleware.RequestIDHeader, "refresh-1")

	assert.Equal(t, http.StatusOK, first.Code)
	resp := decode[RefreshResponse](t, first)
	assert.False(t, resp.Combined)
	assert.Equal(t, 2, resp.NewInboxItems)
	assert.Equal(t, remote.ErrServer.Error(), resp.Errors["markets"])
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	env.refresher.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestLifecycle(t *testing.T) {
	env := setupTestRouter(t)
	env.triggers.On("Trigger", models.TriggerForeground).Return(true).Once()

	w := env.do(http.MethodPost, "/api/v1/lifecycle/foreground", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	resp := decode[LifecycleResponse](t, w)
	assert.Equal(t, models.TriggerForeground, resp.Trigger)
	assert.True(t, resp.Queued)

	w = env.do(http.MethodPost, "/api/v1/lifecycle/poll", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.triggers.AssertExpectations(t)
}

func TestLifecycle_ReplayAnswersAccepted(t *testing.T) {
	env := setupTestRouter(t)
	env.triggers.On("Trigger", models.TriggerForeground).Return(true).Once()

	first := env.do(http.MethodPost, "/api/v1/lifecycle/foreground", "", middleware.RequestIDHeader, "fg-1")
	replay := env.do(http.MethodPost, "/api/v1/lifecycle/foreground", "", middleware.RequestIDHeader, "fg-1")

	assert.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, http.StatusAccepted, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	env.triggers.AssertNumberOfCalls(t, "Trigger", 1)
}

func TestSwaggerDoc(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/health", "/sales/active", "/lifecycle/{trigger}", "/inbox/{id}/read", "/device/push-token", "/favorites/{id}"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestInboxFlow(t *testing.T) {
	env := setupTestRouter(t)
	ctx := context.Background()
	older := env.inbox.AddItem(ctx, "Open Saturday", "Come by")
	newer := env.inbox.AddItem(ctx, "Flash Sale: Ribeye", "25% off")

	list := decode[InboxResponse](t, env.do(http.MethodGet, "/api/v1/inbox", ""))
	require.Len(t, list.Items, 2)
	assert.Equal(t, newer.ID, list.Items[0].ID)
	assert.Equal(t, 2, list.UnreadCount)

	w := env.do(http.MethodPost, "/api/v1/inbox/"+newer.ID+"/dismiss", "")
	assert.Equal(t, http.StatusOK, w.Code)

	home := decode[HomeNotificationsResponse](t, env.do(http.MethodGet, "/api/v1/inbox/home", ""))
	require.Len(t, home.Items, 1)
	assert.Equal(t, older.ID, home.Items[0].ID)
	assert.Equal(t, 2, env.inbox.UnreadCount())

	w = env.do(http.MethodPost, "/api/v1/inbox/"+older.ID+"/read", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.inbox.UnreadCount())

	w = env.do(http.MethodPost, "/api/v1/inbox/missing/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	all := decode[MarkAllReadResponse](t, env.do(http.MethodPost, "/api/v1/inbox/read-all", ""))
	assert.Equal(t, 1, all.Marked)
	assert.Equal(t, 0, all.UnreadCount)

	w = env.do(http.MethodDelete, "/api/v1/inbox/"+older.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(http.MethodDelete, "/api/v1/inbox/"+older.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, "/api/v1/inbox", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, env.inbox.Items())
}

func TestSetPushToken(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodPost, "/api/v1/device/push-token", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.registrar.AssertNotCalled(t, "SetPushToken", mock.Anything, mock.Anything)
	})

	t.Run("blank token", func(t *testing.T) {
		env := setupTestRouter(t)
		env.registrar.On("SetPushToken", mock.Anything, "   ").Return(device.RetryResult{}, device.ErrEmptyToken)

		w := env.do(http.MethodPost, "/api/v1/device/push-token", `{"token": "   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("registration gives up", func(t *testing.T) {
		env := setupTestRouter(t)
		env.registrar.On("SetPushToken", mock.Anything, "abc123").Return(device.RetryResult{
			Identity:  device.StrongIdentity,
			Attempts:  device.MaxAttempts,
			LastError: remote.ErrServer,
		}, nil)
		env.registrar.On("Status").Return(device.Status{State: "strong", HasPushToken: true})

		w := env.do(http.MethodPost, "/api/v1/device/push-token", `{"token": "abc123"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[RegistrationResponse](t, w)
		assert.Equal(t, "strong", resp.Identity)
		assert.False(t, resp.Success)
		assert.Equal(t, 3, resp.Attempts)
		assert.Equal(t, remote.ErrServer.Error(), resp.Error)
		assert.True(t, resp.Device.HasPushToken)
	})
}

func TestPreferences(t *testing.T) {
	env := setupTestRouter(t)

	defaults := decode[models.NotificationPreferences](t, env.do(http.MethodGet, "/api/v1/preferences", ""))
	assert.Equal(t, models.DefaultNotificationPreferences(), defaults)

	w := env.do(http.MethodPut, "/api/v1/preferences", `{"flashSalesEnabled": true, "preferredCuts": ["Wagyu"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ValidationError")

	w = env.do(http.MethodPut, "/api/v1/preferences", `{"flashSalesEnabled": false, "preferredCuts": ["Brisket"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.prefs.SaleAlertsEnabled())
	assert.Equal(t, []models.CutType{models.CutBrisket}, env.prefs.Get().PreferredCuts)
}

func TestFavorites(t *testing.T) {
	env := setupTestRouter(t)

	env.do(http.MethodPut, "/api/v1/favorites/s2", "")
	resp := decode[FavoritesResponse](t, env.do(http.MethodPut, "/api/v1/favorites/s1", ""))
	assert.Equal(t, []string{"s1", "s2"}, resp.Favorites)

	resp = decode[FavoritesResponse](t, env.do(http.MethodDelete, "/api/v1/favorites/s2", ""))
	assert.Equal(t, []string{"s1"}, resp.Favorites)

	resp = decode[FavoritesResponse](t, env.do(http.MethodGet, "/api/v1/favorites", ""))
	assert.Equal(t, []string{"s1"}, resp.Favorites)
}
