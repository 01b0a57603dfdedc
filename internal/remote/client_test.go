package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-sync/internal/config"
	"storefront-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:         srv.URL,
		APIPathPrefix:      "/api/public",
		RequestTimeoutSec:  5,
		ResourceTimeoutSec: 10,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestFetchSales_MapsSnakeCase(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/flash-sales", r.URL.Path)
		w.Write([]byte(`[
			{"id": 12, "title": "Ribeye Blowout", "cut_type": "Ribeye", "original_price": 54.99,
			 "sale_price": 38.99, "weight_lbs": 2.5, "starts_at": "2026-04-01T08:00:00.250Z",
			 "expires_at": "2026-04-01T20:00:00Z", "image_system_name": "flame", "is_active": true},
			{"id": "abc", "title": "Mystery", "cut_type": "Wagyu", "original_price": 10,
			 "sale_price": 8, "weight_lbs": 1, "image_system_name": "star", "is_active": false}
		]`))
	})
	client.now = func() time.Time { return now }

	sales, err := client.FetchSales(context.Background())

	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "12", sales[0].ID)
	assert.Equal(t, models.CutRibeye, sales[0].CutType)
	assert.Equal(t, 38.99, sales[0].SalePrice)
	assert.Equal(t, time.Date(2026, 4, 1, 8, 0, 0, 250000000, time.UTC), sales[0].StartsAt.UTC())
	assert.Equal(t, time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC), sales[0].ExpiresAt.UTC())

	assert.Equal(t, models.CutCustom, sales[1].CutType)
	assert.Equal(t, now, sales[1].StartsAt)
	assert.Equal(t, now.Add(24*time.Hour), sales[1].ExpiresAt)
	assert.Equal(t, "", sales[1].Description)
}

func TestFetchResource_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchMarkets(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "Unable to reach the server. Please try again.", fe.UserMessage())
}

func TestFetchResource_Non200SuccessIsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.FetchEvents(context.Background())

	assert.ErrorIs(t, err, ErrServer)
}

func TestFetchResource_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := client.FetchAnnouncements(context.Background())

	assert.ErrorIs(t, err, ErrDecode)
	assert.False(t, errors.Is(err, ErrServer))
}

func TestFetchResource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(&config.Config{APIBaseURL: srv.URL, RequestTimeoutSec: 1, ResourceTimeoutSec: 1}, zap.NewNop())

	_, err := client.FetchSales(context.Background())

	assert.ErrorIs(t, err, ErrServer)
}

func TestFetchResource_Generic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"pong"`))
	})

	out, err := FetchResource(context.Background(), client, "/ping", func(b []byte) (string, error) {
		var s string
		return s, json.Unmarshal(b, &s)
	})

	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestFetchAnnouncements_KeepsRawCreatedAt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 3, "title": "Open Saturday", "message": "Come by", "created_at": "2026-02-01 10:00:00", "is_active": true}]`))
	})

	anns, err := client.FetchAnnouncements(context.Background())

	require.NoError(t, err)
	require.Len(t, anns, 1)
	require.NotNil(t, anns[0].CreatedAt)
	assert.Equal(t, "2026-02-01 10:00:00", *anns[0].CreatedAt)
	assert.Equal(t, "announcement-3-2026-02-01 10:00:00", anns[0].DedupKey())
}

func TestFetchEvents_SkipsInvalidDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "e1", "title": "County Fair", "date": "2026-07-04T10:00:00Z", "end_date": "2026-07-05", "location": "Fairgrounds"},
			{"id": "e2", "title": "Broken", "date": "someday"}
		]`))
	})

	events, err := client.FetchEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
	require.NotNil(t, events[0].EndDate)
	assert.Equal(t, 5, events[0].EndDate.Day())
}

func TestFetchCatalogRows(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items": [{"id": "i1", "variationId": "v1", "name": "Ribeye", "variationName": "1 lb", "price": 18.5}], "count": 1}`))
		})

		rows, err := client.FetchCatalogRows(context.Background())

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, ID("v1"), rows[0].VariationID)
	})

	t.Run("not configured", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "Square not configured"}`))
		})

		_, err := client.FetchCatalogRows(context.Background())

		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.Equal(t, KindNotConfigured, KindOf(err))
	})
}

func TestRegisterDevice(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/public/register-device", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	})

	err := client.RegisterDevice(context.Background(), RegistrationRequest{
		Token:           "apns-token",
		Platform:        "ios",
		DeviceID:        "dev-1",
		DeviceName:      "kitchen-ipad",
		APNsEnvironment: "production",
	})

	require.NoError(t, err)
	assert.Equal(t, "apns-token", got["token"])
	assert.Equal(t, "production", got["apns_environment"])
	assert.Equal(t, "dev-1", got["device_id"])
}

func TestRegisterDevice_OmitsEmptyEnvironment(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
	})

	require.NoError(t, client.RegisterDevice(context.Background(), RegistrationRequest{Token: "dev-1", DeviceID: "dev-1"}))

	_, present := got["apns_environment"]
	assert.False(t, present)
}

func TestRegisterDevice_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.RegisterDevice(context.Background(), RegistrationRequest{Token: "t"})

	assert.ErrorIs(t, err, ErrServer)
}

func TestParseTime(t *testing.T) {
	_, ok := ParseTime("2026-01-02T03:04:05Z")
	assert.True(t, ok)
	_, ok = ParseTime("2026-01-02T03:04:05.123456Z")
	assert.True(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
	_, ok = ParseTime("tomorrow")
	assert.False(t, ok)
}
