package device

import (
	"context"
	"testing"
	"time"

	"storefront-sync/internal/models"
	"storefront-sync/internal/remote"
	"storefront-sync/internal/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRegisterer is a mock implementation of Registerer
type MockRegisterer struct {
	mock.Mock
}

func (m *MockRegisterer) RegisterDevice(ctx context.Context, reg remote.RegistrationRequest) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

var errBackendDown = &remote.FetchError{Kind: remote.KindServer, Status: 503}

func setupRegistrar(t *testing.T) (*Registrar, *MockRegisterer, *[]time.Duration) {
	t.Helper()
	client := new(MockRegisterer)
	r := NewRegistrar(client, secrets.NewMemorySecretStore(), "ios", "test-device", zap.NewNop())
	var sleeps []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return r, client, &sleeps
}

func TestEnsureIdentity_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := secrets.NewMemorySecretStore()

	first := NewRegistrar(new(MockRegisterer), store, "ios", "d", zap.NewNop())
	id, err := first.EnsureIdentity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	second := NewRegistrar(new(MockRegisterer), store, "ios", "d", zap.NewNop())
	again, err := second.EnsureIdentity(ctx)
	require.NoError(t, err)

	assert.Equal(t, id, again)
	assert.Equal(t, WeakIdentity, second.Current().Kind)
}

func TestRegister_FailTwiceThenSucceed(t *testing.T) {
	r, client, sleeps := setupRegistrar(t)
	_, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)

	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(errBackendDown).Twice()
	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(nil).Once()

	result := r.Register(context.Background(), r.Current())

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.NoError(t, result.LastError)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *sleeps)
	client.AssertNumberOfCalls(t, "RegisterDevice", 3)
}

func TestRegister_GivesUpAfterThree(t *testing.T) {
	r, client, sleeps := setupRegistrar(t)
	_, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)
	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(errBackendDown)

	result := r.Register(context.Background(), r.Current())

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.ErrorIs(t, result.LastError, remote.ErrServer)
	assert.Len(t, *sleeps, 2)
	assert.False(t, r.Status().LastResult.Success)
}

func TestRegister_StopsOnCancel(t *testing.T) {
	r, client, _ := setupRegistrar(t)
	_, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)
	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(errBackendDown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := r.Register(ctx, r.Current())

	assert.Equal(t, 1, result.Attempts)
	assert.ErrorIs(t, result.LastError, context.Canceled)
}

func TestWeakRegistration_OmitsEnvironment(t *testing.T) {
	r, client, _ := setupRegistrar(t)
	id, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)

	client.On("RegisterDevice", mock.Anything, mock.MatchedBy(func(req remote.RegistrationRequest) bool {
		return req.Token == id && req.DeviceID == id && req.APNsEnvironment == "" && req.Platform == "ios"
	})).Return(nil).Once()

	result := r.Reassert(context.Background(), models.TriggerLaunch)

	assert.True(t, result.Success)
	client.AssertExpectations(t)
}

func TestSetPushToken_RegistersStrongWithProduction(t *testing.T) {
	r, client, _ := setupRegistrar(t)

	client.On("RegisterDevice", mock.Anything, mock.MatchedBy(func(req remote.RegistrationRequest) bool {
		return req.Token == "apns-abc" && req.APNsEnvironment == "production" && req.DeviceID != ""
	})).Return(nil).Once()

	result, err := r.SetPushToken(context.Background(), "apns-abc")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StrongIdentity, result.Identity)
	assert.Equal(t, "strong", r.Status().State)
	client.AssertExpectations(t)
}

func TestSetPushToken_Empty(t *testing.T) {
	r, _, _ := setupRegistrar(t)

	_, err := r.SetPushToken(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestNoWeakRegistrationAfterStrong(t *testing.T) {
	r, client, _ := setupRegistrar(t)
	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(nil)

	_, err := r.SetPushToken(context.Background(), "apns-abc")
	require.NoError(t, err)

	id, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)
	result := r.Register(context.Background(), Identity{Kind: WeakIdentity, Token: id})

	assert.True(t, result.Skipped)
	assert.Equal(t, StrongIdentity, r.Current().Kind, "state never regresses")
	client.AssertNumberOfCalls(t, "RegisterDevice", 1)
}

func TestReassert_UsesStrongestIdentity(t *testing.T) {
	r, client, _ := setupRegistrar(t)
	client.On("RegisterDevice", mock.Anything, mock.Anything).Return(nil)

	_, err := r.SetPushToken(context.Background(), "apns-abc")
	require.NoError(t, err)
	result := r.Reassert(context.Background(), models.TriggerForeground)

	assert.True(t, result.Success)
	assert.Equal(t, StrongIdentity, result.Identity)
	for _, call := range client.Calls {
		req := call.Arguments.Get(1).(remote.RegistrationRequest)
		assert.Equal(t, "apns-abc", req.Token)
	}
}

func TestWeakRetryStopsWhenPushTokenArrivesDuringBackoff(t *testing.T) {
	r, client, _ := setupRegistrar(t)
	deviceID, err := r.EnsureIdentity(context.Background())
	require.NoError(t, err)

	isWeak := func(req remote.RegistrationRequest) bool { return req.Token == deviceID }
	isStrong := func(req remote.RegistrationRequest) bool {
		return req.Token == "apns-token" && req.APNsEnvironment == APNsEnvironment
	}
	client.On("RegisterDevice", mock.Anything, mock.MatchedBy(isWeak)).Return(errBackendDown).Once()
	client.On("RegisterDevice", mock.Anything, mock.MatchedBy(isStrong)).Return(nil).Once()

	var strongResult RetryResult
	r.sleep = func(ctx context.Context, d time.Duration) error {
		// the push credential lands while the weak attempt waits
		strongResult, err = r.SetPushToken(ctx, "apns-token")
		return err
	}

	weakResult := r.Register(context.Background(), Identity{Kind: WeakIdentity, Token: deviceID})

	require.NoError(t, err)
	assert.True(t, strongResult.Success)
	assert.True(t, weakResult.Skipped)
	assert.False(t, weakResult.Success)
	assert.Equal(t, 1, weakResult.Attempts)
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "RegisterDevice", 2)

	status := r.Status()
	assert.Equal(t, "strong", status.State)
	require.NotNil(t, status.LastResult)
	assert.Equal(t, "strong", status.LastResult.Identity)
}
