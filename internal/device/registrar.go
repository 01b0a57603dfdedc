package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-sync/internal/models"
	"storefront-sync/internal/remote"
	"storefront-sync/internal/secrets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxAttempts = 3
	BackoffUnit = 2 * time.Second
	// APNsEnvironment is sent with every push credential.
	APNsEnvironment = "production"
)

// State of the device identity. It only moves forward.
type State int

const (
	NoIdentity State = iota
	WeakIdentity
	StrongIdentity
)

func (s State) String() string {
	switch s {
	case WeakIdentity:
		return "weak"
	case StrongIdentity:
		return "strong"
	default:
		return "none"
	}
}

// Identity is what gets registered: the persistent device id (weak) or the
// push credential (strong).
type Identity struct {
	Kind  State
	Token string
}

// RetryResult reports the outcome of one registration.
type RetryResult struct {
	Identity  State
	Success   bool
	Skipped   bool
	Attempts  int
	LastError error
}

// Registerer posts registrations. remote.Client implements it.
type Registerer interface {
	RegisterDevice(ctx context.Context, reg remote.RegistrationRequest) error
}

// Status is a read-only view for the local API.
type Status struct {
	State        string       `json:"state"`
	DeviceID     string       `json:"deviceId,omitempty"`
	HasPushToken bool         `json:"hasPushToken"`
	LastResult   *StatusEntry `json:"lastResult,omitempty"`
}

type StatusEntry struct {
	Identity string    `json:"identity"`
	Success  bool      `json:"success"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

var ErrEmptyToken = errors.New("push token is empty")

type Registrar struct {
	client     Registerer
	secrets    secrets.SecretStore
	logger     *zap.Logger
	platform   string
	deviceName string

	mu        sync.Mutex
	state     State
	deviceID  string
	pushToken string
	last      *StatusEntry

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewRegistrar(client Registerer, store secrets.SecretStore, platform, deviceName string, logger *zap.Logger) *Registrar {
	return &Registrar{
		client:     client,
		secrets:    store,
		logger:     logger,
		platform:   platform,
		deviceName: deviceName,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// EnsureIdentity loads the persistent device id, creating and storing one
// on first use.
func (r *Registrar) EnsureIdentity(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deviceID != "" {
		return r.deviceID, nil
	}

	id, err := r.secrets.Get(ctx, secrets.KeyDeviceID)
	if errors.Is(err, secrets.ErrNotFound) {
		id = uuid.NewString()
		if err := r.secrets.Set(ctx, secrets.KeyDeviceID, id); err != nil {
			return "", fmt.Errorf("failed to store device id: %w", err)
		}
		r.logger.Info("Created device identity", zap.String("device_id", id))
	} else if err != nil {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}

	r.deviceID = id
	if r.state < WeakIdentity {
		r.state = WeakIdentity
	}
	return id, nil
}

// SetPushToken records the push credential, moving to the strong state, and
// registers it.
func (r *Registrar) SetPushToken(ctx context.Context, token string) (RetryResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return RetryResult{}, ErrEmptyToken
	}
	if _, err := r.EnsureIdentity(ctx); err != nil {
		return RetryResult{}, err
	}

	r.mu.Lock()
	r.pushToken = token
	r.state = StrongIdentity
	r.mu.Unlock()

	return r.Register(ctx, Identity{Kind: StrongIdentity, Token: token}), nil
}

// Current returns the strongest identity available.
func (r *Registrar) Current() Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StrongIdentity:
		return Identity{Kind: StrongIdentity, Token: r.pushToken}
	case WeakIdentity:
		return Identity{Kind: WeakIdentity, Token: r.deviceID}
	default:
		return Identity{Kind: NoIdentity}
	}
}

// Register sends the identity up to MaxAttempts times, waiting
// attempt × BackoffUnit between attempts. A weak identity is not sent once a
// strong one exists. Failure is reported, never fatal.
func (r *Registrar) Register(ctx context.Context, id Identity) RetryResult {
	result := RetryResult{Identity: id.Kind}

	r.mu.Lock()
	deviceID := r.deviceID
	r.mu.Unlock()

	if id.Kind == NoIdentity || id.Token == "" {
		result.LastError = errors.New("no identity to register")
		return result
	}

	req := remote.RegistrationRequest{
		Token:      id.Token,
		Platform:   r.platform,
		DeviceID:   deviceID,
		DeviceName: r.deviceName,
	}
	if id.Kind == StrongIdentity {
		req.APNsEnvironment = APNsEnvironment
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		// a push token may arrive while a weak attempt is backing off
		if r.supersededBy(id) {
			r.logger.Debug("Skipping weak registration, push token already registered",
				zap.Int("attempt", attempt),
			)
			result.Skipped = true
			return result
		}

		result.Attempts = attempt
		err := r.client.RegisterDevice(ctx, req)
		if err == nil {
			result.Success = true
			result.LastError = nil
			break
		}
		result.LastError = err
		r.logger.Warn("Device registration failed",
			zap.String("identity", id.Kind.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == MaxAttempts {
			break
		}
		if err := r.sleep(ctx, time.Duration(attempt)*BackoffUnit); err != nil {
			result.LastError = err
			break
		}
	}

	if result.Success {
		r.logger.Info("Device registered",
			zap.String("identity", id.Kind.String()),
			zap.Int("attempts", result.Attempts),
		)
	}
	r.record(result)
	return result
}

// supersededBy reports whether id is a weak identity and a strong one now exists.
func (r *Registrar) supersededBy(id Identity) bool {
	if id.Kind != WeakIdentity {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StrongIdentity
}

// Reassert registers the strongest identity again. Launch, foreground and
// permission checks call it to keep the backend's record fresh.
func (r *Registrar) Reassert(ctx context.Context, trigger models.Trigger) RetryResult {
	if _, err := r.EnsureIdentity(ctx); err != nil {
		r.logger.Error("Cannot reassert registration without identity", zap.Error(err))
		return RetryResult{LastError: err}
	}
	id := r.Current()
	r.logger.Debug("Reasserting registration",
		zap.String("trigger", string(trigger)),
		zap.String("identity", id.Kind.String()),
	)
	return r.Register(ctx, id)
}

func (r *Registrar) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		State:        r.state.String(),
		DeviceID:     r.deviceID,
		HasPushToken: r.pushToken != "",
		LastResult:   r.last,
	}
}

func (r *Registrar) record(result RetryResult) {
	entry := &StatusEntry{
		Identity: result.Identity.String(),
		Success:  result.Success,
		Attempts: result.Attempts,
		At:       r.now(),
	}
	if result.LastError != nil {
		entry.Error = result.LastError.Error()
	}

	r.mu.Lock()
	r.last = entry
	r.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
