package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront-sync/internal/device"
	"storefront-sync/internal/models"
	"storefront-sync/internal/syncer"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRefresher struct {
	calls chan struct{}
}

func (c *countingRefresher) Refresh(ctx context.Context) syncer.SyncResult {
	c.calls <- struct{}{}
	return syncer.SyncResult{}
}

type recordingRegistrar struct {
	mu       sync.Mutex
	triggers []models.Trigger
}

func (r *recordingRegistrar) Reassert(ctx context.Context, t models.Trigger) device.RetryResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, t)
	return device.RetryResult{Success: true}
}

func (r *recordingRegistrar) seen() []models.Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Trigger(nil), r.triggers...)
}

func waitCalls(t *testing.T, calls chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d refreshes, got %d", n, i)
		}
	}
}

func TestTriggersStartRefreshes(t *testing.T) {
	refresher := &countingRefresher{calls: make(chan struct{}, 8)}
	registrar := &recordingRegistrar{}
	s := New(refresher, registrar, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.True(t, s.Trigger(models.TriggerForeground))
	assert.True(t, s.Trigger(models.TriggerBackground))
	waitCalls(t, refresher.calls, 2)

	cancel()
	<-done

	assert.Equal(t, []models.Trigger{models.TriggerForeground}, registrar.seen())
}

func TestTickerPolls(t *testing.T) {
	refresher := &countingRefresher{calls: make(chan struct{}, 8)}
	s := New(refresher, nil, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitCalls(t, refresher.calls, 2)
}

func TestTrigger_QueueFull(t *testing.T) {
	s := New(&countingRefresher{calls: make(chan struct{}, 1)}, nil, 0, zap.NewNop())

	for i := 0; i < cap(s.triggers); i++ {
		assert.True(t, s.Trigger(models.TriggerPush))
	}
	assert.False(t, s.Trigger(models.TriggerPush))
}
