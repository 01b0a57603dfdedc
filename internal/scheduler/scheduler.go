package scheduler

import (
	"context"
	"sync"
	"time"

	"storefront-sync/internal/device"
	"storefront-sync/internal/models"
	"storefront-sync/internal/syncer"

	"go.uber.org/zap"
)

// Refresher runs one sync cycle.
type Refresher interface {
	Refresh(ctx context.Context) syncer.SyncResult
}

// Reasserter re-sends the device registration.
type Reasserter interface {
	Reassert(ctx context.Context, trigger models.Trigger) device.RetryResult
}

// Scheduler starts a refresh on every tick and every trigger. Each refresh
// is an independent goroutine; overlapping runs resolve to the last
// successful write.
type Scheduler struct {
	refresher Refresher
	registrar Reasserter
	interval  time.Duration
	triggers  chan models.Trigger
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func New(refresher Refresher, registrar Reasserter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		registrar: registrar,
		interval:  interval,
		triggers:  make(chan models.Trigger, 16),
		logger:    logger,
	}
}

// Trigger queues an external event without blocking. It returns false when
// the queue is full; a refresh is already pending in that case.
func (s *Scheduler) Trigger(t models.Trigger) bool {
	select {
	case s.triggers <- t:
		return true
	default:
		s.logger.Warn("Trigger queue full, dropping", zap.String("trigger", string(t)))
		return false
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight work.
func (s *Scheduler) Run(ctx context.Context) {
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("Scheduler stopped")
			return
		case <-tick:
			s.dispatch(ctx, models.TriggerPoll)
		case t := <-s.triggers:
			s.dispatch(ctx, t)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, t models.Trigger) {
	if t.ReassertsRegistration() && s.registrar != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.registrar.Reassert(ctx, t)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		result := s.refresher.Refresh(ctx)
		s.logger.Debug("Triggered refresh done",
			zap.String("trigger", string(t)),
			zap.Bool("ok", result.OK()),
		)
	}()
}
