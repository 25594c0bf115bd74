// Package scheduler runs one check loop per timeframe, waking at candle
// boundaries plus a configured offset so the exchange has finished closing
// the candle before it is read.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/ports"
)

// RunFunc is the work invoked at every scheduled boundary.
type RunFunc func(ctx context.Context, tf domain.TimeframeConfig)

// NextRun returns the first instant strictly after now that falls on a
// calendar multiple of interval plus offset.
func NextRun(now time.Time, interval, offset time.Duration) time.Time {
	next := now.Truncate(interval).Add(offset)
	if !next.After(now) {
		next = next.Add(interval)
	}
	return next
}

// Scheduler drives the check loop for a single timeframe. Boundaries where
// the previous run is still in progress are skipped.
type Scheduler struct {
	tf     domain.TimeframeConfig
	run    RunFunc
	logger ports.Logger

	running  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a scheduler for one timeframe. Start must be called to begin
// scheduling.
func New(tf domain.TimeframeConfig, run RunFunc, logger ports.Logger) *Scheduler {
	return &Scheduler{
		tf:     tf,
		run:    run,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the scheduling loop. The loop exits when ctx is canceled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Stop cancels all pending wake-ups. Idempotent; it does not interrupt a run
// already in progress.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.doneCh)

	interval := s.tf.Duration()
	timer := time.NewTimer(time.Until(NextRun(time.Now(), interval, s.tf.ScheduleOffset)))
	defer timer.Stop()

	s.logger.Info(ctx, "Timeframe schedule started", map[string]interface{}{
		"interval": s.tf.Interval,
		"offset":   s.tf.ScheduleOffset.String(),
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-timer.C:
			s.tick(ctx)
			timer.Reset(time.Until(NextRun(time.Now(), interval, s.tf.ScheduleOffset)))
		}
	}
}

// tick launches one run unless the previous one is still going.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn(ctx, "Previous check still running, skipping this boundary", map[string]interface{}{
			"interval": s.tf.Interval,
		})
		return
	}
	go func() {
		defer s.running.Store(false)
		s.run(ctx, s.tf)
	}()
}
