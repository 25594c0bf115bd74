package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cryptoVolumeAlert/internal/classifier"
	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/ports"
	"cryptoVolumeAlert/internal/scheduler"
)

// topMoversLogged caps the per-round ranked summary written to the debug log.
const topMoversLogged = 3

// SnapshotSource provides per-timeframe market snapshots.
type SnapshotSource interface {
	FetchSnapshots(ctx context.Context, tf domain.TimeframeConfig) ([]domain.InstrumentSnapshot, error)
}

// AlertSink evaluates one candidate and dispatches it when it passes.
type AlertSink interface {
	TryNotify(ctx context.Context, cand domain.AlertCandidate, tf domain.TimeframeConfig) bool
}

// MonitorService orchestrates the per-timeframe check schedules. It owns the
// scheduler set and is the subsystem's single entry and exit point.
type MonitorService struct {
	logger     ports.Logger
	source     SnapshotSource
	sink       AlertSink
	timeframes []domain.TimeframeConfig

	schedulers []*scheduler.Scheduler
}

// NewMonitorService creates a new application service instance.
func NewMonitorService(
	logger ports.Logger,
	source SnapshotSource,
	sink AlertSink,
	timeframes []domain.TimeframeConfig,
) (*MonitorService, error) {

	if logger == nil || source == nil || sink == nil {
		return nil, fmt.Errorf("missing required dependencies for MonitorService")
	}

	enabled := make([]domain.TimeframeConfig, 0, len(timeframes))
	for _, tf := range timeframes {
		if !tf.Enabled {
			continue
		}
		if !tf.KnownInterval() {
			return nil, fmt.Errorf("unknown timeframe interval %q", tf.Interval)
		}
		enabled = append(enabled, tf)
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no timeframes enabled")
	}

	return &MonitorService{
		logger:     logger,
		source:     source,
		sink:       sink,
		timeframes: enabled,
	}, nil
}

// Start launches one schedule per enabled timeframe and blocks until an
// interrupt or termination signal arrives, then stops every schedule before
// returning.
func (s *MonitorService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Monitor Service...", map[string]interface{}{
		"timeframes": len(s.timeframes),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	// Probe each timeframe once before scheduling it so a misconfigured or
	// unreachable upstream surfaces at startup, not at the first boundary.
	started := 0
	for _, tf := range s.timeframes {
		if _, err := s.source.FetchSnapshots(ctx, tf); err != nil {
			s.logger.Error(ctx, err, "Baseline fetch failed, timeframe disabled", map[string]interface{}{
				"interval": tf.Interval,
			})
			continue
		}
		sched := scheduler.New(tf, s.runCheck, s.logger)
		sched.Start(ctx)
		s.schedulers = append(s.schedulers, sched)
		started++
	}
	if started == 0 {
		return fmt.Errorf("no timeframe passed its baseline fetch")
	}

	<-ctx.Done()
	s.Stop()
	s.logger.Info(context.Background(), "Monitor Service stopped")
	return nil
}

// Stop cancels every pending scheduled run. Idempotent.
func (s *MonitorService) Stop() {
	for _, sched := range s.schedulers {
		sched.Stop()
	}
}

// runCheck executes one full check round for a timeframe: fetch snapshots,
// classify, log the strongest movers, and push every candidate through the
// gate.
func (s *MonitorService) runCheck(ctx context.Context, tf domain.TimeframeConfig) {
	snapshots, err := s.source.FetchSnapshots(ctx, tf)
	if err != nil {
		s.logger.Error(ctx, err, "Check round aborted", map[string]interface{}{"interval": tf.Interval})
		return
	}

	candidates := make([]domain.AlertCandidate, 0)
	for _, snap := range snapshots {
		if cand, ok := classifier.Classify(snap, tf); ok {
			candidates = append(candidates, cand)
		}
	}

	classifier.Rank(candidates)
	s.logTopMovers(ctx, tf, candidates)

	sent := 0
	for _, cand := range candidates {
		if s.sink.TryNotify(ctx, cand, tf) {
			sent++
		}
	}

	s.logger.Info(ctx, "Check round complete", map[string]interface{}{
		"interval":   tf.Interval,
		"snapshots":  len(snapshots),
		"candidates": len(candidates),
		"alerts":     sent,
	})
}

func (s *MonitorService) logTopMovers(ctx context.Context, tf domain.TimeframeConfig, candidates []domain.AlertCandidate) {
	for i, cand := range candidates {
		if i >= topMoversLogged {
			break
		}
		s.logger.Debug(ctx, "Top mover", map[string]interface{}{
			"rank":     i + 1,
			"interval": tf.Interval,
			"symbol":   cand.Snapshot.Symbol,
			"change":   cand.PriceChange,
			"strength": cand.Strength,
			"volume":   cand.Snapshot.VolumeMultiplier,
		})
	}
}
