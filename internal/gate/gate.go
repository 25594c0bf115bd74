// Package gate deduplicates alert candidates and dispatches the survivors.
// One cooldown lane exists per (instrument, timeframe, direction) key, so a
// pump and a dump on the same symbol can each alert within the window.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cryptoVolumeAlert/internal/domain"
	"cryptoVolumeAlert/internal/ports"
)

// Gate applies cooldown suppression to candidates and sends the notifications
// that pass. All state is in-memory and process-lifetime.
type Gate struct {
	notifier ports.Notifier
	logger   ports.Logger

	mu    sync.Mutex
	store *keyStore
	now   func() time.Time
}

// New creates a new notification gate.
func New(notifier ports.Notifier, logger ports.Logger) (*Gate, error) {
	if notifier == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for Gate")
	}
	return &Gate{
		notifier: notifier,
		logger:   logger,
		store:    newKeyStore(),
		now:      time.Now,
	}, nil
}

// TryNotify evaluates one candidate against the cooldown state and, when it
// passes, formats and dispatches the alert. It returns true when the alert
// was sent or very likely delivered, false when suppressed or when dispatch
// failed outright. Cooldown and day-counter mutations are never rolled back
// on dispatch failure; a failed send consumes the cooldown cycle.
func (g *Gate) TryNotify(ctx context.Context, cand domain.AlertCandidate, tf domain.TimeframeConfig) bool {
	key := alertKey{
		Symbol:    cand.Snapshot.Symbol,
		Interval:  cand.Snapshot.Interval,
		Direction: cand.Direction,
	}

	g.mu.Lock()
	now := g.now()
	if g.store.inCooldown(key, now, tf.Cooldown) {
		g.mu.Unlock()
		g.logger.Debug(ctx, "Alert suppressed by cooldown", map[string]interface{}{
			"symbol": key.Symbol, "interval": key.Interval, "direction": string(key.Direction),
		})
		return false
	}
	alertNo := g.store.recordAlert(key, now)
	g.mu.Unlock()

	text := formatAlert(cand, tf, alertNo)
	silent := cand.Tier == domain.TierThresholdOnly

	if err := g.notifier.Send(ctx, text, silent); err != nil {
		if errors.Is(err, ports.ErrPossiblyDelivered) {
			g.logger.Warn(ctx, "Dispatch interrupted, treating alert as delivered", map[string]interface{}{
				"symbol": key.Symbol, "interval": key.Interval, "error": err.Error(),
			})
			return true
		}
		g.logger.Error(ctx, err, "Failed to dispatch alert", map[string]interface{}{
			"symbol": key.Symbol, "interval": key.Interval,
		})
		return false
	}

	g.logger.Info(ctx, "Alert dispatched", map[string]interface{}{
		"symbol":    key.Symbol,
		"interval":  key.Interval,
		"direction": string(key.Direction),
		"change":    cand.PriceChange,
		"strength":  cand.Strength,
		"tier":      string(cand.Tier),
		"alertNo":   alertNo,
	})
	return true
}
