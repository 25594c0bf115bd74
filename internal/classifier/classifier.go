// Package classifier evaluates instrument snapshots against per-timeframe
// thresholds and grades the anomalies it finds.
package classifier

import (
	"math"
	"sort"

	"cryptoVolumeAlert/internal/domain"
)

const (
	// volumeQualifyMultiplier is the minimum volume-to-median multiplier a
	// move must carry before it counts as volume-backed.
	volumeQualifyMultiplier = 2.0

	// explosiveStrength promotes a volume-backed move from strong to
	// explosive once the price change reaches this multiple of the
	// timeframe's threshold.
	explosiveStrength = 3.0
)

// Classify evaluates one snapshot against the timeframe's thresholds. The
// second return value reports whether the snapshot is an alert candidate at
// all; snapshots below the price threshold or the liquidity floor are
// discarded.
func Classify(snap domain.InstrumentSnapshot, tf domain.TimeframeConfig) (domain.AlertCandidate, bool) {
	if snap.OpenPrice <= 0 {
		return domain.AlertCandidate{}, false
	}

	change := (snap.ClosePrice - snap.OpenPrice) / snap.OpenPrice * 100
	if math.Abs(change) < tf.PriceThreshold {
		return domain.AlertCandidate{}, false
	}
	if snap.QuoteVolume < tf.MinQuoteVolume {
		return domain.AlertCandidate{}, false
	}

	strength := math.Abs(change) / tf.PriceThreshold
	qualified := snap.VolumeMultiplier >= volumeQualifyMultiplier

	direction := domain.DirectionUp
	if change < 0 {
		direction = domain.DirectionDown
	}

	return domain.AlertCandidate{
		Snapshot:        snap,
		PriceChange:     change,
		Strength:        strength,
		VolumeQualified: qualified,
		Tier:            tierFor(strength, qualified),
		Direction:       direction,
	}, true
}

// tierFor grades a candidate by how far past the threshold the move went and
// whether volume backs it. Moves below twice the threshold, and moves of any
// size without volume backing, never reach the intensity tiers.
func tierFor(strength float64, volumeQualified bool) domain.IntensityTier {
	if strength < 2.0 {
		return domain.TierNone
	}
	if !volumeQualified {
		return domain.TierThresholdOnly
	}
	if strength >= explosiveStrength {
		return domain.TierExplosive
	}
	return domain.TierStrong
}

// Rank orders candidates by descending strength, breaking ties on the volume
// multiplier, so callers can report the most significant moves first.
func Rank(candidates []domain.AlertCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Strength != candidates[j].Strength {
			return candidates[i].Strength > candidates[j].Strength
		}
		return candidates[i].Snapshot.VolumeMultiplier > candidates[j].Snapshot.VolumeMultiplier
	})
}
