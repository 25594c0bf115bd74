package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoVolumeAlert/internal/domain"
)

func snapshot(open, close, volumeMultiplier, quoteVolume float64) domain.InstrumentSnapshot {
	return domain.InstrumentSnapshot{
		Symbol:           "BTCUSDT",
		Interval:         "5m",
		OpenPrice:        open,
		ClosePrice:       close,
		VolumeMultiplier: volumeMultiplier,
		QuoteVolume:      quoteVolume,
	}
}

func timeframe(priceThreshold, minQuoteVolume float64) domain.TimeframeConfig {
	return domain.TimeframeConfig{
		Interval:       "5m",
		PriceThreshold: priceThreshold,
		MinQuoteVolume: minQuoteVolume,
	}
}

func TestClassify_Gating(t *testing.T) {
	tests := []struct {
		name string
		snap domain.InstrumentSnapshot
		tf   domain.TimeframeConfig
		want bool
	}{
		{
			name: "change below threshold is discarded",
			snap: snapshot(100, 101.5, 3, 1e6),
			tf:   timeframe(2.0, 1e5),
			want: false,
		},
		{
			name: "change exactly at threshold passes",
			snap: snapshot(100, 102, 3, 1e6),
			tf:   timeframe(2.0, 1e5),
			want: true,
		},
		{
			name: "illiquid instrument is discarded",
			snap: snapshot(100, 105, 3, 1e4),
			tf:   timeframe(2.0, 1e5),
			want: false,
		},
		{
			name: "zero open price is discarded",
			snap: snapshot(0, 105, 3, 1e6),
			tf:   timeframe(2.0, 1e5),
			want: false,
		},
		{
			name: "downward move passes on absolute change",
			snap: snapshot(100, 97, 3, 1e6),
			tf:   timeframe(2.0, 1e5),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(tt.snap, tt.tf)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestClassify_StrengthAndDirection(t *testing.T) {
	cand, ok := Classify(snapshot(100, 96, 2.5, 1e6), timeframe(2.0, 1e5))
	require.True(t, ok)

	assert.InDelta(t, -4.0, cand.PriceChange, 0.0001)
	assert.InDelta(t, 2.0, cand.Strength, 0.0001)
	assert.Equal(t, domain.DirectionDown, cand.Direction)
	assert.True(t, cand.VolumeQualified)
}

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name string
		snap domain.InstrumentSnapshot
		want domain.IntensityTier
	}{
		{
			name: "below double threshold has no tier",
			snap: snapshot(100, 103, 5, 1e6), // x = 1.5
			want: domain.TierNone,
		},
		{
			name: "double threshold without volume is threshold-only",
			snap: snapshot(100, 105, 1.5, 1e6), // x = 2.5
			want: domain.TierThresholdOnly,
		},
		{
			name: "double threshold with volume is strong",
			snap: snapshot(100, 105, 2.0, 1e6), // x = 2.5
			want: domain.TierStrong,
		},
		{
			name: "triple threshold with volume is explosive",
			snap: snapshot(100, 107, 2.0, 1e6), // x = 3.5
			want: domain.TierExplosive,
		},
		{
			name: "triple threshold without volume stays threshold-only",
			snap: snapshot(100, 107, 1.0, 1e6), // x = 3.5
			want: domain.TierThresholdOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, ok := Classify(tt.snap, timeframe(2.0, 1e5))
			require.True(t, ok)
			assert.Equal(t, tt.want, cand.Tier)
		})
	}
}

func TestRank(t *testing.T) {
	tf := timeframe(2.0, 1e5)
	a, _ := Classify(snapshot(100, 104, 2, 1e6), tf)  // x = 2.0
	b, _ := Classify(snapshot(100, 108, 3, 1e6), tf)  // x = 4.0
	c, _ := Classify(snapshot(100, 96, 5, 1e6), tf)   // x = 2.0, higher volume
	d, _ := Classify(snapshot(100, 110, 1, 1e6), tf)  // x = 5.0

	candidates := []domain.AlertCandidate{a, b, c, d}
	Rank(candidates)

	assert.Equal(t, 5.0, candidates[0].Strength)
	assert.Equal(t, 4.0, candidates[1].Strength)
	// Equal strength ties break on the volume multiplier.
	assert.Equal(t, 5.0, candidates[2].Snapshot.VolumeMultiplier)
	assert.Equal(t, 2.0, candidates[3].Snapshot.VolumeMultiplier)
}
