package domain

import "time"

// Direction indicates which way the price moved over the last closed candle.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// IntensityTier classifies how far a price move overshoots its timeframe's
// threshold, combined with whether the move was backed by volume.
type IntensityTier string

const (
	// TierNone: the move met the price threshold but its strength multiplier
	// is below 2. Alerted without a strength badge.
	TierNone IntensityTier = "none"
	// TierThresholdOnly: strength multiplier >= 2 but the move was not
	// volume-qualified. Alerted without a badge and with a muted notification.
	TierThresholdOnly IntensityTier = "threshold"
	// TierStrong: strength multiplier in [2, 3) with qualifying volume.
	TierStrong IntensityTier = "strong"
	// TierExplosive: strength multiplier >= 3 with qualifying volume.
	TierExplosive IntensityTier = "explosive"
)

// InstrumentSnapshot is the per-instrument reduction of one timeframe's
// candle history, recomputed on every check and discarded afterwards.
// Price and volume fields describe the most recently closed candle; the
// in-progress candle is never included in any statistic.
type InstrumentSnapshot struct {
	Symbol           string
	Interval         string
	OpenPrice        float64   // Open of the last closed candle
	ClosePrice       float64   // Close of the last closed candle (current price)
	Volume           float64   // Base-asset volume of the last closed candle
	QuoteVolume      float64   // Quote-asset volume of the last closed candle
	CloseTime        time.Time // Close time of the last closed candle
	AvgVolume        float64   // Mean base volume of the HistoryPeriods preceding candles
	MedianVolume     float64   // Median base volume of the VolumeMedianPeriods preceding candles
	VolumeMultiplier float64   // Volume / MedianVolume (0 when the median is 0)

	// Indicator enrichment, present only when HasIndicators is set.
	HasIndicators bool
	RSI           float64 // RSI(14) over all closed candles
	EMAFast       float64 // EMA(7) over all closed candles
	EMASlow       float64 // EMA(25) over all closed candles
	ATR           float64 // ATR(14) over all closed candles
	TrendUp       bool    // EMAFast above EMASlow
	Resistance    float64 // Highest high of the recent closed candles
	Support       float64 // Lowest low of the recent closed candles
}

// AlertCandidate is a snapshot whose price move met the timeframe's
// thresholds, together with the derived classification. Candidates are
// ephemeral: they live for one check round only.
type AlertCandidate struct {
	Snapshot        InstrumentSnapshot
	PriceChange     float64 // Open-to-close change of the last closed candle, in percent (signed)
	Strength        float64 // |PriceChange| / PriceThreshold
	VolumeQualified bool    // VolumeMultiplier >= 2
	Tier            IntensityTier
	Direction       Direction
}
