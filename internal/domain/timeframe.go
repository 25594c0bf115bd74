package domain

import "time"

// intervalDurations maps the supported kline interval identifiers to their
// wall-clock length. Scheduling alignment relies on these being exact
// divisors of the day (the "1d" entry aligns to UTC midnight).
var intervalDurations = map[string]time.Duration{
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// TimeframeConfig holds the monitoring thresholds and scheduling parameters
// for a single kline interval. One instance exists per configured
// granularity; instances are immutable after startup validation.
type TimeframeConfig struct {
	Interval            string        // Kline interval identifier (e.g., "5m")
	Enabled             bool          // Whether this timeframe is monitored
	PriceThreshold      float64       // Absolute open-to-close change (%) that qualifies a candidate
	VolumeThreshold     float64       // Volume multiplier threshold for this timeframe
	MinQuoteVolume      float64       // Liquidity floor: minimum quote-asset volume of the closed candle
	ScheduleOffset      time.Duration // Delay past the interval boundary before a check fires
	HistoryPeriods      int           // Closed candles averaged for the baseline volume
	VolumeMedianPeriods int           // Closed candles used for the median volume window
	Cooldown            time.Duration // Minimum time between alerts for the same key
}

// Duration returns the wall-clock length of the configured interval,
// or zero for an unknown interval identifier.
func (t TimeframeConfig) Duration() time.Duration {
	return intervalDurations[t.Interval]
}

// KnownInterval reports whether the interval identifier is one of the
// supported granularities.
func (t TimeframeConfig) KnownInterval() bool {
	_, ok := intervalDurations[t.Interval]
	return ok
}
