// Package indicators provides pure technical-indicator functions over an
// ordered sequence of klines. All functions are deterministic and degrade
// into a safe default instead of returning an error when the history is too
// short (startup, newly listed instruments).
package indicators

import "cryptoVolumeAlert/internal/domain"

// SMA computes the simple moving average of closing prices over the trailing
// window. With fewer klines than the period it falls back to the latest
// close; with no klines it returns 0.
func SMA(klines []*domain.Kline, period int) float64 {
	if len(klines) == 0 || period <= 0 {
		return 0
	}
	if len(klines) < period {
		return klines[len(klines)-1].Close
	}

	total := 0.0
	for i := len(klines) - period; i < len(klines); i++ {
		total += klines[i].Close
	}
	return total / float64(period)
}

// EMA computes the exponential moving average of closing prices: a simple
// average over the first period klines seeds the value, then the standard
// smoothing recurrence (multiplier 2/(period+1)) is applied over the rest.
// With fewer klines than the period it falls back to the latest close.
func EMA(klines []*domain.Kline, period int) float64 {
	if len(klines) == 0 || period <= 0 {
		return 0
	}
	if len(klines) < period {
		return klines[len(klines)-1].Close
	}

	multiplier := 2.0 / float64(period+1)

	ema := 0.0
	for i := 0; i < period; i++ {
		ema += klines[i].Close
	}
	ema /= float64(period)

	for i := period; i < len(klines); i++ {
		ema = (klines[i].Close-ema)*multiplier + ema
	}
	return ema
}
