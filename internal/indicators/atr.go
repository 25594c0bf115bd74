package indicators

import (
	"math"

	"cryptoVolumeAlert/internal/domain"
)

// ATR computes the Average True Range as the mean of the per-candle true
// range over the trailing period klines. The true range of a candle is the
// greatest of:
//  1. Current High - Current Low
//  2. |Current High - Previous Close|
//  3. |Current Low - Previous Close|
//
// With fewer than period+1 klines it returns 0.
func ATR(klines []*domain.Kline, period int) float64 {
	if period <= 0 || len(klines) < period+1 {
		return 0
	}

	trSum := 0.0
	for i := len(klines) - period; i < len(klines); i++ {
		high := klines[i].High
		low := klines[i].Low
		prevClose := klines[i-1].Close

		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trSum += tr
	}

	return trSum / float64(period)
}
