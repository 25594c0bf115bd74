package indicators

import (
	"math"

	"cryptoVolumeAlert/internal/domain"
)

// RSI computes the Relative Strength Index over the trailing period klines,
// using plain gain/loss sums over the window (not Wilder smoothing). The
// result is rounded to two decimal places.
//
// Edge cases: fewer than period+1 klines returns the neutral value 50; a
// window with no losing candle returns 100 (avoids division by zero).
func RSI(klines []*domain.Kline, period int) float64 {
	if period <= 0 || len(klines) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(klines) - period; i < len(klines); i++ {
		change := klines[i].Close - klines[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	return math.Round(rsi*100) / 100
}
