package indicators

import (
	"sort"

	"cryptoVolumeAlert/internal/domain"
)

// Mean computes the arithmetic mean of the values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// Median computes the median of the values: the middle element for an odd
// count, the average of the two middle elements for an even count, 0 for an
// empty slice. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// HighestHigh returns the highest high over the trailing n klines (or all of
// them when fewer exist), 0 when there are none.
func HighestHigh(klines []*domain.Kline, n int) float64 {
	if len(klines) == 0 || n <= 0 {
		return 0
	}
	start := len(klines) - n
	if start < 0 {
		start = 0
	}
	highest := klines[start].High
	for _, k := range klines[start+1:] {
		if k.High > highest {
			highest = k.High
		}
	}
	return highest
}

// LowestLow returns the lowest low over the trailing n klines (or all of
// them when fewer exist), 0 when there are none.
func LowestLow(klines []*domain.Kline, n int) float64 {
	if len(klines) == 0 || n <= 0 {
		return 0
	}
	start := len(klines) - n
	if start < 0 {
		start = 0
	}
	lowest := klines[start].Low
	for _, k := range klines[start+1:] {
		if k.Low < lowest {
			lowest = k.Low
		}
	}
	return lowest
}
