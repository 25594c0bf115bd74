package indicators

import "testing"

func TestRSI(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		period   int
		expected float64
	}{
		{
			name:   "mixed gains and losses",
			closes: []float64{100, 102, 101, 103, 102, 104},
			period: 3,
			// Trailing deltas: +2, -1, +2 -> avgGain 4/3, avgLoss 1/3,
			// RS 4, RSI = 100 - 100/5 = 80
			expected: 80.0,
		},
		{
			name:     "insufficient data returns neutral",
			closes:   []float64{100, 102, 101},
			period:   3,
			expected: 50,
		},
		{
			name:     "no losing candle returns max",
			closes:   []float64{100, 101, 102, 103},
			period:   3,
			expected: 100,
		},
		{
			name:     "no gaining candle returns min",
			closes:   []float64{103, 102, 101, 100},
			period:   3,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := RSI(klinesFromCloses(tt.closes...), tt.period)
			if value-tt.expected > 0.0001 || value-tt.expected < -0.0001 {
				t.Errorf("Expected value %f, got %f", tt.expected, value)
			}
		})
	}
}

func TestRSI_Bounds(t *testing.T) {
	// RSI must stay within [0,100] for any window with enough candles.
	sequences := [][]float64{
		{100, 150, 50, 200, 25, 300},
		{1, 1, 1, 1, 1},
		{5, 4, 6, 3, 7, 2},
	}
	for _, closes := range sequences {
		value := RSI(klinesFromCloses(closes...), 3)
		if value < 0 || value > 100 {
			t.Errorf("RSI out of bounds for %v: %f", closes, value)
		}
	}
}
