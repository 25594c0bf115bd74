package indicators

import (
	"testing"

	"cryptoVolumeAlert/internal/domain"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "even count averages the middle pair",
			values:   []float64{100, 200, 300, 400, 500, 600},
			expected: 350, // (300 + 400) / 2
		},
		{
			name:     "odd count takes the middle element",
			values:   []float64{500, 100, 300},
			expected: 300,
		},
		{
			name:     "single value",
			values:   []float64{42},
			expected: 42,
		},
		{
			name:     "empty",
			values:   nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if value := Median(tt.values); value != tt.expected {
				t.Errorf("Expected value %f, got %f", tt.expected, value)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median mutated its input: %v", values)
	}
}

func TestMean(t *testing.T) {
	if value := Mean([]float64{100, 200, 300, 400, 500, 600}); value != 350 {
		t.Errorf("Expected 350, got %f", value)
	}
	if value := Mean(nil); value != 0 {
		t.Errorf("Expected 0 for empty input, got %f", value)
	}
}

func TestHighestHighLowestLow(t *testing.T) {
	klines := []*domain.Kline{
		{High: 105, Low: 95},
		{High: 120, Low: 101},
		{High: 110, Low: 90},
		{High: 108, Low: 99},
	}

	if v := HighestHigh(klines, 2); v != 110 {
		t.Errorf("Expected highest high 110 over trailing 2, got %f", v)
	}
	if v := HighestHigh(klines, 10); v != 120 {
		t.Errorf("Expected highest high 120 over all, got %f", v)
	}
	if v := LowestLow(klines, 2); v != 90 {
		t.Errorf("Expected lowest low 90 over trailing 2, got %f", v)
	}
	if v := LowestLow(nil, 2); v != 0 {
		t.Errorf("Expected 0 for empty input, got %f", v)
	}
}
