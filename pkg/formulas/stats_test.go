package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{"simple average", []float64{1, 2, 3, 4, 5}, 3},
		{"single value", []float64{7}, 7},
		{"empty slice", nil, 0},
		{"negative values", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Mean(tt.data), 1e-9)
		})
	}
}

func TestStdDev(t *testing.T) {
	// Sample standard deviation of {2,4,4,4,5,5,7,9} is ~2.138
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.138, StdDev(data), 0.001)

	assert.Zero(t, StdDev(nil))
}

func TestRSI_Bounds(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i)
	}

	value := RSI(rising, 14)
	if value == nil {
		t.Fatal("expected RSI value")
	}
	assert.InDelta(t, 100, *value, 0.01)

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	value = RSI(falling, 14)
	if value == nil {
		t.Fatal("expected RSI value")
	}
	assert.InDelta(t, 0, *value, 0.01)
}

func TestRSI_InsufficientData(t *testing.T) {
	assert.Nil(t, RSI([]float64{1, 2, 3}, 14))
}
