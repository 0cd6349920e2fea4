package technical

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := SMA(values, 5); got != 3 {
		t.Errorf("SMA = %v, want 3", got)
	}
	if got := SMA(values, 2); got != 4.5 {
		t.Errorf("SMA(2) = %v, want 4.5", got)
	}
	if got := SMA(values, 10); got != 0 {
		t.Errorf("SMA with short history = %v, want 0", got)
	}
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	if got := RSI(rising, 14); got != 100 {
		t.Errorf("RSI of rising series = %v, want 100", got)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = 100 - float64(i)
	}
	if got := RSI(falling, 14); got > 1 {
		t.Errorf("RSI of falling series = %v, want near 0", got)
	}

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	if got := RSI(flat, 14); got != 50 {
		t.Errorf("RSI of flat series = %v, want 50", got)
	}

	if got := RSI([]float64{1, 2}, 14); got != 50 {
		t.Errorf("RSI with short history = %v, want 50", got)
	}
}

func TestMomentum(t *testing.T) {
	values := []float64{100, 101, 102, 103, 110}
	got := Momentum(values, 4)
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Momentum = %v, want 0.1", got)
	}
	if got := Momentum(values, 10); got != 0 {
		t.Errorf("Momentum with short history = %v, want 0", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	values := []float64{100, 120, 90, 110}
	got := MaxDrawdown(values)
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want 0.25", got)
	}
	if got := MaxDrawdown([]float64{1, 2, 3}); got != 0 {
		t.Errorf("MaxDrawdown of rising series = %v, want 0", got)
	}
}
