package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(-30) {
		t.Fatal("expected -30 to be finite")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(v) {
			t.Fatalf("IsFinite(%v) = true", v)
		}
	}
}

func TestDBPowerConversions(t *testing.T) {
	// 3 dB power ~ 2x linear power
	p := DBPowerToLinear(3)
	if !NearlyEqual(p, 2.0, 0.01) {
		t.Fatalf("DBPowerToLinear(3) = %v, want ~2.0", p)
	}
	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
	if !math.IsNaN(LinearPowerToDB(-1)) {
		t.Fatal("expected NaN for negative power")
	}
}

func TestPowerToDBFloor(t *testing.T) {
	tests := []struct {
		power float64
		want  float64
	}{
		{power: 0, want: -120},
		{power: 1e-15, want: -120},
		{power: 1e-12, want: -120},
		{power: 1, want: 0},
		{power: 0.001, want: -30},
	}

	for _, tt := range tests {
		if got := PowerToDB(tt.power); !NearlyEqual(got, tt.want, 1e-9) {
			t.Fatalf("PowerToDB(%v) = %v, want %v", tt.power, got, tt.want)
		}
	}

	buf := []float64{0, 1, 100}
	PowerToDBInPlace(buf)
	if buf[0] != -120 || buf[1] != 0 || !NearlyEqual(buf[2], 20, 1e-12) {
		t.Fatalf("PowerToDBInPlace = %v", buf)
	}
}
