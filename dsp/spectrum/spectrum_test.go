package spectrum

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudePhasePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 || math.Abs(pow[1]-2) > 1e-12 || pow[2] != 0 {
		t.Fatalf("Power=%v", pow)
	}

	phase := Phase(bins)
	if math.Abs(phase[0]-math.Atan2(4, 3)) > 1e-12 {
		t.Fatalf("Phase[0]=%f mismatch", phase[0])
	}

	if Magnitude(nil) != nil || Power(nil) != nil || Phase(nil) != nil {
		t.Fatal("expected nil output for empty input")
	}
}

func TestFromParts(t *testing.T) {
	re := []float64{3, 0, -1}
	im := []float64{4, 2, 0}

	mag := make([]float64, 3)
	MagnitudeFromParts(mag, re, im)
	pow := make([]float64, 3)
	PowerFromParts(pow, re, im)

	wantMag := []float64{5, 2, 1}
	wantPow := []float64{25, 4, 1}
	for i := range re {
		if math.Abs(mag[i]-wantMag[i]) > 1e-12 || math.Abs(pow[i]-wantPow[i]) > 1e-12 {
			t.Fatalf("index %d: mag=%v pow=%v", i, mag[i], pow[i])
		}
	}
}

func TestFFTShift(t *testing.T) {
	even := FFTShift([]int{0, 1, 2, 3, -4, -3, -2, -1})
	want := []int{-4, -3, -2, -1, 0, 1, 2, 3}
	for i := range want {
		if even[i] != want[i] {
			t.Fatalf("even shift = %v, want %v", even, want)
		}
	}

	odd := FFTShift([]int{0, 1, 2, -2, -1})
	wantOdd := []int{-2, -1, 0, 1, 2}
	for i := range wantOdd {
		if odd[i] != wantOdd[i] {
			t.Fatalf("odd shift = %v, want %v", odd, wantOdd)
		}
	}

	back := IFFTShift(odd)
	for i, v := range []int{0, 1, 2, -2, -1} {
		if back[i] != v {
			t.Fatalf("IFFTShift = %v", back)
		}
	}
}

func TestRoll(t *testing.T) {
	x := []int{1, 2, 3, 4, 5}
	tests := []struct {
		shift int
		want  []int
	}{
		{shift: 0, want: []int{1, 2, 3, 4, 5}},
		{shift: 2, want: []int{4, 5, 1, 2, 3}},
		{shift: -1, want: []int{2, 3, 4, 5, 1}},
		{shift: 7, want: []int{4, 5, 1, 2, 3}},
	}
	for _, tt := range tests {
		got := Roll(x, tt.shift)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Fatalf("Roll(%d) = %v, want %v", tt.shift, got, tt.want)
			}
		}
	}
}

func TestFrequencyShift(t *testing.T) {
	x := make([]complex128, 64)
	for i := range x {
		x[i] = 1
	}
	y := FrequencyShift(x, 0.25)
	for k, v := range y {
		want := cmplx.Exp(complex(0, 2*math.Pi*0.25*float64(k)))
		if cmplx.Abs(v-want) > 1e-12 {
			t.Fatalf("index %d: got %v want %v", k, v, want)
		}
	}

	// Shifting back restores the input.
	z := FrequencyShift(y, -0.25)
	for k, v := range z {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Fatalf("round trip index %d: got %v", k, v)
		}
	}
}

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want []int
	}{
		{name: "simple", x: []float64{0, 1, 0, 2, 0}, want: []int{1, 3}},
		{name: "plateau", x: []float64{0, 2, 2, 2, 0}, want: []int{2}},
		{name: "even plateau", x: []float64{0, 2, 2, 0}, want: []int{1}},
		{name: "rising edge", x: []float64{0, 1, 2, 3}, want: nil},
		{name: "shoulder", x: []float64{0, 2, 2, 3, 0}, want: []int{3}},
		{name: "edges ignored", x: []float64{5, 1, 5}, want: nil},
		{name: "short", x: []float64{1, 2}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindPeaks(tt.x)
			if len(got) != len(tt.want) {
				t.Fatalf("FindPeaks(%v) = %v, want %v", tt.x, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("FindPeaks(%v) = %v, want %v", tt.x, got, tt.want)
				}
			}
		})
	}
}
