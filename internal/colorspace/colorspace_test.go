package colorspace

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSRGBRoundTrip(t *testing.T) {
	// to_linear(to_srgb(x)) must reproduce x within 1e-5 across [0,1]
	for i := 0; i <= 100; i++ {
		x := float32(i) / 100
		c := mgl32.Vec3{x, x, x}
		back := ToLinear(ToSRGB(c))
		for ch := 0; ch < 3; ch++ {
			if diff := math.Abs(float64(back[ch] - x)); diff > 1e-5 {
				t.Fatalf("round trip failed at %v: got %v (diff %v)", x, back[ch], diff)
			}
		}
	}
}

func TestSRGBPiecewiseThresholds(t *testing.T) {
	// Below the linear-segment threshold the encode is a pure scale
	if got := SRGBEncodeChannel(0.002); got != 0.002*12.92 {
		t.Errorf("linear segment: got %v", got)
	}
	if got := SRGBDecodeChannel(0.03); got != 0.03/12.92 {
		t.Errorf("linear segment decode: got %v", got)
	}
	// Above the threshold the power curve applies
	want := 1.055*float32(math.Pow(0.5, 1.0/2.4)) - 0.055
	if got := SRGBEncodeChannel(0.5); got != want {
		t.Errorf("power segment: got %v want %v", got, want)
	}
}

func TestReinhardInverseComposition(t *testing.T) {
	for _, v := range []float32{0, 0.1, 0.5, 1, 2, 10} {
		c := mgl32.Vec3{v, v, v}
		back := ReinhardInverse(Reinhard(c))
		for ch := 0; ch < 3; ch++ {
			if diff := math.Abs(float64(back[ch] - v)); diff > 1e-3*float64(v)+1e-5 {
				t.Errorf("reinhard inverse at %v: got %v", v, back[ch])
			}
		}
	}
}

func TestReinhardInverseFloor(t *testing.T) {
	// At c=1 the max(1-c, 0.001) floor engages instead of dividing by zero
	got := ReinhardInverse(mgl32.Vec3{1, 1, 1})
	want := float32(1.0 / 0.001)
	for ch := 0; ch < 3; ch++ {
		if got[ch] != want {
			t.Errorf("floor not applied: got %v want %v", got[ch], want)
		}
	}
}

func TestReinhardRange(t *testing.T) {
	// Reinhard maps [0, inf) into [0, 1)
	for _, v := range []float32{0, 1, 100, 10000} {
		got := Reinhard(mgl32.Vec3{v, v, v})
		if got.X() < 0 || got.X() >= 1 {
			t.Errorf("reinhard(%v) = %v out of [0,1)", v, got.X())
		}
	}
}
