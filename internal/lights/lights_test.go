package lights

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAttenuateFloorAtZeroDistance(t *testing.T) {
	color := mgl32.Vec3{0.5, 0.25, 1}
	got := Attenuate(color, Attenuation{Constant: 1}, 0.0)
	if got != color {
		t.Errorf("attenuate at zero distance: got %v, want %v", got, color)
	}

	// With tiny coefficients the floor still prevents amplification
	got = Attenuate(color, Attenuation{Constant: 0.001}, 0.0)
	if got != color {
		t.Errorf("floor not applied: got %v, want %v", got, color)
	}
}

func TestAttenuateLinearTerm(t *testing.T) {
	color := mgl32.Vec3{1, 1, 1}
	got := Attenuate(color, Attenuation{Constant: 1}, 100.0)
	// (1, 0, 0) coefficients at distance 100: still constant-only
	if got != color {
		t.Errorf("constant-only: got %v", got)
	}

	got = Attenuate(color, Attenuation{Linear: 1}, 100.0)
	want := float32(1.0 / 100.0)
	for ch := 0; ch < 3; ch++ {
		if diff := math.Abs(float64(got[ch] - want)); diff > 1e-6 {
			t.Errorf("linear term channel %d: got %v, want %v", ch, got[ch], want)
		}
	}
}

func TestAttenuateQuadraticTerm(t *testing.T) {
	got := Attenuate(mgl32.Vec3{1, 1, 1}, Attenuation{Quadratic: 1}, 10.0)
	want := float32(1.0 / 100.0)
	if diff := math.Abs(float64(got.X() - want)); diff > 1e-6 {
		t.Errorf("quadratic term: got %v, want %v", got.X(), want)
	}
}

func TestSpotFactorOutsideCone(t *testing.T) {
	// Cone half-angle 30°, test direction 40° off axis: exactly zero.
	spot := &Spot{
		Direction: mgl32.Vec3{0, 0, 1},
		CutoffCos: float32(math.Cos(30 * math.Pi / 180)),
	}
	a := 40 * math.Pi / 180
	dir := mgl32.Vec3{float32(math.Sin(a)), 0, float32(math.Cos(a))}
	if got := SpotFactor(dir, spot); got != 0.0 {
		t.Errorf("outside cone: got %v, want 0", got)
	}
}

func TestSpotFactorInsideCone(t *testing.T) {
	spot := &Spot{
		Direction: mgl32.Vec3{0, 0, 1},
		CutoffCos: float32(math.Cos(30 * math.Pi / 180)),
	}
	// On the axis: full contribution
	if got := SpotFactor(mgl32.Vec3{0, 0, 1}, spot); got != 1.0 {
		t.Errorf("on axis: got %v, want 1", got)
	}
	// Within the inner 3/4 of the cone (under 22.5°): no falloff yet
	a := 20 * math.Pi / 180
	dir := mgl32.Vec3{float32(math.Sin(a)), 0, float32(math.Cos(a))}
	if got := SpotFactor(dir, spot); got != 1.0 {
		t.Errorf("inner cone: got %v, want 1", got)
	}
	// In the falloff band the factor is strictly between 0 and 1
	a = 28 * math.Pi / 180
	dir = mgl32.Vec3{float32(math.Sin(a)), 0, float32(math.Cos(a))}
	got := SpotFactor(dir, spot)
	if got <= 0 || got >= 1 {
		t.Errorf("falloff band: got %v, want in (0,1)", got)
	}
}

func TestSpotFactorMonotoneInFalloffBand(t *testing.T) {
	spot := &Spot{
		Direction: mgl32.Vec3{0, 0, 1},
		CutoffCos: float32(math.Cos(45 * math.Pi / 180)),
	}
	prev := float32(2)
	for deg := 34; deg < 45; deg++ {
		a := float64(deg) * math.Pi / 180
		dir := mgl32.Vec3{float32(math.Sin(a)), 0, float32(math.Cos(a))}
		f := SpotFactor(dir, spot)
		if f > prev {
			t.Fatalf("falloff not monotone at %d°: %v > %v", deg, f, prev)
		}
		prev = f
	}
}

func TestSetCaps(t *testing.T) {
	s := NewSet(Ambient{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.2})

	for i := 0; i < MaxLights; i++ {
		if !s.AddDirectional(Directional{Intensity: float32(i)}) {
			t.Fatalf("light %d rejected below the cap", i)
		}
	}
	// The fifth light is dropped, deterministically
	if s.AddDirectional(Directional{Intensity: 99}) {
		t.Error("light beyond cap was accepted")
	}
	if len(s.Directional) != MaxLights {
		t.Fatalf("set size: got %d, want %d", len(s.Directional), MaxLights)
	}
	// The kept lights are the first MaxLights, in insertion order
	for i, l := range s.Directional {
		if l.Intensity != float32(i) {
			t.Errorf("light %d reordered: intensity %v", i, l.Intensity)
		}
	}

	s.Reset()
	if len(s.Directional) != 0 || len(s.Point) != 0 || len(s.Spot) != 0 {
		t.Error("reset should clear all non-ambient lights")
	}
	if s.Ambient.Intensity != 0.2 {
		t.Error("reset should keep the ambient term")
	}
}
