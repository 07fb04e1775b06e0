// Package lights defines the typed light descriptors consumed by the
// lighting pass, plus the attenuation and spot-cone falloff math.
//
// Directional and spot directions follow one convention everywhere:
// the unit vector points from the lit surface toward the light.
package lights

import (
	"math"

	"Lumen3D/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights caps each of the directional, point, and spot sets per
// frame. Exactly one ambient term is active in addition.
const MaxLights = 4

// Ambient is the single non-directional base term.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Directional is an infinitely distant light.
type Directional struct {
	Color     mgl32.Vec3
	Intensity float32
	Direction mgl32.Vec3 // unit, surface → light
	Shadow    *shadow.Descriptor
}

// Attenuation holds the constant/linear/quadratic distance falloff
// coefficients.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// Point is a positional light with distance attenuation.
type Point struct {
	Color       mgl32.Vec3
	Intensity   float32
	Position    mgl32.Vec3
	Attenuation Attenuation
	Shadow      *shadow.CubeDescriptor
}

// Spot is a point light restricted to a cone.
type Spot struct {
	Color       mgl32.Vec3
	Intensity   float32
	Position    mgl32.Vec3
	Attenuation Attenuation
	Direction   mgl32.Vec3 // unit, surface → light (cone axis)
	CutoffCos   float32    // cos of the cone half-angle
	Shadow      *shadow.Descriptor
}

// Attenuate scales a light color by the inverse distance falloff. The
// max(1, …) floor is deliberate: radiance never amplifies as distance
// approaches zero, and the division never blows up.
func Attenuate(color mgl32.Vec3, a Attenuation, distance float32) mgl32.Vec3 {
	denom := a.Constant + a.Linear*distance + a.Quadratic*distance*distance
	if denom < 1.0 {
		denom = 1.0
	}
	return color.Mul(1.0 / denom)
}

// SpotFactor returns the cone falloff in [0,1] for a unit
// surface-to-light vector. Outside the cone the factor is exactly
// zero; inside, an angle-domain smoothstep fades the outer quarter of
// the cone for continuity at grazing angles.
func SpotFactor(surfaceToLight mgl32.Vec3, s *Spot) float32 {
	cosAngle := surfaceToLight.Dot(s.Direction)
	if cosAngle <= s.CutoffCos {
		return 0.0
	}
	cutoffAngle := float32(math.Acos(float64(clampUnit(s.CutoffCos))))
	angle := float32(math.Acos(float64(clampUnit(cosAngle))))
	return 1.0 - smoothstep(0.75*cutoffAngle, cutoffAngle, angle)
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func clampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
