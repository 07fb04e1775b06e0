// Package shadow implements shadow-map depth storage and the
// percentage-closer-filtered visibility test used by the lighting
// pass, including cube-face selection for omnidirectional point-light
// shadows.
package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DepthBias offsets the receiver depth to avoid self-shadowing acne.
const DepthBias = 0.005

// DisabledMarker: a light-space transform whose bottom-right element is
// below this value signals "shadowing disabled for this light". The
// decision is made once per light, never per sample.
const DisabledMarker = 0.1

// pcfOffsets is the fixed Poisson-disk kernel, scaled by pcfSpread.
// Deliberately small and never re-seeded: shadows must be reproducible
// across frames.
var pcfOffsets = [4]mgl32.Vec2{
	{-0.942, -0.399},
	{0.946, -0.769},
	{-0.094, -0.929},
	{0.345, 0.294},
}

const pcfSpread = 0.001

// DepthMap is a square depth texture rendered from a light's point of
// view. Depths are stored in [0,1], measured from the light.
type DepthMap struct {
	Size  int
	Depth []float32
}

// NewDepthMap allocates a size×size map cleared to the far plane.
func NewDepthMap(size int) *DepthMap {
	m := &DepthMap{Size: size, Depth: make([]float32, size*size)}
	m.Clear()
	return m
}

// Clear resets every texel to the far plane (nothing occludes).
func (m *DepthMap) Clear() {
	for i := range m.Depth {
		m.Depth[i] = 1.0
	}
}

// Sample returns the stored closest depth at UV coordinates in [0,1]².
func (m *DepthMap) Sample(u, v float32) float32 {
	x := int(u * float32(m.Size))
	y := int(v * float32(m.Size))
	if x < 0 {
		x = 0
	} else if x >= m.Size {
		x = m.Size - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.Size {
		y = m.Size - 1
	}
	return m.Depth[y*m.Size+x]
}

// Write stores a depth value at texel (x, y), keeping the closest.
func (m *DepthMap) Write(x, y int, depth float32) {
	if x < 0 || x >= m.Size || y < 0 || y >= m.Size {
		return
	}
	idx := y*m.Size + x
	if depth < m.Depth[idx] {
		m.Depth[idx] = depth
	}
}

// Descriptor ties a light-space transform to its depth map for
// directional and spot lights.
type Descriptor struct {
	Transform mgl32.Mat4 // world → light clip space
	Map       *DepthMap
}

// Enabled reports whether the transform carries the degenerate
// disabled marker. A disabled descriptor short-circuits to fully lit.
func (d *Descriptor) Enabled() bool {
	if d == nil || d.Map == nil {
		return false
	}
	return d.Transform.At(3, 3) >= DisabledMarker
}

// CubeDescriptor holds the six face transforms and depth maps for
// omnidirectional point-light shadows. Face order: +X, -X, +Y, -Y,
// +Z, -Z.
type CubeDescriptor struct {
	Transforms [6]mgl32.Mat4
	Maps       [6]*DepthMap
}

// Visibility evaluates one shadow tap. shadowCoord is the surface
// position transformed into light clip space; offset displaces the
// projected UV. Samples outside [0,1]² are fully lit (fail-open).
func Visibility(m *DepthMap, shadowCoord mgl32.Vec4, offset mgl32.Vec2) float32 {
	w := shadowCoord.W()
	if w <= 0 {
		return 1.0
	}
	u := shadowCoord.X()/w*0.5 + 0.5 + offset.X()
	v := shadowCoord.Y()/w*0.5 + 0.5 + offset.Y()
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 1.0
	}
	receiver := (shadowCoord.Z() - DepthBias) / w
	if m.Sample(u, v) > receiver {
		return 1.0
	}
	return 0.0
}

// Factor computes the PCF shadow factor in [0,1] for a world-space
// position against a directional/spot descriptor: the average of the
// four Poisson taps. A disabled descriptor returns fully lit.
func Factor(d *Descriptor, worldPos mgl32.Vec3) float32 {
	if !d.Enabled() {
		return 1.0
	}
	coord := d.Transform.Mul4x1(worldPos.Vec4(1))
	sum := float32(0)
	for _, off := range pcfOffsets {
		sum += Visibility(d.Map, coord, off.Mul(pcfSpread))
	}
	return sum / float32(len(pcfOffsets))
}

// SelectCubeFace picks the cube face index for a surface-to-light
// direction by dominant axis and sign. Face order matches
// CubeDescriptor.
func SelectCubeFace(surfaceToLight mgl32.Vec3) int {
	ax := float32(math.Abs(float64(surfaceToLight.X())))
	ay := float32(math.Abs(float64(surfaceToLight.Y())))
	az := float32(math.Abs(float64(surfaceToLight.Z())))

	switch {
	case ax >= ay && ax >= az:
		if surfaceToLight.X() >= 0 {
			return 0
		}
		return 1
	case ay >= az:
		if surfaceToLight.Y() >= 0 {
			return 2
		}
		return 3
	default:
		if surfaceToLight.Z() >= 0 {
			return 4
		}
		return 5
	}
}

// CubeFactor computes the PCF shadow factor for a point light: the
// face is selected from the surface-to-light direction, then the
// selected transform is used exactly like the directional test.
func CubeFactor(d *CubeDescriptor, worldPos, lightPos mgl32.Vec3) float32 {
	if d == nil {
		return 1.0
	}
	face := SelectCubeFace(lightPos.Sub(worldPos))
	if d.Maps[face] == nil {
		return 1.0
	}
	desc := Descriptor{Transform: d.Transforms[face], Map: d.Maps[face]}
	return Factor(&desc, worldPos)
}
