package geometry

import (
	"Lumen3D/internal/renderer"
	"Lumen3D/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

// depthRemap maps NDC z from [-1,1] into [0,1] so the values written
// into a depth map line up with the receiver depth the evaluator
// computes from the same transform.
var depthRemap = mgl32.Translate3D(0, 0, 0.5).Mul4(mgl32.Scale3D(1, 1, 0.5))

// DirectionalLightTransform builds a world-to-light-clip matrix for a
// directional light: an orthographic box of the given extent centered
// on center, looking along dir.
func DirectionalLightTransform(center, dir mgl32.Vec3, extent, depthRange float32) mgl32.Mat4 {
	eye := center.Sub(dir.Normalize().Mul(depthRange * 0.5))
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Normalize().Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, center, up)
	proj := mgl32.Ortho(-extent, extent, -extent, extent, 0.01, depthRange)
	return depthRemap.Mul4(proj).Mul4(view)
}

// SpotLightTransform builds a world-to-light-clip matrix for a spot
// light with the given full field of view in degrees.
func SpotLightTransform(position, dir mgl32.Vec3, fovDegrees, near, far float32) mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Normalize().Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(position, position.Add(dir), up)
	proj := mgl32.Perspective(mgl32.DegToRad(fovDegrees), 1, near, far)
	return depthRemap.Mul4(proj).Mul4(view)
}

// Face i covers surfaces whose surface-to-light vector is dominated by
// the i-th axis direction (+X,-X,+Y,-Y,+Z,-Z), so each face transform
// looks along the opposite direction, from the light toward those
// surfaces.
var cubeViewDirs = [6]mgl32.Vec3{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

var cubeViewUps = [6]mgl32.Vec3{
	{0, -1, 0}, {0, -1, 0},
	{0, 0, -1}, {0, 0, 1},
	{0, -1, 0}, {0, -1, 0},
}

// CubeLightTransforms builds the six 90° face transforms for an
// omnidirectional point light, ordered to match the evaluator's
// surface-to-light face selection.
func CubeLightTransforms(position mgl32.Vec3, near, far float32) [6]mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	var out [6]mgl32.Mat4
	for i := 0; i < 6; i++ {
		view := mgl32.LookAtV(position, position.Add(cubeViewDirs[i]), cubeViewUps[i])
		out[i] = depthRemap.Mul4(proj).Mul4(view)
	}
	return out
}

// RenderDepth rasterizes the scene's closest depth from a light's
// point of view into the depth map. The map is cleared first.
func (sc *Scene) RenderDepth(transform mgl32.Mat4, m *shadow.DepthMap) {
	sc.prepareNoise()
	m.Clear()
	inv := transform.Inv()

	for y := 0; y < m.Size; y++ {
		v := 1 - (float32(y)+0.5)/float32(m.Size)
		for x := 0; x < m.Size; x++ {
			u := (float32(x) + 0.5) / float32(m.Size)

			near := renderer.UnprojectNDC(inv, mgl32.Vec3{u*2 - 1, v*2 - 1, 0})
			far := renderer.UnprojectNDC(inv, mgl32.Vec3{u*2 - 1, v*2 - 1, 1})
			ray := Ray{Origin: near, Direction: far.Sub(near).Normalize()}

			h, ok := sc.Trace(ray)
			if !ok {
				continue
			}
			clip := transform.Mul4x1(h.Position.Vec4(1))
			if clip.W() <= 0 {
				continue
			}
			m.Write(x, y, clip.Z()/clip.W())
		}
	}
}

// RenderCubeDepth fills all six faces of a cube shadow descriptor.
func (sc *Scene) RenderCubeDepth(transforms [6]mgl32.Mat4, maps *[6]*shadow.DepthMap) {
	for i := 0; i < 6; i++ {
		if maps[i] == nil {
			continue
		}
		sc.RenderDepth(transforms[i], maps[i])
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
