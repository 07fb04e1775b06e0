package geometry

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Heightfield is a Perlin-displaced terrain surface,
// y = Base + Amplitude * noise(x*Scale, z*Scale), intersected by
// fixed-step ray marching with bisection refinement.
type Heightfield struct {
	Base      float32
	Amplitude float32
	Scale     float64
	Octaves   int
	Seed      int64
	Material  Material

	noise *perlin.Perlin
}

const (
	marchStep     = 0.1
	marchMaxDist  = 200.0
	refineRounds  = 10
	normalEpsilon = 0.05
)

func (h *Heightfield) prepare() {
	if h.noise != nil {
		return
	}
	octaves := h.Octaves
	if octaves <= 0 {
		octaves = 3
	}
	h.noise = perlin.NewPerlin(2, 2, int32(octaves), h.Seed)
}

// HeightAt returns the terrain height at a ground coordinate.
func (h *Heightfield) HeightAt(x, z float32) float32 {
	if h.Amplitude == 0 || h.noise == nil {
		return h.Base
	}
	return h.Base + h.Amplitude*float32(h.noise.Noise2D(float64(x)*h.Scale, float64(z)*h.Scale))
}

// Normal estimates the surface normal at a ground coordinate from
// central height differences.
func (h *Heightfield) Normal(x, z float32) mgl32.Vec3 {
	e := float32(normalEpsilon)
	dx := h.HeightAt(x-e, z) - h.HeightAt(x+e, z)
	dz := h.HeightAt(x, z-e) - h.HeightAt(x, z+e)
	return mgl32.Vec3{dx, 2 * e, dz}.Normalize()
}

// Intersect marches the ray until it crosses below the terrain, then
// bisects the last step for the crossing point. Rays starting below
// the surface miss.
func (h *Heightfield) Intersect(ray Ray) (bool, float32, mgl32.Vec3) {
	above := func(t float32) bool {
		p := ray.Origin.Add(ray.Direction.Mul(t))
		return p.Y() > h.HeightAt(p.X(), p.Z())
	}

	if !above(0) {
		return false, 0, mgl32.Vec3{}
	}

	prev := float32(0)
	for t := float32(marchStep); t < marchMaxDist; t += marchStep {
		if above(t) {
			prev = t
			continue
		}
		// Bisect [prev, t] down to the crossing.
		lo, hi := prev, t
		for i := 0; i < refineRounds; i++ {
			mid := (lo + hi) * 0.5
			if above(mid) {
				lo = mid
			} else {
				hi = mid
			}
		}
		tHit := (lo + hi) * 0.5
		return true, tHit, ray.Origin.Add(ray.Direction.Mul(tHit))
	}
	return false, 0, mgl32.Vec3{}
}
