// Package geometry is a CPU stand-in for the engine's geometry pass:
// it ray-casts an analytic scene (spheres, a ground plane with Perlin
// surface detail, and an optional Perlin heightfield) and writes
// surface attributes plus depth into the deferred surface buffer. The
// lighting pass itself never depends on this package; demos, tests,
// and the shadow pre-pass do.
package geometry

import (
	"math"

	"Lumen3D/internal/gbuffer"
	"Lumen3D/internal/renderer"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Material describes surface appearance for both codecs: the
// metallic-roughness fields feed the PBR packing, the specular fields
// feed the legacy packing.
type Material struct {
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	Emissive  mgl32.Vec3
	Alpha     float32

	// Legacy-path parameters
	SpecularIntensity float32
	SpecularPower     float32
}

// Sphere is an analytic sphere primitive.
type Sphere struct {
	Center   mgl32.Vec3
	Radius   float32
	Material Material
}

// GroundPlane is a horizontal plane at a fixed height. When Noise is
// set, Perlin noise modulates roughness and ambient occlusion for
// surface detail.
type GroundPlane struct {
	Height   float32
	Material Material
	Noise    *NoiseSettings
}

// NoiseSettings controls the Perlin modulation of the ground material.
type NoiseSettings struct {
	Scale     float64 // world units → noise domain
	Octaves   int
	Intensity float32 // blend factor for the modulation
	Seed      int64
}

// Ray represents a ray in 3D space.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Scene is the analytic scene fed to Render.
type Scene struct {
	Spheres []Sphere
	Ground  *GroundPlane
	Terrain *Heightfield

	noise *perlin.Perlin
}

// Hit describes the closest intersection found by Trace.
type Hit struct {
	T        float32
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Material Material
	Ground   bool
}

// RayIntersectSphere tests if a ray intersects a sphere, returning the
// closest positive distance and intersection point.
func RayIntersectSphere(ray Ray, center mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false, 0, mgl32.Vec3{}
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	var t float32
	switch {
	case t1 > 0 && t2 > 0:
		t = t1
		if t2 < t1 {
			t = t2
		}
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return false, 0, mgl32.Vec3{}
	}

	return true, t, ray.Origin.Add(ray.Direction.Mul(t))
}

// RayIntersectPlane tests a ray against the horizontal plane y=height.
func RayIntersectPlane(ray Ray, height float32) (bool, float32, mgl32.Vec3) {
	if math.Abs(float64(ray.Direction.Y())) < 1e-7 {
		return false, 0, mgl32.Vec3{}
	}
	t := (height - ray.Origin.Y()) / ray.Direction.Y()
	if t <= 0 {
		return false, 0, mgl32.Vec3{}
	}
	return true, t, ray.Origin.Add(ray.Direction.Mul(t))
}

// Trace returns the closest intersection along the ray, if any.
func (sc *Scene) Trace(ray Ray) (Hit, bool) {
	best := Hit{T: float32(math.Inf(1))}
	found := false

	for i := range sc.Spheres {
		s := &sc.Spheres[i]
		if ok, t, p := RayIntersectSphere(ray, s.Center, s.Radius); ok && t < best.T {
			best = Hit{
				T:        t,
				Position: p,
				Normal:   p.Sub(s.Center).Mul(1 / s.Radius),
				Material: s.Material,
			}
			found = true
		}
	}
	if sc.Ground != nil {
		if ok, t, p := RayIntersectPlane(ray, sc.Ground.Height); ok && t < best.T {
			best = Hit{
				T:        t,
				Position: p,
				Normal:   mgl32.Vec3{0, 1, 0},
				Material: sc.Ground.Material,
				Ground:   true,
			}
			found = true
		}
	}
	if sc.Terrain != nil {
		if ok, t, p := sc.Terrain.Intersect(ray); ok && t < best.T {
			best = Hit{
				T:        t,
				Position: p,
				Normal:   sc.Terrain.Normal(p.X(), p.Z()),
				Material: sc.Terrain.Material,
			}
			found = true
		}
	}
	return best, found
}

// Render ray-casts the scene through the camera and fills the surface
// buffer with the chosen encoding. The buffer is cleared first.
func (sc *Scene) Render(buf *gbuffer.Buffer, view renderer.View, encoding gbuffer.Encoding) {
	sc.prepareNoise()
	buf.Clear()

	for y := 0; y < buf.Height; y++ {
		v := 1 - (float32(y)+0.5)/float32(buf.Height)
		for x := 0; x < buf.Width; x++ {
			u := (float32(x) + 0.5) / float32(buf.Width)
			ray := cameraRay(view, u, v)

			h, ok := sc.Trace(ray)
			if !ok {
				continue
			}

			depth := clipDepth(view.ViewProjection, h.Position)
			if depth < 0 || depth >= gbuffer.DepthSentinel {
				continue
			}

			mat := h.Material
			occlusion := float32(1)
			if h.Ground && sc.Ground.Noise != nil {
				mat, occlusion = sc.modulateGround(mat, h.Position)
			}

			if encoding == gbuffer.EncodingLegacy {
				buf.SetLegacy(x, y, gbuffer.LegacySurfaceSample{
					Normal:            h.Normal,
					Diffuse:           mat.Albedo,
					Alpha:             mat.Alpha,
					SpecularIntensity: mat.SpecularIntensity,
					SpecularPower:     mat.SpecularPower,
					Emissive:          mat.Emissive,
				}, depth)
				continue
			}
			buf.Set(x, y, gbuffer.SurfaceSample{
				Normal:    h.Normal,
				Albedo:    mat.Albedo,
				Alpha:     mat.Alpha,
				Metallic:  mat.Metallic,
				Roughness: mat.Roughness,
				Occlusion: occlusion,
				Emissive:  mat.Emissive,
			}, depth)
		}
	}
}

func (sc *Scene) prepareNoise() {
	if sc.Terrain != nil {
		sc.Terrain.prepare()
	}
	if sc.Ground == nil || sc.Ground.Noise == nil || sc.noise != nil {
		return
	}
	n := sc.Ground.Noise
	octaves := n.Octaves
	if octaves <= 0 {
		octaves = 3
	}
	sc.noise = perlin.NewPerlin(2, 2, int32(octaves), n.Seed)
}

// modulateGround applies Perlin surface detail to the ground material.
func (sc *Scene) modulateGround(mat Material, pos mgl32.Vec3) (Material, float32) {
	n := sc.Ground.Noise
	sample := float32(sc.noise.Noise2D(float64(pos.X())*n.Scale, float64(pos.Z())*n.Scale))

	mat.Roughness = clamp01(mat.Roughness + sample*n.Intensity)
	occlusion := clamp01(1 - float32(math.Abs(float64(sample)))*n.Intensity)
	return mat, occlusion
}

// cameraRay builds the world-space ray through UV coordinates in
// [0,1]² by unprojecting the near and far NDC points.
func cameraRay(view renderer.View, u, v float32) Ray {
	near := renderer.UnprojectNDC(view.ViewProjectionInverse, mgl32.Vec3{u*2 - 1, v*2 - 1, -1})
	far := renderer.UnprojectNDC(view.ViewProjectionInverse, mgl32.Vec3{u*2 - 1, v*2 - 1, 1})
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// clipDepth projects a world position and maps its NDC depth to [0,1].
func clipDepth(vp mgl32.Mat4, pos mgl32.Vec3) float32 {
	clip := vp.Mul4x1(pos.Vec4(1))
	if clip.W() <= 0 {
		return 1
	}
	return clip.Z()/clip.W()*0.5 + 0.5
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
