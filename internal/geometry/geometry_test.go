package geometry

import (
	"math"
	"testing"

	"Lumen3D/internal/gbuffer"
	"Lumen3D/internal/renderer"
	"Lumen3D/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRayIntersectSphereHeadOn(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	ok, dist, point := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 0}, 1)
	if !ok {
		t.Fatal("Expected ray to intersect sphere")
	}
	if math.Abs(float64(dist-9)) > 1e-4 {
		t.Errorf("Expected hit distance 9, got %v", dist)
	}
	if math.Abs(float64(point.Z()-1)) > 1e-4 {
		t.Errorf("Expected hit point z=1, got %v", point.Z())
	}
}

func TestRayIntersectSphereMiss(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 5, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	if ok, _, _ := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 0}, 1); ok {
		t.Error("Expected ray to miss sphere")
	}
}

func TestRayIntersectSphereBehindOrigin(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, 1}}
	if ok, _, _ := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 0}, 1); ok {
		t.Error("Sphere behind the ray origin should not register a hit")
	}
}

func TestRayIntersectPlane(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	ok, dist, point := RayIntersectPlane(ray, 0)
	if !ok {
		t.Fatal("Expected ray to hit the plane")
	}
	if math.Abs(float64(dist-5)) > 1e-4 {
		t.Errorf("Expected hit distance 5, got %v", dist)
	}
	if point.Y() != 0 {
		t.Errorf("Expected hit point on the plane, got y=%v", point.Y())
	}

	parallel := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	if ok, _, _ := RayIntersectPlane(parallel, 0); ok {
		t.Error("Parallel ray should not hit the plane")
	}

	away := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if ok, _, _ := RayIntersectPlane(away, 0); ok {
		t.Error("Ray pointing away should not hit the plane")
	}
}

func TestTracePicksClosest(t *testing.T) {
	scene := &Scene{
		Spheres: []Sphere{{Center: mgl32.Vec3{0, 1, 0}, Radius: 1}},
		Ground:  &GroundPlane{Height: 0},
	}
	// Straight down through the sphere: the sphere top is closer than
	// the ground.
	h, ok := scene.Trace(Ray{Origin: mgl32.Vec3{0, 10, 0}, Direction: mgl32.Vec3{0, -1, 0}})
	if !ok {
		t.Fatal("Expected a hit")
	}
	if h.Ground {
		t.Error("Expected the sphere to occlude the ground")
	}
	if math.Abs(float64(h.Position.Y()-2)) > 1e-4 {
		t.Errorf("Expected hit at the sphere top y=2, got %v", h.Position.Y())
	}
	if h.Normal.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-4 {
		t.Errorf("Expected upward normal at the sphere top, got %v", h.Normal)
	}
}

func testScene() *Scene {
	return &Scene{
		Spheres: []Sphere{{
			Center: mgl32.Vec3{0, 1, 0},
			Radius: 1,
			Material: Material{
				Albedo:    mgl32.Vec3{0.8, 0.2, 0.2},
				Roughness: 0.5,
				Alpha:     1,
			},
		}},
		Ground: &GroundPlane{
			Height:   0,
			Material: Material{Albedo: mgl32.Vec3{0.4, 0.4, 0.4}, Roughness: 0.9, Alpha: 1},
		},
	}
}

func testView() renderer.View {
	cam := renderer.NewDefaultCamera(64, 64)
	cam.Position = mgl32.Vec3{0, 1, 8}
	cam.LookAt(mgl32.Vec3{0, 1, 0})
	return cam.GetView()
}

func TestRenderWritesSurfaceAndBackground(t *testing.T) {
	buf := gbuffer.NewBuffer(64, 64)
	view := testView()
	testScene().Render(buf, view, gbuffer.EncodingPBR)

	// Center pixel sees the sphere head on.
	cx, cy := 32, 32
	if buf.IsBackground(cx, cy) {
		t.Fatal("Center pixel should hit the sphere")
	}
	sample := buf.At(cx, cy)
	if sample.Albedo.Sub(mgl32.Vec3{0.8, 0.2, 0.2}).Len() > 0.01 {
		t.Errorf("Expected the sphere albedo at the center, got %v", sample.Albedo)
	}
	// The facing normal points back at the camera, +Z here.
	if sample.Normal.Z() < 0.9 {
		t.Errorf("Expected a camera-facing normal, got %v", sample.Normal)
	}

	// Top corner sees neither the sphere nor the ground.
	if !buf.IsBackground(0, 0) {
		t.Error("Sky pixel should stay at the background sentinel")
	}
}

func TestRenderDepthRoundTrip(t *testing.T) {
	buf := gbuffer.NewBuffer(64, 64)
	view := testView()
	scene := testScene()
	scene.Render(buf, view, gbuffer.EncodingPBR)

	cx, cy := 32, 32
	u := (float32(cx) + 0.5) / 64
	v := 1 - (float32(cy)+0.5)/64
	pos := renderer.ReconstructPosition(view.ViewProjectionInverse, u, v, buf.DepthAt(cx, cy))

	h, ok := scene.Trace(cameraRay(view, u, v))
	if !ok {
		t.Fatal("Expected the center ray to hit")
	}
	if pos.Sub(h.Position).Len() > 0.01 {
		t.Errorf("Reconstructed position %v differs from traced hit %v", pos, h.Position)
	}
}

func TestRenderLegacyEncoding(t *testing.T) {
	scene := testScene()
	scene.Spheres[0].Material.SpecularIntensity = 0.5
	scene.Spheres[0].Material.SpecularPower = 16

	buf := gbuffer.NewBuffer(64, 64)
	scene.Render(buf, testView(), gbuffer.EncodingLegacy)

	sample := buf.AtLegacy(32, 32)
	if sample.Diffuse.Sub(mgl32.Vec3{0.8, 0.2, 0.2}).Len() > 0.01 {
		t.Errorf("Expected the sphere diffuse color, got %v", sample.Diffuse)
	}
	if sample.SpecularPower != 16 {
		t.Errorf("Expected specular power 16, got %v", sample.SpecularPower)
	}
}

func TestGroundNoiseModulation(t *testing.T) {
	scene := testScene()
	scene.Ground.Noise = &NoiseSettings{Scale: 0.7, Octaves: 3, Intensity: 0.4, Seed: 7}
	scene.prepareNoise()

	varied := false
	var first float32
	for i := 0; i < 16; i++ {
		pos := mgl32.Vec3{float32(i) * 1.3, 0, float32(i) * 2.1}
		mat, occ := scene.modulateGround(scene.Ground.Material, pos)
		if mat.Roughness < 0 || mat.Roughness > 1 {
			t.Fatalf("Roughness out of range at %v: %v", pos, mat.Roughness)
		}
		if occ < 0 || occ > 1 {
			t.Fatalf("Occlusion out of range at %v: %v", pos, occ)
		}
		if i == 0 {
			first = mat.Roughness
		} else if mat.Roughness != first {
			varied = true
		}
	}
	if !varied {
		t.Error("Expected the noise to vary roughness across positions")
	}
}

func TestDirectionalShadowPrePass(t *testing.T) {
	// A sphere floating above the ground, lit straight from above.
	scene := &Scene{
		Spheres: []Sphere{{Center: mgl32.Vec3{0, 3, 0}, Radius: 1}},
		Ground:  &GroundPlane{Height: 0},
	}
	lightDir := mgl32.Vec3{0, -1, 0}
	transform := DirectionalLightTransform(mgl32.Vec3{0, 0, 0}, lightDir, 5, 20)

	m := shadow.NewDepthMap(128)
	scene.RenderDepth(transform, m)
	desc := &shadow.Descriptor{Transform: transform, Map: m}

	// A point on the ground directly below the sphere is occluded.
	if got := shadow.Factor(desc, mgl32.Vec3{0, 0, 0}); got != 0 {
		t.Errorf("Expected the point under the sphere to be shadowed, got %v", got)
	}
	// A point well off to the side is lit.
	if got := shadow.Factor(desc, mgl32.Vec3{3, 0, 0}); got != 1 {
		t.Errorf("Expected the offset point to be lit, got %v", got)
	}
}

func TestCubeLightTransformsMatchFaceSelection(t *testing.T) {
	lightPos := mgl32.Vec3{0, 0, 0}
	transforms := CubeLightTransforms(lightPos, 0.1, 50)

	// Each on-axis surface point must land on the center of the face
	// the evaluator selects for it.
	surfaces := [6]mgl32.Vec3{
		{5, 0, 0}, {-5, 0, 0},
		{0, 5, 0}, {0, -5, 0},
		{0, 0, 5}, {0, 0, -5},
	}
	for _, surface := range surfaces {
		face := shadow.SelectCubeFace(lightPos.Sub(surface))
		clip := transforms[face].Mul4x1(surface.Vec4(1))
		if clip.W() <= 0 {
			t.Errorf("Surface %v: behind the projection of its selected face %d", surface, face)
			continue
		}
		u := clip.X()/clip.W()*0.5 + 0.5
		v := clip.Y()/clip.W()*0.5 + 0.5
		if u < 0.45 || u > 0.55 || v < 0.45 || v > 0.55 {
			t.Errorf("Surface %v: expected the center of face %d, got (%v, %v)", surface, face, u, v)
		}
	}
}

func TestCubeShadowPrePass(t *testing.T) {
	// Light inside a scene with one sphere along +X.
	scene := &Scene{
		Spheres: []Sphere{{Center: mgl32.Vec3{3, 0, 0}, Radius: 1}},
	}
	lightPos := mgl32.Vec3{0, 0, 0}
	transforms := CubeLightTransforms(lightPos, 0.1, 50)

	var maps [6]*shadow.DepthMap
	for i := range maps {
		maps[i] = shadow.NewDepthMap(128)
	}
	scene.RenderCubeDepth(transforms, &maps)

	cube := &shadow.CubeDescriptor{Transforms: transforms, Maps: maps}

	// A point behind the sphere along +X is shadowed; a point along -X
	// is lit.
	shadowed := shadow.CubeFactor(cube, mgl32.Vec3{6, 0, 0}, lightPos)
	if shadowed > 0.25 {
		t.Errorf("Expected the point behind the sphere to be mostly shadowed, got %v", shadowed)
	}
	lit := shadow.CubeFactor(cube, mgl32.Vec3{-6, 0, 0}, lightPos)
	if lit != 1 {
		t.Errorf("Expected the unoccluded point to be fully lit, got %v", lit)
	}
}
