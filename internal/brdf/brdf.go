// Package brdf evaluates surface reflectance for the lighting pass:
// the metallic-roughness Cook-Torrance model with selectable normal
// distribution and geometry variants, and the legacy Phong model kept
// as a separate strategy.
//
// Variant selection happens once at pipeline construction. The
// per-pixel evaluation path holds resolved function values and carries
// no strategy branching.
package brdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NDF selects the microfacet normal distribution function.
type NDF int

const (
	NDFGGX NDF = iota
	NDFBeckmann
	NDFBlinn
)

// GeometryVariant selects the Smith-Schlick k remapping. The direct
// and IBL forms differ and must not be conflated.
type GeometryVariant int

const (
	GeometryDirect GeometryVariant = iota
	GeometryIBL
)

// FresnelAngle selects the cosine fed to the Schlick approximation:
// N·H for the microfacet variants, N·V for the Phong-style variant.
type FresnelAngle int

const (
	FresnelHalfVector FresnelAngle = iota
	FresnelView
)

const denomFloor = 0.001

// FresnelSchlick computes F0 + (1-F0)·(1-cosθ)^5 per channel.
func FresnelSchlick(cosTheta float32, f0 mgl32.Vec3) mgl32.Vec3 {
	if cosTheta < 0 {
		cosTheta = 0
	} else if cosTheta > 1 {
		cosTheta = 1
	}
	m := float32(math.Pow(float64(1-cosTheta), 5))
	one := mgl32.Vec3{1, 1, 1}
	return f0.Add(one.Sub(f0).Mul(m))
}

// DistributionGGX is the GGX/Trowbridge-Reitz NDF with α = roughness².
func DistributionGGX(ndoth, roughness float32) float32 {
	alpha := roughness * roughness
	a2 := alpha * alpha
	d := ndoth*ndoth*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// DistributionBeckmann is the Beckmann NDF, retained for
// compatibility with the older pipelines.
func DistributionBeckmann(ndoth, roughness float32) float32 {
	alpha := roughness * roughness
	a2 := alpha * alpha
	if ndoth <= 0 {
		return 0
	}
	nh2 := ndoth * ndoth
	return float32(math.Exp(float64((nh2-1)/(a2*nh2)))) / (math.Pi * a2 * nh2 * nh2)
}

// DistributionBlinn is the normalized Blinn-Phong NDF.
func DistributionBlinn(ndoth, roughness float32) float32 {
	alpha := roughness * roughness
	a2 := alpha * alpha
	if ndoth <= 0 {
		return 0
	}
	return float32(math.Pow(float64(ndoth), float64(2/a2-2))) / (math.Pi * a2)
}

// GeometryK returns the Schlick-GGX k term for the chosen variant,
// with α = roughness².
func GeometryK(roughness float32, variant GeometryVariant) float32 {
	alpha := roughness * roughness
	if variant == GeometryIBL {
		return alpha * alpha / 2
	}
	return (alpha + 1) * (alpha + 1) / 8
}

// GeometrySchlickGGX is the single-direction masking term
// G1(x) = x / (x(1-k) + k).
func GeometrySchlickGGX(ndotx, k float32) float32 {
	return ndotx / (ndotx*(1-k) + k)
}

// GeometrySmith combines the view and light masking terms.
func GeometrySmith(ndotv, ndotl, roughness float32, variant GeometryVariant) float32 {
	k := GeometryK(roughness, variant)
	return GeometrySchlickGGX(ndotv, k) * GeometrySchlickGGX(ndotl, k)
}

// CookTorrance is the metallic-roughness reflectance strategy. Build
// one per pipeline configuration with NewCookTorrance; it is immutable
// and safe for concurrent use.
type CookTorrance struct {
	distribution func(ndoth, roughness float32) float32
	geometry     GeometryVariant
	fresnelAngle FresnelAngle
}

// NewCookTorrance resolves the variant functions once.
func NewCookTorrance(ndf NDF, geometry GeometryVariant, fresnel FresnelAngle) *CookTorrance {
	ct := &CookTorrance{geometry: geometry, fresnelAngle: fresnel}
	switch ndf {
	case NDFBeckmann:
		ct.distribution = DistributionBeckmann
	case NDFBlinn:
		ct.distribution = DistributionBlinn
	default:
		ct.distribution = DistributionGGX
	}
	return ct
}

// Evaluate returns the outgoing radiance toward the eye for one light.
// n, v, l are unit vectors (normal, surface→eye, surface→light);
// radiance is the attenuated light color times intensity.
func (ct *CookTorrance) Evaluate(n, v, l, radiance, albedo mgl32.Vec3, metallic, roughness float32) mgl32.Vec3 {
	ndotl := n.Dot(l)
	if ndotl <= 0 {
		return mgl32.Vec3{}
	}
	h := v.Add(l).Normalize()
	ndotv := maxf(n.Dot(v), denomFloor)
	ndoth := maxf(n.Dot(h), 0)

	f0 := mgl32.Vec3{0.04, 0.04, 0.04}
	f0 = f0.Add(albedo.Sub(f0).Mul(metallic))

	cosF := ndoth
	if ct.fresnelAngle == FresnelView {
		cosF = ndotv
	}
	fresnel := FresnelSchlick(cosF, f0)

	d := ct.distribution(ndoth, roughness)
	g := GeometrySmith(ndotv, maxf(ndotl, denomFloor), roughness, ct.geometry)

	specScale := d * g / (4 * ndotv * maxf(ndotl, denomFloor))
	specular := fresnel.Mul(specScale)

	// Energy split: whatever is not reflected specularly diffuses,
	// scaled down to zero for metals.
	kd := mgl32.Vec3{1, 1, 1}.Sub(fresnel)
	diffuse := mgl32.Vec3{
		kd.X() * albedo.X(),
		kd.Y() * albedo.Y(),
		kd.Z() * albedo.Z(),
	}.Mul((1 - metallic) / math.Pi)

	out := diffuse.Add(specular)
	return mgl32.Vec3{
		out.X() * radiance.X(),
		out.Y() * radiance.Y(),
		out.Z() * radiance.Z(),
	}.Mul(ndotl)
}

// Phong is the legacy diffuse/specular-intensity strategy. It is a
// materially different reflectance model, kept separate from the
// metallic-roughness path rather than expressed as a degenerate case.
type Phong struct{}

// Evaluate returns the legacy reflectance: Lambert diffuse scaled by
// the diffuse intensity plus a reflect-vector specular lobe, with no
// Fresnel mixing.
func (Phong) Evaluate(n, v, l, radiance, diffuseColor mgl32.Vec3, diffuseIntensity, specularIntensity, specularPower float32) mgl32.Vec3 {
	ndotl := maxf(n.Dot(l), 0)

	diffuse := diffuseColor.Mul(diffuseIntensity * ndotl)

	spec := float32(0)
	if specularIntensity > 0 && specularPower > 0 {
		r := reflect(l.Mul(-1), n)
		vdotr := maxf(v.Dot(r), 0)
		spec = float32(math.Pow(float64(vdotr), float64(specularPower))) * specularIntensity
	}

	out := diffuse.Add(mgl32.Vec3{spec, spec, spec})
	return mgl32.Vec3{
		out.X() * radiance.X(),
		out.Y() * radiance.Y(),
		out.Z() * radiance.Z(),
	}
}

// reflect mirrors the incident vector i about the normal n.
func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
