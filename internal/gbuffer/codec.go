package gbuffer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Layer-1 blue channel, PBR packing (one byte stored as byte/255):
//
//	bit 7    : normal.z sign (1 = negative)
//	bits 0-6 : occlusion quantized to 0..127
//
// Legacy packing of the same byte:
//
//	bits 4-7 : floor(specular_power / 2), clamped to 0..15
//	bits 0-3 : specular_intensity quantized to 0..15

// PackSignOcclusion packs the normal.z sign bit and quantized
// occlusion into a single [0,1] channel value.
func PackSignOcclusion(zNegative bool, occlusion float32) float32 {
	q := uint8(math.Round(float64(clamp01(occlusion)) * 127))
	if zNegative {
		q |= 0x80
	}
	return float32(q) / 255
}

// UnpackSignOcclusion recovers the sign bit and occlusion. The sign is
// exact; occlusion round-trips within 1/127.
func UnpackSignOcclusion(v float32) (zNegative bool, occlusion float32) {
	q := uint8(math.Round(float64(v) * 255))
	return q&0x80 != 0, float32(q&0x7F) / 127
}

// PackSpecular packs the legacy specular intensity and power into one
// [0,1] channel value. Power beyond 30 saturates the upper nibble.
func PackSpecular(intensity, power float32) float32 {
	if power < 0 {
		power = 0
	}
	pw := uint8(power / 2)
	if power >= 30 {
		pw = 15
	}
	in := uint8(math.Round(float64(clamp01(intensity)) * 15))
	return float32(pw<<4|in) / 255
}

// UnpackSpecular recovers the legacy specular intensity and power.
func UnpackSpecular(v float32) (intensity, power float32) {
	q := uint8(math.Round(float64(v) * 255))
	return float32(q&0x0F) / 15, float32(q>>4) * 2
}

// EncodeSample encodes a surface sample into the three PBR layer
// texels. Normal must be unit length.
func EncodeSample(s SurfaceSample) (l0, l1, l2 [4]float32) {
	l0 = [4]float32{s.Albedo.X(), s.Albedo.Y(), s.Albedo.Z(), s.Metallic}
	l1 = [4]float32{
		s.Normal.X(),
		s.Normal.Y(),
		PackSignOcclusion(s.Normal.Z() < 0, s.Occlusion),
		s.Roughness,
	}
	l2 = [4]float32{s.Emissive.X(), s.Emissive.Y(), s.Emissive.Z(), s.Alpha}
	return
}

// DecodeSample decodes the PBR layer texels back into a surface
// sample. Out-of-range metallic/roughness/occlusion values are clamped
// to [0,1], never rejected. Normal.z magnitude is reconstructed from
// xy; its sign comes from the stored bit and is exact.
func DecodeSample(l0, l1, l2 [4]float32) SurfaceSample {
	nx, ny := l1[0], l1[1]
	zNeg, occlusion := UnpackSignOcclusion(l1[2])
	nz := float32(math.Sqrt(math.Max(0, float64(1-nx*nx-ny*ny))))
	if zNeg {
		nz = -nz
	}
	return SurfaceSample{
		Normal:    mgl32.Vec3{nx, ny, nz},
		Albedo:    mgl32.Vec3{l0[0], l0[1], l0[2]},
		Alpha:     l2[3],
		Metallic:  clamp01(l0[3]),
		Roughness: clamp01(l1[3]),
		Occlusion: clamp01(occlusion),
		Emissive:  mgl32.Vec3{l2[0], l2[1], l2[2]},
	}
}

// EncodeLegacySample encodes a legacy sample. The layer-1 byte holds
// the specular nibbles instead of sign+occlusion, so the legacy scheme
// assumes normals face the viewer (normal.z >= 0).
func EncodeLegacySample(s LegacySurfaceSample) (l0, l1, l2 [4]float32) {
	l0 = [4]float32{s.Diffuse.X(), s.Diffuse.Y(), s.Diffuse.Z(), 0}
	l1 = [4]float32{
		s.Normal.X(),
		s.Normal.Y(),
		PackSpecular(s.SpecularIntensity, s.SpecularPower),
		0,
	}
	l2 = [4]float32{s.Emissive.X(), s.Emissive.Y(), s.Emissive.Z(), s.Alpha}
	return
}

// DecodeLegacySample decodes the legacy layer texels.
func DecodeLegacySample(l0, l1, l2 [4]float32) LegacySurfaceSample {
	nx, ny := l1[0], l1[1]
	intensity, power := UnpackSpecular(l1[2])
	nz := float32(math.Sqrt(math.Max(0, float64(1-nx*nx-ny*ny))))
	return LegacySurfaceSample{
		Normal:            mgl32.Vec3{nx, ny, nz},
		Diffuse:           mgl32.Vec3{l0[0], l0[1], l0[2]},
		Alpha:             l2[3],
		SpecularIntensity: intensity,
		SpecularPower:     power,
		Emissive:          mgl32.Vec3{l2[0], l2[1], l2[2]},
	}
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
