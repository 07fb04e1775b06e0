// Package colorspace converts between linear and sRGB color encodings
// and applies the Reinhard tone-mapping operator used by the lighting
// pass before display output.
package colorspace

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SRGBEncodeChannel converts one linear channel to its sRGB encoding.
func SRGBEncodeChannel(linear float32) float32 {
	if linear < 0.0031308 {
		return linear * 12.92
	}
	return 1.055*float32(math.Pow(float64(linear), 1.0/2.4)) - 0.055
}

// SRGBDecodeChannel converts one sRGB channel back to linear.
func SRGBDecodeChannel(srgb float32) float32 {
	if srgb < 0.04045 {
		return srgb / 12.92
	}
	return float32(math.Pow(float64(srgb+0.055)/1.055, 2.4))
}

// ToSRGB converts a linear color to sRGB, per channel.
func ToSRGB(linear mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		SRGBEncodeChannel(linear.X()),
		SRGBEncodeChannel(linear.Y()),
		SRGBEncodeChannel(linear.Z()),
	}
}

// ToLinear converts an sRGB color to linear, per channel.
func ToLinear(srgb mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		SRGBDecodeChannel(srgb.X()),
		SRGBDecodeChannel(srgb.Y()),
		SRGBDecodeChannel(srgb.Z()),
	}
}

// Reinhard compresses unbounded linear radiance into [0,1):
// c / (c + 1) per channel.
func Reinhard(color mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		color.X() / (color.X() + 1),
		color.Y() / (color.Y() + 1),
		color.Z() / (color.Z() + 1),
	}
}

// ReinhardInverse undoes Reinhard: c / max(1-c, 0.001). The floor
// guards the division as c approaches 1.
func ReinhardInverse(color mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		color.X() / max32(1-color.X(), 0.001),
		color.Y() / max32(1-color.Y(), 0.001),
		color.Z() / max32(1-color.Z(), 0.001),
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
