// Package gbuffer implements the deferred-shading surface buffer: the
// per-pixel attribute layers written by the geometry pass and decoded
// by the lighting pass.
//
// Channel layout:
//
//	Layer 0: rgb = albedo (linear), a = metallic
//	Layer 1: rg = normal.xy, b = packed byte (see codec.go), a = roughness
//	Layer 2: rgb = emissive, a = unused
//
// Depth is stored separately in normalized device coordinates. Depth at
// or above DepthSentinel means "no geometry" at that pixel.
package gbuffer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DepthSentinel marks background pixels. The lighting pass skips all
// per-light work at or beyond this depth.
const DepthSentinel = 0.99999

// Encoding selects the surface-buffer codec. The PBR and legacy
// packings have different numeric range assumptions and are kept as
// parallel schemes, never merged.
type Encoding int

const (
	EncodingPBR Encoding = iota
	EncodingLegacy
)

// SurfaceSample holds the decoded per-pixel surface attributes
// consumed by the lighting pass. Position is reconstructed from depth,
// never stored in the buffer.
type SurfaceSample struct {
	Position  mgl32.Vec3 // world space
	Normal    mgl32.Vec3 // unit length
	Albedo    mgl32.Vec3 // linear, [0,1]
	Alpha     float32
	Metallic  float32 // [0,1]
	Roughness float32 // [0,1]
	Occlusion float32 // [0,1]
	Emissive  mgl32.Vec3
}

// LegacySurfaceSample is the non-PBR variant: diffuse color plus
// direct specular intensity/power instead of metallic-roughness.
type LegacySurfaceSample struct {
	Position          mgl32.Vec3
	Normal            mgl32.Vec3
	Diffuse           mgl32.Vec3
	Alpha             float32
	SpecularIntensity float32 // [0,1], quantized to 4 bits
	SpecularPower     float32 // halved and floored into a nibble; effective range [0,30]
	Emissive          mgl32.Vec3
}

// Buffer is the CPU surface buffer: three RGBA float layers plus depth.
type Buffer struct {
	Width  int
	Height int
	Layer0 []float32 // RGBA interleaved, 4*Width*Height
	Layer1 []float32
	Layer2 []float32
	Depth  []float32 // NDC depth, Width*Height
}

// NewBuffer allocates a buffer with every pixel at the background
// sentinel depth.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{
		Width:  width,
		Height: height,
		Layer0: make([]float32, 4*width*height),
		Layer1: make([]float32, 4*width*height),
		Layer2: make([]float32, 4*width*height),
		Depth:  make([]float32, width*height),
	}
	for i := range b.Depth {
		b.Depth[i] = 1.0
	}
	return b
}

// Clear resets every pixel to the background sentinel.
func (b *Buffer) Clear() {
	for i := range b.Layer0 {
		b.Layer0[i] = 0
		b.Layer1[i] = 0
		b.Layer2[i] = 0
	}
	for i := range b.Depth {
		b.Depth[i] = 1.0
	}
}

// IsBackground reports whether the pixel holds no geometry.
func (b *Buffer) IsBackground(x, y int) bool {
	return b.Depth[y*b.Width+x] >= DepthSentinel
}

// DepthAt returns the stored NDC depth for a pixel.
func (b *Buffer) DepthAt(x, y int) float32 {
	return b.Depth[y*b.Width+x]
}

// Set writes an encoded surface sample and its depth at (x, y) using
// the PBR codec.
func (b *Buffer) Set(x, y int, s SurfaceSample, depth float32) {
	l0, l1, l2 := EncodeSample(s)
	b.writeTexels(x, y, l0, l1, l2, depth)
}

// SetLegacy writes a legacy-encoded sample and its depth at (x, y).
func (b *Buffer) SetLegacy(x, y int, s LegacySurfaceSample, depth float32) {
	l0, l1, l2 := EncodeLegacySample(s)
	b.writeTexels(x, y, l0, l1, l2, depth)
}

// At decodes the PBR sample stored at (x, y). Position is left zero;
// the lighting pass reconstructs it from depth.
func (b *Buffer) At(x, y int) SurfaceSample {
	l0, l1, l2 := b.readTexels(x, y)
	return DecodeSample(l0, l1, l2)
}

// AtLegacy decodes the legacy sample stored at (x, y).
func (b *Buffer) AtLegacy(x, y int) LegacySurfaceSample {
	l0, l1, l2 := b.readTexels(x, y)
	return DecodeLegacySample(l0, l1, l2)
}

func (b *Buffer) writeTexels(x, y int, l0, l1, l2 [4]float32, depth float32) {
	base := 4 * (y*b.Width + x)
	copy(b.Layer0[base:base+4], l0[:])
	copy(b.Layer1[base:base+4], l1[:])
	copy(b.Layer2[base:base+4], l2[:])
	b.Depth[y*b.Width+x] = depth
}

func (b *Buffer) readTexels(x, y int) (l0, l1, l2 [4]float32) {
	base := 4 * (y*b.Width + x)
	copy(l0[:], b.Layer0[base:base+4])
	copy(l1[:], b.Layer1[base:base+4])
	copy(l2[:], b.Layer2[base:base+4])
	return
}
