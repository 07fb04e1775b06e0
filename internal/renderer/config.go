package renderer

import (
	"runtime"

	"Lumen3D/internal/brdf"
	"Lumen3D/internal/gbuffer"
)

// DebugView selects a raw surface-buffer attribute to visualize
// instead of running the lighting evaluation.
type DebugView int

const (
	DebugNone DebugView = iota
	DebugAlbedo
	DebugNormal
	DebugDepth
	DebugMetallic
	DebugRoughness
	DebugOcclusion
	DebugPosition
)

// PipelineConfig fixes every strategy choice for a lighting pipeline.
// All variants are resolved once at pipeline construction so the
// per-pixel hot path stays branch-free.
type PipelineConfig struct {
	// Reflectance strategy
	Encoding        gbuffer.Encoding     `json:"encoding"` // PBR or legacy surface codec
	NDF             brdf.NDF             `json:"ndf"`
	GeometryVariant brdf.GeometryVariant `json:"geometryVariant"`
	FresnelAngle    brdf.FresnelAngle    `json:"fresnelAngle"`

	// Shadowing
	EnableShadows bool `json:"enableShadows"`

	// Debug visualization (DebugNone for normal shading)
	DebugView DebugView `json:"debugView"`

	// Parallelism: worker goroutines for the pixel loop (0 = NumCPU)
	Workers int `json:"workers"`
}

// DefaultPipelineConfig returns the standard deferred PBR setup: GGX
// distribution, direct-light geometry remapping, shadows on.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Encoding:        gbuffer.EncodingPBR,
		NDF:             brdf.NDFGGX,
		GeometryVariant: brdf.GeometryDirect,
		FresnelAngle:    brdf.FresnelHalfVector,
		EnableShadows:   true,
		DebugView:       DebugNone,
		Workers:         0,
	}
}

// LegacyPipelineConfig returns the Phong-era pipeline: legacy surface
// codec, reflect-vector specular, no Fresnel mixing.
func LegacyPipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.Encoding = gbuffer.EncodingLegacy
	cfg.FresnelAngle = brdf.FresnelView
	return cfg
}

// PerformancePipelineConfig trades shadow quality for speed.
func PerformancePipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.EnableShadows = false
	return cfg
}

func (c PipelineConfig) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
