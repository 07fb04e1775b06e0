// Package engine ties the deferred pipeline together behind a small
// façade: an analytic scene, a camera, a light set, and the two render
// passes, with PNG output for offline frames.
package engine

import (
	"fmt"
	"image/png"
	"os"

	"Lumen3D/internal/gbuffer"
	"Lumen3D/internal/geometry"
	"Lumen3D/internal/lights"
	"Lumen3D/internal/logger"
	"Lumen3D/internal/renderer"

	mgl "github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type Lumen struct {
	Width  int32
	Height int32
	Camera *renderer.Camera
	Scene  *geometry.Scene
	Lights *lights.Set

	config renderer.PipelineConfig
	buffer *gbuffer.Buffer
	frame  *renderer.Framebuffer
	pass   *renderer.LightingPass
}

// NewLumen builds an engine with the default camera, an empty scene,
// and the default pipeline configuration.
func NewLumen(width, height int32) *Lumen {
	logger.Init()
	logger.Log.Info("Lumen3D initializing...",
		zap.Int32("width", width), zap.Int32("height", height))

	cfg := renderer.DefaultPipelineConfig()
	return &Lumen{
		Width:  width,
		Height: height,
		Camera: renderer.NewDefaultCamera(width, height),
		Scene:  &geometry.Scene{},
		Lights: lights.NewSet(lights.Ambient{Color: mgl.Vec3{1, 1, 1}, Intensity: 0.1}),
		config: cfg,
		buffer: gbuffer.NewBuffer(int(width), int(height)),
		frame:  renderer.NewFramebuffer(int(width), int(height)),
		pass:   renderer.NewLightingPass(cfg),
	}
}

// Config returns the active pipeline configuration.
func (l *Lumen) Config() renderer.PipelineConfig {
	return l.config
}

// SetConfig swaps the pipeline configuration, rebuilding the lighting
// pass so the strategy resolution happens once, up front.
func (l *Lumen) SetConfig(cfg renderer.PipelineConfig) {
	if l.pass != nil {
		l.pass.Close()
	}
	l.config = cfg
	l.pass = renderer.NewLightingPass(cfg)
}

// Buffer exposes the surface buffer for callers that write geometry
// themselves instead of going through the analytic scene.
func (l *Lumen) Buffer() *gbuffer.Buffer {
	return l.buffer
}

// RenderFrame runs the geometry pass over the scene and then the
// lighting pass, returning the shaded framebuffer. The framebuffer is
// reused between frames.
func (l *Lumen) RenderFrame() (*renderer.Framebuffer, error) {
	view := l.Camera.GetView()
	if l.Scene != nil {
		l.Scene.Render(l.buffer, view, l.config.Encoding)
	}
	if err := l.pass.Render(l.buffer, view, l.Lights, l.frame); err != nil {
		return nil, fmt.Errorf("lighting pass: %w", err)
	}
	return l.frame, nil
}

// RenderShadowMaps runs the depth pre-pass for every shadow-casting
// light currently in the set.
func (l *Lumen) RenderShadowMaps() {
	if l.Scene == nil {
		return
	}
	for i := range l.Lights.Directional {
		if d := l.Lights.Directional[i].Shadow; d != nil && d.Map != nil {
			l.Scene.RenderDepth(d.Transform, d.Map)
		}
	}
	for i := range l.Lights.Spot {
		if d := l.Lights.Spot[i].Shadow; d != nil && d.Map != nil {
			l.Scene.RenderDepth(d.Transform, d.Map)
		}
	}
	for i := range l.Lights.Point {
		if d := l.Lights.Point[i].Shadow; d != nil {
			l.Scene.RenderCubeDepth(d.Transforms, &d.Maps)
		}
	}
}

// SavePNG renders a frame and writes it to path.
func (l *Lumen) SavePNG(path string) error {
	fb, err := l.RenderFrame()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	logger.Log.Info("Frame written", zap.String("path", path))
	return nil
}

// Close releases the lighting pass worker pool.
func (l *Lumen) Close() {
	if l.pass != nil {
		l.pass.Close()
		l.pass = nil
	}
}
