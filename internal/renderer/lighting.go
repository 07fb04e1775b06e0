package renderer

import (
	"fmt"

	"Lumen3D/internal/brdf"
	"Lumen3D/internal/colorspace"
	"Lumen3D/internal/gbuffer"
	"Lumen3D/internal/lights"
	"Lumen3D/internal/logger"
	"Lumen3D/internal/shadow"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LightingPass is the deferred-shading accumulator: it decodes the
// surface buffer, reconstructs world positions from depth, and sums
// the contribution of every active light per pixel. Pixels are
// independent, so rows are scheduled across a worker pool.
type LightingPass struct {
	config PipelineConfig
	cook   *brdf.CookTorrance
	phong  brdf.Phong
	pool   pond.Pool
}

// shadowFn returns the shadow factor in [0,1] for a world position.
// Resolved once per light per frame; never re-decided per sample.
type shadowFn func(pos mgl32.Vec3) float32

func alwaysLit(mgl32.Vec3) float32 { return 1.0 }

// resolvedDirectional, resolvedPoint and resolvedSpot are the per-frame
// flattened light records the pixel loop iterates over.
type resolvedDirectional struct {
	direction mgl32.Vec3 // unit, surface → light
	radiance  mgl32.Vec3 // color * intensity
	shadow    shadowFn
}

type resolvedPoint struct {
	position    mgl32.Vec3
	radiance    mgl32.Vec3
	attenuation lights.Attenuation
	shadow      shadowFn
}

type resolvedSpot struct {
	light    lights.Spot // SpotFactor needs direction + cutoff
	radiance mgl32.Vec3
	shadow   shadowFn
}

// NewLightingPass builds a pipeline with every strategy resolved from
// the config. Call Close when the pipeline is no longer needed.
func NewLightingPass(cfg PipelineConfig) *LightingPass {
	if logger.Log != nil {
		logger.Log.Info("lighting pipeline configured",
			zap.Int("encoding", int(cfg.Encoding)),
			zap.Int("ndf", int(cfg.NDF)),
			zap.Bool("shadows", cfg.EnableShadows),
			zap.Int("workers", cfg.workerCount()))
	}
	return &LightingPass{
		config: cfg,
		cook:   brdf.NewCookTorrance(cfg.NDF, cfg.GeometryVariant, cfg.FresnelAngle),
		pool:   pond.NewPool(cfg.workerCount()),
	}
}

// Close releases the worker pool.
func (p *LightingPass) Close() {
	p.pool.StopAndWait()
}

// Config returns the pipeline configuration.
func (p *LightingPass) Config() PipelineConfig {
	return p.config
}

// Render evaluates lighting for every pixel of the surface buffer and
// writes display-ready colors into fb. The buffer, light set, and view
// are read-only for the duration of the call.
func (p *LightingPass) Render(buf *gbuffer.Buffer, view View, set *lights.Set, fb *Framebuffer) error {
	if buf.Width != fb.Width || buf.Height != fb.Height {
		return fmt.Errorf("surface buffer %dx%d does not match framebuffer %dx%d",
			buf.Width, buf.Height, fb.Width, fb.Height)
	}

	if p.config.DebugView != DebugNone {
		p.renderDebug(buf, view, fb)
		return nil
	}

	frame := p.resolveLights(set)

	// One shading function per row, chosen once from the encoding.
	shadeRow := p.shadeRowPBR
	if p.config.Encoding == gbuffer.EncodingLegacy {
		shadeRow = p.shadeRowLegacy
	}

	group := p.pool.NewGroup()
	for y := 0; y < buf.Height; y++ {
		row := y
		group.Submit(func() {
			shadeRow(buf, view, frame, fb, row)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("lighting pass failed: %w", err)
	}
	return nil
}

// frameLights is the per-frame resolved light state shared read-only
// by all workers.
type frameLights struct {
	ambient     lights.Ambient
	directional []resolvedDirectional
	point       []resolvedPoint
	spot        []resolvedSpot
}

// resolveLights flattens the light set, enforces the per-kind cap
// deterministically (highest-index lights are dropped), and decides
// the shadow state of every light exactly once.
func (p *LightingPass) resolveLights(set *lights.Set) *frameLights {
	frame := &frameLights{ambient: set.Ambient}

	directional := capped(set.Directional, "directional")
	for _, l := range directional {
		frame.directional = append(frame.directional, resolvedDirectional{
			direction: l.Direction.Normalize(),
			radiance:  l.Color.Mul(l.Intensity),
			shadow:    p.resolveShadow(l.Shadow),
		})
	}

	point := capped(set.Point, "point")
	for _, l := range point {
		frame.point = append(frame.point, resolvedPoint{
			position:    l.Position,
			radiance:    l.Color.Mul(l.Intensity),
			attenuation: l.Attenuation,
			shadow:      p.resolveCubeShadow(l.Shadow, l.Position),
		})
	}

	spot := capped(set.Spot, "spot")
	for _, l := range spot {
		frame.spot = append(frame.spot, resolvedSpot{
			light:    l,
			radiance: l.Color.Mul(l.Intensity),
			shadow:   p.resolveShadow(l.Shadow),
		})
	}
	return frame
}

func capped[L any](in []L, kind string) []L {
	if len(in) <= lights.MaxLights {
		return in
	}
	if logger.Log != nil {
		logger.Log.Warn("ignoring lights beyond the per-kind cap",
			zap.String("kind", kind),
			zap.Int("active", len(in)),
			zap.Int("max", lights.MaxLights))
	}
	return in[:lights.MaxLights]
}

func (p *LightingPass) resolveShadow(d *shadow.Descriptor) shadowFn {
	if !p.config.EnableShadows || !d.Enabled() {
		return alwaysLit
	}
	return func(pos mgl32.Vec3) float32 {
		return shadow.Factor(d, pos)
	}
}

func (p *LightingPass) resolveCubeShadow(d *shadow.CubeDescriptor, lightPos mgl32.Vec3) shadowFn {
	if !p.config.EnableShadows || d == nil {
		return alwaysLit
	}
	return func(pos mgl32.Vec3) float32 {
		return shadow.CubeFactor(d, pos, lightPos)
	}
}

func (p *LightingPass) shadeRowPBR(buf *gbuffer.Buffer, view View, frame *frameLights, fb *Framebuffer, y int) {
	v := 1 - (float32(y)+0.5)/float32(buf.Height)
	for x := 0; x < buf.Width; x++ {
		if buf.IsBackground(x, y) {
			// No geometry: full-intensity ambient color, nothing else.
			fb.SetRGBA(x, y, colorspace.ToSRGB(frame.ambient.Color), 1)
			continue
		}
		u := (float32(x) + 0.5) / float32(buf.Width)
		s := buf.At(x, y)
		s.Position = ReconstructPosition(view.ViewProjectionInverse, u, v, buf.DepthAt(x, y))

		rgb := p.shadeSurfacePBR(s, view.Position, frame)
		fb.SetRGBA(x, y, colorspace.ToSRGB(colorspace.Reinhard(rgb)), s.Alpha)
	}
}

// shadeSurfacePBR accumulates the linear outgoing radiance of one
// decoded surface sample under the metallic-roughness model.
func (p *LightingPass) shadeSurfacePBR(s gbuffer.SurfaceSample, eye mgl32.Vec3, frame *frameLights) mgl32.Vec3 {
	viewDir := eye.Sub(s.Position).Normalize()

	amb := frame.ambient
	lo := mgl32.Vec3{
		s.Albedo.X() * amb.Color.X(),
		s.Albedo.Y() * amb.Color.Y(),
		s.Albedo.Z() * amb.Color.Z(),
	}.Mul(amb.Intensity * s.Occlusion)

	for i := range frame.directional {
		l := &frame.directional[i]
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.cook.Evaluate(s.Normal, viewDir, l.direction, l.radiance, s.Albedo, s.Metallic, s.Roughness).Mul(sf))
	}

	for i := range frame.point {
		l := &frame.point[i]
		toLight := l.position.Sub(s.Position)
		dist := toLight.Len()
		if dist <= 0 {
			continue
		}
		dir := toLight.Mul(1 / dist)
		radiance := lights.Attenuate(l.radiance, l.attenuation, dist)
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.cook.Evaluate(s.Normal, viewDir, dir, radiance, s.Albedo, s.Metallic, s.Roughness).Mul(sf))
	}

	for i := range frame.spot {
		l := &frame.spot[i]
		toLight := l.light.Position.Sub(s.Position)
		dist := toLight.Len()
		if dist <= 0 {
			continue
		}
		dir := toLight.Mul(1 / dist)
		cone := lights.SpotFactor(dir, &l.light)
		if cone <= 0 {
			continue
		}
		radiance := lights.Attenuate(l.radiance, l.light.Attenuation, dist)
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.cook.Evaluate(s.Normal, viewDir, dir, radiance, s.Albedo, s.Metallic, s.Roughness).Mul(cone * sf))
	}

	return lo.Add(s.Emissive)
}

func (p *LightingPass) shadeRowLegacy(buf *gbuffer.Buffer, view View, frame *frameLights, fb *Framebuffer, y int) {
	v := 1 - (float32(y)+0.5)/float32(buf.Height)
	for x := 0; x < buf.Width; x++ {
		if buf.IsBackground(x, y) {
			fb.SetRGBA(x, y, colorspace.ToSRGB(frame.ambient.Color), 1)
			continue
		}
		u := (float32(x) + 0.5) / float32(buf.Width)
		s := buf.AtLegacy(x, y)
		s.Position = ReconstructPosition(view.ViewProjectionInverse, u, v, buf.DepthAt(x, y))

		rgb := p.shadeSurfaceLegacy(s, view.Position, frame)
		fb.SetRGBA(x, y, colorspace.ToSRGB(colorspace.Reinhard(rgb)), s.Alpha)
	}
}

// shadeSurfaceLegacy accumulates radiance under the Phong strategy.
// The legacy codec stores no occlusion, so the ambient term is
// unoccluded.
func (p *LightingPass) shadeSurfaceLegacy(s gbuffer.LegacySurfaceSample, eye mgl32.Vec3, frame *frameLights) mgl32.Vec3 {
	viewDir := eye.Sub(s.Position).Normalize()

	amb := frame.ambient
	lo := mgl32.Vec3{
		s.Diffuse.X() * amb.Color.X(),
		s.Diffuse.Y() * amb.Color.Y(),
		s.Diffuse.Z() * amb.Color.Z(),
	}.Mul(amb.Intensity)

	for i := range frame.directional {
		l := &frame.directional[i]
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.phong.Evaluate(s.Normal, viewDir, l.direction, l.radiance, s.Diffuse, 1, s.SpecularIntensity, s.SpecularPower).Mul(sf))
	}

	for i := range frame.point {
		l := &frame.point[i]
		toLight := l.position.Sub(s.Position)
		dist := toLight.Len()
		if dist <= 0 {
			continue
		}
		dir := toLight.Mul(1 / dist)
		radiance := lights.Attenuate(l.radiance, l.attenuation, dist)
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.phong.Evaluate(s.Normal, viewDir, dir, radiance, s.Diffuse, 1, s.SpecularIntensity, s.SpecularPower).Mul(sf))
	}

	for i := range frame.spot {
		l := &frame.spot[i]
		toLight := l.light.Position.Sub(s.Position)
		dist := toLight.Len()
		if dist <= 0 {
			continue
		}
		dir := toLight.Mul(1 / dist)
		cone := lights.SpotFactor(dir, &l.light)
		if cone <= 0 {
			continue
		}
		radiance := lights.Attenuate(l.radiance, l.light.Attenuation, dist)
		sf := l.shadow(s.Position)
		if sf <= 0 {
			continue
		}
		lo = lo.Add(p.phong.Evaluate(s.Normal, viewDir, dir, radiance, s.Diffuse, 1, s.SpecularIntensity, s.SpecularPower).Mul(cone * sf))
	}

	return lo.Add(s.Emissive)
}
