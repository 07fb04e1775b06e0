package renderer

import (
	"Lumen3D/internal/gbuffer"

	"github.com/go-gl/mathgl/mgl32"
)

// renderDebug visualizes one raw surface-buffer attribute. An unknown
// selector produces fully transparent output.
func (p *LightingPass) renderDebug(buf *gbuffer.Buffer, view View, fb *Framebuffer) {
	group := p.pool.NewGroup()
	for y := 0; y < buf.Height; y++ {
		row := y
		group.Submit(func() {
			p.debugRow(buf, view, fb, row)
		})
	}
	_ = group.Wait()
}

func (p *LightingPass) debugRow(buf *gbuffer.Buffer, view View, fb *Framebuffer, y int) {
	v := 1 - (float32(y)+0.5)/float32(buf.Height)
	for x := 0; x < buf.Width; x++ {
		if buf.IsBackground(x, y) {
			fb.SetRGBA(x, y, mgl32.Vec3{}, 0)
			continue
		}
		s := buf.At(x, y)
		depth := buf.DepthAt(x, y)

		switch p.config.DebugView {
		case DebugAlbedo:
			fb.SetRGBA(x, y, s.Albedo, 1)
		case DebugNormal:
			// remap [-1,1] → [0,1]
			fb.SetRGBA(x, y, s.Normal.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5}), 1)
		case DebugDepth:
			fb.SetRGBA(x, y, mgl32.Vec3{depth, depth, depth}, 1)
		case DebugMetallic:
			fb.SetRGBA(x, y, mgl32.Vec3{s.Metallic, s.Metallic, s.Metallic}, 1)
		case DebugRoughness:
			fb.SetRGBA(x, y, mgl32.Vec3{s.Roughness, s.Roughness, s.Roughness}, 1)
		case DebugOcclusion:
			fb.SetRGBA(x, y, mgl32.Vec3{s.Occlusion, s.Occlusion, s.Occlusion}, 1)
		case DebugPosition:
			u := (float32(x) + 0.5) / float32(buf.Width)
			pos := ReconstructPosition(view.ViewProjectionInverse, u, v, depth)
			fb.SetRGBA(x, y, fract(pos), 1)
		default:
			fb.SetRGBA(x, y, mgl32.Vec3{}, 0)
		}
	}
}

// fract maps a world position into a repeating [0,1) pattern so large
// coordinates stay visualizable.
func fract(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		p.X() - float32(int(p.X())),
		p.Y() - float32(int(p.Y())),
		p.Z() - float32(int(p.Z())),
	}
}
