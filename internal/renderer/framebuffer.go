package renderer

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Framebuffer holds the display-ready output of the lighting pass as
// float RGBA, one pixel per entry. Values are already gamma encoded;
// ToImage only quantizes to 8 bits.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []float32 // RGBA interleaved, 4*Width*Height
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float32, 4*width*height),
	}
}

// SetRGBA stores one pixel.
func (f *Framebuffer) SetRGBA(x, y int, rgb mgl32.Vec3, alpha float32) {
	base := 4 * (y*f.Width + x)
	f.Pix[base] = rgb.X()
	f.Pix[base+1] = rgb.Y()
	f.Pix[base+2] = rgb.Z()
	f.Pix[base+3] = alpha
}

// RGBAAt returns one pixel.
func (f *Framebuffer) RGBAAt(x, y int) (mgl32.Vec3, float32) {
	base := 4 * (y*f.Width + x)
	return mgl32.Vec3{f.Pix[base], f.Pix[base+1], f.Pix[base+2]}, f.Pix[base+3]
}

// ToImage quantizes the framebuffer to an 8-bit RGBA image.
func (f *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			base := 4 * (y*f.Width + x)
			img.SetRGBA(x, y, color.RGBA{
				R: quantize(f.Pix[base]),
				G: quantize(f.Pix[base+1]),
				B: quantize(f.Pix[base+2]),
				A: quantize(f.Pix[base+3]),
			})
		}
	}
	return img
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
