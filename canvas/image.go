package canvas

import (
	"image"
	"image/color"
)

// LAColor is a non-alpha-premultiplied luminance + alpha color.
type LAColor struct {
	Y, A uint8
}

func (c LAColor) RGBA() (uint32, uint32, uint32, uint32) {
	a := uint32(c.A) * 0x101
	y := uint32(c.Y) * 0x101 * a / 0xffff
	return y, y, y, a
}

var LAModel = color.ModelFunc(laConvert)

func laConvert(c color.Color) color.Color {
	if _, ok := c.(LAColor); ok {
		return c
	}

	r, g, b, a := c.RGBA()
	if a == 0 {
		return LAColor{}
	}
	if a < 0xffff {
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}

	// same weights as color.GrayModel
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	return LAColor{Y: uint8(y), A: uint8(a >> 8)}
}

// LA is an in-memory image whose At method returns LAColor values.
type LA struct {
	// Pix holds the image's pixels, as luminance/alpha pairs. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*2].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// bytes per pixel: luminance, alpha = 2

func NewLA(r image.Rectangle) *LA {
	return &LA{
		Pix:    make([]uint8, r.Dx()*r.Dy()*2),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

func (p *LA) ColorModel() color.Model { return LAModel }

func (p *LA) Bounds() image.Rectangle { return p.Rect }

func (p *LA) At(x, y int) color.Color {
	return p.LAAt(x, y)
}

func (p *LA) LAAt(x, y int) LAColor {
	if !(image.Point{x, y}.In(p.Rect)) {
		return LAColor{}
	}
	i := p.PixOffset(x, y)
	return LAColor{Y: p.Pix[i], A: p.Pix[i+1]}
}

func (p *LA) RGBA64At(x, y int) color.RGBA64 {
	r, g, b, a := p.LAAt(x, y).RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *LA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *LA) Set(x, y int, c color.Color) {
	p.SetLA(x, y, LAModel.Convert(c).(LAColor))
}

func (p *LA) SetRGBA64(x, y int, c color.RGBA64) {
	p.SetLA(x, y, LAModel.Convert(c).(LAColor))
}

func (p *LA) SetLA(x, y int, c LAColor) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = c.Y
	p.Pix[i+1] = c.A
}

// SubImage returns an image representing the portion of the image p visible
// through r. The returned value shares pixels with the original image.
func (p *LA) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &LA{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &LA{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

func (p *LA) Opaque() bool {
	if p.Rect.Empty() {
		return true
	}
	i0, i1 := 1, p.Rect.Dx()*2
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for i := i0; i < i1; i += 2 {
			if p.Pix[i] != 0xff {
				return false
			}
		}
		i0 += p.Stride
		i1 += p.Stride
	}
	return true
}
