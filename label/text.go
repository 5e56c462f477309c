package label

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"spoolabel/canvas"
)

var ink = image.NewUniform(canvas.LAColor{Y: 0, A: 0xff})

// drawText draws lines with their ascender line at y, advancing step pixels
// per line. It returns the ink rectangle of every glyph clipped to dst, and
// the unclipped extent of all ink.
func drawText(dst *canvas.LA, face font.Face, x, y fixed.Int26_6, lines []string, step int) ([]image.Rectangle, image.Rectangle) {
	var (
		regions []image.Rectangle
		extent  image.Rectangle
	)

	ascent := face.Metrics().Ascent
	for i, line := range lines {
		dot := fixed.Point26_6{X: x, Y: y + ascent + fixed.I(i*step)}
		prev := rune(-1)
		for _, r := range line {
			if prev >= 0 {
				dot.X += face.Kern(prev, r)
			}
			dr, mask, maskp, advance, ok := face.Glyph(dot, r)
			if !ok {
				continue
			}

			if b := inkBounds(dr, mask, maskp); !b.Empty() {
				extent = extent.Union(b)
				if c := b.Intersect(dst.Rect); !c.Empty() {
					regions = append(regions, c)
				}
			}
			draw.DrawMask(dst, dr, ink, image.Point{}, mask, maskp, draw.Over)

			dot.X += advance
			prev = r
		}
	}
	return regions, extent
}

// lineStep is the distance between the ascender lines of consecutive text
// lines: the height of "A" from the ascender line, plus spacing.
func lineStep(face font.Face, spacing int) int {
	b, _ := font.BoundString(face, "A")
	return (face.Metrics().Ascent + b.Max.Y).Ceil() + spacing
}

// inkBounds returns the part of dr whose mask coverage is non-zero.
func inkBounds(dr image.Rectangle, mask image.Image, mp image.Point) image.Rectangle {
	var box image.Rectangle
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			if !covered(mask, mp.X+x, mp.Y+y) {
				continue
			}
			px := image.Rect(dr.Min.X+x, dr.Min.Y+y, dr.Min.X+x+1, dr.Min.Y+y+1)
			box = box.Union(px)
		}
	}
	return box
}

func covered(mask image.Image, x, y int) bool {
	if a, ok := mask.(*image.Alpha); ok {
		return a.AlphaAt(x, y).A != 0
	}
	_, _, _, alpha := mask.At(x, y).RGBA()
	return alpha != 0
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}
