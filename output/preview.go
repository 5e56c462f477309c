package output

import (
	"bufio"
	"image"
	"image/color"
	"io"

	"github.com/nfnt/resize"
)

// DefaultColumns is the preview width used when the terminal size is unknown.
const DefaultColumns = 80

// Preview draws img on a terminal with half-block characters, two pixel
// rows per text row. Images wider than cols are scaled down.
func Preview(w io.Writer, img image.Image, cols int) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	if cols <= 0 {
		cols = DefaultColumns
	}

	pw, ph := b.Dx(), b.Dy()
	if pw > cols {
		ph = max(1, ph*cols/pw)
		pw = cols
		img = resize.Resize(uint(pw), uint(ph), img, resize.Bilinear)
		b = img.Bounds()
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < ph; y += 2 {
		for x := 0; x < pw; x++ {
			top := dark(img, b.Min.X+x, b.Min.Y+y)
			bottom := y+1 < ph && dark(img, b.Min.X+x, b.Min.Y+y+1)
			switch {
			case top && bottom:
				bw.WriteRune('█')
			case top:
				bw.WriteRune('▀')
			case bottom:
				bw.WriteRune('▄')
			default:
				bw.WriteByte(' ')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func dark(img image.Image, x, y int) bool {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 0x80
}
