package canvas

import "image"

// Background is the luminance transparent pixels take when flattened.
const Background = 0xff

// Flatten composites src over an opaque white canvas of the same bounds,
// using src's own alpha as the mask.
func Flatten(src *LA) *image.Gray {
	dst := image.NewGray(src.Rect)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		di := dst.PixOffset(src.Rect.Min.X, y)
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
			l, a := uint32(src.Pix[si]), uint32(src.Pix[si+1])
			dst.Pix[di] = uint8((l*a + Background*(0xff-a) + 0x7f) / 0xff)
			si += 2
			di++
		}
	}
	return dst
}
