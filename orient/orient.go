// Package orient turns a landscape label canvas into tape feed orientation.
package orient

import (
	"errors"
	"fmt"
	"image"
	"math"

	"spoolabel/canvas"
)

// ErrNoContent is returned when there is nothing drawn to trim around.
var ErrNoContent = errors.New("no drawn content")

// Trim crops img to (0, 0, box.Max.X+margin, box.Max.Y), clamped to the
// bounds of img. The right edge keeps margin pixels of blank space past the
// last drawn pixel; the bottom edge is not padded.
func Trim(img *canvas.LA, box image.Rectangle, margin int) *canvas.LA {
	r := image.Rect(img.Rect.Min.X, img.Rect.Min.Y, box.Max.X+margin, box.Max.Y).Intersect(img.Rect)
	return img.SubImage(r).(*canvas.LA)
}

// Rotate90 returns a copy of img rotated 90 degrees counter-clockwise, with
// the bounds expanded to fit: the result is img.Dy() wide and img.Dx() tall.
func Rotate90(img *canvas.LA) *canvas.LA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst := canvas.NewLA(image.Rect(0, 0, h, w))
	for sy := 0; sy < h; sy++ {
		si := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+sy)
		for sx := 0; sx < w; sx++ {
			di := dst.PixOffset(sy, w-1-sx)
			dst.Pix[di] = img.Pix[si]
			dst.Pix[di+1] = img.Pix[si+1]
			si += 2
		}
	}
	return dst
}

// TrimAndRotate crops img to the union of the drawn regions plus one quiet
// zone of trailing margin, then rotates it into feed orientation.
func TrimAndRotate(img *canvas.LA, regions []image.Rectangle, quietZone float64) (*canvas.LA, error) {
	box, ok := canvas.Union(regions)
	if !ok {
		return nil, ErrNoContent
	}

	cropped := Trim(img, box, int(math.Round(quietZone)))
	if cropped.Rect.Empty() {
		return nil, fmt.Errorf("crop of %v to %v is empty: %w", img.Rect, box, ErrNoContent)
	}
	return Rotate90(cropped), nil
}

// Rotate90Gray is Rotate90 for opaque single-channel images.
func Rotate90Gray(img *image.Gray) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for sy := 0; sy < h; sy++ {
		si := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+sy)
		for sx := 0; sx < w; sx++ {
			dst.Pix[dst.PixOffset(sy, w-1-sx)] = img.Pix[si+sx]
		}
	}
	return dst
}
