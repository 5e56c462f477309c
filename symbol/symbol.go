// Package symbol encodes label identifiers into square 2D code bitmaps.
//
// Every provider returns a square *image.Gray with one pixel per module and
// a constant quiet zone of blank modules on each side, so the geometry of a
// symbol never depends on the encoded text. Text that does not fit the
// configured symbol size is an ErrEncode, never a silently larger symbol.
package symbol

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// DefaultBorder is the quiet zone width in modules recommended for QR codes.
const DefaultBorder = 4

// ErrEncode is returned when text cannot be encoded at the fixed symbol size.
var ErrEncode = errors.New("could not encode symbol")

// Provider encodes text into a square symbol bitmap.
type Provider interface {
	Encode(text string) (*image.Gray, error)
}

// New returns the provider for the named symbology ("qr" or "aztec"). For
// QR codes version is the symbol version (1-40); for Aztec codes it is the
// number of layers, negative for compact symbols.
func New(name string, version int, level string, border int) (Provider, error) {
	if border < 0 {
		return nil, fmt.Errorf("invalid quiet zone: %d modules", border)
	}

	switch strings.ToLower(name) {
	case "qr":
		if _, err := qrLevel(level); err != nil {
			return nil, err
		}
		if version < 1 || version > 40 {
			return nil, fmt.Errorf("invalid QR version: %d", version)
		}
		return QR{Version: version, Level: level, Border: border}, nil
	case "aztec":
		ecc, err := aztecECC(level)
		if err != nil {
			return nil, err
		}
		if version == 0 || version < -4 || version > 32 {
			return nil, fmt.Errorf("invalid aztec layer count: %d", version)
		}
		return Aztec{Layers: version, MinECC: ecc, Border: border}, nil
	default:
		return nil, fmt.Errorf("unsupported symbology: %s", name)
	}
}

// module reports whether the module at (x, y) is dark.
type module func(x, y int) bool

// render draws a size x size module grid surrounded by border blank modules.
func render(size, border int, dark module) *image.Gray {
	n := size + 2*border
	img := image.NewGray(image.Rect(0, 0, n, n))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if dark(x, y) {
				img.SetGray(x+border, y+border, color.Gray{Y: 0})
			}
		}
	}
	return img
}
