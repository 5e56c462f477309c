package symbol

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/boombuler/barcode/aztec"
)

// Aztec encodes Aztec codes with a fixed number of layers.
type Aztec struct {
	// Layers is the layer count, negative for compact symbols.
	Layers int
	// MinECC is the minimum error correction in percent.
	MinECC int
	Border int
}

func (a Aztec) Encode(text string) (*image.Gray, error) {
	code, err := aztec.Encode([]byte(text), a.MinECC, a.Layers)
	if err != nil {
		return nil, fmt.Errorf("%w: %q as aztec with %d layers: %w", ErrEncode, text, a.Layers, err)
	}

	b := code.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: %q produced a %dx%d aztec symbol", ErrEncode, text, b.Dx(), b.Dy())
	}
	return render(b.Dx(), a.Border, func(x, y int) bool {
		return color.GrayModel.Convert(code.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y < 0x80
	}), nil
}

// aztecECC maps the QR error correction tiers onto Aztec ECC percentages.
func aztecECC(level string) (int, error) {
	switch strings.ToUpper(level) {
	case "L":
		return 10, nil
	case "M":
		return 23, nil
	case "Q":
		return 36, nil
	case "H":
		return 50, nil
	default:
		return 0, fmt.Errorf("unknown error correction level: %s", level)
	}
}
