package symbol

import (
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QR encodes QR codes at a forced version and error correction level.
type QR struct {
	Version int
	// Level is one of L, M, Q or H.
	Level  string
	Border int
}

func (q QR) Encode(text string) (*image.Gray, error) {
	level, err := qrLevel(q.Level)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.NewWithForcedVersion(text, q.Version, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q as QR %d-%s: %w", ErrEncode, text, q.Version, q.Level, err)
	}
	code.DisableBorder = true

	bitmap := code.Bitmap()
	if len(bitmap) == 0 || len(bitmap) != len(bitmap[0]) {
		return nil, fmt.Errorf("%w: %q produced a non-square QR matrix", ErrEncode, text)
	}
	return render(len(bitmap), q.Border, func(x, y int) bool {
		return bitmap[y][x]
	}), nil
}

func qrLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(name) {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown error correction level: %s", name)
	}
}
