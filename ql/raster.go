package ql

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"

	"spoolabel/orient"
)

// ErrMediaMismatch is returned when a label cannot be printed on the media.
var ErrMediaMismatch = errors.New("label does not fit media")

// DefaultThreshold is the brother_ql default. A pixel prints when its
// darkness is at least 100-threshold percent, so higher values print more.
const DefaultThreshold = 70

type Options struct {
	// Cut cuts the tape after the label.
	Cut bool
	// HighDPI prints at 300x600 dpi; the image is then twice as wide.
	HighDPI bool
	// Dither converts to black and white with Floyd-Steinberg error
	// diffusion instead of a fixed threshold.
	Dither    bool
	Threshold float64
}

var (
	cmdInitialize = []byte{0x1b, '@'}
	cmdRasterMode = []byte{0x1b, 'i', 'a', 0x01}
	cmdPrintFeed  = []byte{0x1a}
)

const (
	infoMediaType = 0x02
	infoWidth     = 0x04
	infoLength    = 0x08
	infoQuality   = 0x40
	infoRecover   = 0x80

	mediaContinuous = 0x0a
	mediaDieCut     = 0x0b

	modeAutoCut     = 0x40
	expandCutAtEnd  = 0x08
	expandHighDPI   = 0x40
	compressionNone = 0x00
)

// Encode converts img into a raster print job for one label.
func Encode(logger *slog.Logger, img image.Image, model Model, m Media, opts Options) ([]byte, error) {
	if !model.Supports(m) {
		return nil, fmt.Errorf("%w: %s media needs a wide print head, %s has %d pins", ErrMediaMismatch, m.Name, model.Name, model.Pins)
	}

	if opts.HighDPI {
		b := img.Bounds()
		half := image.NewGray(image.Rect(0, 0, b.Dx()/2, b.Dy()))
		draw.NearestNeighbor.Scale(half, half.Rect, img, b, draw.Src, nil)
		img = half
	}

	fitted, err := fit(logger, img, m)
	if err != nil {
		return nil, err
	}
	mono := monochrome(fitted, opts)

	var buf bytes.Buffer
	buf.Write(make([]byte, model.Invalidate))
	buf.Write(cmdInitialize)
	buf.Write(cmdRasterMode)

	lines := mono.Rect.Dy()
	buf.Write(printInformation(m, lines))

	if model.ModeSetting {
		mode := byte(0)
		if opts.Cut && model.Cutter {
			mode |= modeAutoCut
		}
		buf.Write([]byte{0x1b, 'i', 'M', mode})
	}
	if opts.Cut && model.Cutter {
		// cut after every label
		buf.Write([]byte{0x1b, 'i', 'A', 0x01})
	}
	if model.ExpandedMode {
		flags := byte(0)
		if opts.Cut {
			flags |= expandCutAtEnd
		}
		if opts.HighDPI {
			flags |= expandHighDPI
		}
		buf.Write([]byte{0x1b, 'i', 'K', flags})
	}

	buf.Write([]byte{0x1b, 'i', 'd'})
	buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(m.FeedMargin)))

	if model.Compression {
		buf.Write([]byte{'M', compressionNone})
	}

	n := model.lineBytes()
	for y := 0; y < lines; y++ {
		buf.Write([]byte{'g', 0x00, byte(n)})
		buf.Write(rasterLine(mono, y, n*8, m.RightMargin))
	}
	buf.Write(cmdPrintFeed)

	logger.Debug("encoded raster job", "model", model.Name, "media", m.Name, "lines", lines, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func printInformation(m Media, lines int) []byte {
	kind := byte(mediaContinuous)
	if m.Kind != Continuous {
		kind = mediaDieCut
	}
	cmd := []byte{0x1b, 'i', 'z',
		infoRecover | infoQuality | infoMediaType | infoWidth | infoLength,
		kind, byte(m.WidthMM), byte(m.LengthMM),
	}
	cmd = binary.LittleEndian.AppendUint32(cmd, uint32(lines))
	// first page, then a reserved byte
	return append(cmd, 0x00, 0x00)
}

// rasterLine packs row y of img onto the print head. The head prints
// mirrored, so image column x lands on pin width-1+margin-x counted from
// the head's first pin.
func rasterLine(img *image.Paletted, y, pins, margin int) []byte {
	line := make([]byte, pins/8)
	w := img.Rect.Dx()
	for p := 0; p < pins; p++ {
		x := w - 1 + margin - p
		if x < 0 || x >= w {
			continue
		}
		if img.ColorIndexAt(img.Rect.Min.X+x, img.Rect.Min.Y+y) == black {
			line[p/8] |= 0x80 >> (p % 8)
		}
	}
	return line
}

// fit matches img to the printable area of m. Continuous tape takes any
// length but the image is scaled to the printable width; die-cut labels
// are rotated if that makes them fit and padded with white.
func fit(logger *slog.Logger, img image.Image, m Media) (*image.Gray, error) {
	gray := toGray(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	if m.Kind == Continuous {
		if w == m.PrintableWidth {
			return gray, nil
		}
		sh := h * m.PrintableWidth / w
		logger.Warn("scaling label to tape width", "media", m.Name, "from", w, "to", m.PrintableWidth)
		scaled := image.NewGray(image.Rect(0, 0, m.PrintableWidth, sh))
		draw.CatmullRom.Scale(scaled, scaled.Rect, gray, gray.Rect, draw.Src, nil)
		return scaled, nil
	}

	pw, ph := m.PrintableWidth, m.PrintableLength
	if (w > pw || h > ph) && h <= pw && w <= ph {
		logger.Debug("rotating label to fit media", "media", m.Name)
		gray = orient.Rotate90Gray(gray)
		w, h = h, w
	}
	if w > pw || h > ph {
		return nil, fmt.Errorf("%w: %dx%d label on %s media (%dx%d printable)", ErrMediaMismatch, w, h, m.Name, pw, ph)
	}
	if w == pw && h == ph {
		return gray, nil
	}

	padded := image.NewGray(image.Rect(0, 0, pw, ph))
	draw.Draw(padded, padded.Rect, image.White, image.Point{}, draw.Src)
	at := image.Pt((pw-w)/2, (ph-h)/2)
	draw.Draw(padded, image.Rectangle{Min: at, Max: at.Add(gray.Rect.Size())}, gray, gray.Rect.Min, draw.Src)
	return padded, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Rect, img, b.Min, draw.Src)
	return g
}

const (
	black = 0
	white = 1
)

var bw = color.Palette{color.Gray{Y: 0}, color.Gray{Y: 0xff}}

// monochrome reduces img to the two printable colors.
func monochrome(img *image.Gray, opts Options) *image.Paletted {
	dst := image.NewPaletted(img.Rect, bw)
	if opts.Dither {
		draw.FloydSteinberg.Draw(dst, dst.Rect, img, img.Rect.Min)
		return dst
	}

	threshold := opts.Threshold
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	cut := uint8((100 - threshold) / 100 * 255)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			idx := uint8(white)
			if 0xff-img.GrayAt(x, y).Y >= cut {
				idx = black
			}
			dst.SetColorIndex(x, y, idx)
		}
	}
	return dst
}
