// Package label lays out and renders spool labels: a square code symbol on
// the left, the identifier as a header and the wrapped vendor and product
// names as body text on the right.
package label

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"spoolabel/canvas"
	"spoolabel/orient"
	"spoolabel/symbol"
	"spoolabel/textwrap"
	"spoolabel/typeface"
)

// Request describes one label.
type Request struct {
	ID      string
	Vendor  string
	Product string
	// Width is the label width in pixels for Fixed mode, or the tape width
	// in pixels for Continuous mode.
	Width int
	Mode  Mode
}

// Engine renders labels. It holds no per-label state.
type Engine struct {
	logger  *slog.Logger
	tpl     Template
	symbols symbol.Provider
	font    *typeface.Typeface
}

func NewEngine(logger *slog.Logger, tpl Template, tf *typeface.Typeface) (*Engine, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	symbols, err := tpl.Symbols()
	if err != nil {
		return nil, err
	}
	return &Engine{
		logger:  logger,
		tpl:     tpl,
		symbols: symbols,
		font:    tf,
	}, nil
}

// Layout composes the symbol and text onto a transparent canvas. It returns
// the canvas, its metrics and the rectangles that were drawn on.
func (e *Engine) Layout(req Request) (*canvas.LA, Metrics, []image.Rectangle, error) {
	if req.ID == "" {
		return nil, Metrics{}, nil, fmt.Errorf("%w: empty identifier", ErrLayoutInvariant)
	}

	sym, err := e.symbols.Encode(e.tpl.URIPrefix + req.ID)
	if err != nil {
		return nil, Metrics{}, nil, err
	}
	sb := sym.Bounds()
	if sb.Dx() != sb.Dy() {
		return nil, Metrics{}, nil, fmt.Errorf("%w: symbol is %dx%d", ErrLayoutInvariant, sb.Dx(), sb.Dy())
	}

	m, err := ComputeMetrics(e.tpl, req.Width, req.Mode, sb.Dx())
	if err != nil {
		return nil, Metrics{}, nil, err
	}

	img := canvas.NewLA(image.Rect(0, 0, m.LabelWidth, m.LabelHeight))

	// nearest neighbour keeps module edges sharp
	code := image.Rect(0, 0, m.CodeSize, m.CodeSize)
	draw.NearestNeighbor.Scale(img, code, sym, sb, draw.Src, nil)
	regions := []image.Rectangle{code.Intersect(img.Rect)}

	header, err := e.font.Face(float64(m.HeaderPx))
	if err != nil {
		return nil, Metrics{}, nil, err
	}
	defer closeFace(e.logger, header)

	body, err := e.font.Face(float64(m.BodyPx))
	if err != nil {
		return nil, Metrics{}, nil, err
	}
	defer closeFace(e.logger, body)

	x := toFixed(float64(m.CodeSize))
	drawn, headerExtent := drawText(img, header, x, toFixed(m.QuietZone), []string{req.ID}, 0)
	regions = append(regions, drawn...)

	lines := textwrap.Wrap(strings.Join([]string{req.Vendor, req.Product}, " "), m.WrapChars, e.tpl.MaxLines, e.tpl.Placeholder)
	bodyY := m.QuietZone + float64(m.HeaderPx) + float64(m.BodyPx)
	drawn, bodyExtent := drawText(img, body, x, toFixed(bodyY), lines, lineStep(body, e.tpl.LineSpacing))
	regions = append(regions, drawn...)

	if extent := headerExtent.Union(bodyExtent); !extent.In(img.Rect) {
		e.logger.Warn("label text clipped",
			"id", req.ID, "mode", req.Mode,
			"overflow_x", max(0, extent.Max.X-img.Rect.Max.X),
			"overflow_y", max(0, extent.Max.Y-img.Rect.Max.Y))
	}

	return img, m, regions, nil
}

// Render lays the label out and returns the opaque bitmap ready for output.
// Continuous labels are trimmed and rotated into feed orientation first.
func (e *Engine) Render(req Request) (*image.Gray, Metrics, error) {
	img, m, regions, err := e.Layout(req)
	if err != nil {
		return nil, Metrics{}, err
	}
	e.logger.Debug("initial label size", "id", req.ID, "width", img.Rect.Dx(), "height", img.Rect.Dy())

	if req.Mode == Continuous {
		img, err = orient.TrimAndRotate(img, regions, m.QuietZone)
		if errors.Is(err, orient.ErrNoContent) {
			return nil, Metrics{}, fmt.Errorf("%w: %w", ErrLayoutInvariant, err)
		} else if err != nil {
			return nil, Metrics{}, err
		}
	}

	label := canvas.Flatten(img)
	e.logger.Debug("final label size", "id", req.ID, "width", label.Rect.Dx(), "height", label.Rect.Dy())
	return label, m, nil
}

func closeFace(logger *slog.Logger, face font.Face) {
	if err := face.Close(); err != nil {
		logger.Error("could not close font face", "error", err)
	}
}
