package label

import (
	"errors"
	"fmt"
	"math"
)

// ErrLayoutInvariant is returned when a label cannot be laid out at all:
// a computed dimension is not positive, or nothing was drawn.
var ErrLayoutInvariant = errors.New("layout invariant violated")

type Mode int

const (
	// Fixed lays the label out for a die-cut label Width pixels wide.
	Fixed Mode = iota
	// Continuous lays the label out for tape Width pixels wide, then crops
	// and rotates it into feed orientation.
	Continuous
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Metrics are the sizes derived from the requested width and mode.
type Metrics struct {
	LabelWidth  int
	LabelHeight int
	CodeSize    int
	HeaderPx    int
	BodyPx      int
	WrapChars   int

	// CodeScale is CodeSize divided by the source symbol width.
	CodeScale float64
	// QuietZone is the symbol border after scaling, in pixels.
	QuietZone float64
}

// ComputeMetrics derives the label geometry. symbolWidth is the width of the
// source symbol in modules, quiet zone included.
func ComputeMetrics(tpl Template, width int, mode Mode, symbolWidth int) (Metrics, error) {
	if width <= 0 {
		return Metrics{}, fmt.Errorf("%w: width %d", ErrLayoutInvariant, width)
	}
	if symbolWidth <= 0 {
		return Metrics{}, fmt.Errorf("%w: symbol width %d", ErrLayoutInvariant, symbolWidth)
	}

	var m Metrics
	switch mode {
	case Continuous:
		m.LabelHeight = width
		m.LabelWidth = m.LabelHeight * 3
		m.CodeSize = m.LabelHeight
	case Fixed:
		m.LabelWidth = width
		m.CodeSize = m.LabelWidth / 3
		m.LabelHeight = m.CodeSize
	default:
		return Metrics{}, fmt.Errorf("%w: unknown mode %v", ErrLayoutInvariant, mode)
	}

	m.CodeScale = float64(m.CodeSize) / float64(symbolWidth)
	m.QuietZone = m.CodeScale * float64(tpl.Border)

	// text scales with the label width so it stays balanced across lengths
	m.HeaderPx = int(math.Round(float64(m.LabelWidth) * tpl.HeaderScale))
	m.BodyPx = int(math.Round(float64(m.LabelWidth) * tpl.BodyScale))

	switch {
	case m.CodeSize <= 0:
		return Metrics{}, fmt.Errorf("%w: code size %d for width %d", ErrLayoutInvariant, m.CodeSize, width)
	case m.HeaderPx <= 0:
		return Metrics{}, fmt.Errorf("%w: header font %dpx for width %d", ErrLayoutInvariant, m.HeaderPx, width)
	case m.BodyPx <= 0:
		return Metrics{}, fmt.Errorf("%w: body font %dpx for width %d", ErrLayoutInvariant, m.BodyPx, width)
	}

	m.WrapChars = int(math.Floor(float64(m.LabelWidth) / float64(m.BodyPx) / tpl.WrapRatio))
	if m.WrapChars <= 0 {
		return Metrics{}, fmt.Errorf("%w: %d characters per line for width %d", ErrLayoutInvariant, m.WrapChars, width)
	}
	return m, nil
}
