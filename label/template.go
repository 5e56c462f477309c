package label

import (
	"fmt"

	"spoolabel/symbol"
	"spoolabel/textwrap"
)

// Template holds the tunables of the "square code + proportional text" label.
type Template struct {
	// URIPrefix is prepended to the identifier to form the symbol content.
	URIPrefix string

	// Symbology is "qr" or "aztec".
	Symbology string
	// SymbolVersion is the QR version, or the Aztec layer count.
	SymbolVersion int
	// ECLevel is the error correction tier: L, M, Q or H.
	ECLevel string
	// Border is the quiet zone around the symbol, in modules.
	Border int

	// HeaderScale and BodyScale size the fonts relative to the label width.
	HeaderScale float64
	BodyScale   float64
	// WrapRatio approximates the average glyph width as BodyPx/WrapRatio.
	WrapRatio float64
	// MaxLines caps the wrapped body text; overflow ends with Placeholder.
	MaxLines    int
	Placeholder string
	// LineSpacing is the extra gap between body lines, in pixels.
	LineSpacing int
}

func DefaultTemplate() Template {
	return Template{
		URIPrefix:     "web+spoolman:s-",
		Symbology:     "qr",
		SymbolVersion: 2,
		ECLevel:       "Q",
		Border:        symbol.DefaultBorder,
		HeaderScale:   0.10,
		BodyScale:     0.035,
		WrapRatio:     1.5,
		MaxLines:      3,
		Placeholder:   textwrap.DefaultPlaceholder,
		LineSpacing:   4,
	}
}

func (t Template) Validate() error {
	switch {
	case t.Border < 0:
		return fmt.Errorf("invalid quiet zone: %d modules", t.Border)
	case t.HeaderScale <= 0:
		return fmt.Errorf("invalid header scale: %g", t.HeaderScale)
	case t.BodyScale <= 0:
		return fmt.Errorf("invalid body scale: %g", t.BodyScale)
	case t.WrapRatio <= 0:
		return fmt.Errorf("invalid wrap ratio: %g", t.WrapRatio)
	case t.MaxLines < 1:
		return fmt.Errorf("invalid max lines: %d", t.MaxLines)
	case t.LineSpacing < 0:
		return fmt.Errorf("invalid line spacing: %d", t.LineSpacing)
	}
	return nil
}

// Symbols returns the symbol provider configured by the template.
func (t Template) Symbols() (symbol.Provider, error) {
	return symbol.New(t.Symbology, t.SymbolVersion, t.ECLevel, t.Border)
}
