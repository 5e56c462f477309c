// Package typeface resolves font references and builds pixel-sized faces.
package typeface

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/fontscan"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Default is the built-in font used when no font is configured.
const Default = "go"

// ErrFontResource is returned when a font reference cannot be resolved or parsed.
var ErrFontResource = errors.New("font resource not available")

var builtin = map[string][]byte{
	"go":        goregular.TTF,
	"go-bold":   gobold.TTF,
	"go-medium": gomedium.TTF,
	"go-mono":   gomono.TTF,
}

// Typeface is a parsed font, safe for concurrent use.
type Typeface struct {
	Name string
	font *opentype.Font
}

// Load resolves ref to a font. ref is a built-in name (go, go-bold,
// go-medium, go-mono), the path of a TrueType/OpenType file or collection,
// or the family name of an installed system font.
func Load(logger *slog.Logger, ref string) (*Typeface, error) {
	if ref == "" {
		ref = Default
	}

	if data, ok := builtin[strings.ToLower(ref)]; ok {
		return parse(ref, data, 0)
	}

	if looksLikePath(ref) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: could not read font file %q: %w", ErrFontResource, ref, err)
		}
		return parse(ref, data, 0)
	}

	return findSystem(logger, ref)
}

func looksLikePath(ref string) bool {
	if strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') {
		return true
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

func findSystem(logger *slog.Logger, family string) (*Typeface, error) {
	fm := fontscan.NewFontMap(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	if err := fm.UseSystemFonts(""); err != nil {
		return nil, fmt.Errorf("%w: could not scan system fonts for %q: %w", ErrFontResource, family, err)
	}

	loc, ok := fm.FindSystemFont(family)
	if !ok {
		return nil, fmt.Errorf("%w: no system font for family %q", ErrFontResource, family)
	}
	logger.Debug("resolved system font", "family", family, "file", loc.File, "index", loc.Index)

	data, err := os.ReadFile(loc.File)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read font file %q: %w", ErrFontResource, loc.File, err)
	}
	return parse(family, data, int(loc.Index))
}

func parse(name string, data []byte, index int) (*Typeface, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse font %q: %w", ErrFontResource, name, err)
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("%w: font %q has no face %d", ErrFontResource, name, index)
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load face %d of %q: %w", ErrFontResource, index, name, err)
	}
	return &Typeface{Name: name, font: f}, nil
}

// Face returns a face px pixels per em tall. The caller should Close it.
func (t *Typeface) Face(px float64) (font.Face, error) {
	face, err := opentype.NewFace(t.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not create %gpx face of %q: %w", ErrFontResource, px, t.Name, err)
	}
	return face, nil
}
