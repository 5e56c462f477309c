// Package output writes rendered labels to files and terminals.
package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Formats lists the supported file formats.
var Formats = []string{"png", "bmp", "tiff", "pdf"}

// DefaultDPI is the resolution of Brother QL print heads.
const DefaultDPI = 300

// Save writes img to dir as name.format through a temporary file, so a
// failed write never leaves a partial label behind. dpi sets the physical
// page size of PDF output.
func Save(img image.Image, format, dir, name string, dpi float64) (path string, err error) {
	destName := fmt.Sprintf("%s.%s", name, format)
	path = filepath.Join(dir, destName)

	outFile, err := os.CreateTemp(dir, destName)
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			os.Remove(outFile.Name())
			path = ""
		}
	}()

	if err = Encode(outFile, img, format, dpi); err != nil {
		return "", fmt.Errorf("could not encode destination %q: %w", destName, err)
	}

	canRename = true
	return path, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string, dpi float64) error {
	switch format {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "pdf":
		return encodePDF(w, img, dpi)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// encodePDF places img on a single page sized to the label's physical
// dimensions at dpi.
func encodePDF(w io.Writer, img image.Image, dpi float64) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	dpmm := dpi / 25.4
	b := img.Bounds()
	width, height := float64(b.Dx())/dpmm, float64(b.Dy())/dpmm

	writer := pdf.New(w, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("could not write PDF: %w", err)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
