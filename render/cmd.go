package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"spoolabel/label"
	"spoolabel/ql"
	"spoolabel/spoolman"
	"spoolabel/typeface"
)

type CLICmd struct {
	SpoolIDs []int `arg:"" name:"spool-id" help:"Spool IDs to create labels for"`

	Continuous bool   `short:"c" help:"Generate vertical and cropped labels for thin continuous tapes"`
	Width      int    `short:"w" required:"" help:"Label width in pixels, or tape width in continuous mode (see the media command)"`
	Font       string `short:"f" default:"go" help:"Built-in font (go, go-bold, go-medium, go-mono), font file or system font family"`
	Print      bool   `short:"p" help:"Print created labels, else save them to files"`
	Verbose    bool   `short:"v" help:"Show a preview of each label on the terminal"`
	Columns    int    `default:"80" help:"Preview width in terminal columns"`

	SpoolmanAddress string        `short:"a" required:"" group:"spoolman" help:"Spoolman address, e.g. http://spoolman.local:7912"`
	Timeout         time.Duration `default:"10s" group:"spoolman" help:"Spoolman request timeout"`

	Dest   string  `default:"." group:"output" help:"Destination folder for label files"`
	Format string  `enum:"png,bmp,tiff,pdf" default:"png" group:"output" help:"Label file format (png, bmp, tiff, pdf)"`
	DPI    float64 `default:"300" group:"output" help:"Resolution used to size PDF pages"`

	PrinterModel   string  `default:"QL-800" group:"printer" help:"Printer model"`
	PrinterAddress string  `default:"file:///dev/usb/lp0" group:"printer" help:"Printer address: tcp://host[:port], file:///dev/usb/lp0 or a device path"`
	LabelName      string  `default:"62" group:"printer" help:"Label media to print on, see the media command"`
	Cut            bool    `default:"true" negatable:"" group:"printer" help:"Cut after each label"`
	HighDPI        bool    `group:"printer" help:"Print at 600 dpi along the feed; the label must be twice as wide"`
	Dither         bool    `group:"printer" help:"Dither instead of thresholding to black and white"`
	Threshold      float64 `default:"70" group:"printer" help:"Print a dot where darkness is at least (100 - threshold) percent; higher prints more"`

	URIPrefix     string  `default:"web+spoolman:s-" group:"template" help:"Prefix of the encoded spool URI"`
	Symbology     string  `enum:"qr,aztec" default:"qr" group:"template" help:"Code symbology (qr, aztec)"`
	SymbolVersion int     `default:"2" group:"template" help:"QR version, or Aztec layer count (negative for compact)"`
	ECLevel       string  `name:"ec-level" enum:"L,M,Q,H" default:"Q" group:"template" help:"Error correction level (L, M, Q, H)"`
	Border        int     `default:"4" group:"template" help:"Quiet zone around the code, in modules"`
	HeaderScale   float64 `default:"0.10" group:"template" help:"Header font size relative to label width"`
	BodyScale     float64 `default:"0.035" group:"template" help:"Body font size relative to label width"`
	WrapRatio     float64 `default:"1.5" group:"template" help:"Body characters per line are width / body size / ratio"`
	MaxLines      int     `default:"3" group:"template" help:"Maximum body lines"`

	template label.Template `kong:"-"`
	media    ql.Media       `kong:"-"`
	model    ql.Model       `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if len(c.SpoolIDs) == 0 {
		return fmt.Errorf("no spool IDs given")
	}
	if c.Width <= 0 {
		return fmt.Errorf("invalid label width: %d", c.Width)
	}

	c.template = c.Template()
	if err := c.template.Validate(); err != nil {
		return err
	}
	if _, err := c.template.Symbols(); err != nil {
		return err
	}

	if c.Print {
		var err error
		if c.model, err = ql.LookupModel(c.PrinterModel); err != nil {
			return err
		}
		if c.media, err = ql.LookupMedia(c.LabelName); err != nil {
			return err
		}
		if !c.model.Supports(c.media) {
			return fmt.Errorf("printer %s cannot print on %s media", c.model.Name, c.media.Name)
		}
		if c.Threshold <= 0 || c.Threshold > 100 {
			return fmt.Errorf("invalid threshold: %g", c.Threshold)
		}
		return nil
	}

	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest
	return nil
}

// Template returns the label template configured by the flags.
func (c *CLICmd) Template() label.Template {
	tpl := label.DefaultTemplate()
	tpl.URIPrefix = c.URIPrefix
	tpl.Symbology = c.Symbology
	tpl.SymbolVersion = c.SymbolVersion
	tpl.ECLevel = c.ECLevel
	tpl.Border = c.Border
	tpl.HeaderScale = c.HeaderScale
	tpl.BodyScale = c.BodyScale
	tpl.WrapRatio = c.WrapRatio
	tpl.MaxLines = c.MaxLines
	return tpl
}

func (c *CLICmd) Run(ctx context.Context, logger *slog.Logger, stdout io.Writer) error {
	batch, err := c.batch(logger, stdout)
	if err != nil {
		return err
	}

	report := batch.Run(ctx, c.SpoolIDs)

	processed, failed := report.Processed(), report.Failed()
	logger.Info("stats", "processed", processed, "errors", failed,
		"total", processed+failed, "requested", len(c.SpoolIDs))

	return report.Err()
}

func (c *CLICmd) batch(logger *slog.Logger, stdout io.Writer) (*Batch, error) {
	client, err := spoolman.NewClient(c.SpoolmanAddress, c.Timeout)
	if err != nil {
		return nil, err
	}

	tf, err := typeface.Load(logger, c.Font)
	if err != nil {
		return nil, err
	}
	engine, err := label.NewEngine(logger, c.template, tf)
	if err != nil {
		return nil, err
	}

	var sink Sink
	if c.Print {
		p, err := ql.NewPrinter(logger, c.PrinterAddress, c.model.Name, c.media.Name, ql.Options{
			Cut:       c.Cut,
			HighDPI:   c.HighDPI,
			Dither:    c.Dither,
			Threshold: c.Threshold,
		})
		if err != nil {
			return nil, err
		}
		sink = PrintSink{Printer: p}
	} else {
		if err := os.MkdirAll(c.Dest, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
		}
		sink = FileSink{Dir: c.Dest, Format: c.Format, DPI: c.DPI}
	}

	mode := label.Fixed
	if c.Continuous {
		mode = label.Continuous
	}

	b := &Batch{
		Logger:  logger,
		Client:  client,
		Engine:  engine,
		Width:   c.Width,
		Mode:    mode,
		Sink:    sink,
		Columns: c.Columns,
	}
	if c.Verbose {
		b.Preview = stdout
	}
	return b, nil
}
