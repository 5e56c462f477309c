// Package render drives a batch of spool labels from inventory lookup to
// file or printer.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strconv"

	"spoolabel/label"
	"spoolabel/output"
	"spoolabel/ql"
	"spoolabel/spoolman"
	"spoolabel/typeface"
)

// Sink receives finished labels.
type Sink interface {
	// Write outputs the label for spool id and describes where it went.
	Write(ctx context.Context, id int, img *image.Gray) (string, error)
}

// FileSink saves labels as {id}.{format} in Dir.
type FileSink struct {
	Dir    string
	Format string
	DPI    float64
}

func (s FileSink) Write(_ context.Context, id int, img *image.Gray) (string, error) {
	return output.Save(img, s.Format, s.Dir, strconv.Itoa(id), s.DPI)
}

// PrintSink sends each label to a printer as its own job.
type PrintSink struct {
	Printer *ql.Printer
}

func (s PrintSink) Write(ctx context.Context, _ int, img *image.Gray) (string, error) {
	if err := s.Printer.Print(ctx, img); err != nil {
		return "", err
	}
	return s.Printer.Address, nil
}

// Result is the outcome for one spool.
type Result struct {
	ID     int
	Output string
	Size   image.Point
	Err    error
}

type Report struct {
	Results []Result
	// Aborted is set when a failure stopped the batch early.
	Aborted error
}

func (r *Report) Processed() int {
	var n int
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Processed()
}

// Err summarizes the report as a single error, or nil if every label was
// produced.
func (r *Report) Err() error {
	if r.Aborted != nil {
		return fmt.Errorf("batch aborted: %w", r.Aborted)
	}
	if n := r.Failed(); n > 0 {
		return fmt.Errorf("error processing %d spools", n)
	}
	return nil
}

// Batch renders labels one spool at a time, in order.
type Batch struct {
	Logger  *slog.Logger
	Client  *spoolman.Client
	Engine  *label.Engine
	Width   int
	Mode    label.Mode
	Sink    Sink
	Preview io.Writer
	Columns int
}

// Run processes ids in order. Lookup, symbol, media and save failures are
// recorded and the batch moves on; font, layout and printer transport
// failures stop it.
func (b *Batch) Run(ctx context.Context, ids []int) *Report {
	report := &Report{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			report.Aborted = err
			break
		}

		res := b.one(ctx, id)
		report.Results = append(report.Results, res)
		if res.Err != nil && fatal(res.Err) {
			report.Aborted = res.Err
			break
		}
	}
	return report
}

func (b *Batch) one(ctx context.Context, id int) Result {
	logger := b.Logger.With("spool", id)
	res := Result{ID: id}

	spool, err := b.Client.Spool(ctx, id)
	if err != nil {
		res.Err = err
		logger.Error("could not look up spool", "error", err)
		return res
	}
	logger.Info("spool info", "vendor", spool.VendorName(), "filament", spool.Filament.Name)

	img, m, err := b.Engine.Render(label.Request{
		ID:      strconv.Itoa(id),
		Vendor:  spool.VendorName(),
		Product: spool.Filament.Name,
		Width:   b.Width,
		Mode:    b.Mode,
	})
	if err != nil {
		res.Err = err
		logger.Error("could not render label", "error", err)
		return res
	}
	res.Size = img.Rect.Size()
	logger.Debug("label metrics", "code_size", m.CodeSize, "header_px", m.HeaderPx, "body_px", m.BodyPx, "wrap", m.WrapChars)

	if b.Preview != nil {
		if err := output.Preview(b.Preview, img, b.Columns); err != nil {
			logger.Warn("could not show preview", "error", err)
		}
	}

	res.Output, err = b.Sink.Write(ctx, id, img)
	if err != nil {
		res.Err = err
		logger.Error("could not output label", "error", err)
		return res
	}
	logger.Info("label done", "output", res.Output, "width", res.Size.X, "height", res.Size.Y)
	return res
}

func fatal(err error) bool {
	return errors.Is(err, typeface.ErrFontResource) ||
		errors.Is(err, label.ErrLayoutInvariant) ||
		errors.Is(err, ql.ErrTransport)
}
