package ql

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
)

// ErrTransport is returned when the printer cannot be reached.
var ErrTransport = errors.New("printer transport failure")

// DefaultPort is the raw print port of networked QL printers.
const DefaultPort = "9100"

// Dial opens a connection to the printer at addr. Supported forms are
// tcp://host[:port], file:///dev/usb/lp0 and a bare device path.
func Dial(ctx context.Context, addr string) (io.WriteCloser, error) {
	if strings.HasPrefix(addr, "/") {
		return openDevice(addr)
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid printer address %q: %w", ErrTransport, addr, err)
	}

	switch u.Scheme {
	case "tcp":
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), DefaultPort)
		}
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", host)
		if err != nil {
			return nil, fmt.Errorf("%w: could not connect to %s: %w", ErrTransport, host, err)
		}
		return conn, nil
	case "file":
		return openDevice(u.Path)
	default:
		return nil, fmt.Errorf("%w: unsupported printer address %q", ErrTransport, addr)
	}
}

func openDevice(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %q: %w", ErrTransport, path, err)
	}
	return f, nil
}

// Send writes a complete print job to the printer at addr.
func Send(ctx context.Context, addr string, job []byte) error {
	w, err := Dial(ctx, addr)
	if err != nil {
		return err
	}

	if err := applyDeadline(ctx, w); err != nil {
		w.Close()
		return fmt.Errorf("%w: %s: %w", ErrTransport, addr, err)
	}

	if _, err := w.Write(job); err != nil {
		w.Close()
		return fmt.Errorf("%w: could not send job to %s: %w", ErrTransport, addr, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: could not close %s: %w", ErrTransport, addr, err)
	}
	return nil
}

// applyDeadline bounds writes on network connections by the context deadline.
// Device files block until the printer takes the job.
func applyDeadline(ctx context.Context, w io.Writer) error {
	d, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	c, ok := w.(net.Conn)
	if !ok {
		return nil
	}
	if err := c.SetWriteDeadline(d); err != nil {
		return fmt.Errorf("could not set write deadline: %w", err)
	}
	return nil
}

// Printer sends labels to one printer loaded with one kind of media.
type Printer struct {
	Address string
	Model   Model
	Media   Media
	Options Options

	logger *slog.Logger
}

func NewPrinter(logger *slog.Logger, address, model, media string, opts Options) (*Printer, error) {
	mo, err := LookupModel(model)
	if err != nil {
		return nil, err
	}
	me, err := LookupMedia(media)
	if err != nil {
		return nil, err
	}
	if !mo.Supports(me) {
		return nil, fmt.Errorf("%w: %s cannot print on %s media", ErrMediaMismatch, mo.Name, me.Name)
	}
	return &Printer{
		Address: address,
		Model:   mo,
		Media:   me,
		Options: opts,
		logger:  logger.With("printer", address, "model", mo.Name, "media", me.Name),
	}, nil
}

// Print encodes img and sends it. Encoding errors wrap ErrMediaMismatch,
// delivery errors wrap ErrTransport.
func (p *Printer) Print(ctx context.Context, img image.Image) error {
	job, err := Encode(p.logger, img, p.Model, p.Media, p.Options)
	if err != nil {
		return err
	}
	if err := Send(ctx, p.Address, job); err != nil {
		return err
	}
	p.logger.Info("printed label", "bytes", len(job))
	return nil
}
