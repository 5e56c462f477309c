package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"spoolabel/ql"
	"spoolabel/render"
)

type cli struct {
	LogLevel  string          `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info"`
	LogFormat string          `help:"Log format (text, json)" enum:"text,json" default:"text"`
	Config    kong.ConfigFlag `help:"JSON file with flag defaults"`

	Render render.CLICmd `cmd:"" default:"withargs" help:"Create labels for spools (default command)"`
	Media  ql.MediaCmd   `cmd:"" help:"List known label media"`
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("spoolabel"),
		kong.Description("Create QR code labels for Spoolman filament spools, save them or print them on Brother QL printers."),
		kong.UsageOnError(),
		kong.DefaultEnvars("SPOOLABEL"),
		kong.Configuration(kong.JSON),
	)

	logger := newLogger(os.Stderr, c.LogLevel, c.LogFormat)
	slog.SetDefault(logger)

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	if err := kctx.Run(logger); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}
