// Package ql encodes label bitmaps for Brother QL printers and sends them.
package ql

import (
	"fmt"
	"slices"
	"strings"
)

type Kind int

const (
	Continuous Kind = iota
	DieCut
	RoundDieCut
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "endless"
	case DieCut:
		return "die-cut"
	case RoundDieCut:
		return "round die-cut"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Media describes a label roll. Dot counts are at 300 dpi.
type Media struct {
	Name     string
	WidthMM  int
	LengthMM int
	Kind     Kind
	// PrintableWidth and PrintableLength are the printable area in dots;
	// PrintableLength is 0 for continuous tape.
	PrintableWidth  int
	PrintableLength int
	// RightMargin is the number of head pins right of the printable area.
	RightMargin int
	// FeedMargin is the feed in dots before and after the label.
	FeedMargin int
	// Wide media only fits printers with a 1296 pin head.
	Wide bool
}

var media = []Media{
	{Name: "12", WidthMM: 12, Kind: Continuous, PrintableWidth: 106, RightMargin: 29, FeedMargin: 35},
	{Name: "29", WidthMM: 29, Kind: Continuous, PrintableWidth: 306, RightMargin: 6, FeedMargin: 35},
	{Name: "38", WidthMM: 38, Kind: Continuous, PrintableWidth: 413, RightMargin: 12, FeedMargin: 35},
	{Name: "50", WidthMM: 50, Kind: Continuous, PrintableWidth: 554, RightMargin: 12, FeedMargin: 35},
	{Name: "54", WidthMM: 54, Kind: Continuous, PrintableWidth: 590, RightMargin: 0, FeedMargin: 35},
	{Name: "62", WidthMM: 62, Kind: Continuous, PrintableWidth: 696, RightMargin: 12, FeedMargin: 35},
	{Name: "102", WidthMM: 102, Kind: Continuous, PrintableWidth: 1164, RightMargin: 12, FeedMargin: 35, Wide: true},
	{Name: "17x54", WidthMM: 17, LengthMM: 54, Kind: DieCut, PrintableWidth: 165, PrintableLength: 566, RightMargin: 0},
	{Name: "17x87", WidthMM: 17, LengthMM: 87, Kind: DieCut, PrintableWidth: 165, PrintableLength: 956, RightMargin: 0},
	{Name: "23x23", WidthMM: 23, LengthMM: 23, Kind: DieCut, PrintableWidth: 202, PrintableLength: 202, RightMargin: 42},
	{Name: "29x42", WidthMM: 29, LengthMM: 42, Kind: DieCut, PrintableWidth: 306, PrintableLength: 425, RightMargin: 6},
	{Name: "29x90", WidthMM: 29, LengthMM: 90, Kind: DieCut, PrintableWidth: 306, PrintableLength: 991, RightMargin: 6},
	{Name: "39x90", WidthMM: 38, LengthMM: 90, Kind: DieCut, PrintableWidth: 413, PrintableLength: 991, RightMargin: 12},
	{Name: "39x48", WidthMM: 39, LengthMM: 48, Kind: DieCut, PrintableWidth: 425, PrintableLength: 495, RightMargin: 6},
	{Name: "52x29", WidthMM: 52, LengthMM: 29, Kind: DieCut, PrintableWidth: 578, PrintableLength: 271, RightMargin: 0},
	{Name: "62x29", WidthMM: 62, LengthMM: 29, Kind: DieCut, PrintableWidth: 696, PrintableLength: 271, RightMargin: 12},
	{Name: "62x100", WidthMM: 62, LengthMM: 100, Kind: DieCut, PrintableWidth: 696, PrintableLength: 1109, RightMargin: 12},
	{Name: "102x51", WidthMM: 102, LengthMM: 51, Kind: DieCut, PrintableWidth: 1164, PrintableLength: 526, RightMargin: 12, Wide: true},
	{Name: "102x152", WidthMM: 102, LengthMM: 153, Kind: DieCut, PrintableWidth: 1164, PrintableLength: 1660, RightMargin: 12, Wide: true},
	{Name: "d12", WidthMM: 12, LengthMM: 12, Kind: RoundDieCut, PrintableWidth: 94, PrintableLength: 94, RightMargin: 113},
	{Name: "d24", WidthMM: 24, LengthMM: 24, Kind: RoundDieCut, PrintableWidth: 236, PrintableLength: 236, RightMargin: 42},
	{Name: "d58", WidthMM: 58, LengthMM: 58, Kind: RoundDieCut, PrintableWidth: 618, PrintableLength: 618, RightMargin: 51},
}

// AllMedia returns the known media in listing order.
func AllMedia() []Media {
	return slices.Clone(media)
}

func LookupMedia(name string) (Media, error) {
	for _, m := range media {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Media{}, fmt.Errorf("unknown label media: %s", name)
}

// Model describes the raster capabilities of a printer model.
type Model struct {
	Name string
	// Pins is the number of print head pins, i.e. dots per raster line.
	Pins         int
	Cutter       bool
	ModeSetting  bool
	ExpandedMode bool
	Compression  bool
	// Invalidate is the number of NUL bytes sent to reset the command parser.
	Invalidate int
}

func (m Model) lineBytes() int { return m.Pins / 8 }

var models = []Model{
	{Name: "QL-500", Pins: 720, Invalidate: 200},
	{Name: "QL-550", Pins: 720, Cutter: true, Invalidate: 200},
	{Name: "QL-560", Pins: 720, Cutter: true, Invalidate: 200},
	{Name: "QL-570", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-580N", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-650TD", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Invalidate: 200},
	{Name: "QL-700", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-710W", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-720NW", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-800", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 400},
	{Name: "QL-810W", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 400},
	{Name: "QL-820NWB", Pins: 720, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 400},
	{Name: "QL-1050", Pins: 1296, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-1060N", Pins: 1296, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 200},
	{Name: "QL-1100", Pins: 1296, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 400},
	{Name: "QL-1110NWB", Pins: 1296, Cutter: true, ModeSetting: true, ExpandedMode: true, Compression: true, Invalidate: 400},
}

func LookupModel(name string) (Model, error) {
	for _, m := range models {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("unknown printer model: %s", name)
}

// Supports reports whether media m can be loaded in printer model p.
func (p Model) Supports(m Media) bool {
	return !m.Wide || p.Pins >= 1296
}
