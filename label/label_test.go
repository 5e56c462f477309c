package label

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"spoolabel/canvas"
	"spoolabel/symbol"
	"spoolabel/typeface"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine(t *testing.T, tpl Template) *Engine {
	t.Helper()
	tf, err := typeface.Load(discard, typeface.Default)
	if err != nil {
		t.Fatalf("load font: %v", err)
	}
	e, err := NewEngine(discard, tpl, tf)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestComputeMetricsFixed(t *testing.T) {
	tpl := DefaultTemplate()
	for _, w := range []int{3, 10, 99, 306, 600, 696, 1164} {
		m, err := ComputeMetrics(tpl, w, Fixed, 33)
		if err != nil {
			if w < 30 && errors.Is(err, ErrLayoutInvariant) {
				// too narrow for a positive body font
				continue
			}
			t.Fatalf("width %d: %v", w, err)
		}
		if m.CodeSize != w/3 {
			t.Errorf("width %d: code size %d want %d", w, m.CodeSize, w/3)
		}
		if m.LabelHeight != m.CodeSize || m.LabelWidth != w {
			t.Errorf("width %d: canvas %dx%d", w, m.LabelWidth, m.LabelHeight)
		}
		if m.CodeScale != float64(m.CodeSize)/33 {
			t.Errorf("width %d: code scale %g", w, m.CodeScale)
		}
	}
}

func TestComputeMetricsContinuous(t *testing.T) {
	tpl := DefaultTemplate()
	for _, w := range []int{50, 100, 106, 306, 696} {
		m, err := ComputeMetrics(tpl, w, Continuous, 33)
		if err != nil {
			t.Fatalf("width %d: %v", w, err)
		}
		if m.LabelWidth != 3*w || m.LabelHeight != w || m.CodeSize != w {
			t.Errorf("width %d: got %dx%d code %d", w, m.LabelWidth, m.LabelHeight, m.CodeSize)
		}
	}
}

func TestComputeMetricsScenario(t *testing.T) {
	m, err := ComputeMetrics(DefaultTemplate(), 600, Fixed, 33)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	want := Metrics{
		LabelWidth:  600,
		LabelHeight: 200,
		CodeSize:    200,
		HeaderPx:    60,
		BodyPx:      21,
		WrapChars:   19,
		CodeScale:   200.0 / 33,
		QuietZone:   200.0 / 33 * 4,
	}
	if m != want {
		t.Fatalf("got %+v want %+v", m, want)
	}
}

func TestComputeMetricsInvalid(t *testing.T) {
	tpl := DefaultTemplate()
	tests := []struct {
		name  string
		width int
		mode  Mode
		sym   int
	}{
		{"zero width", 0, Fixed, 33},
		{"negative width", -5, Continuous, 33},
		{"no code", 2, Fixed, 33},
		{"no body font", 12, Fixed, 33},
		{"no symbol", 600, Fixed, 0},
		{"unknown mode", 600, Mode(7), 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeMetrics(tpl, tt.width, tt.mode, tt.sym); !errors.Is(err, ErrLayoutInvariant) {
				t.Fatalf("expected ErrLayoutInvariant, got %v", err)
			}
		})
	}
}

func TestRenderFixedScenario(t *testing.T) {
	e := newEngine(t, DefaultTemplate())
	req := Request{ID: "42", Vendor: "Acme Filaments", Product: "PLA Black", Width: 600, Mode: Fixed}

	img, m, err := e.Render(req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 200 {
		t.Fatalf("got %dx%d want 600x200", b.Dx(), b.Dy())
	}
	if m.CodeSize != 200 || m.HeaderPx != 60 || m.BodyPx != 21 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	// text is drawn right of the code
	dark := false
	for y := 0; y < 200 && !dark; y++ {
		for x := 200; x < 600; x++ {
			if img.GrayAt(x, y).Y < 0x80 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Fatal("no text drawn")
	}
}

func TestRenderIdempotent(t *testing.T) {
	e := newEngine(t, DefaultTemplate())
	for _, mode := range []Mode{Fixed, Continuous} {
		req := Request{ID: "7", Vendor: "Acme", Product: "PETG Galaxy Blue", Width: 306, Mode: mode}
		a, _, err := e.Render(req)
		if err != nil {
			t.Fatalf("%v: render: %v", mode, err)
		}
		b, _, err := e.Render(req)
		if err != nil {
			t.Fatalf("%v: render: %v", mode, err)
		}
		if a.Bounds() != b.Bounds() || !bytes.Equal(a.Pix, b.Pix) {
			t.Fatalf("%v: renders differ", mode)
		}
	}
}

func TestQuietZoneAfterScaling(t *testing.T) {
	e := newEngine(t, DefaultTemplate())
	img, m, err := e.Render(Request{ID: "42", Vendor: "Acme Filaments", Product: "PLA Black", Width: 600, Mode: Fixed})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// a row through the top finder patterns
	y := int(m.QuietZone + 2*m.CodeScale)
	first, last := -1, -1
	for x := 0; x < m.CodeSize; x++ {
		if img.GrayAt(x, y).Y == 0 {
			if first < 0 {
				first = x
			}
			last = x
		}
	}
	if first < 0 {
		t.Fatal("no modules found")
	}

	want := float64(symbol.DefaultBorder) * float64(m.CodeSize) / 33
	if math.Abs(float64(first)-want) > 1 {
		t.Errorf("leading quiet zone %d px, want %.2f", first, want)
	}
	if trailing := m.CodeSize - 1 - last; math.Abs(float64(trailing)-want) > 1 {
		t.Errorf("trailing quiet zone %d px, want %.2f", trailing, want)
	}
}

func TestRegionsMatchAlpha(t *testing.T) {
	e := newEngine(t, DefaultTemplate())
	for _, mode := range []Mode{Fixed, Continuous} {
		img, _, regions, err := e.Layout(Request{ID: "1234", Vendor: "Acme", Product: "ASA White", Width: 300, Mode: mode})
		if err != nil {
			t.Fatalf("%v: layout: %v", mode, err)
		}
		box, ok := canvas.Union(regions)
		if !ok {
			t.Fatalf("%v: no regions", mode)
		}
		if alpha := canvas.AlphaBounds(img); alpha != box {
			t.Fatalf("%v: regions %v, alpha %v", mode, box, alpha)
		}
		if box.Min != (image.Point{}) {
			t.Fatalf("%v: box does not start at origin: %v", mode, box)
		}
	}
}

func TestRenderContinuousScenario(t *testing.T) {
	e := newEngine(t, DefaultTemplate())
	req := Request{ID: "42", Vendor: "Acme Filaments", Product: "PLA Black", Width: 100, Mode: Continuous}

	layout, m, regions, err := e.Layout(req)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if b := layout.Bounds(); b.Dx() != 300 || b.Dy() != 100 {
		t.Fatalf("pre-crop canvas %dx%d, want 300x100", b.Dx(), b.Dy())
	}
	if m.CodeSize != 100 {
		t.Fatalf("code size %d, want 100", m.CodeSize)
	}

	box, _ := canvas.Union(regions)
	cropW := min(box.Max.X+int(math.Round(m.QuietZone)), 300)
	cropH := box.Max.Y
	if cropW < m.CodeSize+int(m.QuietZone) {
		t.Fatalf("crop %d narrower than code plus quiet zone", cropW)
	}

	img, _, err := e.Render(req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != cropH || b.Dy() != cropW {
		t.Fatalf("final %dx%d, want %dx%d", b.Dx(), b.Dy(), cropH, cropW)
	}

	flat := canvas.Flatten(layout)
	for sy := 0; sy < cropH; sy++ {
		for sx := 0; sx < cropW; sx++ {
			if got, want := img.GrayAt(sy, cropW-1-sx).Y, flat.GrayAt(sx, sy).Y; got != want {
				t.Fatalf("pixel (%d,%d): got %d want %d", sx, sy, got, want)
			}
		}
	}
}

func TestBodyTruncatedToMaxLines(t *testing.T) {
	tpl := DefaultTemplate()
	// small body font so a fourth line would still fit on the canvas
	tpl.BodyScale = 0.01
	e := newEngine(t, tpl)
	long := strings.Repeat("Extraordinarily Verbose Vendor ", 8)
	req := Request{ID: "3", Vendor: long, Product: "PLA", Width: 900, Mode: Fixed}

	_, m, regions, err := e.Layout(req)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	face, err := e.font.Face(float64(m.BodyPx))
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	defer face.Close()

	step := lineStep(face, tpl.LineSpacing)
	bodyTop := int(m.QuietZone) + m.HeaderPx + m.BodyPx
	if bodyTop+(tpl.MaxLines+1)*step > m.LabelHeight {
		t.Fatalf("test geometry leaves no room for an extra line")
	}

	lastLine := false
	for _, r := range regions[1:] {
		if r.Min.Y < bodyTop {
			continue
		}
		if r.Min.Y >= bodyTop+tpl.MaxLines*step {
			t.Fatalf("body ink at %v past %d lines", r, tpl.MaxLines)
		}
		if r.Min.Y >= bodyTop+(tpl.MaxLines-1)*step {
			lastLine = true
		}
	}
	if !lastLine {
		t.Fatalf("expected %d body lines", tpl.MaxLines)
	}
}

func TestLayoutErrors(t *testing.T) {
	e := newEngine(t, DefaultTemplate())

	if _, _, _, err := e.Layout(Request{ID: "", Width: 600}); !errors.Is(err, ErrLayoutInvariant) {
		t.Errorf("empty id: expected ErrLayoutInvariant, got %v", err)
	}
	if _, _, _, err := e.Layout(Request{ID: "1", Width: 0}); !errors.Is(err, ErrLayoutInvariant) {
		t.Errorf("zero width: expected ErrLayoutInvariant, got %v", err)
	}
	if _, _, _, err := e.Layout(Request{ID: strings.Repeat("9", 40), Width: 600}); !errors.Is(err, symbol.ErrEncode) {
		t.Errorf("long id: expected ErrEncode, got %v", err)
	}
}

func TestNewEngineRejectsTemplate(t *testing.T) {
	tf, err := typeface.Load(discard, typeface.Default)
	if err != nil {
		t.Fatalf("load font: %v", err)
	}

	bad := DefaultTemplate()
	bad.WrapRatio = 0
	if _, err := NewEngine(discard, bad, tf); err == nil {
		t.Error("expected error for zero wrap ratio")
	}

	bad = DefaultTemplate()
	bad.Symbology = "maxicode"
	if _, err := NewEngine(discard, bad, tf); err == nil {
		t.Error("expected error for unknown symbology")
	}
}

func TestRenderWarnsWhenTextClipped(t *testing.T) {
	tf, err := typeface.Load(discard, typeface.Default)
	if err != nil {
		t.Fatalf("load font: %v", err)
	}

	big := DefaultTemplate()
	big.HeaderScale = 0.5

	tests := []struct {
		name    string
		tpl     Template
		clipped bool
	}{
		{name: "default", tpl: DefaultTemplate(), clipped: false},
		{name: "oversized header", tpl: big, clipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			e, err := NewEngine(slog.New(slog.NewJSONHandler(&logs, nil)), tt.tpl, tf)
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			img, _, err := e.Render(Request{ID: "42", Vendor: "Acme Filaments", Product: "PLA Black", Width: 600, Mode: Fixed})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 200 {
				t.Fatalf("got %dx%d want 600x200", b.Dx(), b.Dy())
			}

			var warning map[string]any
			dec := json.NewDecoder(&logs)
			for dec.More() {
				var rec map[string]any
				if err := dec.Decode(&rec); err != nil {
					t.Fatalf("decode log: %v", err)
				}
				if rec["msg"] == "label text clipped" {
					warning = rec
				}
			}

			if !tt.clipped {
				if warning != nil {
					t.Fatalf("unexpected warning %v", warning)
				}
				return
			}
			if warning == nil {
				t.Fatal("no clipping warning logged")
			}
			if warning["level"] != "WARN" || warning["id"] != "42" {
				t.Fatalf("unexpected warning %v", warning)
			}
			if dy, _ := warning["overflow_y"].(float64); dy <= 0 {
				t.Fatalf("overflow_y: got %v", warning["overflow_y"])
			}
			if dx, ok := warning["overflow_x"].(float64); !ok || dx < 0 {
				t.Fatalf("overflow_x: got %v", warning["overflow_x"])
			}
		})
	}
}
