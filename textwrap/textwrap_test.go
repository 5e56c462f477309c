package textwrap

import (
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		maxLines int
		want     []string
	}{
		{
			name:     "fits budget",
			text:     "Acme Filaments PLA Black",
			width:    19,
			maxLines: 3,
			want:     []string{"Acme Filaments PLA", "Black"},
		},
		{
			name:     "narrow",
			text:     "Acme Filaments PLA Black",
			width:    10,
			maxLines: 3,
			want:     []string{"Acme", "Filaments", "PLA Black"},
		},
		{
			name:     "collapses whitespace",
			text:     "  Acme\t\tFilaments \n",
			width:    40,
			maxLines: 3,
			want:     []string{"Acme Filaments"},
		},
		{
			name:     "long word fills current line",
			text:     "ab cdefghijklmnop",
			width:    10,
			maxLines: 3,
			want:     []string{"ab cdefghi", "jklmnop"},
		},
		{
			name:     "truncated with placeholder",
			text:     "one two three four five six seven eight nine ten",
			width:    10,
			maxLines: 3,
			want:     []string{"one two", "three four", "five [...]"},
		},
		{
			name:     "placeholder alone",
			text:     "abc defghi jkl",
			width:    6,
			maxLines: 2,
			want:     []string{"abc", "[...]"},
		},
		{
			name:     "unlimited lines",
			text:     "one two three four five six seven eight nine ten",
			width:    10,
			maxLines: 0,
			want:     []string{"one two", "three four", "five six", "seven", "eight nine", "ten"},
		},
		{
			name:     "normalized before counting",
			text:     "Cafe\u0301 Noir",
			width:    9,
			maxLines: 3,
			want:     []string{"Café Noir"},
		},
		{
			name:     "breaks after hyphens",
			text:     "Prusament PLA-Galaxy-Black-Extra-Long",
			width:    12,
			maxLines: 3,
			want:     []string{"Prusament", "PLA-Galaxy-", "Black- [...]"},
		},
		{
			name:     "hyphenated word kept whole when it fits",
			text:     "Polymaker PolyTerra-Matte-Charcoal",
			width:    14,
			maxLines: 3,
			want:     []string{"Polymaker", "PolyTerra-", "Matte-Charcoal"},
		},
		{
			name:     "hyphens between letters only",
			text:     "ABS-GF X-Y 1.75-mm Silk-PLA",
			width:    6,
			maxLines: 0,
			want:     []string{"ABS-GF", "X-Y 1.", "75-mm", "Silk-", "PLA"},
		},
		{
			name:     "short compound",
			text:     "PETG-CF",
			width:    5,
			maxLines: 0,
			want:     []string{"PETG-", "CF"},
		},
		{name: "zero width", text: "abc", width: 0, maxLines: 3, want: nil},
		{name: "empty", text: "   ", width: 10, maxLines: 3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, tt.maxLines, DefaultPlaceholder)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestWrapNeverExceedsMaxLines(t *testing.T) {
	text := "Extremely Long Vendor Name Incorporated Limited Silk Matte Galaxy Rainbow PLA+ 1.75mm 1kg"
	for width := 1; width < 40; width++ {
		lines := Wrap(text, width, 3, DefaultPlaceholder)
		if len(lines) > 3 {
			t.Fatalf("width %d: %d lines", width, len(lines))
		}
	}
}
