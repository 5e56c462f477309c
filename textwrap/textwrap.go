// Package textwrap fills text into lines of a fixed character budget.
package textwrap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultPlaceholder marks a truncated last line.
const DefaultPlaceholder = " [...]"

// Wrap splits text into lines of at most width characters, breaking on
// whitespace and after hyphens inside compound words ("PLA-Galaxy"). Runs
// of whitespace collapse to a single space and words longer than width are
// split across lines. If maxLines > 0 and the text needs more lines, the
// output is cut to maxLines and the last line ends with placeholder.
//
// Width counts runes after NFC normalization, not rendered glyph widths.
func Wrap(text string, width, maxLines int, placeholder string) []string {
	if width <= 0 {
		return nil
	}
	return wrapChunks(split(norm.NFC.String(text)), width, maxLines, placeholder)
}

// split cuts text into the units lines are filled with: words, hyphenated
// word parts and single spaces.
func split(text string) []string {
	var chunks []string
	for i, w := range strings.Fields(text) {
		if i > 0 {
			chunks = append(chunks, " ")
		}
		chunks = append(chunks, hyphenated(w)...)
	}
	return chunks
}

func hyphenated(w string) []string {
	r := []rune(w)
	var parts []string
	start := 0
	for i := range r {
		if r[i] == '-' && breaksAfter(r, i) {
			parts = append(parts, string(r[start:i+1]))
			start = i + 1
		}
	}
	return append(parts, string(r[start:]))
}

// breaksAfter reports whether the hyphen at r[i] joins two lettered parts:
// two letters (or letter, hyphen, letter) on the left, and letter,
// optional hyphen, letter on the right.
func breaksAfter(r []rune, i int) bool {
	letter := func(j int) bool { return j >= 0 && j < len(r) && unicode.IsLetter(r[j]) }
	hyphen := func(j int) bool { return j >= 0 && j < len(r) && r[j] == '-' }

	left := letter(i-1) && (letter(i-2) || hyphen(i-2) && letter(i-3))
	right := letter(i+1) && (letter(i+2) || hyphen(i+2) && letter(i+3))
	return left && right
}

func wrapChunks(chunks []string, width, maxLines int, placeholder string) []string {
	lines := []string{}
	for len(chunks) > 0 {
		if len(lines) > 0 && blank(chunks[0]) {
			chunks = chunks[1:]
		}

		var (
			cur    []string
			curLen int
		)
		for len(chunks) > 0 {
			n := utf8.RuneCountInString(chunks[0])
			if curLen+n > width {
				break
			}
			cur = append(cur, chunks[0])
			curLen += n
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && utf8.RuneCountInString(chunks[0]) > width {
			// long words fill what is left of the current line
			head, tail := breakLong(chunks[0], width-curLen)
			cur = append(cur, head)
			curLen += utf8.RuneCountInString(head)
			chunks[0] = tail
		}

		if n := len(cur); n > 0 && blank(cur[n-1]) {
			curLen -= utf8.RuneCountInString(cur[n-1])
			cur = cur[:n-1]
		}
		if len(cur) == 0 {
			continue
		}

		more := len(chunks) > 0 && !(len(chunks) == 1 && blank(chunks[0]))
		if maxLines <= 0 || len(lines)+1 < maxLines || !more {
			lines = append(lines, strings.Join(cur, ""))
			continue
		}
		return truncate(lines, cur, curLen, width, placeholder)
	}
	return lines
}

// truncate ends the output with the last line that still fits placeholder,
// dropping chunks from its end as needed.
func truncate(lines, cur []string, curLen, width int, placeholder string) []string {
	pn := utf8.RuneCountInString(placeholder)
	for n := len(cur); n > 0; n = len(cur) {
		if !blank(cur[n-1]) && curLen+pn <= width {
			return append(lines, strings.Join(cur, "")+placeholder)
		}
		curLen -= utf8.RuneCountInString(cur[n-1])
		cur = cur[:n-1]
	}

	if n := len(lines); n > 0 {
		if prev := strings.TrimRight(lines[n-1], " "); utf8.RuneCountInString(prev)+pn <= width {
			lines[n-1] = prev + placeholder
			return lines
		}
	}
	return append(lines, strings.TrimLeft(placeholder, " "))
}

// breakLong splits a chunk to fill space runes, preferring to break after
// a hyphen within that space.
func breakLong(chunk string, space int) (string, string) {
	r := []rune(chunk)
	end := min(space, len(r))
	if h := lastHyphen(r[:end]); h > 0 && strings.Trim(string(r[:h]), "-") != "" {
		end = h + 1
	}
	return string(r[:end]), string(r[end:])
}

func lastHyphen(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == '-' {
			return i
		}
	}
	return -1
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
