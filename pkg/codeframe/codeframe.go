// Package codeframe renders short annotated excerpts of source files,
// pointing an ASCII caret at the line and column where an error
// originated.
package codeframe

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Default context sizes around the target line.
const (
	DefaultLinesAbove = 2
	DefaultLinesBelow = 3
)

// Options controls how much context Render includes. Non-positive values
// fall back to the defaults.
type Options struct {
	LinesAbove int
	LinesBelow int
}

func (o Options) withDefaults() Options {
	if o.LinesAbove <= 0 {
		o.LinesAbove = DefaultLinesAbove
	}
	if o.LinesBelow <= 0 {
		o.LinesBelow = DefaultLinesBelow
	}
	return o
}

// Frame is a rendered code frame together with the file coordinates it
// was cut from. The JSON field names match what test reporters consume.
type Frame struct {
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	OriginalFile string `json:"originalFile"`
	RelativeFile string `json:"relativeFile"`
	AbsoluteFile string `json:"absoluteFile"`
	Frame        string `json:"frame"`
	Language     string `json:"language"`
}

// Render cuts an excerpt out of source around the 1-based line and
// column, with a gutter of right-aligned line numbers, a > marker on the
// target line and a caret row beneath it. A line outside the source
// returns ""; a column outside the line is clamped to its edges.
func Render(source string, line, column int, opts Options) string {
	opts = opts.withDefaults()

	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := line - opts.LinesAbove
	if start < 1 {
		start = 1
	}
	end := line + opts.LinesBelow
	if end > len(lines) {
		end = len(lines)
	}
	numWidth := len(strconv.Itoa(end))

	var b strings.Builder
	for i := start; i <= end; i++ {
		marker := "  "
		if i == line {
			marker = "> "
		}
		text := lines[i-1]
		if text == "" {
			fmt.Fprintf(&b, "%s%*d |", marker, numWidth, i)
		} else {
			fmt.Fprintf(&b, "%s%*d | %s", marker, numWidth, i, text)
		}
		b.WriteByte('\n')

		if i == line {
			fmt.Fprintf(&b, "  %s | %s^", strings.Repeat(" ", numWidth), caretPadding(text, column))
			b.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// caretPadding builds the whitespace that places the caret under the
// given 1-based column. Tabs are carried through unchanged so the caret
// obeys the same tab stops as the line above it; every other rune
// becomes spaces matching its display width.
func caretPadding(text string, column int) string {
	runes := []rune(text)
	if column < 1 {
		column = 1
	}
	if column > len(runes)+1 {
		column = len(runes) + 1
	}

	var b strings.Builder
	for _, r := range runes[:column-1] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

// Language returns the lowercase file extension used to tag a frame for
// syntax highlighting, or "" when the path has none. Query strings and
// fragments on URL-style paths are ignored.
func Language(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
