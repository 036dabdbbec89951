package stack

import (
	"fmt"
	"strings"
)

// Reconstruct builds a stack string from an ordered entry sequence.
// Message entries are emitted verbatim (whitespace plus text); Frame
// entries are emitted in the "at fn (file:line:col)" form regardless of
// the dialect they were parsed from. The result is lossless with respect
// to line order and leading whitespace.
func Reconstruct(entries []Entry) string {
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch entry := entry.(type) {
		case Message:
			b.WriteString(entry.Whitespace)
			b.WriteString(entry.Text)
		case Frame:
			file := entry.File
			if file == "" {
				file = Unknown
			}
			fmt.Fprintf(&b, "%sat %s (%s:%d:%d)", entry.Whitespace, entry.Function, file, entry.Line, entry.Column)
		}
	}
	return b.String()
}
