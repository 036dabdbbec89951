package output

import (
	"context"
	"io"
)

// Formatter renders normalized results in a specific format.
type Formatter interface {
	// Format renders the result to the given writer.
	Format(ctx context.Context, result *Result, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output including runner-internal frames
	// and run metadata.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Color enables ANSI colors in text output.
	Color bool

	// StripSchemes hides frames whose raw file URL starts with one of
	// these schemes unless Verbose is set.
	StripSchemes []string
}
