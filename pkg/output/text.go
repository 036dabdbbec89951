package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/stackbackhq/stackback/pkg/codeframe"
	"github.com/stackbackhq/stackback/pkg/normalizer"
	"github.com/stackbackhq/stackback/pkg/stack"
)

var (
	headerColor   = color.New(color.FgRed, color.Bold)
	resolvedColor = color.New(color.FgCyan)
	markColor     = color.New(color.FgRed, color.Bold)
	dimColor      = color.New(color.Faint)
)

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	if opts.StripSchemes == nil {
		opts.StripSchemes = []string{normalizer.CypressScheme}
	}
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the result as text.
func (f *TextFormatter) Format(ctx context.Context, result *Result, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(result, w)
	}
	return f.formatFull(result, w)
}

func (f *TextFormatter) formatQuiet(result *Result, w io.Writer) error {
	s := result.Summary
	fmt.Fprintf(w, "stackback: %d frames, %d resolved, %d unresolved\n",
		s.FrameCount, s.ResolvedFrames, s.UnresolvedFrames)
	return nil
}

func (f *TextFormatter) formatFull(result *Result, w io.Writer) error {
	rep := result.Report

	// Header
	fmt.Fprintln(w, "=== Stackback Report ===")
	fmt.Fprintln(w)
	fmt.Fprintln(w, f.paint(headerColor, rep.String()))
	fmt.Fprintln(w)

	if result.Summary.FrameCount > 0 {
		fmt.Fprintln(w, "Stack (source mapped):")
		f.formatFrames(rep, w)
		fmt.Fprintln(w)
	}

	if rep.CodeFrame != nil {
		f.formatCodeFrame(rep.CodeFrame, w)
		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	s := result.Summary
	fmt.Fprintf(w, "Summary: %d frames, %d resolved, %d unresolved, %d internal\n",
		s.FrameCount, s.ResolvedFrames, s.UnresolvedFrames, s.InternalFrames)

	if f.opts.Verbose {
		if result.Metadata.Source != "" {
			fmt.Fprintf(w, "Source: %s\n", result.Metadata.Source)
		}
		if len(result.Metadata.Bundles) > 0 {
			fmt.Fprintf(w, "Bundles: %s\n", strings.Join(result.Metadata.Bundles, ", "))
		}
		fmt.Fprintf(w, "Duration: %s\n", result.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatFrames(rep *normalizer.Report, w io.Writer) {
	for _, e := range rep.Parsed {
		frame, ok := e.(stack.Frame)
		if !ok {
			continue
		}
		internal := IsInternalFrame(frame, f.opts.StripSchemes)
		if internal && !f.opts.Verbose {
			continue
		}

		line := stack.Reconstruct([]stack.Entry{frame})
		switch {
		case internal:
			fmt.Fprintln(w, f.paint(dimColor, line))
		case frame.File != frame.FileURL:
			fmt.Fprintln(w, f.paint(resolvedColor, line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func (f *TextFormatter) formatCodeFrame(cf *codeframe.Frame, w io.Writer) {
	header := fmt.Sprintf("Code frame: %s:%d:%d", cf.RelativeFile, cf.Line, cf.Column)
	if cf.Language != "" {
		header += fmt.Sprintf(" (%s)", cf.Language)
	}
	fmt.Fprintln(w, header)

	for _, line := range strings.Split(cf.Frame, "\n") {
		if isMarkedLine(line) {
			fmt.Fprintln(w, f.paint(markColor, line))
			continue
		}
		fmt.Fprintln(w, line)
	}
}

// isMarkedLine reports whether a code-frame line is the marked source
// line or the caret row beneath it.
func isMarkedLine(line string) bool {
	if strings.HasPrefix(line, "> ") {
		return true
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "^")
}

func (f *TextFormatter) paint(c *color.Color, s string) string {
	if !f.opts.Color {
		return s
	}
	return c.Sprint(s)
}
