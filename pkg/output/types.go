// Package output provides formatting and output generation for
// normalized error reports.
package output

import (
	"strings"
	"time"

	"github.com/stackbackhq/stackback/pkg/normalizer"
	"github.com/stackbackhq/stackback/pkg/stack"
)

// Result is the complete normalization output.
type Result struct {
	// Report is the normalized error.
	Report *normalizer.Report `json:"report"`

	// Summary provides aggregate frame statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate frame statistics.
type Summary struct {
	// FrameCount is the number of parsed stack frames.
	FrameCount int `json:"frameCount"`

	// ResolvedFrames is the number of frames rewritten to an original
	// source position.
	ResolvedFrames int `json:"resolvedFrames"`

	// UnresolvedFrames is the number of frames left at their generated
	// position.
	UnresolvedFrames int `json:"unresolvedFrames"`

	// InternalFrames is the number of frames pointing at runner
	// internals rather than user code.
	InternalFrames int `json:"internalFrames"`
}

// Metadata provides context about the normalization run.
type Metadata struct {
	// Source is where the report came from (a path, or - for stdin).
	Source string `json:"source"`

	// Bundles lists the generated files with registered source maps.
	Bundles []string `json:"bundles,omitempty"`

	// ProcessedAt is when normalization ran.
	ProcessedAt time.Time `json:"processedAt"`

	// Duration is how long normalization took.
	Duration time.Duration `json:"duration"`
}

// NewResult builds a Result for a normalized report. internalSchemes
// lists the URL schemes marking runner-internal frames; nil means the
// default runner scheme.
func NewResult(rep *normalizer.Report, meta Metadata, internalSchemes []string) *Result {
	if internalSchemes == nil {
		internalSchemes = []string{normalizer.CypressScheme}
	}

	var s Summary
	for _, e := range rep.Parsed {
		f, ok := e.(stack.Frame)
		if !ok {
			continue
		}
		s.FrameCount++
		if f.File != f.FileURL {
			s.ResolvedFrames++
		} else {
			s.UnresolvedFrames++
		}
		if IsInternalFrame(f, internalSchemes) {
			s.InternalFrames++
		}
	}

	return &Result{Report: rep, Summary: s, Metadata: meta}
}

// HasIssues reports whether a stack was present but no frame at all
// could be resolved to original source.
func (r *Result) HasIssues() bool {
	return r.Summary.FrameCount > 0 && r.Summary.ResolvedFrames == 0
}

// IsInternalFrame reports whether a frame's raw file URL carries one of
// the runner-internal schemes. The raw URL is checked rather than the
// mapped file, since bundler maps reuse scheme prefixes for user
// sources.
func IsInternalFrame(f stack.Frame, schemes []string) bool {
	for _, scheme := range schemes {
		if scheme != "" && strings.HasPrefix(f.FileURL, scheme) {
			return true
		}
	}
	return false
}
