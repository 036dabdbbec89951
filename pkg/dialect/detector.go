// Package dialect provides automatic detection of the stack-frame
// dialect a captured stack trace was written in.
package dialect

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/stackbackhq/stackback/pkg/stack"
)

// DetectionResult holds the result of analyzing a stack trace.
type DetectionResult struct {
	Matches      []FormatMatch // Dialects that matched, sorted by confidence descending
	SampledLines int           // Number of non-empty lines examined
	FrameLines   int           // Number of lines the frame classifier accepts
}

// FormatMatch represents a dialect that matched with its confidence score.
type FormatMatch struct {
	Format     *StackFormat
	Confidence float64 // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount int     // Number of lines that matched
	SampleLine string  // Example line that matched
}

// Detector analyzes stack traces to identify the emitting engine family.
type Detector struct {
	formats    []*StackFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample from files (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default dialects.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a file holding a captured stack trace.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromStack analyzes raw stack-trace text.
func (d *Detector) DetectFromStack(stackText string) *DetectionResult {
	return d.DetectFromLines(strings.Split(stackText, "\n"))
}

// DetectFromLines analyzes a slice of stack-trace lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	// Track matches per dialect
	type formatStats struct {
		format     *StackFormat
		matchCount int
		sampleLine string
	}

	stats := make(map[string]*formatStats)

	// Leading whitespace is significant in frame lines, so lines are
	// matched untrimmed; only blank lines are skipped.
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++
		if stack.IsFrameLine(line) {
			result.FrameLines++
		}

		for _, format := range d.formats {
			if !format.Pattern.MatchString(line) {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					format:     format,
					sampleLine: line,
				}
			}
			stats[key].matchCount++
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	// Convert to FormatMatch slice
	for _, s := range stats {
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(result.SampledLines),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
		})
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		// For same confidence, prefer longer patterns (more specific)
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	return result
}

// sampleFile reads up to sampleSize lines from a file.
// Uses simple head sampling for efficiency.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() && len(lines) < d.sampleSize {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one dialect matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
