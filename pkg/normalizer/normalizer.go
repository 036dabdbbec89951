// Package normalizer rewrites captured test-run errors so their stacks
// point at original source positions instead of generated bundle
// positions, and attaches a code frame for the first user-code frame.
//
// Normalization never fails: frames that cannot be resolved keep their
// generated positions, and a missing code frame simply stays nil.
package normalizer

import (
	"path/filepath"
	"strings"

	"github.com/stackbackhq/stackback/pkg/codeframe"
	"github.com/stackbackhq/stackback/pkg/sourcemaps"
	"github.com/stackbackhq/stackback/pkg/stack"
)

// testBodyLabels renames the function labels runtimes report for
// evaluated test bodies to what the user actually wrote.
var testBodyLabels = map[string]string{
	"Context.eval": "Context.test",
}

// Normalizer applies source-map resolution and code-frame extraction to
// reports. The zero options give bare normalization with no project-root
// anchoring and default code-frame context.
type Normalizer struct {
	resolver sourcemaps.Resolver
	root     string
	frame    codeframe.Options
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithProjectRoot anchors relative source files to root when building
// absolute paths for code frames.
func WithProjectRoot(root string) Option {
	return func(n *Normalizer) {
		n.root = root
	}
}

// WithCodeFrame overrides how much context code frames include.
func WithCodeFrame(opts codeframe.Options) Option {
	return func(n *Normalizer) {
		n.frame = opts
	}
}

// New returns a Normalizer resolving positions through resolver. A nil
// resolver is allowed and leaves every frame at its generated position.
func New(resolver sourcemaps.Resolver, opts ...Option) *Normalizer {
	n := &Normalizer{resolver: resolver}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize rewrites rep in place: the stack gains its message header if
// missing, every frame is resolved through the source maps where
// possible, and the first user-code frame yields a code frame. The raw
// Stack field keeps the text as received; derived results live in
// MappedStack, Parsed and CodeFrame.
func (n *Normalizer) Normalize(rep *Report) {
	rep.NormalizeStack()

	entries := stack.ParseEntries(rep.Stack)
	for i, e := range entries {
		if f, ok := e.(stack.Frame); ok {
			entries[i] = n.mapFrame(f)
		}
	}
	rep.Parsed = entries
	rep.MappedStack = stack.Reconstruct(entries)

	if rep.CodeFrame == nil {
		rep.CodeFrame = n.CodeFrame(rep)
	}
}

// mapFrame resolves one frame to its original source position. Misses
// leave the frame untouched, which keeps unmapped stacks reconstructing
// to their input.
func (n *Normalizer) mapFrame(f stack.Frame) stack.Frame {
	if n.resolver == nil {
		return f
	}
	pos, ok := n.resolver.SourcePosition(f.FileURL, sourcemaps.Position{Line: f.Line, Column: f.Column})
	if !ok {
		return f
	}
	if renamed, ok := testBodyLabels[f.Function]; ok {
		f.Function = renamed
	}
	f.File = pos.File
	f.Line = pos.Line
	// Map columns are 0-based; shift resolved ones into the 1-based form
	// stacks display.
	f.Column = pos.Column + 1
	return f
}

// CodeFrame builds a code frame for the first frame that names a file,
// using source contents embedded in that file's map. It returns nil when
// the report already carries a frame, no frame names a file, or the
// contents or position cannot be had.
func (n *Normalizer) CodeFrame(rep *Report) *codeframe.Frame {
	if rep.CodeFrame != nil {
		return rep.CodeFrame
	}
	f, ok := firstFileFrame(rep.Parsed)
	if !ok || n.resolver == nil {
		return nil
	}
	source, ok := n.resolver.SourceContents(f.FileURL, f.File)
	if !ok {
		return nil
	}
	rendered := codeframe.Render(source, f.Line, f.Column, n.frame)
	if rendered == "" {
		return nil
	}

	relative := stripScheme(f.File)
	absolute := relative
	if n.root != "" && !filepath.IsAbs(absolute) {
		absolute = filepath.Join(n.root, absolute)
	}
	return &codeframe.Frame{
		Line:         f.Line,
		Column:       f.Column,
		OriginalFile: f.File,
		RelativeFile: relative,
		AbsoluteFile: absolute,
		Frame:        rendered,
		Language:     codeframe.Language(relative),
	}
}

func firstFileFrame(entries []stack.Entry) (stack.Frame, bool) {
	for _, e := range entries {
		if f, ok := e.(stack.Frame); ok && f.FileURL != "" {
			return f, true
		}
	}
	return stack.Frame{}, false
}

func stripScheme(file string) string {
	if !strings.HasPrefix(file, CypressScheme) {
		return file
	}
	return strings.TrimPrefix(strings.TrimPrefix(file, CypressScheme), "/")
}
