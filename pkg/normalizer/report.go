package normalizer

import (
	"strings"

	"github.com/stackbackhq/stackback/pkg/codeframe"
	"github.com/stackbackhq/stackback/pkg/stack"
)

// CypressScheme is the origin scheme the Cypress runner serves project
// files under. Frames pointing at it belong to runner internals rather
// than user code.
const CypressScheme = "cypress://"

// Report is an error captured from a test run, carrying the raw stack as
// received plus everything normalization derives from it.
type Report struct {
	Name        string           `json:"name"`
	Message     string           `json:"message"`
	Stack       string           `json:"stack"`
	MappedStack string           `json:"sourceMappedStack,omitempty"`
	Parsed      []stack.Entry    `json:"-"`
	CodeFrame   *codeframe.Frame `json:"codeFrame,omitempty"`
}

// String renders the error the way JavaScript's Error#toString does: the
// name, then ": " and the message when one is present. A missing name
// reads as Error.
func (r *Report) String() string {
	name := r.Name
	if name == "" {
		name = "Error"
	}
	if r.Message == "" {
		return name
	}
	return name + ": " + r.Message
}

// NormalizeStack makes the stack start with the error's textual form.
// Chromium stacks already embed it; Firefox and Safari stacks begin
// directly with frames, so the header is prepended there. Calling this
// on an already-normalized stack changes nothing.
func (r *Report) NormalizeStack() {
	text := r.String()
	if strings.HasPrefix(r.Stack, text) {
		return
	}
	// Messages can span lines, so compare only the first line of each.
	if strings.Contains(firstLine(r.Stack), firstLine(text)) {
		return
	}
	r.Stack = text + "\n" + r.Stack
}

// ReplaceStack swaps the frames of the stack for those of newStack while
// keeping this error's own message header. Frames planted as replacement
// markers are dropped. An error without a stack keeps none, since a
// borrowed stack would only mislead there.
func (r *Report) ReplaceStack(newStack string) {
	if r.Stack == "" {
		return
	}
	lines := stack.DropMarkerFrames(stack.FrameLines(newStack))
	r.Stack = r.String() + "\n" + strings.Join(lines, "\n")
}

// HasStack reports whether the stack carries at least one frame line.
func (r *Report) HasStack() bool {
	return len(stack.FrameLines(r.Stack)) > 0
}

// IsFromCypress reports whether the error originates in runner internals,
// judged by the scheme of the first frame's file.
func (r *Report) IsFromCypress() bool {
	lines := stack.FrameLines(r.Stack)
	if len(lines) == 0 {
		return false
	}
	return strings.Contains(lines[0], CypressScheme)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
