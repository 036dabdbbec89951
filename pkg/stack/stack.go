// Package stack provides parsing, classification, and reconstruction of
// JavaScript runtime stack traces.
//
// Raw stacks arrive as newline-delimited text mixing message lines with
// frame lines, and the frame syntax differs between engines (Chromium
// prints "at fn (file:line:col)" while Firefox and Safari print
// "fn@file:line:col"). This package turns such text into an ordered
// sequence of entries, one per input line, and can rebuild the text from
// the entries without losing whitespace or ordering.
package stack

// Unknown is the placeholder used for function names and files that could
// not be determined from a frame line.
const Unknown = "<unknown>"

// StackReplacementMarker names the helper function assertion wrappers insert
// to capture the user's call site. Frames referencing it belong to the
// framework, not the test, and are dropped when stacks are replaced.
const StackReplacementMarker = "__stackReplacementMarker"

// Entry is a single line of a parsed stack: either a Message or a Frame.
// Every line of the original stack maps to exactly one entry, in order.
type Entry interface {
	entry()
}

// Message is a stack line that is part of the error's textual message
// rather than a call-site reference.
type Message struct {
	// Whitespace is the literal leading whitespace of the source line.
	Whitespace string

	// Text is the line content after the leading whitespace.
	Text string
}

// Frame is a stack line describing a call site in generated code.
type Frame struct {
	// Whitespace is the literal leading whitespace of the source line.
	Whitespace string

	// Function is the cleaned function name, or Unknown when the line
	// carried none.
	Function string

	// FileURL is the file reference exactly as printed in the raw stack
	// (a URL or a path).
	FileURL string

	// File is the source file the frame points at. It starts out equal to
	// FileURL and is rewritten when a source map resolves the position.
	File string

	// Line is the 1-based line number as printed (or as resolved).
	Line int

	// Column is the column as printed (or as resolved plus one, since
	// source maps store 0-based columns and stacks display 1-based ones).
	Column int
}

func (Message) entry() {}

func (Frame) entry() {}
