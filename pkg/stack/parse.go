package stack

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// frameLineRegex is the tolerant grammar shared by the engine dialects:
	// optional whitespace, optional "at ", then free text containing "@" or
	// "(" followed eventually by ":line:column", optionally closed by ")".
	frameLineRegex = regexp.MustCompile(`^\s*(?:at )?.*[(@].*:\d+:\d+\)?$`)

	// chromiumFrameRegex matches "at fn (file:line:col)" frames as printed
	// by V8-based engines. The function name is optional.
	chromiumFrameRegex = regexp.MustCompile(`^(\s*)at (?:(.*?) )?\((.*):(\d+):(\d+)\)$`)

	// firefoxFrameRegex matches "fn@file:line:col" frames as printed by
	// SpiderMonkey and JavaScriptCore. The function name may be empty.
	firefoxFrameRegex = regexp.MustCompile(`^(\s*)(.*?)@(.*):(\d+):(\d+)$`)

	// functionExtrasRegex matches the trailing markers SpiderMonkey appends
	// to names of compiler-generated closure wrappers.
	functionExtrasRegex = regexp.MustCompile(`(/<|</<)$`)

	whitespaceRegex = regexp.MustCompile(`^\s*`)
)

// IsFrameLine reports whether a line of stack text matches the frame
// grammar of any supported engine dialect.
func IsFrameLine(line string) bool {
	return frameLineRegex.MatchString(line)
}

// ParseFrameLine parses a single frame line into its structured fields.
// Returns ok=false when the line does not match any frame dialect.
func ParseFrameLine(line string) (Frame, bool) {
	if m := chromiumFrameRegex.FindStringSubmatch(line); m != nil {
		return newFrame(m[1], m[2], m[3], m[4], m[5])
	}
	if m := firefoxFrameRegex.FindStringSubmatch(line); m != nil {
		return newFrame(m[1], m[2], m[3], m[4], m[5])
	}
	return Frame{}, false
}

// ParseEntries maps every line of a stack to exactly one entry, preserving
// order. Lines in the frames region that fail frame parsing fall back to
// Message entries so no input text is ever lost.
func ParseEntries(stackText string) []Entry {
	messages, frames := Split(stackText)
	entries := make([]Entry, 0, len(messages)+len(frames))
	for _, line := range messages {
		entries = append(entries, newMessage(line))
	}
	for _, line := range frames {
		if frame, ok := ParseFrameLine(line); ok {
			entries = append(entries, frame)
			continue
		}
		entries = append(entries, newMessage(line))
	}
	return entries
}

func newFrame(whitespace, function, file, lineField, columnField string) (Frame, bool) {
	line, err := strconv.Atoi(lineField)
	if err != nil {
		return Frame{}, false
	}
	column, err := strconv.Atoi(columnField)
	if err != nil {
		return Frame{}, false
	}
	return Frame{
		Whitespace: whitespace,
		Function:   cleanFunctionName(function),
		FileURL:    file,
		File:       file,
		Line:       line,
		Column:     column,
	}, true
}

func newMessage(line string) Message {
	whitespace := leadingWhitespace(line)
	return Message{Whitespace: whitespace, Text: line[len(whitespace):]}
}

// cleanFunctionName strips trailing closure-wrapper markers ("/<" and
// "</<") and substitutes Unknown for names that end up empty.
func cleanFunctionName(function string) string {
	function = strings.TrimSpace(functionExtrasRegex.ReplaceAllString(function, ""))
	if function == "" {
		return Unknown
	}
	return function
}

func leadingWhitespace(line string) string {
	return whitespaceRegex.FindString(line)
}
