package stack

import "strings"

// splitState tracks which half of a stack the splitter is in. The
// transition from message lines to frame lines is one-way: a multi-line
// error message never appears after the first real frame.
type splitState int

const (
	inMessage splitState = iota
	inFrames
)

// Split separates a stack into its message lines and its frame lines.
// Lines are processed top to bottom; once any line matches the frame
// grammar, every subsequent line is treated as a frame line regardless of
// whether it matches itself. The two slices together contain every line of
// the input, in order.
func Split(stackText string) (messages, frames []string) {
	state := inMessage
	for _, line := range strings.Split(stackText, "\n") {
		if state == inMessage && IsFrameLine(line) {
			state = inFrames
		}
		if state == inFrames {
			frames = append(frames, line)
		} else {
			messages = append(messages, line)
		}
	}
	return messages, frames
}

// FrameLines returns only the frame half of a stack.
func FrameLines(stackText string) []string {
	_, frames := Split(stackText)
	return frames
}

// DropMarkerFrames filters out frame lines referencing the call-site
// marker helper, leaving only frames that belong to user code.
func DropMarkerFrames(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, StackReplacementMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
