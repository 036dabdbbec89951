package dialect

import "regexp"

// StackFormat represents a known stack-frame dialect for detection.
type StackFormat struct {
	Name       string         // Human-readable name
	Engine     string         // Engine family that emits it
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for diagnostic output
	Examples   []string       // Example frame lines
}

// DefaultFormats returns the built-in frame dialects to detect.
// Formats are ordered roughly by specificity (more specific patterns first).
func DefaultFormats() []*StackFormat {
	formats := []*StackFormat{
		// V8 frame with a parenthesized location
		{
			Name:       "V8 parenthesized frame",
			Engine:     "V8 (Chrome, Edge, Node.js)",
			PatternStr: `^\s*at (?:.+ )?\(.+:\d+:\d+\)$`,
			Examples: []string{
				"    at add (http://localhost:8888/bundle.js:10:3)",
				"    at Context.eval (http://localhost:8888/bundle.js:188:12)",
			},
		},
		// V8 frame for anonymous top-level code, no parentheses
		{
			Name:       "V8 bare frame",
			Engine:     "V8 (Chrome, Edge, Node.js)",
			PatternStr: `^\s*at [^()@\s]+:\d+:\d+$`,
			Examples: []string{
				"    at http://localhost:8888/bundle.js:42:1",
			},
		},
		// SpiderMonkey nested-closure frames carry /< markers
		{
			Name:       "SpiderMonkey closure frame",
			Engine:     "SpiderMonkey (Firefox)",
			PatternStr: `^.*(?:/<|</<)@.+:\d+:\d+$`,
			Examples: []string{
				"tryCatcher/<@http://localhost:8888/bundle.js:10:3",
			},
		},
		// JavaScriptCore labels top-level code instead of naming a function
		{
			Name:       "JavaScriptCore code frame",
			Engine:     "JavaScriptCore (Safari)",
			PatternStr: `^(?:global code|eval code|module code)@.+:\d+:\d+$`,
			Examples: []string{
				"global code@http://localhost:8888/bundle.js:42:1",
			},
		},
		// Plain @-form shared by Firefox and Safari
		{
			Name:       "@-separated frame",
			Engine:     "SpiderMonkey or JavaScriptCore",
			PatternStr: `^.*@.+:\d+:\d+$`,
			Examples: []string{
				"add@http://localhost:8888/bundle.js:10:3",
			},
		},
	}

	// Compile all patterns
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
