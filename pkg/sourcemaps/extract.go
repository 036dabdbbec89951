package sourcemaps

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

var (
	// Both the current # and the legacy @ directive forms appear in the
	// wild. Only whole-line directives count; a URL mentioned mid-line in
	// a string literal is not a directive.
	mappingURLRegex = regexp.MustCompile(`(?m)^\s*//[@#]\s*sourceMappingURL=(\S+)\s*$`)

	dataURLRegex = regexp.MustCompile(`^data:application/json[^,]*;base64,(.*)$`)
)

// SourceMappingURL returns the source map reference declared in a
// generated file. When bundlers concatenate files the result can carry
// several directives; the last one governs, matching browser behavior.
func SourceMappingURL(contents string) (string, bool) {
	matches := mappingURLRegex.FindAllStringSubmatch(contents, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// DecodeDataURL decodes an inline base64 data-URL source map reference.
// ok is false when ref is not a data URL at all, which means it names an
// external map file instead.
func DecodeDataURL(ref string) ([]byte, bool, error) {
	m := dataURLRegex.FindStringSubmatch(ref)
	if m == nil {
		return nil, false, nil
	}
	data, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return nil, false, fmt.Errorf("base64 source map payload: %w", err)
	}
	return data, true, nil
}
