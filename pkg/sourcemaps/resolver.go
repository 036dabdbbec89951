// Package sourcemaps resolves generated-code positions back to original
// source positions using the source maps shipped inside or beside bundles.
package sourcemaps

// Position is a position in generated code. Line is 1-based; Column is
// 0-based, following the source-map convention. Columns taken from stack
// text are 1-based, which is tolerable for lookups because they floor to
// the nearest mapping at or before the requested column.
type Position struct {
	Line   int
	Column int
}

// SourcePosition is an original-source position resolved from a source
// map. Line is 1-based and Column is 0-based, exactly as stored in the
// map; display code is responsible for the final column adjustment.
type SourcePosition struct {
	File   string
	Line   int
	Column int
}

// Resolver answers position and contents queries for generated files.
// Implementations must be safe for concurrent use; the normalization
// pipeline itself holds no shared state.
type Resolver interface {
	// SourcePosition returns the original source position for a generated
	// position. ok is false when the file has no registered source map or
	// the position has no mapping.
	SourcePosition(file string, pos Position) (SourcePosition, bool)

	// SourceContents returns the full text of an original source file as
	// embedded in the source map registered for the given generated file.
	// ok is false when the map is missing or carries no content for
	// sourceFile.
	SourceContents(file, sourceFile string) (string, bool)
}
