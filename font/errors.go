package font

import "errors"

// Sentinel errors returned by table parsing. Callers that only need to
// know "is this font usable" can test with errors.Is; callers that want
// detail use the wrapped form each parser returns.
var (
	ErrInvalidFont   = errors.New("font: invalid or truncated font data")
	ErrInvalidOffset = errors.New("font: offset out of range")
	ErrInvalidFormat = errors.New("font: unsupported subtable format")
	ErrInvalidTable  = errors.New("font: malformed table")
	ErrTableMissing  = errors.New("font: table not present")
)
