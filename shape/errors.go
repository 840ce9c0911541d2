package shape

import "errors"

// Sentinel errors returned by the shaping pipeline. They classify
// failures the way the font package's sentinels classify parse
// failures; callers use errors.Is to branch on kind.
var (
	// ErrInvalidFontData covers an out-of-range offset, a malformed
	// subtable, or an unknown lookup type discovered while executing a
	// lookup. Shaping aborts and the Album is left empty.
	ErrInvalidFontData = errors.New("shape: invalid font data")

	// ErrUnsupportedScript is never returned: an unrecognised script falls
	// back silently to StandardEngine's feature set without producing
	// this error, matching the "not an error" policy.
	ErrUnsupportedScript = errors.New("shape: unsupported script")

	// ErrRecursionLimit is returned when contextual lookup nesting exceeds
	// maxLookupDepth; the offending lookup is skipped, other lookups
	// continue.
	ErrRecursionLimit = errors.New("shape: lookup recursion limit exceeded")

	// ErrEmptyInput is not returned by any function in this package;
	// Shape treats an empty input as success and yields an empty Album.
	ErrEmptyInput = errors.New("shape: empty input")
)

// maxLookupDepth bounds nested contextual-lookup recursion (spec §5).
const maxLookupDepth = 32
