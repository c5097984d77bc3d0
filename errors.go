package marionette

import "errors"

// Construction errors. Every error returned by [New] wraps exactly one of
// these, so callers can classify failures with [errors.Is].
var (
	// ErrUnsupported reports a recognized feature of the description format
	// that the engine does not implement, such as a non-linear binding or an
	// unimplemented node type.
	ErrUnsupported = errors.New("marionette: unsupported feature")

	// ErrInvalid reports a structurally malformed description.
	ErrInvalid = errors.New("marionette: invalid model")
)
