package extract

import "errors"

// Sentinel errors returned by the extract family of operations. Every failure
// wraps exactly one of these, so callers can classify outcomes with
// [errors.Is] while the full error message records the stage that failed.
var (
	// ErrTypeMismatch is returned by [Extract] when the raw input is
	// neither a string nor a []byte.
	ErrTypeMismatch = errors.New("llmextract: input is not text")

	// ErrEmptyInput is returned when the input is empty or whitespace-only,
	// either as given or after fence stripping.
	ErrEmptyInput = errors.New("llmextract: input is empty or whitespace-only")

	// ErrNoCandidate is returned when no structural span of the requested
	// format could be located in the text.
	ErrNoCandidate = errors.New("llmextract: no candidate content found")

	// ErrParseFailed is returned when a candidate span was located but the
	// format grammar rejected it, before and after repair.
	ErrParseFailed = errors.New("llmextract: candidate content failed to parse")

	// ErrValidationFailed is returned when a candidate parsed structurally
	// but failed strict validation, and recovery was disabled or also
	// failed. The underlying *markup.SyntaxError is retrievable with
	// [errors.As].
	ErrValidationFailed = errors.New("llmextract: validation failed")
)
