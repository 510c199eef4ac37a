package markup

import "fmt"

// Engine is the narrow markup-processing capability consumed by the XML and
// HTML extractors. Implementations must be stateless and safe for concurrent
// use.
type Engine interface {
	// ParseStrict parses text as well-formed markup. It returns nil on
	// success and a *SyntaxError describing the failure position otherwise.
	ParseStrict(text string) error

	// Recover parses text leniently, repairing structural errors such as
	// unclosed or mismatched tags, and re-serializes the repaired tree.
	// It returns an error only when no tree at all can be recovered.
	Recover(text string) (string, error)
}

// SyntaxError reports the position of the first syntax error found by an
// [Engine] during strict parsing. Column is zero when the engine cannot
// determine it.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Msg)
}
