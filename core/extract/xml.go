package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leofalp/llmextract/core/markup"
	"github.com/leofalp/llmextract/internal/textscan"
)

// XMLExtractor extracts an XML document or fragment from LLM output. Candidate
// location tries, in order: a span headed by an XML declaration, the longest
// matched open/close tag pair, a self-closing element, and finally the whole
// text when it merely looks like XML. The extracted candidate is then
// optionally validated and, on validation failure, optionally recovered.
//
// Construct with [NewXMLExtractor]; by default both validation and recovery
// are enabled. Instances are immutable and safe for concurrent use.
type XMLExtractor struct {
	validate bool
	recover  bool
	engine   markup.Engine
}

// XMLOption configures an [XMLExtractor] at construction.
type XMLOption func(*XMLExtractor)

// XMLValidate controls whether extracted candidates are checked for
// well-formedness. Default is true.
func XMLValidate(validate bool) XMLOption {
	return func(e *XMLExtractor) { e.validate = validate }
}

// XMLRecover controls whether a candidate that fails validation is repaired
// in place of being rejected. Default is true. It has no effect when
// validation is disabled.
func XMLRecover(recover bool) XMLOption {
	return func(e *XMLExtractor) { e.recover = recover }
}

// XMLEngine replaces the markup engine used for validation and recovery.
// A nil engine downgrades validation to a structural heuristic.
func XMLEngine(engine markup.Engine) XMLOption {
	return func(e *XMLExtractor) { e.engine = engine }
}

// NewXMLExtractor returns an XMLExtractor with the given options applied.
func NewXMLExtractor(opts ...XMLOption) *XMLExtractor {
	e := &XMLExtractor{
		validate: true,
		recover:  true,
		engine:   markup.XML(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	xmlDeclRe        = regexp.MustCompile(`(?i)<\?xml[^>]*\?>`)
	xmlOpenTagRe     = regexp.MustCompile(`<([a-zA-Z_][\w.-]*)[^>]*>`)
	xmlSelfClosingRe = regexp.MustCompile(`<[a-zA-Z_][\w.-]*[^>]*/>`)
)

// Extract returns the first XML content recoverable from raw. A candidate
// that passes validation is returned exactly as found; a recovered candidate
// is returned re-serialized by the engine.
//
// Failures wrap [ErrEmptyInput], [ErrNoCandidate], or [ErrValidationFailed].
func (e *XMLExtractor) Extract(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: cannot extract XML", ErrEmptyInput)
	}

	text := StripFence(raw, "xml")
	if text == "" {
		return "", fmt.Errorf("%w: no content remaining after fence stripping", ErrEmptyInput)
	}

	candidate := xmlCandidate(text)
	if candidate == "" {
		return "", fmt.Errorf("%w: text does not contain XML content", ErrNoCandidate)
	}

	if e.engine == nil || !e.validate {
		return candidate, nil
	}

	parseErr := e.engine.ParseStrict(candidate)
	if parseErr == nil {
		return candidate, nil
	}
	if !e.recover {
		return "", fmt.Errorf("%w: invalid XML syntax: %w", ErrValidationFailed, parseErr)
	}

	recovered, err := e.engine.Recover(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: recovery unsuccessful: %v", ErrValidationFailed, parseErr)
	}
	return recovered, nil
}

// IsValid reports whether text parses as well-formed XML. With a nil engine
// it falls back to the structural heuristic.
func (e *XMLExtractor) IsValid(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if e.engine == nil {
		return looksLikeXML(text)
	}
	return e.engine.ParseStrict(text) == nil
}

// xmlCandidate locates the most plausible XML span in text. Declaration-headed
// spans win over bare elements, and among spans of the same kind the longest
// wins, breaking ties toward the earlier start.
func xmlCandidate(text string) string {
	if span := longestDeclSpan(text); span != "" {
		return span
	}

	if p, ok := textscan.LongestPair(text, xmlOpenTagRe, false); ok {
		return text[p.Start:p.End]
	}

	if m := xmlSelfClosingRe.FindString(text); m != "" {
		return m
	}

	if looksLikeXML(text) {
		return strings.TrimSpace(text)
	}
	return ""
}

// longestDeclSpan returns the longest span running from an XML declaration to
// the next declaration or the end of the text.
func longestDeclSpan(text string) string {
	decls := xmlDeclRe.FindAllStringIndex(text, -1)
	if decls == nil {
		return ""
	}

	best := ""
	for i, d := range decls {
		end := len(text)
		if i+1 < len(decls) {
			end = decls[i+1][0]
		}
		if span := strings.TrimSpace(text[d[0]:end]); len(span) > len(best) {
			best = span
		}
	}
	return best
}

var xmlShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\?xml`),
	regexp.MustCompile(`<[a-zA-Z_][\w.-]*[^>]*>`),
	regexp.MustCompile(`</[a-zA-Z_][\w.-]*>`),
	regexp.MustCompile(`<[a-zA-Z_][\w.-]*[^>]*/>`),
}

// looksLikeXML is a cheap structural check: text opening with an angle
// bracket and holding at least one tag-shaped substring. Truncated documents
// (an opening tag whose closer never arrives) still pass, so that validation
// rather than candidate location reports the defect.
func looksLikeXML(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "<") {
		return false
	}
	for _, re := range xmlShapePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
