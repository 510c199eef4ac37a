package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/llmextract/internal/textscan"
)

// JSONExtractor extracts and parses a JSON object or array from LLM output
// with fault tolerance. Strategies are applied in order: fence stripping,
// direct parsing, balanced-span candidate location, targeted comma repair,
// and finally full JSON repair via jsonrepair. Strict mode disables both
// repair stages.
//
// The zero value is a non-strict extractor; [NewJSONExtractor] applies
// options. Instances are immutable and safe for concurrent use.
type JSONExtractor struct {
	strict bool
}

// JSONOption configures a [JSONExtractor] at construction.
type JSONOption func(*JSONExtractor)

// JSONStrict controls strict mode. When strict, malformed candidates are
// rejected instead of repaired. Default is false for better fault tolerance.
func JSONStrict(strict bool) JSONOption {
	return func(e *JSONExtractor) { e.strict = strict }
}

// NewJSONExtractor returns a JSONExtractor with the given options applied.
func NewJSONExtractor(opts ...JSONOption) *JSONExtractor {
	e := &JSONExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the first JSON object or array recoverable from raw, parsed
// as map[string]any or []any. A syntactically valid bare scalar is rejected:
// the result is always a mapping or a sequence.
//
// Failures wrap [ErrEmptyInput], [ErrNoCandidate], or [ErrParseFailed].
func (e *JSONExtractor) Extract(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: cannot extract JSON", ErrEmptyInput)
	}

	text := StripFence(raw, "json")
	if text == "" {
		return nil, fmt.Errorf("%w: no content remaining after fence stripping", ErrEmptyInput)
	}

	// Fast path for clean JSON.
	if v, err := parseJSONValue(text); err == nil {
		return v, nil
	}

	if candidate := jsonCandidate(text, true); candidate != "" {
		v, parseErr := parseJSONValue(candidate)
		if parseErr == nil {
			return v, nil
		}
		if e.strict {
			return nil, fmt.Errorf("%w: JSON candidate rejected in strict mode: %v", ErrParseFailed, parseErr)
		}
		if fixed := repairCommas(candidate); fixed != candidate {
			if v, err := parseJSONValue(fixed); err == nil {
				return v, nil
			}
		}
		if v, err := repairParse(candidate); err == nil {
			return v, nil
		}
		return nil, fmt.Errorf("%w: JSON candidate rejected before and after repair: %v", ErrParseFailed, parseErr)
	}

	// A balanced span that fails the shape check (single-quoted strings carry
	// no recognizable key/value pattern) can still be salvageable by repair.
	if !e.strict {
		if span := jsonCandidate(text, false); span != "" {
			if v, err := repairParse(span); err == nil {
				return v, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: text does not contain a JSON object or array", ErrNoCandidate)
}

// repairParse runs the candidate through full JSON repair and parses the
// result.
func repairParse(candidate string) (any, error) {
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, err
	}
	return parseJSONValue(repaired)
}

// parseJSONValue parses text as JSON and requires the result to be an object
// or an array.
func parseJSONValue(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected JSON object or array, got %T", v)
	}
}

// jsonCandidate locates a balanced brace or bracket span in text. The bracket
// type appearing earlier is attempted first; if its span is missing or does
// not look like JSON, the other type is attempted. When gated, spans must
// also pass the looksLikeJSON shape check.
func jsonCandidate(text string, gated bool) string {
	brace := strings.IndexByte(text, '{')
	bracket := strings.IndexByte(text, '[')

	type attempt struct {
		idx         int
		open, close byte
	}
	object := attempt{brace, '{', '}'}
	array := attempt{bracket, '[', ']'}

	var attempts []attempt
	switch {
	case brace < 0 && bracket < 0:
		return ""
	case brace < 0:
		attempts = []attempt{array}
	case bracket < 0:
		attempts = []attempt{object}
	case bracket < brace:
		attempts = []attempt{array, object}
	default:
		attempts = []attempt{object, array}
	}

	for _, a := range attempts {
		if span, ok := textscan.Balanced(text[a.idx:], a.open, a.close); ok {
			if !gated || looksLikeJSON(span) {
				return span
			}
		}
	}
	return ""
}

// Patterns a JSON-looking span should exhibit: key-value pairs, string,
// numeric, or literal values, or an array literal.
var jsonShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"[^"]*"\s*:`),
	regexp.MustCompile(`:\s*"[^"]*"`),
	regexp.MustCompile(`:\s*[\d-]`),
	regexp.MustCompile(`:\s*(?:true|false|null)`),
	regexp.MustCompile(`\[.*\]`),
}

func looksLikeJSON(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return false
	}
	if !strings.HasSuffix(text, "}") && !strings.HasSuffix(text, "]") {
		return false
	}
	for _, re := range jsonShapePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	repeatedCommaRe = regexp.MustCompile(`,(\s*,)+`)
	leadingCommaRe  = regexp.MustCompile(`([{\[])\s*,`)
)

// repairCommas fixes the comma mistakes LLMs most often make: trailing commas
// before a closer, runs of consecutive commas, and a comma directly after an
// opener.
func repairCommas(text string) string {
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = repeatedCommaRe.ReplaceAllString(text, ",")
	text = leadingCommaRe.ReplaceAllString(text, "$1")
	return text
}
