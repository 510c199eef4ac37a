package extract

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/llmextract/core/markup"
	"github.com/leofalp/llmextract/internal/textscan"
)

// HTMLExtractor extracts an HTML document or fragment from LLM output.
// Candidate location tries, in order: a full document headed by a DOCTYPE, an
// <html> element, the longest common container element, any matched tag pair,
// and finally the whole text when it merely looks like HTML.
//
// Construct with [NewHTMLExtractor]. Unlike XML extraction, validation and
// cleaning both default to off: HTML in the wild is routinely non-well-formed
// and callers usually want the span as written. Instances are immutable and
// safe for concurrent use.
type HTMLExtractor struct {
	validate bool
	clean    bool
	engine   markup.Engine
}

// HTMLOption configures an [HTMLExtractor] at construction.
type HTMLOption func(*HTMLExtractor)

// HTMLValidate controls whether extracted candidates must parse. Default is
// false. It has no effect when cleaning is enabled, which already parses.
func HTMLValidate(validate bool) HTMLOption {
	return func(e *HTMLExtractor) { e.validate = validate }
}

// HTMLClean controls whether extracted candidates are normalized through a
// lenient parse and re-serialization. Default is false.
func HTMLClean(clean bool) HTMLOption {
	return func(e *HTMLExtractor) { e.clean = clean }
}

// HTMLEngine replaces the markup engine used for validation and cleaning.
// A nil engine disables both.
func HTMLEngine(engine markup.Engine) HTMLOption {
	return func(e *HTMLExtractor) { e.engine = engine }
}

// NewHTMLExtractor returns an HTMLExtractor with the given options applied.
func NewHTMLExtractor(opts ...HTMLOption) *HTMLExtractor {
	e := &HTMLExtractor{engine: markup.HTML()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// containerTags are common structural elements tried when no full document is
// present, most significant first.
var containerTags = []string{
	"body", "div", "section", "article", "main", "header", "footer", "nav", "aside",
}

var (
	htmlDoctypeRe   = regexp.MustCompile(`(?is)<!DOCTYPE\s+html.*?</html>`)
	htmlDocumentRe  = regexp.MustCompile(`(?is)<(html)[^>]*>`)
	htmlOpenTagRe   = regexp.MustCompile(`<([a-zA-Z][\w-]*)[^>]*>`)
	htmlContainerRe = make(map[string]*regexp.Regexp, len(containerTags))
)

func init() {
	for _, tag := range containerTags {
		htmlContainerRe[tag] = regexp.MustCompile(`(?i)<(` + tag + `)[^>]*>`)
	}
}

// Extract returns the first HTML content recoverable from raw. With cleaning
// enabled the candidate is normalized through the engine; a candidate the
// engine cannot process at all is returned as found.
//
// Failures wrap [ErrEmptyInput], [ErrNoCandidate], or [ErrValidationFailed].
func (e *HTMLExtractor) Extract(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: cannot extract HTML", ErrEmptyInput)
	}

	text := StripFence(raw, "html")
	if text == "" {
		return "", fmt.Errorf("%w: no content remaining after fence stripping", ErrEmptyInput)
	}

	candidate := htmlCandidate(text)
	if candidate == "" {
		return "", fmt.Errorf("%w: text does not contain HTML content", ErrNoCandidate)
	}

	if e.engine == nil {
		return candidate, nil
	}
	if e.clean {
		cleaned, err := e.engine.Recover(candidate)
		if err != nil {
			return candidate, nil
		}
		return cleaned, nil
	}
	if e.validate {
		if err := e.engine.ParseStrict(candidate); err != nil {
			return "", fmt.Errorf("%w: invalid HTML: %w", ErrValidationFailed, err)
		}
	}
	return candidate, nil
}

// IsValid reports whether text parses as HTML. With a nil engine it falls
// back to the structural heuristic.
func (e *HTMLExtractor) IsValid(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if e.engine == nil {
		return looksLikeHTML(text)
	}
	return e.engine.ParseStrict(text) == nil
}

// ExtractAllFragments returns every matched tag pair in raw that individually
// looks like HTML, in order of appearance. It returns nil when raw holds no
// fragments.
func (e *HTMLExtractor) ExtractAllFragments(raw string) []string {
	text := StripFence(raw, "html")
	if text == "" {
		return nil
	}

	var fragments []string
	for _, p := range textscan.AllPairs(text, htmlOpenTagRe, true) {
		if fragment := text[p.Start:p.End]; looksLikeHTML(fragment) {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// ExtractMarkdown extracts HTML from raw and converts it to markdown.
// Conversion failures wrap [ErrParseFailed].
func (e *HTMLExtractor) ExtractMarkdown(raw string) (string, error) {
	content, err := e.Extract(raw)
	if err != nil {
		return "", err
	}

	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("%w: markdown conversion: %v", ErrParseFailed, err)
	}
	return strings.TrimSpace(md), nil
}

// htmlCandidate locates the most plausible HTML span in text, preferring full
// documents over containers over arbitrary tag pairs.
func htmlCandidate(text string) string {
	if span := longestMatch(htmlDoctypeRe, text); span != "" {
		return span
	}

	if p, ok := textscan.LongestPair(text, htmlDocumentRe, true); ok {
		return text[p.Start:p.End]
	}

	best := ""
	for _, tag := range containerTags {
		if p, ok := textscan.LongestPair(text, htmlContainerRe[tag], true); ok {
			if span := text[p.Start:p.End]; len(span) > len(best) {
				best = span
			}
		}
	}
	if best != "" {
		return best
	}

	if p, ok := textscan.FirstPair(text, htmlOpenTagRe, true); ok {
		return text[p.Start:p.End]
	}

	if looksLikeHTML(text) {
		return strings.TrimSpace(text)
	}
	return ""
}

// longestMatch returns the longest match of re in text, breaking ties toward
// the earlier match.
func longestMatch(re *regexp.Regexp, text string) string {
	best := ""
	for _, m := range re.FindAllString(text, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}

// htmlIndicators are tag shapes counted by looksLikeHTML. Two or more in the
// same text tip the balance from "angle brackets" to "probably HTML".
var htmlIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<html[^>]*>`),
	regexp.MustCompile(`(?i)<head[^>]*>`),
	regexp.MustCompile(`(?i)<body[^>]*>`),
	regexp.MustCompile(`(?i)<div[^>]*>`),
	regexp.MustCompile(`(?i)<p[^>]*>`),
	regexp.MustCompile(`(?i)<span[^>]*>`),
	regexp.MustCompile(`(?i)<a\s[^>]*>`),
	regexp.MustCompile(`(?i)<img[^>]*>`),
	regexp.MustCompile(`(?i)</[a-z]+>`),
}

func looksLikeHTML(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(text), "<!doctype html") {
		return true
	}
	if !strings.HasPrefix(text, "<") || !strings.Contains(text, ">") {
		return false
	}

	hits := 0
	for _, re := range htmlIndicators {
		if re.MatchString(text) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
