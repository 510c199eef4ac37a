// Package textscan provides single-pass scanning primitives shared by the
// extraction strategies: balanced bracket spans that honor string-literal
// context, and open/close tag pairing.
//
// Tag pairing is explicit scanning rather than a backreference pattern:
// Go's RE2 engine has no backreferences, and scanning stays linear in the
// input length.
package textscan

import (
	"regexp"
	"strings"
)

// Balanced returns the shortest prefix of text that is bracket-balanced with
// respect to the single open/close pair, starting at text[0]. Brackets inside
// double-quoted string literals are ignored, and a backslash inside a string
// escapes exactly one following character.
//
// The second return value is false when text does not start with open or no
// balanced prefix exists before the end of the input.
func Balanced(text string, open, close byte) (string, bool) {
	if len(text) == 0 || text[0] != open {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case c == open && !inString:
			depth++
		case c == close && !inString:
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}

	return "", false
}

// Pair is a matched open/close tag span within the scanned text.
// Start and End delimit the span [Start, End), inclusive of both tags.
type Pair struct {
	Name  string
	Start int
	End   int
}

// pairAt resolves the opening-tag match m (submatch index triple from opener)
// to a full pair by locating the nearest subsequent closing tag. The closer
// must be exactly `</name>` with no interior whitespace; `</name >` never
// pairs. With fold set, tag names compare ASCII case-insensitively, so
// <HTML> pairs with </html>.
func pairAt(text string, m []int, fold bool) (Pair, bool) {
	name := text[m[2]:m[3]]
	rel := indexCloser(text[m[1]:], name, fold)
	if rel < 0 {
		return Pair{}, false
	}
	end := m[1] + rel + len(name) + 3
	return Pair{Name: name, Start: m[0], End: end}, true
}

// indexCloser returns the index of the first `</name>` in s, or -1.
func indexCloser(s, name string, fold bool) int {
	if !fold {
		return strings.Index(s, "</"+name+">")
	}
	for i := 0; ; i++ {
		rel := strings.Index(s[i:], "</")
		if rel < 0 {
			return -1
		}
		i += rel
		rest := s[i+2:]
		if len(rest) > len(name) && rest[len(name)] == '>' && strings.EqualFold(rest[:len(name)], name) {
			return i
		}
	}
}

// FirstPair returns the leftmost matched open/close tag pair. The opener
// expression must match a complete opening tag with the tag name as its first
// capture group. Openers without a corresponding closing tag are skipped.
// fold makes open/close tag names compare case-insensitively.
func FirstPair(text string, opener *regexp.Regexp, fold bool) (Pair, bool) {
	for _, m := range opener.FindAllStringSubmatchIndex(text, -1) {
		if p, ok := pairAt(text, m, fold); ok {
			return p, true
		}
	}
	return Pair{}, false
}

// LongestPair returns the longest matched open/close tag pair, scanning every
// opening tag in the text. Ties break toward the earlier start index, so the
// selection is deterministic (leftmost-longest).
func LongestPair(text string, opener *regexp.Regexp, fold bool) (Pair, bool) {
	var best Pair
	found := false
	for _, m := range opener.FindAllStringSubmatchIndex(text, -1) {
		p, ok := pairAt(text, m, fold)
		if !ok {
			continue
		}
		if !found || p.End-p.Start > best.End-best.Start {
			best = p
			found = true
		}
	}
	return best, found
}

// AllPairs returns every matched open/close tag pair in order of appearance,
// non-overlapping: after a pair matches, scanning resumes past its closing
// tag. Unmatched opening tags are stepped over.
func AllPairs(text string, opener *regexp.Regexp, fold bool) []Pair {
	var pairs []Pair
	offset := 0
	for offset < len(text) {
		m := opener.FindStringSubmatchIndex(text[offset:])
		if m == nil {
			break
		}
		p, ok := pairAt(text[offset:], m, fold)
		if !ok {
			// No closing tag anywhere after this opener; skip it.
			offset += m[0] + 1
			continue
		}
		p.Start += offset
		p.End += offset
		pairs = append(pairs, p)
		offset = p.End
	}
	return pairs
}
