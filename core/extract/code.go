package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// languageKeywords drives fenced-block filtering, unfenced-code detection,
// and language identification. Keys are lowercase language names.
var languageKeywords = map[string][]string{
	"python": {
		"def", "class", "import", "from", "return", "if", "elif", "else",
		"for", "while", "try", "except", "with", "lambda", "yield", "async", "await",
	},
	"javascript": {
		"function", "const", "let", "var", "return", "if", "else", "for",
		"while", "class", "import", "export", "async", "await", "=>",
	},
	"java": {
		"public", "private", "protected", "class", "interface", "void", "int",
		"String", "return", "if", "else", "for", "while", "try", "catch",
	},
	"go": {
		"func", "package", "import", "var", "const", "type", "struct",
		"interface", "return", "if", "else", "for", "range", "defer", "go",
	},
	"rust": {
		"fn", "let", "mut", "pub", "struct", "enum", "impl", "trait", "use",
		"mod", "return", "if", "else", "for", "while", "match",
	},
	"typescript": {
		"function", "const", "let", "var", "interface", "type", "class",
		"return", "if", "else", "for", "while", "import", "export", "async", "await",
	},
}

// languageOrder fixes the tie-break order for [CodeBlockExtractor.DetectLanguage].
var languageOrder = []string{"python", "javascript", "java", "go", "rust", "typescript"}

// keywordPatterns holds one word-bounded pattern per keyword, compiled once.
var keywordPatterns = func() map[string][]*regexp.Regexp {
	m := make(map[string][]*regexp.Regexp, len(languageKeywords))
	for lang, keywords := range languageKeywords {
		res := make([]*regexp.Regexp, 0, len(keywords))
		for _, kw := range keywords {
			res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		m[lang] = res
	}
	return m
}()

// CodeBlock is one fenced code block found by
// [CodeBlockExtractor.ExtractAllBlocks]. Language is "unknown" for untagged
// fences.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// CodeBlockExtractor extracts source code from LLM output: markdown fenced
// blocks, optionally narrowed to one language, with a heuristic fallback for
// unfenced code when strict mode is off.
//
// Construct with [NewCodeBlockExtractor]. Instances are immutable and safe
// for concurrent use.
type CodeBlockExtractor struct {
	language      string
	strict        bool
	languageFence *regexp.Regexp
}

// CodeOption configures a [CodeBlockExtractor] at construction.
type CodeOption func(*CodeBlockExtractor)

// CodeLanguage narrows extraction to fenced blocks tagged with the given
// language (matched case-insensitively). Empty means any block.
func CodeLanguage(language string) CodeOption {
	return func(e *CodeBlockExtractor) { e.language = strings.ToLower(language) }
}

// CodeStrict controls strict mode. When strict, only fenced blocks are
// extracted and the unfenced-code heuristic is skipped. Default is false.
func CodeStrict(strict bool) CodeOption {
	return func(e *CodeBlockExtractor) { e.strict = strict }
}

// NewCodeBlockExtractor returns a CodeBlockExtractor with the given options
// applied.
func NewCodeBlockExtractor(opts ...CodeOption) *CodeBlockExtractor {
	e := &CodeBlockExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.language != "" {
		e.languageFence = regexp.MustCompile(
			`(?is)` + "```" + regexp.QuoteMeta(e.language) + `[ \t]*\n(.*?)` + "```")
	}
	return e
}

var (
	genericFenceRe = regexp.MustCompile(`(?s)` + "```" + `(?:\w+)?[ \t]*\n(.*?)` + "```")
	looseFenceRe   = regexp.MustCompile(`(?s)` + "```" + `(?:\w+)?(.*?)` + "```")
	allBlocksRe    = regexp.MustCompile(`(?s)` + "```" + `([\w+-]*)[ \t]*\n(.*?)` + "```")
)

// Extract returns the first code block found in raw. Fenced blocks are
// preferred, the configured language first; without strict mode, text that
// scores as code is returned whole.
//
// Failures wrap [ErrEmptyInput] or [ErrNoCandidate].
func (e *CodeBlockExtractor) Extract(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: cannot extract code", ErrEmptyInput)
	}

	text := strings.TrimSpace(raw)

	if code := e.fencedCode(text); code != "" {
		return code, nil
	}

	if !e.strict && e.looksLikeCode(text) {
		return text, nil
	}

	return "", fmt.Errorf("%w: text does not contain a code block (strict mode also rejects unfenced code)", ErrNoCandidate)
}

// fencedCode extracts the first fenced block, trying the configured language
// before generic fences, then fences whose opener lacks a trailing newline.
func (e *CodeBlockExtractor) fencedCode(text string) string {
	if e.languageFence != nil {
		if m := e.languageFence.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if m := genericFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := looseFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var codeSymbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[{}\[\]();]`),
	regexp.MustCompile(`[=<>!]=`),
	regexp.MustCompile(`[+\-*/]=`),
	regexp.MustCompile(`=>`),
	regexp.MustCompile(`->`),
	regexp.MustCompile(`::`),
}

var codeKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:def|class|function|const|let|var)\s+\w+`),
	regexp.MustCompile(`\b(?:import|from|export|require)\s+`),
	regexp.MustCompile(`\b(?:if|else|elif|for|while|switch|case)\s*\(`),
	regexp.MustCompile(`\b(?:return|yield|await|async)\s+`),
}

var codeCommentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*#.*$`),
	regexp.MustCompile(`(?m)^\s*//.*$`),
	regexp.MustCompile(`/\*.*?\*/`),
}

// looksLikeCode scores text on code symbols (1 point each), keyword usage
// (2 points each), comment syntax (1 point), and indentation (1 point).
// A score of 3 or more counts as code. Text holding at least two keywords of
// the configured language is accepted outright.
func (e *CodeBlockExtractor) looksLikeCode(text string) bool {
	if text == "" {
		return false
	}

	if e.language != "" && containsLanguageKeywords(text, e.language) {
		return true
	}

	score := 0
	for _, re := range codeSymbolPatterns {
		if re.MatchString(text) {
			score++
		}
	}
	for _, re := range codeKeywordPatterns {
		if re.MatchString(text) {
			score += 2
		}
	}
	for _, re := range codeCommentPatterns {
		if re.MatchString(text) {
			score++
			break
		}
	}

	lines := strings.Split(text, "\n")
	indented := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			indented++
		}
	}
	if float64(indented) >= float64(len(lines))*0.3 {
		score++
	}

	return score >= 3
}

// containsLanguageKeywords reports whether text holds at least two distinct
// word-bounded keywords of the given language.
func containsLanguageKeywords(text, language string) bool {
	patterns, ok := keywordPatterns[language]
	if !ok {
		return false
	}
	found := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			found++
			if found >= 2 {
				return true
			}
		}
	}
	return false
}

// DetectLanguage guesses the programming language of code by counting
// word-bounded keyword occurrences per known language. The language with the
// strictly highest count wins; ties keep the earlier language in a fixed
// order. It reports false when no language reaches two occurrences.
func (e *CodeBlockExtractor) DetectLanguage(code string) (string, bool) {
	if code == "" {
		return "", false
	}

	best := ""
	bestScore := 0
	for _, lang := range languageOrder {
		score := 0
		for _, re := range keywordPatterns[lang] {
			score += len(re.FindAllString(code, -1))
		}
		if score > bestScore {
			best = lang
			bestScore = score
		}
	}

	if bestScore < 2 {
		return "", false
	}
	return best, true
}

// ExtractAllBlocks returns every fenced code block in raw with its language
// tag, in order of appearance. Blocks with empty bodies are skipped, and
// untagged fences report the language as "unknown". It returns nil when raw
// holds no blocks.
func (e *CodeBlockExtractor) ExtractAllBlocks(raw string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range allBlocksRe.FindAllStringSubmatch(raw, -1) {
		language := strings.TrimSpace(m[1])
		if language == "" {
			language = "unknown"
		}
		code := strings.TrimSpace(m[2])
		if code == "" {
			continue
		}
		blocks = append(blocks, CodeBlock{Language: language, Code: code})
	}
	return blocks
}

// SupportedLanguages returns the sorted list of languages with keyword
// detection support.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(languageKeywords))
	for lang := range languageKeywords {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
