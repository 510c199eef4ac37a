package extract

import (
	"strings"
	"unicode"
)

// StripFence removes one layer of markdown code-fence delimiters from text
// and returns the trimmed interior. When language is non-empty, a fence
// opener tagged with that language (as given, uppercased, or capitalized) is
// stripped first; any remaining generic opener loses its whole first line,
// which also discards an unrecognized language tag. Text without fences is
// returned trimmed but otherwise unchanged; StripFence never fails.
func StripFence(text, language string) string {
	text = strings.TrimSpace(text)

	if language != "" {
		for _, tag := range []string{language, strings.ToUpper(language), capitalize(language)} {
			marker := "```" + tag
			if strings.HasPrefix(text, marker) {
				text = strings.TrimLeftFunc(text[len(marker):], unicode.IsSpace)
				break
			}
		}
	}

	if strings.HasPrefix(text, "```") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		}
	}

	if strings.HasSuffix(text, "```") {
		text = strings.TrimRightFunc(text[:len(text)-3], unicode.IsSpace)
	}

	return strings.TrimSpace(text)
}

// capitalize upper-cases the first character and lower-cases the rest,
// matching the Capitalized fence-tag variant ("Python", "Json").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
