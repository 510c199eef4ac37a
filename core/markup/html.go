package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTML returns an [Engine] for HTML content built on goquery and
// golang.org/x/net/html.
//
// HTML parsing is lenient by nature, so ParseStrict fails only for input the
// parser cannot turn into a document at all. Recover re-parses the content
// and re-serializes it, normalizing attribute quoting and tag structure;
// fragments come back as fragments, full documents (anything carrying an
// <html> tag) as full documents.
func HTML() Engine {
	return htmlEngine{}
}

type htmlEngine struct{}

func (htmlEngine) ParseStrict(text string) error {
	if strings.TrimSpace(text) == "" {
		return &SyntaxError{Msg: "document is empty", Line: 1}
	}
	if _, err := html.Parse(strings.NewReader(text)); err != nil {
		return &SyntaxError{Msg: err.Error(), Line: 1}
	}
	return nil
}

func (htmlEngine) Recover(text string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", err
	}

	if strings.Contains(strings.ToLower(text), "<html") {
		// Serialize the whole document, doctype included.
		var b strings.Builder
		if err := html.Render(&b, doc.Nodes[0]); err != nil {
			return "", err
		}
		return b.String(), nil
	}

	// Fragment input: the parser wrapped it in html/head/body scaffolding,
	// so return the normalized body content only.
	inner, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(inner), nil
}
