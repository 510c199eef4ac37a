package markup

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// XML returns an [Engine] for XML documents built on encoding/xml.
//
// Strict parsing walks the token stream with Decoder.Strict enabled and
// additionally enforces a single root element with nothing but whitespace,
// comments, and processing instructions outside it. Only the five predefined
// XML entities are resolved; custom entities fail the parse and no external
// resource is ever fetched.
//
// Recovery re-reads the document with raw tokens, dropping stray closing
// tags, closing unclosed elements, and re-serializing the result.
func XML() Engine {
	return xmlEngine{}
}

type xmlEngine struct{}

func (xmlEngine) ParseStrict(text string) error {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true

	depth := 0
	roots := 0
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return toSyntaxError(err, d)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return posError(d, "extra content after document element")
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(strings.TrimSpace(string(t))) > 0 {
				return posError(d, "text outside document element")
			}
		}
	}
	if roots == 0 {
		return posError(d, "no document element found")
	}
	return nil
}

func (xmlEngine) Recover(text string) (string, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = false

	var b strings.Builder
	var stack []xml.Name
	sawElement := false

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep whatever was recovered so far; a hard tokenizer error
			// with no elements at all means recovery failed outright.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			sawElement = true
			writeStartTag(&b, t)
			stack = append(stack, t.Name)
		case xml.EndElement:
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == t.Name {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue // stray closing tag, drop it
			}
			for len(stack) > idx {
				writeEndTag(&b, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			b.WriteString(escapeCharData(string(t)))
		case xml.Comment:
			b.WriteString("<!--")
			b.WriteString(string(t))
			b.WriteString("-->")
		case xml.ProcInst:
			b.WriteString("<?")
			b.WriteString(t.Target)
			if len(t.Inst) > 0 {
				b.WriteString(" ")
				b.WriteString(string(t.Inst))
			}
			b.WriteString("?>")
		case xml.Directive:
			b.WriteString("<!")
			b.WriteString(string(t))
			b.WriteString(">")
		}
	}
	for len(stack) > 0 {
		writeEndTag(&b, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	if !sawElement {
		return "", errors.New("no recoverable element content")
	}
	return b.String(), nil
}

// toSyntaxError converts a decoder error to *SyntaxError, preferring the
// decoder's own line number when it has one.
func toSyntaxError(err error, d *xml.Decoder) error {
	line, col := d.InputPos()
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		if se.Line > 0 {
			line = se.Line
		}
		return &SyntaxError{Msg: se.Msg, Line: line, Column: col}
	}
	return &SyntaxError{Msg: err.Error(), Line: line, Column: col}
}

func posError(d *xml.Decoder, msg string) error {
	line, col := d.InputPos()
	return &SyntaxError{Msg: msg, Line: line, Column: col}
}

func qualified(n xml.Name) string {
	// Raw tokens keep the namespace prefix in Space.
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

var (
	charDataEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper     = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func escapeCharData(s string) string { return charDataEscaper.Replace(s) }

func writeStartTag(b *strings.Builder, t xml.StartElement) {
	b.WriteString("<")
	b.WriteString(qualified(t.Name))
	for _, a := range t.Attr {
		b.WriteString(" ")
		b.WriteString(qualified(a.Name))
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

func writeEndTag(b *strings.Builder, n xml.Name) {
	b.WriteString("</")
	b.WriteString(qualified(n))
	b.WriteString(">")
}
