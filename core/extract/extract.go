package extract

import (
	"fmt"
	"sync"
)

// Format identifies a supported content format for [Extract].
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatHTML Format = "html"
	FormatCode Format = "code"
)

// ParseFormat converts a user-supplied format name to a [Format],
// case-sensitively matching the lowercase names json, xml, html, and code.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatXML, FormatHTML, FormatCode:
		return f, nil
	default:
		return "", fmt.Errorf("llmextract: invalid format %q (valid: json, xml, html, code)", s)
	}
}

// Extractor is the capability contract shared by all extractors: take raw
// text, return the extracted value or a classified error. JSON extraction
// yields a parsed map or slice; the other formats yield a cleaned string.
type Extractor interface {
	Extract(text string) (any, error)
}

// ExtractorFunc adapts a plain function to the [Extractor] interface.
type ExtractorFunc func(text string) (any, error)

func (f ExtractorFunc) Extract(text string) (any, error) { return f(text) }

var (
	registryMu sync.RWMutex
	registry   = map[Format]Extractor{}
)

// Register installs a custom extractor for a format, overriding the default
// used by [Extract]. Registering nil removes a previous override.
func Register(format Format, e Extractor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if e == nil {
		delete(registry, format)
		return
	}
	registry[format] = e
}

func registered(format Format) (Extractor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[format]
	return e, ok
}

// ExtractOption configures a single [Extract] call.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	language string
}

// WithLanguage narrows code extraction to fenced blocks tagged with the given
// language. It is ignored for the other formats.
func WithLanguage(language string) ExtractOption {
	return func(o *extractOptions) { o.language = language }
}

// Extract pulls content of the given format out of raw LLM output using a
// default extractor (or one installed with [Register]). raw must be a string
// or a []byte; any other type fails with [ErrTypeMismatch].
//
// JSON extraction returns the parsed value (map[string]any or []any); XML,
// HTML, and code extraction return the cleaned text span.
func Extract(raw any, format Format, opts ...ExtractOption) (any, error) {
	var o extractOptions
	for _, opt := range opts {
		opt(&o)
	}

	text, err := coerceText(raw)
	if err != nil {
		return nil, err
	}

	if e, ok := registered(format); ok {
		return e.Extract(text)
	}

	switch format {
	case FormatJSON:
		return NewJSONExtractor().Extract(text)
	case FormatXML:
		return NewXMLExtractor().Extract(text)
	case FormatHTML:
		return NewHTMLExtractor().Extract(text)
	case FormatCode:
		return NewCodeBlockExtractor(CodeLanguage(o.language)).Extract(text)
	default:
		return nil, fmt.Errorf("llmextract: invalid format %q (valid: json, xml, html, code)", format)
	}
}

func coerceText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: expected string or []byte, got %T", ErrTypeMismatch, raw)
	}
}
