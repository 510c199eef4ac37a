package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestHTMLExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []HTMLOption
		want    string
		wantErr error
	}{
		{
			name:  "full document with doctype",
			input: `Sure! <!DOCTYPE html><html><body><p>hi</p></body></html> Done.`,
			want:  `<!DOCTYPE html><html><body><p>hi</p></body></html>`,
		},
		{
			name:  "html element without doctype",
			input: `prefix <html><body>content</body></html> suffix`,
			want:  `<html><body>content</body></html>`,
		},
		{
			name:  "mixed-case document",
			input: `prefix <HTML><Body>content here</Body></html> suffix`,
			want:  `<HTML><Body>content here</Body></html>`,
		},
		{
			name:  "mixed-case container",
			input: `note: <DIV class="x"><p>text</p></Div> thanks`,
			want:  `<DIV class="x"><p>text</p></Div>`,
		},
		{
			name:  "container element",
			input: `Here: <div class="card"><p>text</p></div> and more prose.`,
			want:  `<div class="card"><p>text</p></div>`,
		},
		{
			name:  "largest container wins",
			input: `<div>small</div> <section><div>bigger content inside</div></section>`,
			want:  `<section><div>bigger content inside</div></section>`,
		},
		{
			name:  "fenced html",
			input: "```html\n<div><span>x</span></div>\n```",
			want:  `<div><span>x</span></div>`,
		},
		{
			name:  "arbitrary tag pair fallback",
			input: `Result: <em>emphasis</em> end.`,
			want:  `<em>emphasis</em>`,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "prose without markup",
			input:   "Nothing structured in this sentence.",
			wantErr: ErrNoCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewHTMLExtractor(tt.opts...)
			got, err := e.Extract(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLExtractor_CleanNormalizes(t *testing.T) {
	e := NewHTMLExtractor(HTMLClean(true))
	got, err := e.Extract(`<div><p>unclosed paragraph</div>`)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !strings.Contains(got, "</p>") {
		t.Errorf("Extract() with cleaning did not close the paragraph: %q", got)
	}
}

func TestHTMLExtractor_IsValid(t *testing.T) {
	e := NewHTMLExtractor()
	if !e.IsValid(`<div><p>ok</p></div>`) {
		t.Error("IsValid() rejected a parseable fragment")
	}
	if e.IsValid("") {
		t.Error("IsValid() accepted empty input")
	}
}

func TestHTMLExtractor_ExtractAllFragments(t *testing.T) {
	e := NewHTMLExtractor()

	t.Run("multiple fragments in order", func(t *testing.T) {
		input := `First <div><p>one</p></div> then prose, then <span><a href="#">two</a></span>.`
		got := e.ExtractAllFragments(input)
		want := []string{`<div><p>one</p></div>`, `<span><a href="#">two</a></span>`}
		if len(got) != len(want) {
			t.Fatalf("ExtractAllFragments() returned %d fragments, want %d: %v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("fragment[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("no fragments", func(t *testing.T) {
		if got := e.ExtractAllFragments("plain prose only"); got != nil {
			t.Errorf("ExtractAllFragments() = %v, want nil", got)
		}
	})
}

func TestHTMLExtractor_ExtractMarkdown(t *testing.T) {
	e := NewHTMLExtractor()
	got, err := e.ExtractMarkdown(`<div><h1>Title</h1><p>Some <strong>bold</strong> text.</p></div>`)
	if err != nil {
		t.Fatalf("ExtractMarkdown() error: %v", err)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("ExtractMarkdown() heading not converted: %q", got)
	}
	if !strings.Contains(got, "**bold**") {
		t.Errorf("ExtractMarkdown() bold not converted: %q", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "doctype prefix", input: `<!DOCTYPE html><p>x`, want: true},
		{name: "two indicators", input: `<div>text</div>`, want: true},
		{name: "single self-closing tag", input: `<img src="x.png">`, want: false},
		{name: "comparison expression", input: `a < b and c > d`, want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeHTML(tt.input); got != tt.want {
				t.Errorf("looksLikeHTML(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
