package extract

import (
	"errors"
	"reflect"
	"testing"
)

func TestJSONExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		strict  bool
		want    any
		wantErr error
	}{
		{
			name:  "clean object",
			input: `{"key": "value", "number": 42}`,
			want:  map[string]any{"key": "value", "number": float64(42)},
		},
		{
			name:  "clean array",
			input: `[1, 2, 3]`,
			want:  []any{float64(1), float64(2), float64(3)},
		},
		{
			name:  "fenced json",
			input: "```json\n{\"status\": \"ok\"}\n```",
			want:  map[string]any{"status": "ok"},
		},
		{
			name:  "fenced without language tag",
			input: "```\n{\"a\": 1}\n```",
			want:  map[string]any{"a": float64(1)},
		},
		{
			name:  "object embedded in prose",
			input: `Here is the result: {"name": "test", "valid": true} as requested.`,
			want:  map[string]any{"name": "test", "valid": true},
		},
		{
			name:  "nested object embedded in prose",
			input: `The config {"outer": {"inner": [1, 2]}} should work.`,
			want:  map[string]any{"outer": map[string]any{"inner": []any{float64(1), float64(2)}}},
		},
		{
			name:  "array appearing before object wins",
			input: `[1, 2, 3] and {"key": "value"}`,
			want:  []any{float64(1), float64(2), float64(3)},
		},
		{
			name:  "braces inside string values",
			input: `{"text": "contains } and { chars", "n": 1}`,
			want:  map[string]any{"text": "contains } and { chars", "n": float64(1)},
		},
		{
			name:  "trailing comma repaired",
			input: `{"a": 1, "b": 2,}`,
			want:  map[string]any{"a": float64(1), "b": float64(2)},
		},
		{
			name:  "trailing comma in array repaired",
			input: `[1, 2, 3,]`,
			want:  []any{float64(1), float64(2), float64(3)},
		},
		{
			name:    "trailing comma rejected in strict mode",
			input:   `{"a": 1,}`,
			strict:  true,
			wantErr: ErrParseFailed,
		},
		{
			name:  "single quotes repaired",
			input: `{'key': 'value'}`,
			want:  map[string]any{"key": "value"},
		},
		{
			name:  "unquoted keys repaired",
			input: `{key: "value"}`,
			want:  map[string]any{"key": "value"},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "whitespace only",
			input:   "   \n\t  ",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "prose without json",
			input:   "This is just a sentence with no structure.",
			wantErr: ErrNoCandidate,
		},
		{
			name:    "bare scalar rejected",
			input:   "42",
			wantErr: ErrNoCandidate,
		},
		{
			name:    "unbalanced braces",
			input:   `{"a": {"b": 1}`,
			wantErr: ErrNoCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewJSONExtractor(JSONStrict(tt.strict))
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
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// Valid JSON must round-trip byte-identically regardless of strict mode.
func TestJSONExtractor_StrictAcceptsValid(t *testing.T) {
	input := `{"a": [1, 2], "b": null}`
	for _, strict := range []bool{false, true} {
		e := NewJSONExtractor(JSONStrict(strict))
		got, err := e.Extract(input)
		if err != nil {
			t.Fatalf("Extract(strict=%v) error: %v", strict, err)
		}
		want := map[string]any{"a": []any{float64(1), float64(2)}, "b": nil}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract(strict=%v) = %#v, want %#v", strict, got, want)
		}
	}
}

func TestRepairCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trailing before brace", input: `{"a": 1,}`, want: `{"a": 1}`},
		{name: "trailing before bracket", input: `[1, 2,]`, want: `[1, 2]`},
		{name: "consecutive commas", input: `[1,, 2,,, 3]`, want: `[1, 2, 3]`},
		{name: "comma after opener", input: `[, 1, 2]`, want: `[ 1, 2]`},
		{name: "already valid", input: `{"a": [1, 2]}`, want: `{"a": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repairCommas(tt.input); got != tt.want {
				t.Errorf("repairCommas(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "key value pair", input: `{"key": "value"}`, want: true},
		{name: "numeric value", input: `{"n": 42}`, want: true},
		{name: "boolean value", input: `{"ok": true}`, want: true},
		{name: "array literal", input: `[1, 2, 3]`, want: true},
		{name: "braced prose", input: `{just some words}`, want: false},
		{name: "no brackets", input: `key: value`, want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeJSON(tt.input); got != tt.want {
				t.Errorf("looksLikeJSON(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
