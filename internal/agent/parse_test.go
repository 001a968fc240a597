package agent

import (
	"strings"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "object wrapped in prose",
			input: "Sure! Here you go:\n{\"a\": 1}\nLet me know if you need changes.",
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "nested objects",
			input: `prefix {"outer": {"inner": 2}} suffix`,
			want:  `{"outer": {"inner": 2}}`,
			ok:    true,
		},
		{
			name:  "braces inside string literals",
			input: `{"text": "use {curly} braces \" and } here"}`,
			want:  `{"text": "use {curly} braces \" and } here"}`,
			ok:    true,
		},
		{
			name:  "no object",
			input: "just plain text",
			ok:    false,
		},
		{
			name:  "unbalanced",
			input: `{"a": 1`,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDraft(t *testing.T) {
	raw := `Here is the result:
{"original_text": "A: hi\nB: hello", "key_points": ["greeting"], "intentions": ["be friendly"]}`

	p, outcome := parseDraft(raw)
	if outcome != Parsed {
		t.Fatalf("outcome = %v, want Parsed", outcome)
	}
	if p.Text != "A: hi\nB: hello" {
		t.Errorf("Text = %q", p.Text)
	}
	if len(p.KeyPoints) != 1 || p.KeyPoints[0] != "greeting" {
		t.Errorf("KeyPoints = %v", p.KeyPoints)
	}
	if len(p.Intentions) != 1 || p.Intentions[0] != "be friendly" {
		t.Errorf("Intentions = %v", p.Intentions)
	}
}

func TestParseDraftNormalizesMissingLists(t *testing.T) {
	p, outcome := parseDraft(`{"original_text": "A: hi"}`)
	if outcome != Parsed {
		t.Fatalf("outcome = %v, want Parsed", outcome)
	}
	if p.KeyPoints == nil || p.Intentions == nil {
		t.Errorf("lists should be empty, not nil: %v %v", p.KeyPoints, p.Intentions)
	}
	if len(p.KeyPoints) != 0 || len(p.Intentions) != 0 {
		t.Errorf("lists should be empty: %v %v", p.KeyPoints, p.Intentions)
	}
}

func TestParseDraftFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no JSON at all", "A: hi there\nB: hello"},
		{"invalid JSON", `{"original_text": broken}`},
		{"empty dialogue text", `{"original_text": "", "key_points": ["x"]}`},
		{"object without the dialogue field", `{"something_else": "value"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, outcome := parseDraft(tt.raw)
			if outcome != RawFallback {
				t.Fatalf("outcome = %v, want RawFallback", outcome)
			}
			if p.Text != tt.raw {
				t.Errorf("fallback must keep the whole raw response, got %q", p.Text)
			}
			if p.KeyPoints == nil || len(p.KeyPoints) != 0 {
				t.Errorf("KeyPoints = %v, want empty", p.KeyPoints)
			}
			if p.Intentions == nil || len(p.Intentions) != 0 {
				t.Errorf("Intentions = %v, want empty", p.Intentions)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if s := Parsed.String(); s != "parsed" {
		t.Errorf("Parsed = %q", s)
	}
	if s := RawFallback.String(); !strings.Contains(s, "fallback") {
		t.Errorf("RawFallback = %q", s)
	}
}
