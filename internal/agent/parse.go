package agent

import (
	"encoding/json"
	"strings"
)

// Outcome classifies how a draft was recovered from raw model output.
type Outcome int

const (
	// Parsed means the embedded JSON object was found and decoded.
	Parsed Outcome = iota
	// RawFallback means no usable object was found; the whole raw response
	// became the draft text. Degraded, never fatal.
	RawFallback
)

func (o Outcome) String() string {
	if o == Parsed {
		return "parsed"
	}
	return "raw_fallback"
}

// draftPayload is the schema the draft prompt asks the model to emit.
type draftPayload struct {
	Text       string   `json:"original_text"`
	KeyPoints  []string `json:"key_points"`
	Intentions []string `json:"intentions"`
}

// extractJSONObject returns the first balanced {...} span in s, skipping
// braces inside JSON string literals.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// parseDraft attempts a strict parse of the first embedded JSON object.
// Model output format is not contractually guaranteed, so any failure
// degrades to the raw response instead of erroring.
func parseDraft(raw string) (draftPayload, Outcome) {
	if span, ok := extractJSONObject(raw); ok {
		var p draftPayload
		if err := json.Unmarshal([]byte(span), &p); err == nil && p.Text != "" {
			if p.KeyPoints == nil {
				p.KeyPoints = []string{}
			}
			if p.Intentions == nil {
				p.Intentions = []string{}
			}
			return p, Parsed
		}
	}
	return draftPayload{Text: raw, KeyPoints: []string{}, Intentions: []string{}}, RawFallback
}
