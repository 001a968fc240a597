// Package gateway wraps hosted text-completion services behind a single
// contract: a prompt (plus optional tool declarations) in, raw text or a
// tool-invocation descriptor out. Failures are explicit errors, never
// malformed success values.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ToolSpec declares a callable tool/function the model may invoke.
// Parameters is a JSON-schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Result is the outcome of one completion call: either plain text or a
// tool invocation, never both.
type Result struct {
	Text     string          `json:"text,omitempty"`
	ToolName string          `json:"tool_name,omitempty"`
	ToolArgs json.RawMessage `json:"tool_arguments,omitempty"`
}

// IsToolCall reports whether the model asked for a tool invocation.
func (r *Result) IsToolCall() bool {
	return r.ToolName != ""
}

// Client abstracts completion calls. Implementations wrap OpenAI, Anthropic,
// local models, etc.
type Client interface {
	Complete(ctx context.Context, prompt string, tools ...ToolSpec) (*Result, error)
}

// apiError represents an error from a completion API that may or may not be retryable.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// isRetryable returns true for transient errors (rate limit, server errors).
func (e *apiError) isRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}
