package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func claudeTestServer(t *testing.T, handler http.HandlerFunc) *ClaudeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClaudeClient("test-key", WithClaudeBaseURL(srv.URL), WithClaudeModel("claude-test"))
}

func TestClaudeCompleteText(t *testing.T) {
	var gotReq claudeRequest
	c := claudeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if k := r.Header.Get("x-api-key"); k != "test-key" {
			t.Errorf("x-api-key = %q", k)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"content": [{"type": "text", "text": "A: hi\nB: hello"}]}`))
	})

	result, err := c.Complete(context.Background(), "write a dialogue")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Text != "A: hi\nB: hello" {
		t.Errorf("Text = %q", result.Text)
	}
	if result.IsToolCall() {
		t.Error("unexpected tool call")
	}
	if gotReq.Model != "claude-test" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "write a dialogue" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestClaudeCompleteToolUse(t *testing.T) {
	var gotReq claudeRequest
	c := claudeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"content": [{"type": "tool_use", "name": "emit_draft", "input": {"original_text": "A: hi"}}]}`))
	})

	tool := ToolSpec{
		Name:        "emit_draft",
		Description: "emit the structured draft",
		Parameters:  map[string]any{"type": "object"},
	}
	result, err := c.Complete(context.Background(), "write a dialogue", tool)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !result.IsToolCall() || result.ToolName != "emit_draft" {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(string(result.ToolArgs), "original_text") {
		t.Errorf("ToolArgs = %s", result.ToolArgs)
	}
	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Name != "emit_draft" {
		t.Errorf("tools = %+v", gotReq.Tools)
	}
}

func TestClaudeRetryOnServerError(t *testing.T) {
	attempts := 0
	c := claudeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	})

	result, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Text != "ok" {
		t.Errorf("Text = %q", result.Text)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestClaudeNoRetryOnClientError(t *testing.T) {
	attempts := 0
	c := claudeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
