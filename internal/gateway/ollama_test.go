package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaComplete(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"response": "A: hi\nB: hello"}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, WithOllamaModel("test-model"))
	result, err := c.Complete(context.Background(), "write a dialogue")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Text != "A: hi\nB: hello" {
		t.Errorf("Text = %q", result.Text)
	}
	if gotReq.Model != "test-model" || gotReq.Prompt != "write a dialogue" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
}

func TestOllamaAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL)
	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
}
