package gateway

import (
	"context"
	"strings"
	"testing"
)

func TestStubClientDraftReply(t *testing.T) {
	c := &StubClient{}
	result, err := c.Complete(context.Background(), `Return a single JSON object ... "original_text" ...`)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// The canned draft embeds its JSON inside prose, like real model output.
	if !strings.Contains(result.Text, `"original_text"`) || strings.HasPrefix(result.Text, "{") {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestStubClientStyleReplies(t *testing.T) {
	c := &StubClient{}

	zh, err := c.Complete(context.Background(), "作为一个专业的对话风格改编 AI ...")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(zh.Text, "顾客") {
		t.Errorf("zh Text = %q", zh.Text)
	}

	en, err := c.Complete(context.Background(), "As a professional dialogue stylist AI ...")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(en.Text, "Barista") {
		t.Errorf("en Text = %q", en.Text)
	}
}
