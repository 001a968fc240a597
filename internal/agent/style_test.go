package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

func testDraft(text string) model.DialogueDraft {
	return model.DialogueDraft{
		Text:       text,
		KeyPoints:  []string{"meet at a cafe"},
		Intentions: []string{"make a friend"},
	}
}

func TestAdaptTemplateSelection(t *testing.T) {
	// The Chinese template is recognizable by its role line, the English one
	// by "dialogue stylist".
	tests := []struct {
		name        string
		text        string
		hint        string
		wantChinese bool
	}{
		{"explicit Chinese hint", "A: hi", "中文", true},
		{"explicit zh hint", "A: hi", "zh", true},
		{"explicit Chinese word hint", "A: hi", "Chinese", true},
		{"no hint, CJK text", "顾客：你好", "", true},
		{"no hint, ascii text", "A: hi there", "", false},
		{"single CJK character flips the template", "A: hi, I learned the word 你 today", "", true},
		{"other hint forces the general template", "顾客：你好", "French", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{text: "styled"}
			a := NewStyleAgent(gw, time.Minute)

			_, err := a.Adapt(context.Background(), testDraft(tt.text), "shy student", "friendly barista", tt.hint)
			if err != nil {
				t.Fatalf("Adapt: %v", err)
			}
			gotChinese := strings.Contains(gw.lastPrompt, "对话风格改编")
			if gotChinese != tt.wantChinese {
				t.Errorf("chinese template = %v, want %v\nprompt:\n%s", gotChinese, tt.wantChinese, gw.lastPrompt)
			}
			if !tt.wantChinese && !strings.Contains(gw.lastPrompt, "dialogue stylist") {
				t.Errorf("expected the general template:\n%s", gw.lastPrompt)
			}
		})
	}
}

func TestAdaptCarriesDraftContent(t *testing.T) {
	gw := &mockGateway{text: "styled"}
	a := NewStyleAgent(gw, time.Minute)

	draft := testDraft("A: hi\nB: hello")
	got, err := a.Adapt(context.Background(), draft, "shy student", "friendly barista", "")
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if got != "styled" {
		t.Errorf("got %q", got)
	}
	for _, want := range []string{"A: hi\nB: hello", "- meet at a cafe", "- make a friend", "shy student", "friendly barista"} {
		if !strings.Contains(gw.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gw.lastPrompt)
		}
	}
}

func TestAdaptMissingPersona(t *testing.T) {
	a := NewStyleAgent(&mockGateway{text: "styled"}, time.Minute)

	if _, err := a.Adapt(context.Background(), testDraft("A: hi"), "", "barista", ""); !errors.Is(err, ErrMissingPersona) {
		t.Errorf("err = %v, want ErrMissingPersona", err)
	}
	if _, err := a.Adapt(context.Background(), testDraft("A: hi"), "student", "", ""); !errors.Is(err, ErrMissingPersona) {
		t.Errorf("err = %v, want ErrMissingPersona", err)
	}
}

func TestAdaptGatewayFailure(t *testing.T) {
	a := NewStyleAgent(&mockGateway{err: errors.New("rate limited")}, time.Minute)

	_, err := a.Adapt(context.Background(), testDraft("A: hi"), "student", "barista", "")
	var ge *GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want *GatewayError", err)
	}
}
