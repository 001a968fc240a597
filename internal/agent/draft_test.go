package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/gateway"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// mockGateway records the last prompt and returns a fixed response.
type mockGateway struct {
	text       string
	err        error
	lastPrompt string
}

func (m *mockGateway) Complete(_ context.Context, prompt string, _ ...gateway.ToolSpec) (*gateway.Result, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return &gateway.Result{Text: m.text}, nil
}

// mockFetcher returns fixed background material.
type mockFetcher struct {
	material string
	err      error
	lastURL  string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (string, error) {
	m.lastURL = url
	return m.material, m.err
}

func testParams() model.Params {
	return model.Params{Context: "cafe", Goal: "exchange contact details"}
}

func TestGenerateParsed(t *testing.T) {
	gw := &mockGateway{text: `{"original_text": "A: hi\nB: hello", "key_points": ["greeting"], "intentions": ["meet someone"]}`}
	a := NewDraftAgent(gw, nil, time.Minute)

	draft, outcome, err := a.Generate(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if outcome != Parsed {
		t.Fatalf("outcome = %v, want Parsed", outcome)
	}
	if draft.Text != "A: hi\nB: hello" {
		t.Errorf("Text = %q", draft.Text)
	}
	if !draft.Metadata.IsZero() {
		t.Errorf("draft metadata must stay unset until persistence, got %+v", draft.Metadata)
	}
	if !strings.Contains(gw.lastPrompt, "cafe") || !strings.Contains(gw.lastPrompt, "exchange contact details") {
		t.Errorf("prompt missing parameters:\n%s", gw.lastPrompt)
	}
}

func TestGenerateAppliesDefaultsToPrompt(t *testing.T) {
	gw := &mockGateway{text: `{"original_text": "A: hi"}`}
	a := NewDraftAgent(gw, nil, time.Minute)

	if _, _, err := a.Generate(context.Background(), testParams()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{model.DefaultLanguage, model.DefaultDifficulty, "Turns: 5", "the AI character speaks first"} {
		if !strings.Contains(gw.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gw.lastPrompt)
		}
	}
}

func TestGenerateMalformedOutputDegrades(t *testing.T) {
	raw := "I could not produce JSON, but here is a dialogue:\nA: hi\nB: hello"
	gw := &mockGateway{text: raw}
	a := NewDraftAgent(gw, nil, time.Minute)

	draft, outcome, err := a.Generate(context.Background(), testParams())
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if outcome != RawFallback {
		t.Fatalf("outcome = %v, want RawFallback", outcome)
	}
	if draft.Text != raw {
		t.Errorf("Text = %q, want full raw response", draft.Text)
	}
}

func TestGenerateGatewayFailure(t *testing.T) {
	gw := &mockGateway{err: errors.New("connection refused")}
	a := NewDraftAgent(gw, nil, time.Minute)

	_, _, err := a.Generate(context.Background(), testParams())
	var ge *GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want *GatewayError", err)
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	gw := &mockGateway{text: ""}
	a := NewDraftAgent(gw, nil, time.Minute)

	_, _, err := a.Generate(context.Background(), testParams())
	var ge *GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want *GatewayError", err)
	}
}

func TestGenerateValidation(t *testing.T) {
	a := NewDraftAgent(&mockGateway{}, nil, time.Minute)

	if _, _, err := a.Generate(context.Background(), model.Params{Goal: "g"}); !errors.Is(err, model.ErrMissingContext) {
		t.Errorf("err = %v, want ErrMissingContext", err)
	}
	if _, _, err := a.Generate(context.Background(), model.Params{Context: "c"}); !errors.Is(err, model.ErrMissingGoal) {
		t.Errorf("err = %v, want ErrMissingGoal", err)
	}
}

func TestGenerateReferenceMaterial(t *testing.T) {
	gw := &mockGateway{text: `{"original_text": "A: hi"}`}
	refs := &mockFetcher{material: "The cafe opened in 1952 and is famous for pour-over coffee."}
	a := NewDraftAgent(gw, refs, time.Minute)

	params := testParams()
	params.ReferenceURL = "https://example.com/cafe"
	if _, _, err := a.Generate(context.Background(), params); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if refs.lastURL != params.ReferenceURL {
		t.Errorf("fetched %q, want %q", refs.lastURL, params.ReferenceURL)
	}
	if !strings.Contains(gw.lastPrompt, "pour-over coffee") {
		t.Errorf("prompt missing background material:\n%s", gw.lastPrompt)
	}
}

func TestGenerateReferenceFetchFailureIsIgnored(t *testing.T) {
	gw := &mockGateway{text: `{"original_text": "A: hi"}`}
	refs := &mockFetcher{err: errors.New("404")}
	a := NewDraftAgent(gw, refs, time.Minute)

	params := testParams()
	params.ReferenceURL = "https://example.com/missing"
	if _, _, err := a.Generate(context.Background(), params); err != nil {
		t.Fatalf("a failed fetch must not fail the draft: %v", err)
	}
	if strings.Contains(gw.lastPrompt, "Background material") {
		t.Errorf("prompt must not carry a material section when the fetch failed")
	}
}
