package agent

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/gateway"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

var (
	errEmptyCompletion = errors.New("empty completion")

	// ErrMissingPersona is returned when either persona description is empty.
	ErrMissingPersona = errors.New("both persona descriptions are required")
)

// StyleAgent rewrites a draft to reflect two character personas while
// preserving the draft's key points and intentions.
type StyleAgent struct {
	gw      gateway.Client
	timeout time.Duration
}

// NewStyleAgent creates a style agent.
func NewStyleAgent(gw gateway.Client, timeout time.Duration) *StyleAgent {
	return &StyleAgent{gw: gw, timeout: timeout}
}

// Adapt returns the persona-adapted rewrite of the draft's text. The output
// is terminal free text; no structural parsing is attempted.
//
// With no explicit language hint the template is chosen by scanning the draft
// for CJK ideographs. This is a cheap heuristic, not a language detector: a
// mostly-English draft quoting a single Chinese phrase selects the Chinese
// template.
func (a *StyleAgent) Adapt(ctx context.Context, draft model.DialogueDraft, userTraits, aiTraits, languageHint string) (string, error) {
	if userTraits == "" || aiTraits == "" {
		return "", ErrMissingPersona
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var prompt string
	if useChineseTemplate(draft.Text, languageHint) {
		prompt = buildStylePromptZH(draft, userTraits, aiTraits)
	} else {
		prompt = buildStylePromptEN(draft, userTraits, aiTraits)
	}

	result, err := a.gw.Complete(ctx, prompt)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	if result.Text == "" {
		return "", &GatewayError{Err: errEmptyCompletion}
	}
	return result.Text, nil
}

func useChineseTemplate(text, hint string) bool {
	switch hint {
	case "中文", "Chinese", "zh":
		return true
	case "":
		return containsCJK(text)
	default:
		return false
	}
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
