// Package agent holds the two pipeline agents: draft generation and style
// adaptation. Both take the completion gateway as an injected dependency.
package agent

import (
	"context"
	"time"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/gateway"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// GatewayError marks a completion-service failure (network, auth, rate limit,
// timeout). It is never fatal to a session; the controller reports "no result
// this step" and waits for the next user action.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "gateway: " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }

// MaterialFetcher supplies optional background material for the draft prompt.
type MaterialFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DraftAgent turns authoring parameters into a structured dialogue draft.
type DraftAgent struct {
	gw      gateway.Client
	refs    MaterialFetcher // nil disables reference material
	timeout time.Duration
}

// NewDraftAgent creates a draft agent. refs may be nil.
func NewDraftAgent(gw gateway.Client, refs MaterialFetcher, timeout time.Duration) *DraftAgent {
	return &DraftAgent{gw: gw, refs: refs, timeout: timeout}
}

// Generate builds the instruction, calls the gateway, and recovers a draft
// from the response. Malformed model output degrades to a RawFallback draft;
// the only error path is a gateway failure (including timeout).
// The returned draft carries zero metadata; identity is stamped at first
// persistence by the artifact store.
func (a *DraftAgent) Generate(ctx context.Context, params model.Params) (*model.DialogueDraft, Outcome, error) {
	if err := params.Validate(); err != nil {
		return nil, RawFallback, err
	}
	params.ApplyDefaults()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	// Best-effort background material; a failed fetch just means a plainer prompt.
	var material string
	if a.refs != nil && params.ReferenceURL != "" {
		material, _ = a.refs.Fetch(ctx, params.ReferenceURL)
	}

	result, err := a.gw.Complete(ctx, buildDraftPrompt(params, material))
	if err != nil {
		return nil, RawFallback, &GatewayError{Err: err}
	}
	if result.Text == "" {
		return nil, RawFallback, &GatewayError{Err: errEmptyCompletion}
	}

	payload, outcome := parseDraft(result.Text)
	return &model.DialogueDraft{
		Text:       payload.Text,
		KeyPoints:  payload.KeyPoints,
		Intentions: payload.Intentions,
	}, outcome, nil
}
