// Package session implements the orchestration controller: a per-session
// state machine sequencing draft generation, optional human edits, style
// adaptation, and artifact persistence. Nothing here is fatal to the process;
// every failure degrades the current step or is reported as a warning, and
// the session can always proceed with the next user action.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/agent"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/artifact"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/store"
)

// ErrInvalidState is returned when an entry point is called in a state that
// does not accept it.
var ErrInvalidState = errors.New("invalid session state")

// Drafter produces a structured dialogue draft from authoring parameters.
type Drafter interface {
	Generate(ctx context.Context, params model.Params) (*model.DialogueDraft, agent.Outcome, error)
}

// Styler rewrites a draft according to two persona descriptions.
type Styler interface {
	Adapt(ctx context.Context, draft model.DialogueDraft, userTraits, aiTraits, languageHint string) (string, error)
}

// ArtifactStore persists artifact pairs with identity-preserving upserts.
type ArtifactStore interface {
	UpsertDraft(identity string, d *model.DialogueDraft, context, goal string) (artifact.Record, error)
	UpsertStyled(identity string, sd *model.StyledDialogue) (artifact.Record, error)
}

// Request carries everything one authoring run starts from. Persona fields
// are required up front only in automatic mode.
type Request struct {
	Params       model.Params `json:"params"`
	UserTraits   string       `json:"user_traits"`
	AITraits     string       `json:"ai_traits"`
	LanguageHint string       `json:"language_hint"`
}

// DraftEdit is a human revision of the in-flight draft.
type DraftEdit struct {
	Text       string   `json:"text"`
	KeyPoints  []string `json:"key_points"`
	Intentions []string `json:"intentions"`
}

// Report is the outcome of one controller entry point: the resulting state,
// the in-flight objects, where they were persisted, and any non-fatal warning.
type Report struct {
	SessionID      string                `json:"session_id"`
	State          string                `json:"state"`
	Draft          *model.DialogueDraft  `json:"draft,omitempty"`
	DraftParsed    bool                  `json:"draft_parsed"`
	Styled         *model.StyledDialogue `json:"styled,omitempty"`
	DraftArtifact  *artifact.Record      `json:"draft_artifact,omitempty"`
	StyledArtifact *artifact.Record      `json:"styled_artifact,omitempty"`
	Warning        string                `json:"warning,omitempty"`
}

// Controller runs one authoring session. All entry points are serialized by
// an internal mutex: each transition runs to completion before the next is
// accepted.
type Controller struct {
	mu sync.Mutex

	id        string
	authoring string
	state     string

	drafter   Drafter
	styler    Styler
	artifacts ArtifactStore
	index     store.SessionRepository

	params       model.Params
	userTraits   string
	aiTraits     string
	languageHint string

	draft        *model.DialogueDraft
	draftOutcome agent.Outcome
	draftRec     artifact.Record

	styled    *model.StyledDialogue
	styledRec artifact.Record
}

// NewController creates an idle controller for one session.
func NewController(id, authoring string, drafter Drafter, styler Styler, artifacts ArtifactStore, index store.SessionRepository) *Controller {
	return &Controller{
		id:        id,
		authoring: authoring,
		state:     model.StateIdle,
		drafter:   drafter,
		styler:    styler,
		artifacts: artifacts,
		index:     index,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// State returns the current state.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitParameters runs Idle → Drafting → Drafted. Any draft agent result,
// degraded or not, reaches Drafted; a gateway failure reverts to Idle and is
// reported as "no result this step" in the warning, not as an error. In
// automatic mode a cleanly parsed draft flows straight into styling when both
// personas are present.
func (c *Controller) SubmitParameters(ctx context.Context, req Request) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateIdle {
		return nil, fmt.Errorf("%w: submit_parameters in %s", ErrInvalidState, c.state)
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	req.Params.ApplyDefaults()
	c.params = req.Params
	c.userTraits = req.UserTraits
	c.aiTraits = req.AITraits
	c.languageHint = req.LanguageHint

	c.setState(ctx, model.StateDrafting)

	draft, outcome, err := c.drafter.Generate(ctx, c.params)
	if err != nil {
		c.setState(ctx, model.StateIdle)
		slog.Error("draft generation failed", "session_id", c.id, "error", err)
		return c.report("no result this step: " + err.Error()), nil
	}

	c.draft = draft
	c.draftOutcome = outcome
	c.setState(ctx, model.StateDrafted)

	warning := c.persistDraft(ctx, "")

	// A persistence failure does not block automatic styling: the draft is
	// intact in memory and the session continues.
	if c.authoring == model.AuthoringAuto {
		warning = joinWarnings(warning, c.autoStyle(ctx))
	}
	return c.report(warning), nil
}

// autoStyle decides whether the automatic mode may advance to styling.
// Missing personas and a degraded draft both halt at Drafted with a warning
// (fail closed: a RawFallback draft carries no key points to preserve).
func (c *Controller) autoStyle(ctx context.Context) string {
	if c.userTraits == "" || c.aiTraits == "" {
		return "automatic styling skipped: both persona descriptions are required"
	}
	if c.draftOutcome == agent.RawFallback {
		return "automatic styling skipped: draft was not parsed into a structured form"
	}
	return c.runStyle(ctx)
}

// ConfirmDraftEdit runs the Drafted ⇄ EditingDraft loop: the revision is
// diffed field-by-field against the stored draft and persisted only when at
// least one field actually changed.
func (c *Controller) ConfirmDraftEdit(ctx context.Context, edit DraftEdit) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateDrafted {
		return nil, fmt.Errorf("%w: confirm_draft_edit in %s", ErrInvalidState, c.state)
	}

	dirty := edit.Text != c.draft.Text ||
		!slices.Equal(edit.KeyPoints, c.draft.KeyPoints) ||
		!slices.Equal(edit.Intentions, c.draft.Intentions)
	if !dirty {
		return c.report(""), nil
	}

	c.setState(ctx, model.StateEditingDraft)
	c.draft.Text = edit.Text
	c.draft.KeyPoints = edit.KeyPoints
	c.draft.Intentions = edit.Intentions
	warning := c.persistDraft(ctx, c.draftRec.BaseID)
	c.setState(ctx, model.StateDrafted)

	return c.report(warning), nil
}

// SubmitPersonas runs Drafted → Styling → Styled. It is also accepted in
// Styled, where it re-styles the current draft into a fresh artifact pair.
func (c *Controller) SubmitPersonas(ctx context.Context, userTraits, aiTraits, languageHint string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateDrafted && c.state != model.StateStyled {
		return nil, fmt.Errorf("%w: submit_personas in %s", ErrInvalidState, c.state)
	}
	if userTraits == "" || aiTraits == "" {
		return nil, agent.ErrMissingPersona
	}
	c.userTraits = userTraits
	c.aiTraits = aiTraits
	if languageHint != "" {
		c.languageHint = languageHint
	}

	warning := c.runStyle(ctx)
	return c.report(warning), nil
}

// runStyle invokes the style agent and persists its output as a new pair.
// Callers hold the mutex.
func (c *Controller) runStyle(ctx context.Context) string {
	prior := c.state
	c.setState(ctx, model.StateStyling)

	text, err := c.styler.Adapt(ctx, *c.draft, c.userTraits, c.aiTraits, c.languageHint)
	if err != nil {
		c.setState(ctx, prior)
		slog.Error("style adaptation failed", "session_id", c.id, "error", err)
		return "no result this step: " + err.Error()
	}

	c.styled = &model.StyledDialogue{
		Text:       text,
		UserTraits: c.userTraits,
		AITraits:   c.aiTraits,
		Origin:     *c.draft,
	}
	c.styledRec = artifact.Record{}
	c.setState(ctx, model.StateStyled)

	return c.persistStyled(ctx, "")
}

// ConfirmFinalEdit runs the Styled ⇄ EditingFinal loop with the same
// dirty-check-then-persist discipline as the draft edit loop.
func (c *Controller) ConfirmFinalEdit(ctx context.Context, text string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateStyled {
		return nil, fmt.Errorf("%w: confirm_final_edit in %s", ErrInvalidState, c.state)
	}

	if text == c.styled.Text {
		return c.report(""), nil
	}

	c.setState(ctx, model.StateEditingFinal)
	c.styled.Text = text
	warning := c.persistStyled(ctx, c.styledRec.BaseID)
	c.setState(ctx, model.StateStyled)

	return c.report(warning), nil
}

// Snapshot returns the current report without advancing the machine.
func (c *Controller) Snapshot() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report("")
}

// ---------------------------------------------------------------------------
// persistence helpers (callers hold the mutex)
// ---------------------------------------------------------------------------

// persistDraft upserts the draft pair. A persistence failure is logged and
// reported as a warning; the session continues in-memory.
func (c *Controller) persistDraft(ctx context.Context, identity string) string {
	rec, err := c.artifacts.UpsertDraft(identity, c.draft, c.params.Context, c.params.Goal)
	if err != nil {
		slog.Error("draft persistence failed", "session_id", c.id, "error", err)
		return "nothing was persisted: " + err.Error()
	}
	c.draftRec = rec
	c.indexArtifact(ctx, rec, model.KindDraft)
	return ""
}

func (c *Controller) persistStyled(ctx context.Context, identity string) string {
	rec, err := c.artifacts.UpsertStyled(identity, c.styled)
	if err != nil {
		slog.Error("styled persistence failed", "session_id", c.id, "error", err)
		return "nothing was persisted: " + err.Error()
	}
	c.styledRec = rec
	c.indexArtifact(ctx, rec, model.KindStyled)
	return ""
}

func (c *Controller) indexArtifact(ctx context.Context, rec artifact.Record, kind string) {
	if c.index == nil {
		return
	}
	ref := model.NewArtifactRef(rec.BaseID, c.id, kind, rec.JSONPath, rec.MarkdownPath)
	if err := c.index.UpsertArtifactRef(ctx, ref); err != nil {
		slog.Error("artifact index update failed", "session_id", c.id, "base_id", rec.BaseID, "error", err)
	}
}

func (c *Controller) setState(ctx context.Context, state string) {
	c.state = state
	if c.index == nil {
		return
	}
	if err := c.index.UpdateSessionState(ctx, c.id, state); err != nil {
		slog.Error("session state update failed", "session_id", c.id, "state", state, "error", err)
	}
}

func joinWarnings(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}

func (c *Controller) report(warning string) *Report {
	r := &Report{
		SessionID:   c.id,
		State:       c.state,
		Draft:       c.draft,
		DraftParsed: c.draft != nil && c.draftOutcome == agent.Parsed,
		Styled:      c.styled,
		Warning:     warning,
	}
	if c.draftRec.BaseID != "" {
		rec := c.draftRec
		r.DraftArtifact = &rec
	}
	if c.styledRec.BaseID != "" {
		rec := c.styledRec
		r.StyledArtifact = &rec
	}
	return r
}
