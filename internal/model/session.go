package model

import "time"

// Session state constants. One authoring session walks
// IDLE → DRAFTING → DRAFTED → (EDITING_DRAFT ⇄ DRAFTED) → STYLING → STYLED
// → (EDITING_FINAL ⇄ STYLED).
const (
	StateIdle         = "IDLE"
	StateDrafting     = "DRAFTING"
	StateDrafted      = "DRAFTED"
	StateEditingDraft = "EDITING_DRAFT"
	StateStyling      = "STYLING"
	StateStyled       = "STYLED"
	StateEditingFinal = "EDITING_FINAL"
)

// Authoring mode constants.
const (
	AuthoringAuto        = "AUTO"        // draft flows straight into styling
	AuthoringInteractive = "INTERACTIVE" // human confirms edits between stages
)

// Session is the durable record of one authoring session, kept in the index
// so sessions are listable across restarts.
type Session struct {
	ID        string `json:"id"`
	Context   string `json:"context"`
	Goal      string `json:"goal"`
	Authoring string `json:"authoring"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewSession creates a session record in the IDLE state.
func NewSession(id, context, goal, authoring string) Session {
	now := time.Now().UTC().Format(time.RFC3339)
	return Session{
		ID:        id,
		Context:   context,
		Goal:      goal,
		Authoring: authoring,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SessionWithArtifacts is a Session together with its persisted artifact
// references.
type SessionWithArtifacts struct {
	Session
	Artifacts []ArtifactRef `json:"artifacts"`
}

// SessionFilter holds query parameters for listing sessions.
type SessionFilter struct {
	State []string
	Query string
}

// Artifact kind constants.
const (
	KindDraft  = "draft"
	KindStyled = "styled"
)

// ArtifactRef points the index at a persisted artifact pair. BaseID is the
// shared identifier of the JSON/Markdown pair and never changes once assigned.
type ArtifactRef struct {
	BaseID       string `json:"base_id"`
	SessionID    string `json:"session_id"`
	Kind         string `json:"kind"`
	JSONPath     string `json:"json_path"`
	MarkdownPath string `json:"markdown_path"`
	Revision     int    `json:"revision"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// NewArtifactRef creates a first-revision reference for a freshly created pair.
func NewArtifactRef(baseID, sessionID, kind, jsonPath, mdPath string) ArtifactRef {
	now := time.Now().UTC().Format(time.RFC3339)
	return ArtifactRef{
		BaseID:       baseID,
		SessionID:    sessionID,
		Kind:         kind,
		JSONPath:     jsonPath,
		MarkdownPath: mdPath,
		Revision:     1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
