package model

import "errors"

// Dialogue mode constants: which party opens the conversation.
const (
	ModeAIFirst   = "ai_first"
	ModeUserFirst = "user_first"
)

// Parameter defaults applied by Params.ApplyDefaults.
const (
	DefaultLanguage   = "English"
	DefaultDifficulty = "B1"
	DefaultNumTurns   = 5
	MaxNumTurns       = 20
)

// Params validation errors.
var (
	ErrMissingContext = errors.New("context is required")
	ErrMissingGoal    = errors.New("goal is required")
)

// Params are the authoring parameters the draft agent turns into a dialogue.
// Context and Goal are required; everything else has defaults.
type Params struct {
	Context    string `json:"context"`
	Goal       string `json:"goal"`
	Mode       string `json:"mode"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"` // CEFR level A1..C2
	NumTurns   int    `json:"num_turns"`

	// ReferenceURL optionally points at background material to fold into the
	// generation prompt. Fetch failures are non-fatal.
	ReferenceURL string `json:"reference_url,omitempty"`
}

// Validate checks the required fields.
func (p Params) Validate() error {
	if p.Context == "" {
		return ErrMissingContext
	}
	if p.Goal == "" {
		return ErrMissingGoal
	}
	return nil
}

// ApplyDefaults fills unset optional fields and clamps the turn count.
func (p *Params) ApplyDefaults() {
	if p.Mode == "" {
		p.Mode = ModeAIFirst
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.Difficulty == "" {
		p.Difficulty = DefaultDifficulty
	}
	if p.NumTurns <= 0 {
		p.NumTurns = DefaultNumTurns
	}
	if p.NumTurns > MaxNumTurns {
		p.NumTurns = MaxNumTurns
	}
}
