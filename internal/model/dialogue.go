package model

import "time"

// TimestampLayout is the creation-time format embedded in artifact metadata
// and file names.
const TimestampLayout = "20060102_150405"

// Metadata is the immutable identity of a dialogue artifact. It is assigned
// exactly once, at first persistence, and carried verbatim through every
// subsequent revision of the same artifact.
type Metadata struct {
	CreationTime string `json:"timestamp"`
	Context      string `json:"context"`
	Goal         string `json:"goal"`
}

// NewMetadata stamps fresh identity metadata for a first persistence.
func NewMetadata(context, goal string) Metadata {
	return Metadata{
		CreationTime: time.Now().UTC().Format(TimestampLayout),
		Context:      context,
		Goal:         goal,
	}
}

// IsZero reports whether the metadata has never been assigned.
func (m Metadata) IsZero() bool {
	return m.CreationTime == "" && m.Context == "" && m.Goal == ""
}

// DialogueDraft is the structured intermediate produced by the draft agent:
// the dialogue body plus the plot beats and implicit goals the styling stage
// must preserve. JSON field names match the on-disk artifact format.
type DialogueDraft struct {
	Text       string   `json:"original_text"`
	KeyPoints  []string `json:"key_points"`
	Intentions []string `json:"intentions"`
	Metadata   Metadata `json:"metadata"`
}

// StyledDialogue is the persona-adapted final rewrite. The origin draft is
// embedded by value so a styled artifact is self-describing.
type StyledDialogue struct {
	Text       string        `json:"final_text"`
	UserTraits string        `json:"user_traits"`
	AITraits   string        `json:"ai_traits"`
	Origin     DialogueDraft `json:"original_dialogue"`
	Metadata   Metadata      `json:"metadata"`
}
