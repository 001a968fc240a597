package store

import (
	"context"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// SessionReader provides read access to the session index.
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*model.SessionWithArtifacts, error)
	ListSessions(ctx context.Context, f model.SessionFilter) ([]model.Session, error)
}

// SessionWriter provides write access to the session index.
type SessionWriter interface {
	CreateSession(ctx context.Context, s model.Session) error
	UpdateSessionState(ctx context.Context, id, state string) error
}

// ArtifactIndex records where artifact pairs live on disk.
type ArtifactIndex interface {
	UpsertArtifactRef(ctx context.Context, ref model.ArtifactRef) error
}

// SessionRepository is the full index surface the controller and API use.
type SessionRepository interface {
	SessionReader
	SessionWriter
	ArtifactIndex
}
