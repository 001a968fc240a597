package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/store"
)

// ErrSessionNotFound is returned when no live controller exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// Deps bundles the collaborators every controller needs.
type Deps struct {
	Drafter   Drafter
	Styler    Styler
	Artifacts ArtifactStore
	Index     store.SessionRepository
}

// Manager owns the live controllers, one per authoring session.
type Manager struct {
	mu          sync.Mutex
	deps        Deps
	controllers map[string]*Controller
}

// NewManager creates an empty manager.
func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, controllers: make(map[string]*Controller)}
}

// Create registers a new session in the index and returns its controller.
func (m *Manager) Create(ctx context.Context, authoring string, params model.Params) (*Controller, error) {
	if authoring != model.AuthoringAuto {
		authoring = model.AuthoringInteractive
	}

	id := uuid.New().String()
	c := NewController(id, authoring, m.deps.Drafter, m.deps.Styler, m.deps.Artifacts, m.deps.Index)

	if m.deps.Index != nil {
		sess := model.NewSession(id, params.Context, params.Goal, authoring)
		if err := m.deps.Index.CreateSession(ctx, sess); err != nil {
			// The index is bookkeeping; the session still works in-memory.
			slog.Error("session index insert failed", "session_id", id, "error", err)
		}
	}

	m.mu.Lock()
	m.controllers[id] = c
	m.mu.Unlock()
	return c, nil
}

// Get returns the live controller for id.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}
