// Package store maintains the SQLite index of authoring sessions and the
// on-disk artifact pairs they produced. The index is bookkeeping only: the
// artifacts themselves live in the artifact store's files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ SessionReader = (*Store)(nil)
	_ SessionWriter = (*Store)(nil)
	_ ArtifactIndex = (*Store)(nil)
)

// Store provides data access to the SQLite index.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	// Ensure the schema_version table exists.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh database: initialize to version 0.
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		context    TEXT NOT NULL,
		goal       TEXT NOT NULL,
		authoring  TEXT NOT NULL,
		state      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(state, updated_at);

	CREATE TABLE IF NOT EXISTS artifact_refs (
		base_id       TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL REFERENCES sessions(id),
		kind          TEXT NOT NULL,
		json_path     TEXT NOT NULL,
		markdown_path TEXT NOT NULL,
		revision      INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_artifact_refs_session ON artifact_refs(session_id, created_at ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// CreateSession inserts a new session record.
func (s *Store) CreateSession(ctx context.Context, sess model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, context, goal, authoring, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Context, sess.Goal, sess.Authoring, sess.State, sess.CreatedAt, sess.UpdatedAt,
	)
	return err
}

// GetSession returns a session together with its artifact references.
func (s *Store) GetSession(ctx context.Context, id string) (*model.SessionWithArtifacts, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, context, goal, authoring, state, created_at, updated_at FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	refs, err := s.listArtifactRefs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.SessionWithArtifacts{Session: *sess, Artifacts: refs}, nil
}

// ListSessions returns sessions matching the given filter, newest first.
func (s *Store) ListSessions(ctx context.Context, f model.SessionFilter) ([]model.Session, error) {
	query := `SELECT id, context, goal, authoring, state, created_at, updated_at FROM sessions`
	var conditions []string
	var args []interface{}

	if len(f.State) > 0 {
		placeholders := make([]string, len(f.State))
		for i, st := range f.State {
			placeholders[i] = "?"
			args = append(args, st)
		}
		conditions = append(conditions, "state IN ("+strings.Join(placeholders, ",")+")")
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		conditions = append(conditions, "(context LIKE ? OR goal LIKE ?)")
		args = append(args, like, like)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.ID, &sess.Context, &sess.Goal, &sess.Authoring, &sess.State, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// UpdateSessionState changes the state of a session.
func (s *Store) UpdateSessionState(ctx context.Context, id, state string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?`, state, now, id)
	return err
}

// ---------------------------------------------------------------------------
// Artifact references
// ---------------------------------------------------------------------------

// UpsertArtifactRef inserts a reference or, when the base identifier already
// exists, bumps its revision counter and refreshes the update time. Paths are
// stable for the lifetime of an artifact pair.
func (s *Store) UpsertArtifactRef(ctx context.Context, ref model.ArtifactRef) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifact_refs (base_id, session_id, kind, json_path, markdown_path, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(base_id) DO UPDATE SET
			revision = artifact_refs.revision + 1,
			updated_at = excluded.updated_at`,
		ref.BaseID, ref.SessionID, ref.Kind, ref.JSONPath, ref.MarkdownPath, ref.Revision, ref.CreatedAt, ref.UpdatedAt,
	)
	return err
}

func (s *Store) listArtifactRefs(ctx context.Context, sessionID string) ([]model.ArtifactRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT base_id, session_id, kind, json_path, markdown_path, revision, created_at, updated_at
		 FROM artifact_refs WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var refs []model.ArtifactRef
	for rows.Next() {
		var r model.ArtifactRef
		if err := rows.Scan(&r.BaseID, &r.SessionID, &r.Kind, &r.JSONPath, &r.MarkdownPath, &r.Revision, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (*model.Session, error) {
	var sess model.Session
	err := row.Scan(&sess.ID, &sess.Context, &sess.Goal, &sess.Authoring, &sess.State, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
