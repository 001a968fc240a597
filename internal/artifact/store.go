// Package artifact persists each dialogue draft or styled dialogue as a
// paired machine-readable JSON record and human-readable Markdown rendering.
// The pair shares one base identifier that never changes across revisions:
// updates overwrite both files in place, always preserving the metadata
// recorded at first persistence.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// Subdirectories of the store root, one per artifact kind.
const (
	draftSubdir  = "dialogue_data"
	styledSubdir = "final_dialogue_data"
)

// Outcome discriminates whether an upsert created a new pair or updated an
// existing one.
type Outcome int

const (
	Created Outcome = iota
	Updated
)

func (o Outcome) String() string {
	if o == Created {
		return "created"
	}
	return "updated"
}

// Record locates a persisted artifact pair.
type Record struct {
	BaseID       string  `json:"base_id"`
	JSONPath     string  `json:"json_path"`
	MarkdownPath string  `json:"markdown_path"`
	Outcome      Outcome `json:"-"`
}

// Store writes artifact pairs under a root directory.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates the store and its kind subdirectories.
func NewStore(root string) (*Store, error) {
	for _, sub := range []string{draftSubdir, styledSubdir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir: %w", err)
		}
	}
	return &Store{root: root, now: time.Now}, nil
}

// UpsertDraft persists a draft. An empty identity, or an identity whose JSON
// file no longer exists, creates a fresh pair with metadata stamped from
// context and goal. Otherwise the existing pair is overwritten in place and
// its recorded metadata is forced onto the new content — never the caller's.
// The authoritative metadata is written back into d.
func (s *Store) UpsertDraft(identity string, d *model.DialogueDraft, context, goal string) (Record, error) {
	dir := filepath.Join(s.root, draftSubdir)
	baseID, meta, outcome := s.resolveIdentity(dir, identity, func() model.Metadata {
		return s.newMetadata(context, goal)
	})
	if baseID == "" {
		baseID = s.newBaseID(meta, "")
	}

	d.Metadata = meta
	md := renderDraftMarkdown(*d)
	return s.writePair(dir, baseID, outcome, d, md)
}

// UpsertStyled persists a styled dialogue. Metadata is inherited unchanged
// from the origin draft; on update the recorded metadata wins, as for drafts.
// The authoritative metadata is written back into sd.
func (s *Store) UpsertStyled(identity string, sd *model.StyledDialogue) (Record, error) {
	dir := filepath.Join(s.root, styledSubdir)
	baseID, meta, outcome := s.resolveIdentity(dir, identity, func() model.Metadata {
		if !sd.Origin.Metadata.IsZero() {
			return sd.Origin.Metadata
		}
		return s.newMetadata("", "")
	})
	if baseID == "" {
		baseID = s.newBaseID(meta, "final")
	}

	sd.Metadata = meta
	md := renderStyledMarkdown(*sd)
	return s.writePair(dir, baseID, outcome, sd, md)
}

// resolveIdentity decides between update and create. A readable existing
// record keeps its identity and metadata; an existing record whose metadata
// cannot be recovered is still updated in place, with fresh metadata (the
// recovery step is non-fatal by design). A missing record means create.
func (s *Store) resolveIdentity(dir, identity string, fresh func() model.Metadata) (string, model.Metadata, Outcome) {
	if identity != "" {
		jsonPath := filepath.Join(dir, identity+".json")
		if meta, ok := recoverMetadata(jsonPath); ok {
			return identity, meta, Updated
		}
		if _, err := os.Stat(jsonPath); err == nil {
			return identity, fresh(), Updated
		}
	}
	return "", fresh(), Created
}

func (s *Store) newMetadata(context, goal string) model.Metadata {
	return model.Metadata{
		CreationTime: s.now().UTC().Format(model.TimestampLayout),
		Context:      context,
		Goal:         goal,
	}
}

// newBaseID derives the shared pair identifier: creation time, a sanitized
// fragment of the context, and a random disambiguator.
func (s *Store) newBaseID(meta model.Metadata, marker string) string {
	parts := []string{meta.CreationTime}
	if safe := sanitizeContext(meta.Context); safe != "" {
		parts = append(parts, safe)
	}
	if marker != "" {
		parts = append(parts, marker)
	}
	parts = append(parts, uuid.New().String()[:8])
	return strings.Join(parts, "_")
}

var unsafeContextChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// sanitizeContext keeps letters, digits, hyphens and underscores from the
// first 20 runes of the context, with spaces collapsed to underscores.
func sanitizeContext(context string) string {
	s := unsafeContextChars.ReplaceAllString(context, "")
	runes := []rune(s)
	if len(runes) > 20 {
		s = string(runes[:20])
	}
	return strings.Join(strings.Fields(s), "_")
}

// recoverMetadata reads the metadata block from an existing structured file.
// Any I/O or decode failure simply reports no metadata.
func recoverMetadata(jsonPath string) (model.Metadata, bool) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return model.Metadata{}, false
	}
	var envelope struct {
		Metadata model.Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Metadata.IsZero() {
		return model.Metadata{}, false
	}
	return envelope.Metadata, true
}

// writePair writes both files of the pair atomically at their shared base path.
func (s *Store) writePair(dir, baseID string, outcome Outcome, record any, md []byte) (Record, error) {
	jsonPath := filepath.Join(dir, baseID+".json")
	mdPath := filepath.Join(dir, baseID+".md")

	payload, err := marshalRecord(record)
	if err != nil {
		return Record{}, fmt.Errorf("marshal artifact: %w", err)
	}
	if err := writeFileAtomic(jsonPath, payload); err != nil {
		return Record{}, fmt.Errorf("write %s: %w", jsonPath, err)
	}
	if err := writeFileAtomic(mdPath, md); err != nil {
		return Record{}, fmt.Errorf("write %s: %w", mdPath, err)
	}

	return Record{BaseID: baseID, JSONPath: jsonPath, MarkdownPath: mdPath, Outcome: outcome}, nil
}

// marshalRecord produces indented UTF-8 JSON without HTML escaping, keeping
// CJK and quoted dialogue readable in the stored file.
func marshalRecord(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes via a temp file and rename so an interrupted process
// never leaves a partially-written artifact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
