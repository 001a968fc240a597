package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/agent"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/session"
)

// createSessionRequest starts a new authoring session. Persona fields are
// optional in interactive mode and required for automatic styling.
type createSessionRequest struct {
	Authoring string `json:"authoring"`
	session.Request
}

// handleCreateSession creates a session and runs the drafting step. The
// response always carries the resulting state; gateway failures surface as a
// warning in the report, not as an HTTP error.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.sessions.Create(r.Context(), req.Authoring, req.Params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := c.SubmitParameters(r.Context(), req.Request)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// handleListSessions lists indexed sessions, filterable by ?state=a,b and a
// free-text ?q= over context and goal.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeError(w, http.StatusServiceUnavailable, "session index is not configured")
		return
	}
	filter := model.SessionFilter{
		State: splitComma(r.URL.Query().Get("state")),
		Query: r.URL.Query().Get("q"),
	}
	sessions, err := s.index.ListSessions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// sessionResponse combines the live controller snapshot with the indexed
// record. Either half may be absent: the snapshot after a restart, the index
// record when the index is down.
type sessionResponse struct {
	Report  *session.Report             `json:"report,omitempty"`
	Indexed *model.SessionWithArtifacts `json:"indexed,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var resp sessionResponse
	if c, err := s.sessions.Get(id); err == nil {
		resp.Report = c.Snapshot()
	}
	if s.index != nil {
		if rec, err := s.index.GetSession(r.Context(), id); err == nil {
			resp.Indexed = rec
		}
	}
	if resp.Report == nil && resp.Indexed == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmDraftEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var edit session.DraftEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	report, err := c.ConfirmDraftEdit(r.Context(), edit)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type personasRequest struct {
	UserTraits   string `json:"user_traits"`
	AITraits     string `json:"ai_traits"`
	LanguageHint string `json:"language_hint"`
}

func (s *Server) handleSubmitPersonas(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var req personasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	report, err := c.SubmitPersonas(r.Context(), req.UserTraits, req.AITraits, req.LanguageHint)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type finalEditRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleConfirmFinalEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	var req finalEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	report, err := c.ConfirmFinalEdit(r.Context(), req.Text)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePreview renders the Markdown half of an artifact pair as HTML.
// ?stage=draft (default) or ?stage=styled selects the pair.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		writeError(w, http.StatusServiceUnavailable, "preview is not configured")
		return
	}
	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	snap := c.Snapshot()
	var mdPath string
	switch stage := r.URL.Query().Get("stage"); stage {
	case "", "draft":
		if snap.DraftArtifact != nil {
			mdPath = snap.DraftArtifact.MarkdownPath
		}
	case "styled":
		if snap.StyledArtifact != nil {
			mdPath = snap.StyledArtifact.MarkdownPath
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown stage: "+stage)
		return
	}
	if mdPath == "" {
		writeError(w, http.StatusNotFound, "no artifact persisted for this stage")
		return
	}

	html, err := s.preview.PreviewHTML(mdPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// controller resolves the {id} path value to a live controller, writing the
// 404 itself when there is none.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	c, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return c, true
}

// writeControllerError maps controller errors onto HTTP statuses: bad input
// is 400, calling an entry point in the wrong state is 409.
func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrMissingContext),
		errors.Is(err, model.ErrMissingGoal),
		errors.Is(err, agent.ErrMissingPersona):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
