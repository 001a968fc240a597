// Package api exposes the session/UI boundary over HTTP. All form collection
// and rendering is the UI's responsibility; the handlers only forward into
// the controller entry points and report outcomes as JSON.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/session"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/store"
)

// maxRequestBody is the maximum allowed request body size (1 MB).
const maxRequestBody int64 = 1 << 20

// Previewer renders a persisted Markdown artifact to HTML.
type Previewer interface {
	PreviewHTML(mdPath string) (string, error)
}

// Server holds the HTTP handlers and dependencies.
type Server struct {
	sessions   *session.Manager
	index      store.SessionReader
	preview    Previewer
	corsOrigin string
	mux        *http.ServeMux
}

// New creates a new API server. index and preview may be nil in tests.
func New(sessions *session.Manager, index store.SessionReader, preview Previewer, corsOrigin string) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	srv := &Server{
		sessions:   sessions,
		index:      index,
		preview:    preview,
		corsOrigin: corsOrigin,
		mux:        http.NewServeMux(),
	}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(limitBody(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("PUT /api/sessions/{id}/draft", s.handleConfirmDraftEdit)
	s.mux.HandleFunc("POST /api/sessions/{id}/style", s.handleSubmitPersonas)
	s.mux.HandleFunc("PUT /api/sessions/{id}/final", s.handleConfirmFinalEdit)
	s.mux.HandleFunc("GET /api/sessions/{id}/preview", s.handlePreview)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody restricts the request body to maxRequestBody bytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
