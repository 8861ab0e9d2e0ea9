// Package api provides HTTP API handlers for browsing the action journal.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/gesturemouse/internal/journal"
)

// JournalHandler serves recorded sessions and their actions.
type JournalHandler struct {
	journal *journal.Journal
}

// NewJournalHandler creates a new JournalHandler for the given journal.
func NewJournalHandler(j *journal.Journal) *JournalHandler {
	return &JournalHandler{journal: j}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/actions. The journal is read-only over HTTP.
func (h *JournalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}

	id, rest, _ := strings.Cut(path, "/")
	switch rest {
	case "":
		h.get(w, r, id)
	case "actions":
		h.actions(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type sessionResponse struct {
	*journal.Session
	Actions map[string]int `json:"actions,omitempty"`
}

type listSessionsResponse struct {
	Sessions []*journal.Session `json:"sessions"`
}

type listActionsResponse struct {
	SessionID string            `json:"session_id"`
	Actions   []*journal.Action `json:"actions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *JournalHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.journal.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*journal.Session{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// get handles GET /api/sessions/{id} and includes per-kind action counts.
func (h *JournalHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.journal.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	counts, err := h.journal.Actions().CountByKind(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count actions")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: s, Actions: counts})
}

// actions handles GET /api/sessions/{id}/actions.
func (h *JournalHandler) actions(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.journal.Sessions().GetByID(id); err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	actions, err := h.journal.Actions().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}
	if actions == nil {
		actions = []*journal.Action{}
	}

	writeJSON(w, http.StatusOK, listActionsResponse{SessionID: id, Actions: actions})
}
