package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supportagent/supportagent/internal/models"
	"github.com/supportagent/supportagent/internal/session"
)

// SessionsHandler exposes stored conversation histories.
type SessionsHandler struct {
	store session.Store
}

func NewSessionsHandler(store session.Store) *SessionsHandler {
	return &SessionsHandler{store: store}
}

// List handles GET /api/v1/sessions
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.List(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to list sessions: "+err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	models.WriteJSON(w, http.StatusOK, models.SessionListResponse{Status: "success", Sessions: ids})
}

// Get handles GET /api/v1/sessions/{session_id}
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if err := session.ValidateID(id); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := h.store.Load(r.Context(), id)
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to load session: "+err.Error())
		return
	}
	if len(msgs) == 0 {
		models.WriteError(w, http.StatusNotFound, "session not found: "+id)
		return
	}

	out := make([]models.MessageInfo, len(msgs))
	for i, m := range msgs {
		out[i] = models.MessageInfo{Role: m.Role, Content: m.Content}
	}
	models.WriteJSON(w, http.StatusOK, models.SessionResponse{Status: "success", SessionID: id, Messages: out})
}
