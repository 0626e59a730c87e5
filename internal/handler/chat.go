package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/models"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/session"
	"golang.org/x/sync/semaphore"
)

// Exchanger runs one exchange on a stored session. Implemented by *agent.Exchanger.
type Exchanger interface {
	ExchangeByID(ctx context.Context, id, text string) (*session.Session, *agent.Result, error)
}

// ChatHandler handles POST /api/v1/chat
type ChatHandler struct {
	exchanger      Exchanger
	validator      *security.InputValidator
	sem            *semaphore.Weighted
	defaultTimeout int
}

// maxConcurrent bounds how many exchanges run at once across all sessions.
func NewChatHandler(ex Exchanger, validator *security.InputValidator, maxConcurrent int64, defaultTimeout int) *ChatHandler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &ChatHandler{
		exchanger:      ex,
		validator:      validator,
		sem:            semaphore.NewWeighted(maxConcurrent),
		defaultTimeout: defaultTimeout,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults(h.defaultTimeout)

	if v := h.validator.Validate(req.Message); !v.Valid {
		models.WriteError(w, http.StatusBadRequest, v.Message)
		return
	}

	if req.SessionID == "" {
		req.SessionID = session.NewID()
	} else if err := session.ValidateID(req.SessionID); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), req.TimeoutDuration())
	defer cancel()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		models.WriteError(w, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	defer h.sem.Release(1)

	_, res, err := h.exchanger.ExchangeByID(ctx, req.SessionID, req.Message)
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("chat exchange failed")
		if errors.Is(err, context.DeadlineExceeded) {
			models.WriteError(w, http.StatusGatewayTimeout, "exchange timed out")
			return
		}
		models.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	toolsUsed := res.ToolsUsed
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	models.WriteJSON(w, http.StatusOK, models.ChatResponse{
		Status:    "success",
		SessionID: req.SessionID,
		Answer:    res.Text,
		ToolsUsed: toolsUsed,
	})
}
