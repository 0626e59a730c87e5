package models

import "time"

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Timeout   int    `json:"timeout"` // seconds
}

func (r *ChatRequest) SetDefaults(defaultTimeout int) {
	if r.Timeout == 0 {
		r.Timeout = defaultTimeout
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}

func (r *ChatRequest) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}
