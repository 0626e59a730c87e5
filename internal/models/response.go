package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ChatResponse is returned by POST /api/v1/chat
type ChatResponse struct {
	Status    string   `json:"status"`
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	ToolsUsed []string `json:"tools_used"`
}

// MessageInfo is one persisted chat message.
type MessageInfo struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionResponse is returned by GET /api/v1/sessions/{session_id}
type SessionResponse struct {
	Status    string        `json:"status"`
	SessionID string        `json:"session_id"`
	Messages  []MessageInfo `json:"messages"`
}

// SessionListResponse is returned by GET /api/v1/sessions
type SessionListResponse struct {
	Status   string   `json:"status"`
	Sessions []string `json:"sessions"`
}

type ToolParamInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolInfo describes one tool in the catalog.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Params      []ToolParamInfo `json:"params"`
}

// ToolsResponse is returned by GET /api/v1/tools
type ToolsResponse struct {
	Status string     `json:"status"`
	Tools  []ToolInfo `json:"tools"`
}
