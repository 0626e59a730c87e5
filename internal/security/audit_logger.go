package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs exchanges and tool calls with hashed identifiers
type AuditLogger struct {
	enabled bool
	pii     *PIIDetector
}

func NewAuditLogger(enabled bool, pii *PIIDetector) *AuditLogger {
	return &AuditLogger{enabled: enabled, pii: pii}
}

// ExchangeEvent describes one finished or abandoned exchange.
type ExchangeEvent struct {
	SessionID       string
	Provider        string
	Model           string
	Prompt          string
	ToolsUsed       []string
	ExecutionTimeMs int64
	Success         bool
	Error           string
}

// LogExchange records an exchange outcome
func (a *AuditLogger) LogExchange(e ExchangeEvent) {
	if a == nil || !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "exchange_audit").
		Str("session_hash", hashStr(e.SessionID)[:16]).
		Str("prompt_hash", hashStr(e.Prompt)[:16]).
		Str("provider", e.Provider).
		Str("model", e.Model).
		Strs("tools_used", e.ToolsUsed).
		Int64("execution_time_ms", e.ExecutionTimeMs).
		Bool("success", e.Success)

	if a.pii != nil {
		if found, kw := a.pii.Detect(e.Prompt); found {
			evt = evt.Str("sensitive_keyword", kw)
		}
	}
	if e.Error != "" {
		evt = evt.Str("error", e.Error)
	}
	evt.Msg("audit")
}

// LogToolCall records a single tool dispatch
func (a *AuditLogger) LogToolCall(sessionID, tool string, resultLen int) {
	if a == nil || !a.enabled {
		return
	}
	log.Info().
		Str("event", "tool_audit").
		Str("session_hash", hashStr(sessionID)[:16]).
		Str("tool", tool).
		Int("result_len", resultLen).
		Msg("tool audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
