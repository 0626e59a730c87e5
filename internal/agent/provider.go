package agent

import (
	"context"

	"github.com/supportagent/supportagent/internal/tools"
)

// Role of a turn in the working conversation of one exchange.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCall represents a tool invocation request from the LLM
type ToolCall struct {
	ID   string
	Name string
	Args tools.Args
}

// ToolResult carries a dispatched tool's text back to the model.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

// Turn is one message of the working conversation. Assistant turns may carry
// tool calls; user turns may carry tool results instead of text.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
	// Raw is the provider-native form of an assistant turn, replayed
	// verbatim by the provider that produced it.
	Raw any
}

// Request is everything a provider needs for one model call.
type Request struct {
	System string
	Turns  []Turn
	Tools  []tools.Tool
}

// Response is the model's reply to a Request.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
	Raw        any
}

// Provider is a hosted model that supports tool calling.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (*Response, error)
}
