// Package agent runs the model/tool loop for one exchange and persists
// completed exchanges to the session store.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/session"
	"github.com/supportagent/supportagent/internal/tools"
)

const (
	DefaultMaxIterations = 10
	// calls kept back from the iteration cap: the model is told to answer
	// without tools once maxIter-finalAnswerReserve tool rounds have run
	finalAnswerReserve = 3

	forceAnswerPrompt = "You have enough information. Please provide your final answer now without calling any more tools."
)

var ErrMaxIterations = errors.New("agent loop exceeded max iterations")

// Result is the outcome of one exchange.
type Result struct {
	Text        string
	ToolsUsed   []string
	ToolResults []ToolResult
}

// Agent couples a provider with the tool registry.
type Agent struct {
	provider Provider
	registry *tools.Registry
	system   string
	maxIter  int
	observer ToolObserver
}

// ToolObserver is told about every dispatched tool call.
type ToolObserver func(call ToolCall, result string)

type Option func(*Agent)

func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.system = prompt }
}

func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIter = n
		}
	}
}

func WithToolObserver(fn ToolObserver) Option {
	return func(a *Agent) { a.observer = fn }
}

func New(provider Provider, registry *tools.Registry, opts ...Option) *Agent {
	a := &Agent{
		provider: provider,
		registry: registry,
		system:   DefaultSystemPrompt,
		maxIter:  DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Provider() Provider { return a.provider }

func (a *Agent) Registry() *tools.Registry { return a.registry }

// Run executes the agent loop: the model is called until it answers without
// requesting tools. history is the persisted conversation so far.
func (a *Agent) Run(ctx context.Context, history []session.Message, userText string) (*Result, error) {
	turns := historyTurns(history)
	turns = append(turns, Turn{Role: RoleUser, Text: userText})

	catalog := a.registry.All()
	res := &Result{}
	forceAfter := a.maxIter - finalAnswerReserve

	for iter := 0; iter < a.maxIter; iter++ {
		resp, err := a.provider.Generate(ctx, Request{System: a.system, Turns: turns, Tools: catalog})
		if err != nil {
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}

		log.Debug().
			Int("iter", iter).
			Str("provider", a.provider.Name()).
			Str("stop_reason", resp.StopReason).
			Str("text_preview", preview(resp.Text, 80)).
			Int("tool_calls", len(resp.ToolCalls)).
			Msg("agent iteration")

		if len(resp.ToolCalls) == 0 {
			res.Text = resp.Text
			return res, nil
		}

		turns = append(turns, Turn{Role: RoleAssistant, Text: resp.Text, ToolCalls: resp.ToolCalls, Raw: resp.Raw})
		turns = append(turns, a.executeTools(ctx, resp.ToolCalls, res))

		if forceAfter > 0 && iter+1 >= forceAfter {
			turns = append(turns, Turn{Role: RoleUser, Text: forceAnswerPrompt})
			final, err := a.provider.Generate(ctx, Request{System: a.system, Turns: turns, Tools: catalog})
			if err != nil {
				return nil, fmt.Errorf("final answer call failed: %w", err)
			}
			res.Text = final.Text
			return res, nil
		}
	}

	return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, a.maxIter)
}

func (a *Agent) executeTools(ctx context.Context, calls []ToolCall, res *Result) Turn {
	results := make([]ToolResult, 0, len(calls))
	for _, tc := range calls {
		res.ToolsUsed = append(res.ToolsUsed, tc.Name)
		out := a.registry.Dispatch(ctx, tc.Name, tc.Args)
		log.Info().Str("tool", tc.Name).Str("result_preview", preview(out, 120)).Msg("tool executed")
		if a.observer != nil {
			a.observer(tc, out)
		}
		results = append(results, ToolResult{CallID: tc.ID, Name: tc.Name, Content: out})
	}
	res.ToolResults = append(res.ToolResults, results...)
	return Turn{Role: RoleUser, ToolResults: results}
}

func historyTurns(history []session.Message) []Turn {
	turns := make([]Turn, 0, len(history)+1)
	for _, m := range history {
		role := RoleUser
		if m.Role == session.RoleAssistant {
			role = RoleAssistant
		}
		turns = append(turns, Turn{Role: role, Text: m.Content})
	}
	return turns
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
