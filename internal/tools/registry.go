package tools

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Registry is the fixed tool set for one process. It is built once at
// startup and handed to the agent; it is never modified afterwards.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry builds a registry, rejecting unnamed or duplicate tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.Name == "" || t.Execute == nil {
			return nil, fmt.Errorf("tool %q: name and Execute are required", t.Name)
		}
		if _, dup := r.index[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name)
		}
		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// All returns the tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Dispatch runs the named tool and always returns text for the model.
// Unknown names, missing arguments, tool errors and panics become
// diagnostic strings instead of failures.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (result string) {
	t, ok := r.Get(name)
	if !ok {
		log.Warn().Str("tool", name).Msg("unknown tool requested")
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	if args == nil {
		args = Args{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Str("tool", name).
				Msg("tool panicked")
			result = fmt.Sprintf("Error executing %s: %v", name, rec)
		}
	}()

	if err := t.checkRequired(args); err != nil {
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}

	out, err := t.Execute(ctx, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("tool execution error")
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return out
}
