// Package tools defines the Tool type, the registry the agent dispatches
// through, and the individual tool implementations.
package tools

import (
	"context"
	"fmt"
	"strconv"
)

// ParamType is the JSON type of a tool argument.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
)

// Param describes one argument the model must or may supply.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Args are the decoded arguments of one tool call.
type Args map[string]any

// String returns the argument as text. Numbers are formatted.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Tool represents a callable function the LLM can invoke
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Execute     func(ctx context.Context, args Args) (string, error)
}

// InputSchema returns the JSON schema object for the tool's arguments.
func (t Tool) InputSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(t.Params))
	required := []string{}
	for _, p := range t.Params {
		props[p.Name] = map[string]interface{}{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// checkRequired reports the first required argument that is missing or blank.
func (t Tool) checkRequired(args Args) error {
	for _, p := range t.Params {
		if !p.Required {
			continue
		}
		if v, ok := args[p.Name]; !ok || v == nil || (p.Type == TypeString && args.String(p.Name) == "") {
			return fmt.Errorf("%s is required", p.Name)
		}
	}
	return nil
}
