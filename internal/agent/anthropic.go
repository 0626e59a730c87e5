package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/tools"
)

const DefaultAnthropicModel = "claude-sonnet-4-6"

// AnthropicProvider wraps Anthropic SDK for Claude or a compatible endpoint.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicProvider creates a provider backed by Anthropic Claude or compatible provider (e.g. Z.ai)
func NewAnthropicProvider(apiKey, model, baseURL string) *AnthropicProvider {
	if model == "" || model == ModelAuto {
		model = DefaultAnthropicModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		client:    client,
		model:     model,
		maxTokens: 4096,
	}
}

func (a *AnthropicProvider) Name() string  { return "anthropic" }
func (a *AnthropicProvider) Model() string { return a.model }

func (a *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.model)),
		MaxTokens: anthropic.F(int64(a.maxTokens)),
		Messages:  anthropic.F(anthropicMessages(req.Turns)),
	}
	if len(req.Tools) > 0 {
		params.Tools = anthropic.F(anthropicTools(req.Tools))
	}
	if req.System != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(req.System),
		})
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &Response{
		StopReason: string(resp.StopReason),
		Raw:        resp.ToParam(),
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			var input map[string]interface{}
			if err := json.Unmarshal(b.Input, &input); err != nil {
				log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
				input = map[string]interface{}{}
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{ID: b.ID, Name: b.Name, Args: tools.Args(input)})
		}
	}
	out.Text = text.String()
	return out, nil
}

func anthropicTools(list []tools.Tool) []anthropic.ToolUnionUnionParam {
	params := make([]anthropic.ToolUnionUnionParam, len(list))
	for i, t := range list {
		params[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](t.InputSchema()),
		}
	}
	return params
}

func anthropicMessages(turns []Turn) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		if raw, ok := t.Raw.(anthropic.MessageParam); ok {
			messages = append(messages, raw)
			continue
		}

		var blocks []anthropic.ContentBlockParamUnion
		if t.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(t.Text))
		}
		for _, tc := range t.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlockParam(tc.ID, tc.Name, map[string]interface{}(tc.Args)))
		}
		for _, tr := range t.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(tr.CallID, tr.Content, isToolError(tr.Content)))
		}
		if len(blocks) == 0 {
			continue
		}

		if t.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		} else {
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
	}
	return messages
}

func isToolError(content string) bool {
	return strings.HasPrefix(content, "Error") || strings.HasPrefix(content, "Unknown tool:")
}

