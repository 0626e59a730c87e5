package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/tools"
	"google.golang.org/genai"
)

// ModelAuto asks the Gemini provider to pick a model from ModelPriority.
const ModelAuto = "auto"

// ModelPriority is the preference order used when the model is ModelAuto.
var ModelPriority = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

var ErrNoGeminiModel = errors.New("no Gemini model available")

// GeminiProvider talks to Google Gemini through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates the client and resolves ModelAuto by listing the
// models the key has access to.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	if model == "" || model == ModelAuto {
		available, err := listGeminiModels(ctx, client)
		if err != nil {
			return nil, err
		}
		model, err = ChooseModel(available, ModelPriority)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", model).Strs("available", available).Msg("selected Gemini model")
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) Name() string  { return "gemini" }
func (g *GeminiProvider) Model() string { return g.model }

func listGeminiModels(ctx context.Context, client *genai.Client) ([]string, error) {
	var names []string
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list Gemini models: %w", err)
		}
		log.Debug().Str("model", m.Name).Msg("available model")
		if strings.Contains(strings.ToLower(m.Name), "gemini") {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// ChooseModel picks the first priority model present in available, otherwise
// the first available model. Names may carry a "models/" prefix.
func ChooseModel(available, priority []string) (string, error) {
	short := make([]string, 0, len(available))
	set := make(map[string]bool, len(available))
	for _, name := range available {
		s := name[strings.LastIndex(name, "/")+1:]
		short = append(short, s)
		set[s] = true
	}
	for _, p := range priority {
		if set[p] {
			return p, nil
		}
	}
	if len(short) > 0 {
		return short[0], nil
	}
	return "", ErrNoGeminiModel
}

func (g *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		cfg.Tools = geminiTools(req.Tools)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, geminiContents(req.Turns), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return fromGeminiResponse(resp)
}

func geminiTools(list []tools.Tool) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(list))
	for _, t := range list {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if len(t.Params) > 0 {
			decl.Parameters = geminiSchema(t.Params)
		}
		decls = append(decls, decl)
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func geminiSchema(params []tools.Param) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(params)),
	}
	for _, p := range params {
		typ := genai.TypeString
		if p.Type == tools.TypeNumber {
			typ = genai.TypeNumber
		}
		schema.Properties[p.Name] = &genai.Schema{Type: typ, Description: p.Description}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func geminiContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		if raw, ok := t.Raw.(*genai.Content); ok && raw != nil {
			contents = append(contents, raw)
			continue
		}

		var parts []*genai.Part
		if t.Text != "" {
			parts = append(parts, genai.NewPartFromText(t.Text))
		}
		for _, tc := range t.ToolCalls {
			parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: tc.Args}})
		}
		for _, tr := range t.ToolResults {
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       tr.CallID,
				Name:     tr.Name,
				Response: map[string]any{"result": tr.Content},
			}})
		}
		if len(parts) == 0 {
			continue
		}

		var role genai.Role = genai.RoleUser
		if t.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		reason := "no candidates"
		if resp != nil && resp.PromptFeedback != nil {
			reason = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("gemini returned no content (%s)", reason)
	}

	cand := resp.Candidates[0]
	out := &Response{
		StopReason: string(cand.FinishReason),
		Raw:        cand.Content,
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil {
			continue
		}
		if p.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: tools.Args(p.FunctionCall.Args),
			})
			continue
		}
		if p.Text != "" && !p.Thought {
			text.WriteString(p.Text)
		}
	}
	out.Text = text.String()
	return out, nil
}
