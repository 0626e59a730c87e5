package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/config"
	"github.com/supportagent/supportagent/internal/knowledge"
	"github.com/supportagent/supportagent/internal/security"
	"github.com/supportagent/supportagent/internal/service"
	"github.com/supportagent/supportagent/internal/session"
	"github.com/supportagent/supportagent/internal/tools"
)

// app holds everything an exchange needs. close releases the store and
// must be called once.
type app struct {
	store     session.Store
	registry  *tools.Registry
	documents *service.ElasticsearchService
	exchanger *agent.Exchanger
	validator *security.InputValidator
	close     func()
}

func newStore(ctx context.Context, c *config.Config) (session.Store, func(), error) {
	switch c.SessionBackend {
	case config.BackendPostgres:
		pg, err := session.NewPostgresStore(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return session.NewFileStore(c.SessionDir), func() {}, nil
	}
}

func newDocuments(c *config.Config) *service.ElasticsearchService {
	if !c.ElasticsearchEnabled {
		return nil
	}
	es, err := service.NewElasticsearchService(service.ElasticsearchConfig{
		Scheme:      c.ElasticsearchScheme,
		Host:        c.ElasticsearchHost,
		Port:        c.ElasticsearchPort,
		User:        c.ElasticsearchUser,
		Password:    c.ElasticsearchPassword,
		VerifyCerts: c.ElasticsearchVerifyCerts,
		MaxRetries:  c.ElasticsearchMaxRetries,
		Index:       c.ElasticsearchIndex,
		Fields:      c.ElasticsearchFields,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Elasticsearch unavailable - search_documents disabled")
		return nil
	}
	return es
}

func newRegistry(c *config.Config, docs *service.ElasticsearchService) (*tools.Registry, error) {
	deps := tools.Deps{
		Knowledge: knowledge.New(c.KnowledgeBasePath),
		Search:    service.NewWebSearchService(c.TavilyAPIKey, c.TavilyBaseURL, config.DefaultWebSearchTimeout),
	}
	if docs != nil {
		deps.Documents = docs
	}
	return tools.NewDefaultRegistry(deps)
}

func newProvider(ctx context.Context, c *config.Config) (agent.Provider, error) {
	switch c.Provider {
	case config.ProviderAnthropic:
		return agent.NewAnthropicProvider(c.AnthropicAPIKey, c.Model, c.AnthropicBaseURL), nil
	case config.ProviderGemini:
		return agent.NewGeminiProvider(ctx, c.GoogleAPIKey, c.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", c.Provider)
	}
}

// newApp validates the configuration, then builds the provider, store and
// tools. Any failure here happens before the first prompt is read.
func newApp(ctx context.Context, c *config.Config, opts ...agent.Option) (*app, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	provider, err := newProvider(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", c.Provider, err)
	}

	store, closeStore, err := newStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	docs := newDocuments(c)
	registry, err := newRegistry(c, docs)
	if err != nil {
		closeStore()
		return nil, err
	}

	var pii *security.PIIDetector
	if c.EnablePIIDetection {
		pii = security.NewPIIDetector(c.PIIKeywords)
	}
	audit := security.NewAuditLogger(c.EnableAuditLogging, pii)

	opts = append([]agent.Option{agent.WithMaxIterations(c.MaxToolIterations)}, opts...)
	ag := agent.New(provider, registry, opts...)

	log.Info().
		Str("provider", provider.Name()).
		Str("model", provider.Model()).
		Str("session_backend", c.SessionBackend).
		Strs("tools", registry.Names()).
		Msg("agent ready")

	return &app{
		store:     store,
		registry:  registry,
		documents: docs,
		exchanger: agent.NewExchanger(ag, store, audit),
		validator: security.NewInputValidator(c.MaxInputLength),
		close:     closeStore,
	}, nil
}

// toolPrinter shows tool calls in chat mode.
func toolPrinter(w io.Writer) agent.Option {
	return agent.WithToolObserver(func(call agent.ToolCall, result string) {
		fmt.Fprintf(w, "  [tool] %s -> %s\n", call.Name, firstLine(result, 100))
	})
}

func firstLine(s string, n int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i] + " ..."
			break
		}
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
