package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	BackendFile     = "file"
	BackendPostgres = "postgres"
)

var ErrMissingCredential = errors.New("missing model credential")

type Config struct {
	// Server
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Environment string `json:"environment" yaml:"environment"`
	APIPrefix   string `json:"api_prefix" yaml:"api_prefix"`
	LogLevel    string `json:"log_level" yaml:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header" yaml:"api_key_header"`
	APIKeys      []string `json:"api_keys" yaml:"api_keys"`
	EnableAuth   bool     `json:"enable_auth" yaml:"enable_auth"`

	// Rate limiting and exchange concurrency
	RateLimitPerMinute     int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	MaxConcurrentExchanges int `json:"max_concurrent_exchanges" yaml:"max_concurrent_exchanges"`

	// Model
	Provider          string `json:"provider" yaml:"provider"`
	Model             string `json:"model" yaml:"model"`
	GoogleAPIKey      string `json:"google_api_key" yaml:"google_api_key"`
	AnthropicAPIKey   string `json:"anthropic_api_key" yaml:"anthropic_api_key"`
	AnthropicBaseURL  string `json:"anthropic_base_url" yaml:"anthropic_base_url"` // override for compatible proxies
	MaxToolIterations int    `json:"max_tool_iterations" yaml:"max_tool_iterations"`
	AgentTimeout      int    `json:"agent_timeout" yaml:"agent_timeout"`

	// Sessions
	SessionBackend string `json:"session_backend" yaml:"session_backend"`
	SessionDir     string `json:"session_dir" yaml:"session_dir"`
	DatabaseURL    string `json:"database_url" yaml:"database_url"`

	// Tools
	KnowledgeBasePath string   `json:"knowledge_base_path" yaml:"knowledge_base_path"`
	TavilyAPIKey      string   `json:"tavily_api_key" yaml:"tavily_api_key"`
	TavilyBaseURL     string   `json:"tavily_base_url" yaml:"tavily_base_url"`
	ExitWords         []string `json:"exit_words" yaml:"exit_words"`

	// Security
	MaxInputLength     int      `json:"max_input_length" yaml:"max_input_length"`
	EnablePIIDetection bool     `json:"enable_pii_detection" yaml:"enable_pii_detection"`
	PIIKeywords        []string `json:"pii_keywords" yaml:"pii_keywords"`
	EnableAuditLogging bool     `json:"enable_audit_logging" yaml:"enable_audit_logging"`

	// Elasticsearch
	ElasticsearchEnabled     bool     `json:"elasticsearch_enabled" yaml:"elasticsearch_enabled"`
	ElasticsearchHost        string   `json:"elasticsearch_host" yaml:"elasticsearch_host"`
	ElasticsearchPort        int      `json:"elasticsearch_port" yaml:"elasticsearch_port"`
	ElasticsearchScheme      string   `json:"elasticsearch_scheme" yaml:"elasticsearch_scheme"`
	ElasticsearchUser        string   `json:"elasticsearch_user" yaml:"elasticsearch_user"`
	ElasticsearchPassword    string   `json:"elasticsearch_password" yaml:"elasticsearch_password"`
	ElasticsearchVerifyCerts bool     `json:"elasticsearch_verify_certs" yaml:"elasticsearch_verify_certs"`
	ElasticsearchMaxRetries  int      `json:"elasticsearch_max_retries" yaml:"elasticsearch_max_retries"`
	ElasticsearchIndex       string   `json:"elasticsearch_index" yaml:"elasticsearch_index"`
	ElasticsearchFields      []string `json:"elasticsearch_fields" yaml:"elasticsearch_fields"`
}

func Default() *Config {
	return &Config{
		Host:                     DefaultHost,
		Port:                     DefaultPort,
		Environment:              DefaultEnvironment,
		APIPrefix:                DefaultAPIPrefix,
		LogLevel:                 DefaultLogLevel,
		CORSOrigins:              DefaultCORSOrigins,
		APIKeyHeader:             "X-API-Key",
		EnableAuth:               true,
		RateLimitPerMinute:       DefaultRateLimitPerMinute,
		MaxConcurrentExchanges:   DefaultMaxConcurrentExchanges,
		Provider:                 DefaultProvider,
		Model:                    DefaultModel,
		MaxToolIterations:        DefaultMaxToolIterations,
		AgentTimeout:             DefaultAgentTimeout,
		SessionBackend:           DefaultSessionBackend,
		SessionDir:               DefaultSessionDir,
		KnowledgeBasePath:        DefaultKnowledgeBasePath,
		TavilyBaseURL:            DefaultTavilyBaseURL,
		ExitWords:                DefaultExitWords,
		MaxInputLength:           DefaultMaxInputLength,
		EnablePIIDetection:       true,
		PIIKeywords:              DefaultPIIKeywords,
		EnableAuditLogging:       true,
		ElasticsearchPort:        DefaultElasticsearchPort,
		ElasticsearchScheme:      DefaultElasticsearchScheme,
		ElasticsearchVerifyCerts: true,
		ElasticsearchMaxRetries:  DefaultElasticsearchMaxRetries,
		ElasticsearchIndex:       DefaultElasticsearchIndex,
	}
}

// Load builds the configuration from defaults, an optional JSON/YAML file named
// by SUPPORTAGENT_CONFIG, and the environment. A .env file in the working
// directory is read first; variables already set win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := Default()

	if path := getEnv("SUPPORTAGENT_CONFIG", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration that would make every exchange fail.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("%w: GOOGLE_API_KEY is required for provider %q", ErrMissingCredential, c.Provider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY is required for provider %q", ErrMissingCredential, c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderAnthropic)
	}

	switch c.SessionBackend {
	case BackendFile:
		if c.SessionDir == "" {
			return errors.New("session directory must not be empty")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for session backend postgres")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}

	if c.ElasticsearchEnabled && c.ElasticsearchHost == "" {
		return errors.New("ELASTICSEARCH_HOST is required when Elasticsearch is enabled")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("SUPPORTAGENT_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("SUPPORTAGENT_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("SUPPORTAGENT_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("SUPPORTAGENT_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("SUPPORTAGENT_MAX_CONCURRENT", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrentExchanges = n
		}
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("SUPPORTAGENT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = parseBool(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}

	if v := getEnv("AGENT_PROVIDER", ""); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := getEnv("AGENT_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("GOOGLE_API_KEY", ""); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("AGENT_MAX_TOOL_ITERATIONS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxToolIterations = n
		}
	}

	if v := getEnv("SESSION_BACKEND", ""); v != "" {
		cfg.SessionBackend = strings.ToLower(v)
	}
	if v := getEnv("SESSION_DIR", ""); v != "" {
		cfg.SessionDir = v
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		cfg.DatabaseURL = v
	}

	if v := getEnv("KNOWLEDGE_BASE_PATH", ""); v != "" {
		cfg.KnowledgeBasePath = v
	}
	if v := getEnv("TAVILY_API_KEY", ""); v != "" {
		cfg.TavilyAPIKey = v
	}
	if v := getEnv("TAVILY_BASE_URL", ""); v != "" {
		cfg.TavilyBaseURL = v
	}

	if v := getEnv("MAX_INPUT_LENGTH", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxInputLength = n
		}
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = parseBool(v)
	}

	if v := getEnv("ELASTICSEARCH_ENABLED", ""); v != "" {
		cfg.ElasticsearchEnabled = parseBool(v)
	}
	if v := getEnv("ELASTICSEARCH_HOST", ""); v != "" {
		cfg.ElasticsearchHost = v
	}
	if v := getEnv("ELASTICSEARCH_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.ElasticsearchPort = p
		}
	}
	if v := getEnv("ELASTICSEARCH_SCHEME", ""); v != "" {
		cfg.ElasticsearchScheme = v
	}
	if v := getEnv("ELASTICSEARCH_USER", ""); v != "" {
		cfg.ElasticsearchUser = v
	}
	if v := getEnv("ELASTICSEARCH_PASSWORD", ""); v != "" {
		cfg.ElasticsearchPassword = v
	}
	if v := getEnv("ELASTICSEARCH_INDEX", ""); v != "" {
		cfg.ElasticsearchIndex = v
	}
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
