package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute     = 60
	DefaultMaxConcurrentExchanges = 8

	DefaultProvider          = ProviderGemini
	DefaultModel             = "auto"
	DefaultMaxToolIterations = 10
	DefaultAgentTimeout      = 120 // seconds, serve mode only

	DefaultSessionBackend    = BackendFile
	DefaultSessionDir        = "sessions"
	DefaultKnowledgeBasePath = "data/knowledge_base.json"

	DefaultTavilyBaseURL    = "https://api.tavily.com"
	DefaultWebSearchTimeout = 15 * time.Second

	DefaultMaxInputLength = 4000

	DefaultElasticsearchPort       = 9200
	DefaultElasticsearchScheme     = "http"
	DefaultElasticsearchMaxRetries = 3
	DefaultElasticsearchIndex      = "support-docs"

	DefaultCORSMaxAge = 300
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

var DefaultExitWords = []string{"exit", "quit", "выход"}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "pin", "secret", "private key",
	"access token", "api key", "personal data",
}
