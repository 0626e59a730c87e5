package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultWebSearchURL = "https://api.tavily.com"

// ErrSearchNotConfigured is returned when no search credential is set.
var ErrSearchNotConfigured = errors.New("web search is not configured (TAVILY_API_KEY is not set)")

// SearchResult is one hit from the search provider.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the provider's reply.
type SearchResponse struct {
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

// WebSearchService calls the Tavily search API.
type WebSearchService struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewWebSearchService builds a client. An empty apiKey yields a client whose
// Search always returns ErrSearchNotConfigured.
func NewWebSearchService(apiKey, baseURL string, timeout time.Duration) *WebSearchService {
	if baseURL == "" {
		baseURL = DefaultWebSearchURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebSearchService{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: 5,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a credential is present.
func (s *WebSearchService) Configured() bool {
	return s.apiKey != ""
}

// Search runs one query.
func (s *WebSearchService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	if !s.Configured() {
		return nil, ErrSearchNotConfigured
	}

	body, err := json.Marshal(searchRequest{
		APIKey:        s.apiKey,
		Query:         query,
		IncludeAnswer: true,
		MaxResults:    s.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out SearchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}
