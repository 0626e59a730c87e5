package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig holds connection settings for the document index.
type ElasticsearchConfig struct {
	Scheme      string
	Host        string
	Port        int
	User        string
	Password    string
	VerifyCerts bool
	MaxRetries  int
	Index       string
	Fields      []string
}

// Document is one search hit from the document index.
type Document struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url,omitempty"`
}

// ElasticsearchService searches help-center articles stored in Elasticsearch.
type ElasticsearchService struct {
	client *elasticsearch.Client
	index  string
	fields []string
}

// NewElasticsearchService creates an ES client using go-elasticsearch/v8
func NewElasticsearchService(cfg ElasticsearchConfig) (*ElasticsearchService, error) {
	addr := fmt.Sprintf("%s://%s:%d", cfg.Scheme, cfg.Host, cfg.Port)
	return newElasticsearchService(elasticsearch.Config{
		Addresses:  []string{addr},
		Username:   cfg.User,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
		Transport:  transportFor(cfg.VerifyCerts),
	}, cfg.Index, cfg.Fields)
}

func newElasticsearchService(esCfg elasticsearch.Config, index string, fields []string) (*ElasticsearchService, error) {
	if index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	if len(fields) == 0 {
		fields = []string{"title^2", "content"}
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchService{client: client, index: index, fields: fields}, nil
}

func transportFor(verifyCerts bool) http.RoundTripper {
	if verifyCerts {
		return nil
	}
	return &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 - user explicitly disabled cert verification
		},
	}
}

// Index returns the searched index name.
func (s *ElasticsearchService) Index() string {
	return s.index
}

// TestConnection pings the cluster
func (s *ElasticsearchService) TestConnection(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}

// SearchDocuments runs a multi_match query over the configured fields.
func (s *ElasticsearchService) SearchDocuments(ctx context.Context, query string, size int) ([]Document, error) {
	if size <= 0 || size > 20 {
		size = 5
	}
	body, err := json.Marshal(map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": s.fields,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := decodeBody(res.Body, res.Status())
	if err != nil {
		return nil, err
	}
	return parseDocuments(raw), nil
}

func decodeBody(r io.Reader, status string) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		if errObj, ok := result["error"]; ok {
			return nil, fmt.Errorf("elasticsearch error [%s]: %v", status, errObj)
		}
		return nil, fmt.Errorf("elasticsearch error: %s", status)
	}
	return result, nil
}

func parseDocuments(raw map[string]interface{}) []Document {
	hitsObj, ok := raw["hits"].(map[string]interface{})
	if !ok {
		return nil
	}
	hits, ok := hitsObj["hits"].([]interface{})
	if !ok {
		return nil
	}

	docs := make([]Document, 0, len(hits))
	for _, h := range hits {
		hm, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		doc := Document{}
		doc.ID, _ = hm["_id"].(string)
		doc.Score, _ = hm["_score"].(float64)
		if src, ok := hm["_source"].(map[string]interface{}); ok {
			doc.Title, _ = src["title"].(string)
			doc.Content, _ = src["content"].(string)
			doc.URL, _ = src["url"].(string)
		}
		docs = append(docs, doc)
	}
	return docs
}
