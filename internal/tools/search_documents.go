package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/supportagent/supportagent/internal/service"
)

// DocumentSearcher is the part of service.ElasticsearchService the tool needs.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, query string, size int) ([]service.Document, error)
}

// SearchDocumentsTool searches help-center articles indexed in Elasticsearch.
func SearchDocumentsTool(es DocumentSearcher) Tool {
	return Tool{
		Name:        "search_documents",
		Description: "Search help-center articles and manuals. Use it when the knowledge base has no answer.",
		Params: []Param{
			{Name: "query", Type: TypeString, Description: "Full-text search query", Required: true},
			{Name: "size", Type: TypeNumber, Description: "Number of articles to return (default: 5, max: 20)"},
		},
		Execute: func(ctx context.Context, args Args) (string, error) {
			query := args.String("query")
			size := 5
			if s, ok := args["size"].(float64); ok {
				size = int(s)
			}

			docs, err := es.SearchDocuments(ctx, query, size)
			if err != nil {
				return "", fmt.Errorf("document search: %w", err)
			}
			if len(docs) == 0 {
				return fmt.Sprintf("No documents found for %q", query), nil
			}

			var b strings.Builder
			for i, d := range docs {
				if i > 0 {
					b.WriteString("\n\n")
				}
				fmt.Fprintf(&b, "%d. %s", i+1, d.Title)
				if d.URL != "" {
					fmt.Fprintf(&b, " (%s)", d.URL)
				}
				b.WriteString("\n")
				b.WriteString(d.Content)
			}
			return b.String(), nil
		},
	}
}
