package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/supportagent/supportagent/internal/service"
)

// WebSearcher is the part of service.WebSearchService the tool needs.
type WebSearcher interface {
	Search(ctx context.Context, query string) (*service.SearchResponse, error)
}

// WebSearchTool searches the internet. Failures are returned as marked error
// text so an unreachable provider never ends the conversation.
func WebSearchTool(s WebSearcher) Tool {
	return Tool{
		Name:        "web_search",
		Description: "Search the internet for current information that is not in the knowledge base.",
		Params: []Param{
			{Name: "query", Type: TypeString, Description: "Search query", Required: true},
		},
		Execute: func(ctx context.Context, args Args) (string, error) {
			resp, err := s.Search(ctx, args.String("query"))
			if errors.Is(err, service.ErrSearchNotConfigured) {
				return "Error: " + err.Error(), nil
			}
			if err != nil {
				return fmt.Sprintf("Error: web search failed: %v", err), nil
			}
			return formatSearch(resp), nil
		},
	}
}

func formatSearch(resp *service.SearchResponse) string {
	if answer := strings.TrimSpace(resp.Answer); answer != "" {
		return answer
	}
	if len(resp.Results) == 0 {
		return "No web results found."
	}
	var b strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n%s", i+1, r.Title, r.URL, r.Content)
	}
	return b.String()
}
