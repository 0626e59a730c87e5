package tools

import (
	"time"

	"github.com/supportagent/supportagent/internal/knowledge"
)

// Deps are the collaborators the built-in tools need.
type Deps struct {
	Knowledge *knowledge.Base
	Search    WebSearcher
	Documents DocumentSearcher // nil leaves search_documents out
	Now       func() time.Time
	TicketID  func() string
}

// Catalog returns the built-in tools in the order they are offered to the model.
func Catalog(d Deps) []Tool {
	list := []Tool{
		SayHelloTool(),
		CalculateTool(),
		CurrentTimeTool(d.Now),
	}
	if d.Search != nil {
		list = append(list, WebSearchTool(d.Search))
	}
	if d.Knowledge != nil {
		list = append(list, KnowledgeBaseTool(d.Knowledge))
	}
	list = append(list,
		SavePreferenceTool(),
		CreateTicketTool(d.TicketID),
		WebsiteActionTool(),
	)
	if d.Documents != nil {
		list = append(list, SearchDocumentsTool(d.Documents))
	}
	return list
}

// NewDefaultRegistry builds the registry from Catalog.
func NewDefaultRegistry(d Deps) (*Registry, error) {
	return NewRegistry(Catalog(d)...)
}
