package tools

import (
	"context"

	"github.com/supportagent/supportagent/internal/knowledge"
)

// KnowledgeBaseTool answers FAQ questions from the JSON knowledge file.
func KnowledgeBaseTool(kb *knowledge.Base) Tool {
	return Tool{
		Name: "knowledge_base",
		Description: "Look up answers to frequently asked questions about delivery, payment, returns and accounts. " +
			"Use it before answering product or policy questions.",
		Params: []Param{
			{Name: "query", Type: TypeString, Description: "The user's question or a topic keyword", Required: true},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			return kb.Lookup(args.String("query")), nil
		},
	}
}
