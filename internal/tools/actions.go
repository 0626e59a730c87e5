package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// The tools below only confirm what they were asked to do. None of them
// reaches an external system.

func SavePreferenceTool() Tool {
	return Tool{
		Name:        "save_preference",
		Description: "Remember a user preference, for example a preferred language or contact channel.",
		Params: []Param{
			{Name: "key", Type: TypeString, Description: "Preference name", Required: true},
			{Name: "value", Type: TypeString, Description: "Preference value", Required: true},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			return fmt.Sprintf("Preference saved: %s = %s", args.String("key"), args.String("value")), nil
		},
	}
}

// CreateTicketTool opens a support ticket. newID defaults to a short random id.
func CreateTicketTool(newID func() string) Tool {
	if newID == nil {
		newID = ticketID
	}
	return Tool{
		Name:        "create_ticket",
		Description: "Create a support ticket when the user's problem cannot be solved in the conversation.",
		Params: []Param{
			{Name: "subject", Type: TypeString, Description: "Short summary of the problem", Required: true},
			{Name: "description", Type: TypeString, Description: "Detailed description of the problem"},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			return fmt.Sprintf("Ticket %s created: %s", newID(), args.String("subject")), nil
		},
	}
}

func WebsiteActionTool() Tool {
	return Tool{
		Name:        "website_action",
		Description: "Perform an action on the company website on behalf of the user, such as opening a page or resetting a password.",
		Params: []Param{
			{Name: "action", Type: TypeString, Description: "Action to perform", Required: true},
			{Name: "url", Type: TypeString, Description: "Page the action applies to"},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			url := args.String("url")
			if url == "" {
				url = "the website"
			}
			return fmt.Sprintf("Website action %q performed on %s", args.String("action"), url), nil
		},
	}
}

func ticketID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
