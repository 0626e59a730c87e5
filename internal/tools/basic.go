package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/supportagent/supportagent/internal/calc"
)

// TimeLayout is the format of current_time results.
const TimeLayout = "2006-01-02 15:04:05"

// SayHelloTool greets the user by name.
func SayHelloTool() Tool {
	return Tool{
		Name:        "say_hello",
		Description: "Greet the user by name.",
		Params: []Param{
			{Name: "name", Type: TypeString, Description: "Name of the person to greet", Required: true},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			return fmt.Sprintf("Hello, %s!", args.String("name")), nil
		},
	}
}

// CalculateTool evaluates arithmetic with the restricted calc parser.
func CalculateTool() Tool {
	return Tool{
		Name: "calculate",
		Description: "Evaluate an arithmetic expression such as \"2 + 2\" or \"(5 * 10) / 4\". " +
			"Supports numbers, + - * / %, and parentheses. Returns the numeric result.",
		Params: []Param{
			{Name: "expression", Type: TypeString, Description: "Arithmetic expression to evaluate", Required: true},
		},
		Execute: func(_ context.Context, args Args) (string, error) {
			expr := args.String("expression")
			v, err := calc.Eval(expr)
			if err != nil {
				return fmt.Sprintf("Error evaluating %q: %v", expr, err), nil
			}
			return calc.Format(v), nil
		},
	}
}

// CurrentTimeTool reports local date and time. now is injectable for tests.
func CurrentTimeTool(now func() time.Time) Tool {
	if now == nil {
		now = time.Now
	}
	return Tool{
		Name:        "current_time",
		Description: "Return the current local date and time.",
		Execute: func(_ context.Context, _ Args) (string, error) {
			return now().Format(TimeLayout), nil
		},
	}
}
