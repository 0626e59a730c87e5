package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supportagent/supportagent/internal/agent"
	"github.com/supportagent/supportagent/internal/console"
	"github.com/supportagent/supportagent/internal/session"
)

var (
	sessionID     string
	providerFlag  string
	modelFlag     string
	showToolCalls bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat. Each completed exchange is saved to the session
store. Leave with exit, quit or выход, Ctrl-D, or Ctrl-C; the session is saved once
more on the way out.`,
	RunE: runChat,
}

func addChatFlags(c *cobra.Command) {
	c.Flags().StringVarP(&sessionID, "session", "s", "", "session id to resume (default: a new random id)")
	c.Flags().StringVar(&providerFlag, "provider", "", "model provider: gemini or anthropic")
	c.Flags().StringVar(&modelFlag, "model", "", `model name, or "auto" to pick a Gemini model`)
	c.Flags().BoolVar(&showToolCalls, "show-tools", true, "print tool calls as they happen")
}

func runChat(cmd *cobra.Command, args []string) error {
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	var opts []agent.Option
	if showToolCalls {
		opts = append(opts, toolPrinter(out))
	}
	a, err := newApp(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer a.close()

	id := sessionID
	if id == "" {
		id = session.NewID()
	}
	sess, err := session.Open(ctx, a.store, id)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	reader := console.NewReader(os.Stdin, out, "You: ")
	return console.New(reader, out, a.exchanger, sess, cfg.ExitWords).Run(ctx)
}

func init() {
	addChatFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}
