// Package cmd holds the supportagent command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/supportagent/supportagent/internal/config"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "supportagent",
	Short: "Customer-support assistant backed by an LLM with tools",
	Long: `supportagent answers customer questions using a language model that can call
tools: a calculator, a knowledge base, web search, tickets and more. Conversations
are kept per session and persisted after every completed exchange.

Without a subcommand it starts an interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("SUPPORTAGENT_CONFIG", configPath)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		interactive := cmd != serveCmd
		level := cfg.LogLevel
		if interactive && logLevel == "" && os.Getenv("LOG_LEVEL") == "" && os.Getenv("SUPPORTAGENT_LOG_LEVEL") == "" {
			// keep info-level tool and audit lines out of the conversation
			level = "warn"
		}
		setupLogging(level, interactive)
		return nil
	},
	RunE: runChat,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON or YAML config file (overrides SUPPORTAGENT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	addChatFlags(rootCmd)
}
