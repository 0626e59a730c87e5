package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supportagent/supportagent/internal/server"
)

var (
	listenHost string
	listenPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Serve POST /api/v1/chat and the session and tool endpoints. Exchanges on one
session are serialized; the total number of concurrent exchanges is bounded by
max_concurrent_exchanges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenHost != "" {
			cfg.Host = listenHost
		}
		if listenPort != 0 {
			cfg.Port = listenPort
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		srv := server.New(cfg, server.Deps{
			Exchanger: a.exchanger,
			Store:     a.store,
			Registry:  a.registry,
			Validator: a.validator,
			Documents: a.documents,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&listenPort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
