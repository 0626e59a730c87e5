package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/supportagent/supportagent/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered to the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(cfg, newDocuments(cfg))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, t := range registry.All() {
			fmt.Fprintf(out, "%-16s %s\n", t.Name, t.Description)
			for _, p := range t.Params {
				fmt.Fprintf(out, "%-16s   %s (%s%s): %s\n", "", p.Name, p.Type, optional(p), p.Description)
			}
		}
		return nil
	},
}

func optional(p tools.Param) string {
	if p.Required {
		return ""
	}
	return ", optional"
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
