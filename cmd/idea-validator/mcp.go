package main

import (
	"github.com/spf13/cobra"

	"github.com/joelkehle/ideavalidation/internal/mcpserver"
	"github.com/joelkehle/ideavalidation/internal/pivot"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve validate_idea, suggest_pivots and validation_history over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.orchestrator()
			if err != nil {
				return err
			}
			deps := mcpserver.Deps{
				Validator: o,
				Pivots:    pivot.NewEngine(),
				Logger:    a.log,
			}
			if a.history != nil {
				deps.History = a.history
			}
			a.log.Info("mcp server starting on stdio")
			return mcpserver.Serve(mcpserver.New(deps))
		},
	}
}
