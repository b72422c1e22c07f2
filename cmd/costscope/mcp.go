package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/mcp"
)

func newMCPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve cost tools over MCP (JSON-RPC on stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.openRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			budgets, err := g.openBudgets()
			if err != nil {
				return err
			}
			defer budgets.Close()

			tr, err := g.openTracker()
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := mcp.New(reg, budgets, tr, mcp.Options{
				AlertThreshold:  &g.cfg.AlertThreshold,
				DefaultScenario: g.cfg.DefaultScenario,
				Logger:          slog.Default(),
			}, version)
			slog.Info("mcp server started", "version", version)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}
}
