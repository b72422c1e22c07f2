package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/advisor"
	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/pricing"
)

func newCallsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Record and inspect API calls",
	}

	var (
		rec    models.APICallRecord
		failed bool
	)
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed API call",
		Long: `Record a completed API call. When --cost is not given it is computed
from the model's price sheet and the token counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rec.Success = !failed
			if rec.InputTokens < 0 || rec.OutputTokens < 0 || rec.Cost < 0 ||
				rec.RetryCount < 0 || rec.NetworkCost < 0 || rec.LatencyMs < 0 {
				return errors.New("call record values must not be negative")
			}

			if !cmd.Flags().Changed("cost") {
				reg, err := g.openRegistry()
				if err != nil {
					return err
				}
				m, err := reg.Lookup(ctx, rec.Model)
				reg.Close()
				if err != nil {
					return err
				}
				rec.Cost = pricing.CostFromTokens(m.Pricing, rec.InputTokens, rec.OutputTokens)
			}

			tr, err := g.openTracker()
			if err != nil {
				return err
			}
			defer tr.Close()

			saved, err := tr.Record(ctx, rec)
			if err != nil {
				return err
			}
			slog.Debug("call recorded", "id", saved.ID, "model", saved.Model, "cost", saved.Cost)
			if g.jsonOut {
				return printJSON(saved)
			}
			fmt.Printf("Recorded %s: %s %s\n", saved.ID, saved.Model, pricing.FormatCurrency(saved.Cost))
			return nil
		},
	}
	f := recordCmd.Flags()
	f.StringVarP(&rec.Model, "model", "m", "", "model ID")
	f.Int64Var(&rec.InputTokens, "input", 0, "input tokens")
	f.Int64Var(&rec.OutputTokens, "output", 0, "output tokens")
	f.Float64Var(&rec.Cost, "cost", 0, "call cost in USD (default computed from the model)")
	f.BoolVar(&failed, "failed", false, "the call failed")
	f.IntVar(&rec.RetryCount, "retries", 0, "retry attempts")
	f.Float64Var(&rec.NetworkCost, "network-cost", 0, "network cost in USD")
	f.Int64Var(&rec.LatencyMs, "latency", 0, "latency in milliseconds")
	f.StringSliceVar(&rec.FeatureTags, "tag", nil, "feature tag (repeatable)")
	_ = recordCmd.MarkFlagRequired("model")

	var since string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recorded calls aggregated by model",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSince(since)
			if err != nil {
				return err
			}
			tr, err := g.openTracker()
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx := context.Background()
			summaries, err := tr.Summary(ctx, start)
			if err != nil {
				return err
			}
			stats, err := tr.Stats(ctx, start)
			if err != nil {
				return err
			}
			overall := advisor.SummarizeCalls(stats)

			if g.jsonOut {
				return printJSON(map[string]any{"models": summaries, "overall": overall})
			}
			if len(summaries) == 0 {
				fmt.Println("No calls recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tREQUESTS\tINPUT\tOUTPUT\tFAILURES\tCOST\tNETWORK")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
					s.Model, s.RequestCount, s.InputTokens, s.OutputTokens, s.Failures,
					pricing.FormatCurrency(s.TotalCost), pricing.FormatCurrency(s.NetworkCost))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nFailure rate %.1f%%, avg retries %.2f, avg latency %.0fms\n",
				overall.FailureRate*100, overall.AvgRetries, overall.AvgLatencyMs)
			return nil
		},
	}
	statsCmd.Flags().StringVar(&since, "since", "", "include calls since YYYY-MM-DD (default start of month)")

	cmd.AddCommand(recordCmd, statsCmd)
	return cmd
}
