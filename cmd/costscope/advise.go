package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/advisor"
	"github.com/pario-ai/costscope/pkg/models"
)

func newAdviseCmd(g *globals) *cobra.Command {
	var (
		monthlySpend float64
		since        string
		category     string
		showCode     bool
	)

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Rank cost optimization recommendations against recorded calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && len(advisor.ByCategory(models.RecommendationCategory(category))) == 0 {
				return fmt.Errorf("unknown category %q", category)
			}
			start, err := parseSince(since)
			if err != nil {
				return err
			}

			tr, err := g.openTracker()
			if err != nil {
				return err
			}
			defer tr.Close()

			stats, err := tr.Stats(context.Background(), start)
			if err != nil {
				return err
			}

			recs := advisor.GenerateRecommendations(stats, monthlySpend)
			savings := advisor.CalculatePotentialSavings(recs, monthlySpend)
			if category != "" {
				var filtered []models.Recommendation
				for _, r := range recs {
					if string(r.Category) == category {
						filtered = append(filtered, r)
					}
				}
				recs = filtered
			}

			if g.jsonOut {
				return printJSON(map[string]any{
					"calls":             advisor.SummarizeCalls(stats),
					"recommendations":   recs,
					"potential_savings": savings,
				})
			}

			if sum := advisor.SummarizeCalls(stats); sum.Count > 0 {
				fmt.Printf("Calls since %s: %d, failure rate %.1f%%, avg retries %.2f, avg latency %.0fms\n\n",
					start.Format("2006-01-02"), sum.Count, sum.FailureRate*100, sum.AvgRetries, sum.AvgLatencyMs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tRECOMMENDATION\tCATEGORY\tSAVINGS\tEFFORT")
			for _, r := range recs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.0f%%\t%s\n", r.Priority, r.Title, r.Category, r.EstimatedSavings, r.Difficulty)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if showCode {
				for _, r := range recs {
					fmt.Printf("\n# %s\n%s\n\n%s\n", r.Title, r.Description, r.CodeSuggestion)
				}
			}

			if monthlySpend > 0 {
				fmt.Printf("\nPotential monthly savings: $%.2f of $%.2f\n", savings, monthlySpend)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&monthlySpend, "monthly-spend", 0, "current monthly spend in USD")
	cmd.Flags().StringVar(&since, "since", "", "use calls recorded since YYYY-MM-DD (default start of month)")
	cmd.Flags().StringVar(&category, "category", "", "only show recommendations in this category")
	cmd.Flags().BoolVar(&showCode, "code", false, "print descriptions and code suggestions")
	return cmd
}
