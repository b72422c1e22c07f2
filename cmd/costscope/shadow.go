package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/pricing"
	"github.com/pario-ai/costscope/pkg/shadow"
)

func newShadowCmd(g *globals) *cobra.Command {
	var (
		usage    usageFlags
		unitCost float64
		modelID  string
		scenario string
		all      bool
		monthly  bool
	)

	cmd := &cobra.Command{
		Use:   "shadow",
		Short: "Simulate hidden costs from retries, egress and cache misses",
		Long: `Simulate hidden costs of a per-request cost under an operating scenario.
The per-request cost is --cost, or is computed from --model and the usage flags.
With --monthly the cost is treated as a daily cost and projected over 30 days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenario == "" {
				scenario = g.cfg.DefaultScenario
			}
			sc, ok := shadow.Lookup(scenario)
			if !ok {
				return fmt.Errorf("unknown scenario %q", scenario)
			}
			profile, err := usage.profile()
			if err != nil {
				return err
			}
			if unitCost < 0 {
				return fmt.Errorf("--cost must not be negative, got %v", unitCost)
			}

			if modelID != "" {
				reg, err := g.openRegistry()
				if err != nil {
					return err
				}
				defer reg.Close()
				m, err := reg.Lookup(context.Background(), modelID)
				if err != nil {
					return err
				}
				single := profile
				single.RequestCount = 1
				unitCost = pricing.ComputeCost(m.Pricing, single).TotalCost
			}

			if monthly {
				impact := shadow.EstimateMonthlyImpact(unitCost, sc.Key)
				if g.jsonOut {
					return printJSON(impact)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Scenario\t%s\n", sc.Key)
				fmt.Fprintf(w, "Estimated\t$%.2f\n", impact.Estimated)
				fmt.Fprintf(w, "With shadow\t$%.2f\n", impact.WithShadow)
				fmt.Fprintf(w, "Additional\t$%.2f\n", impact.AdditionalCost)
				return w.Flush()
			}

			var outcomes []models.ScenarioOutcome
			if all {
				outcomes = shadow.SimulateAllScenarios(unitCost, profile.RequestCount)
			} else {
				outcomes = []models.ScenarioOutcome{{
					Scenario: sc.Key,
					Result:   shadow.ComputeShadowCost(unitCost, sc.Key, profile.RequestCount),
				}}
			}
			if g.jsonOut {
				return printJSON(outcomes)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tDIRECT\tRETRY\tEGRESS\tCACHE MISS\tTOTAL\tHIDDEN\tDESCRIPTION")
			for _, o := range outcomes {
				r := o.Result
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
					o.Scenario, r.DirectCost, r.EstimatedRetryCost, r.EgressCost, r.CacheMissCost,
					r.TotalShadowCost, r.Savings, r.Description)
			}
			return w.Flush()
		},
	}

	usage.bind(cmd)
	cmd.Flags().Float64Var(&unitCost, "cost", 0, "direct cost of one request in USD")
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "compute the request cost from this model and the usage flags")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "normal, peak, failure or degraded (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "simulate every scenario")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "project a daily cost over a 30-day month")
	cmd.MarkFlagsMutuallyExclusive("cost", "model")
	return cmd
}
