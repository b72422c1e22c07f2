package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/budget"
	"github.com/pario-ai/costscope/pkg/models"
)

func newBudgetCmd(g *globals) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage team budgets",
	}
	cmd.PersistentFlags().StringVarP(&period, "period", "p", "", "period in YYYY-MM format (default current month)")

	currentPeriod := func() string {
		if period != "" {
			return period
		}
		return budget.CurrentPeriod(time.Now())
	}

	// withStore opens the allocation store for the duration of fn.
	withStore := func(fn func(ctx context.Context, s *budget.Store) error) error {
		s, err := g.openBudgets()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(context.Background(), s)
	}

	createCmd := &cobra.Command{
		Use:   "create <team> <monthly-budget>",
		Short: "Create a team allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, s *budget.Store) error {
				p := currentPeriod()
				if _, err := s.FindByTeam(ctx, args[0], p); err == nil {
					return fmt.Errorf("team %q already has a budget for %s", args[0], p)
				} else if !errors.Is(err, budget.ErrAllocationNotFound) {
					return err
				}
				a := budget.CreateAllocation(args[0], amount, p)
				if err := s.Save(ctx, a); err != nil {
					return err
				}
				slog.Info("budget created", "team", a.TeamName, "period", a.Period, "id", a.ID)
				fmt.Printf("Created %s budget for %s: $%.2f (%s)\n", a.Period, a.TeamName, a.MonthlyBudget, a.ID)
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List allocations (all periods unless --period is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *budget.Store) error {
				allocs, err := s.List(ctx, period)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(allocs)
				}
				if len(allocs) == 0 {
					fmt.Println("No budget allocations found.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTEAM\tPERIOD\tBUDGET\tSPENT\tALERTS")
				for _, a := range allocs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%d\n",
						a.ID, a.TeamName, a.Period, a.MonthlyBudget, a.Spent, len(a.Alerts))
				}
				return w.Flush()
			})
		},
	}

	spendCmd := &cobra.Command{
		Use:   "spend <team> <cost>",
		Short: "Record spend against a team allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, s *budget.Store) error {
				a, alert, err := s.Spend(ctx, args[0], currentPeriod(), cost, g.cfg.AlertThreshold)
				if err != nil {
					return err
				}
				fmt.Printf("%s: $%.2f of $%.2f spent\n", a.TeamName, a.Spent, a.MonthlyBudget)
				if alert != "" {
					slog.Warn("budget alert", "team", a.TeamName, "alert", alert)
					fmt.Println(alert)
				}
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show spend vs allocation for every team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *budget.Store) error {
				statuses, err := s.Status(ctx, currentPeriod(), g.cfg.AlertThreshold)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(statuses)
				}
				if len(statuses) == 0 {
					fmt.Println("No budget allocations found for this period.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TEAM\tPERIOD\tBUDGET\tSPENT\tREMAINING\tUSED\tLEVEL")
				for _, st := range statuses {
					a := st.Allocation
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.1f%%\t%s\n",
						a.TeamName, a.Period, a.MonthlyBudget, a.Spent, st.RemainingBudget, st.PercentageUsed, st.AlertLevel)
				}
				return w.Flush()
			})
		},
	}

	var (
		rate float64
		days float64
	)
	forecastCmd := &cobra.Command{
		Use:   "forecast <team>",
		Short: "Project a team's spend to the end of the period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *budget.Store) error {
				a, err := s.FindByTeam(ctx, args[0], currentPeriod())
				if err != nil {
					return err
				}
				remaining := days
				if !cmd.Flags().Changed("days") {
					remaining = budget.DaysLeftInMonth(time.Now())
				}
				f := budget.ForecastBudgetStatus(a, rate, remaining)
				if g.jsonOut {
					return printJSON(f)
				}
				outlook := "within budget"
				if f.WillExceed {
					outlook = "will exceed budget"
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Team\t%s (%s)\n", a.TeamName, a.Period)
				fmt.Fprintf(w, "Budget\t$%.2f\n", a.MonthlyBudget)
				fmt.Fprintf(w, "Spent\t$%.2f\n", a.Spent)
				fmt.Fprintf(w, "Projected total\t$%.2f\n", f.ProjectedTotal)
				fmt.Fprintf(w, "Surplus\t$%.2f\n", f.ProjectedExcessOrSurplus)
				fmt.Fprintf(w, "Outlook\t%s\n", outlook)
				return w.Flush()
			})
		},
	}
	forecastCmd.Flags().Float64Var(&rate, "rate", 0, "daily spend rate in USD")
	forecastCmd.Flags().Float64Var(&days, "days", 0, "days remaining (default rest of the current month)")
	_ = forecastCmd.MarkFlagRequired("rate")

	var total float64
	allocateCmd := &cobra.Command{
		Use:   "allocate",
		Short: "Split a monthly total across the teams in the config by weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			weights := g.cfg.Budgets.Teams
			if len(weights) == 0 {
				return errors.New("no teams configured under budgets.teams")
			}
			if !cmd.Flags().Changed("total") {
				total = g.cfg.Budgets.TotalMonthly
			}
			allocs, err := budget.AllocateToTeams(total, weights, currentPeriod())
			if err != nil {
				return fmt.Errorf("allocate: %w", err)
			}

			teams := make([]string, 0, len(allocs))
			for team := range allocs {
				teams = append(teams, team)
			}
			sort.Strings(teams)

			return withStore(func(ctx context.Context, s *budget.Store) error {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TEAM\tPERIOD\tBUDGET")
				for _, team := range teams {
					a := allocs[team]
					if existing, err := s.FindByTeam(ctx, team, a.Period); err == nil {
						a.ID = existing.ID
						a.Spent = existing.Spent
						a.Alerts = existing.Alerts
					} else if !errors.Is(err, budget.ErrAllocationNotFound) {
						return err
					}
					if err := s.Save(ctx, a); err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%s\t%.2f\n", a.TeamName, a.Period, a.MonthlyBudget)
				}
				return w.Flush()
			})
		},
	}
	allocateCmd.Flags().Float64Var(&total, "total", 0, "monthly total in USD (default budgets.total_monthly)")

	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show teams at warning or critical level",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *budget.Store) error {
				allocs, err := s.List(ctx, currentPeriod())
				if err != nil {
					return err
				}
				alerts := budget.GenerateAlerts(allocs, g.cfg.AlertThreshold)
				if g.jsonOut {
					return printJSON(alerts)
				}
				if len(alerts) == 0 {
					fmt.Println("All teams are within budget.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TEAM\tSEVERITY\tMESSAGE")
				for _, a := range alerts {
					fmt.Fprintf(w, "%s\t%s\t%s\n", a.Team, a.Severity, a.Message)
				}
				return w.Flush()
			})
		},
	}

	var (
		byFeature bool
		since     string
		model     string
	)
	chargebackCmd := &cobra.Command{
		Use:   "chargeback <team>",
		Short: "Attribute recorded call costs to a team",
		Args:  cobra.ExactArgs(1),
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

			calls, err := tr.Query(context.Background(), start, model)
			if err != nil {
				return err
			}
			report := budget.GenerateChargebackReport(args[0], calls, byFeature)
			if g.jsonOut {
				return printJSON(report)
			}
			return printChargeback(report)
		},
	}
	chargebackCmd.Flags().BoolVar(&byFeature, "by-feature", false, "group by first feature tag")
	chargebackCmd.Flags().StringVar(&since, "since", "", "include calls since YYYY-MM-DD (default start of month)")
	chargebackCmd.Flags().StringVar(&model, "model", "", "only include calls to this model")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *budget.Store) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted allocation %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(createCmd, listCmd, spendCmd, statusCmd, forecastCmd, allocateCmd, alertsCmd, chargebackCmd, deleteCmd)
	return cmd
}

func printChargeback(r models.ChargebackReport) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Team\t%s (%s)\n", r.TeamName, r.Period)
	fmt.Fprintf(w, "Total\t$%.4f\n", r.TotalCost)
	fmt.Fprintf(w, "Daily average\t$%.4f\n\n", r.DailyAverage)
	fmt.Fprintln(w, "CATEGORY\tCOST\tSHARE")
	for _, l := range r.Breakdown {
		fmt.Fprintf(w, "%s\t$%.4f\t%.1f%%\n", l.Category, l.Cost, l.Percentage)
	}
	return w.Flush()
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
