package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/pricing"
)

// usageFlags binds a UsageProfile to command flags.
type usageFlags struct {
	input        int64
	output       int64
	words        int64
	audioMinutes float64
	videoMinutes float64
	images       int64
	requests     int64
	cached       bool
	storageHours float64
}

func (u *usageFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64Var(&u.input, "input", 0, "input tokens per request")
	f.Int64Var(&u.output, "output", 0, "output tokens per request")
	f.Int64Var(&u.words, "words", 0, "input word count, used when --input is not set")
	f.Float64Var(&u.audioMinutes, "audio-minutes", 0, "audio input minutes per request")
	f.Float64Var(&u.videoMinutes, "video-minutes", 0, "video input minutes per request")
	f.Int64Var(&u.images, "images", 0, "images generated per request")
	f.Int64VarP(&u.requests, "requests", "n", 1, "number of requests")
	f.BoolVar(&u.cached, "cached", false, "bill input at the cached rate when available")
	f.Float64Var(&u.storageHours, "storage-hours", 0, "hours the cached context is stored")
}

// profile builds the usage profile and rejects values the cost engine does not
// accept, such as fewer than one request or negative quantities.
func (u *usageFlags) profile() (models.UsageProfile, error) {
	if u.words < 0 {
		return models.UsageProfile{}, fmt.Errorf("--words must not be negative, got %d", u.words)
	}
	in := u.input
	if in == 0 && u.words > 0 {
		in = pricing.EstimateUnitsFromWordCount(u.words)
	}
	p := models.UsageProfile{
		InputUnits:        in,
		OutputUnits:       u.output,
		AudioMinutes:      u.audioMinutes,
		VideoMinutes:      u.videoMinutes,
		GeneratedImages:   u.images,
		RequestCount:      u.requests,
		CachingEnabled:    u.cached,
		CacheStorageHours: u.storageHours,
	}
	if err := p.Validate(); err != nil {
		return models.UsageProfile{}, err
	}
	return p, nil
}

func newEstimateCmd(g *globals) *cobra.Command {
	var (
		usage   usageFlags
		modelID string
		compare bool
		csvOut  bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a usage profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := usage.profile()
			if err != nil {
				return err
			}
			reg, err := g.openRegistry()
			if err != nil {
				return err
			}
			defer reg.Close()

			ctx := context.Background()

			if compare || csvOut {
				all, err := reg.List(ctx)
				if err != nil {
					return err
				}
				costs := pricing.CompareModels(all, profile)
				switch {
				case csvOut:
					return pricing.WriteCSV(os.Stdout, costs, profile.CachingEnabled)
				case g.jsonOut:
					return printJSON(costs)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MODEL\tINPUT\tOUTPUT\tIMAGES\tSTORAGE\tTOTAL")
				for _, c := range costs {
					b := c.Breakdown
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						c.Model.ID,
						pricing.FormatCurrency(b.InputCost),
						pricing.FormatCurrency(b.OutputCost),
						pricing.FormatCurrency(b.ImageGenerationCost),
						pricing.FormatCurrency(b.StorageCost),
						pricing.FormatCurrency(b.TotalCost))
				}
				return w.Flush()
			}

			m, err := reg.Lookup(ctx, modelID)
			if err != nil {
				return err
			}
			b := pricing.ComputeCost(m.Pricing, profile)
			if g.jsonOut {
				return printJSON(models.ModelCost{Model: m, Breakdown: b})
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Model\t%s (%s)\n", m.Name, m.ID)
			fmt.Fprintf(w, "Requests\t%d\n", profile.RequestCount)
			fmt.Fprintf(w, "Input units\t%d (effective %.0f)\n", profile.InputUnits, pricing.EffectiveInputUnits(profile))
			fmt.Fprintf(w, "Input cost\t%s\n", pricing.FormatCurrency(b.InputCost))
			fmt.Fprintf(w, "Output cost\t%s\n", pricing.FormatCurrency(b.OutputCost))
			fmt.Fprintf(w, "Image cost\t%s\n", pricing.FormatCurrency(b.ImageGenerationCost))
			fmt.Fprintf(w, "Video cost\t%s\n", pricing.FormatCurrency(b.VideoGenerationCost))
			fmt.Fprintf(w, "Storage cost\t%s\n", pricing.FormatCurrency(b.StorageCost))
			fmt.Fprintf(w, "Total\t%s\n", pricing.FormatCurrency(b.TotalCost))
			return w.Flush()
		},
	}

	usage.bind(cmd)
	cmd.Flags().StringVarP(&modelID, "model", "m", "gemini-2.5-flash", "model ID (see 'costscope models list')")
	cmd.Flags().BoolVar(&compare, "compare", false, "compare the profile across all models")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "write the comparison as CSV")
	return cmd
}

func newWordsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "words <count>",
		Short: "Estimate token units from a word count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int64
			if _, err := fmt.Sscan(args[0], &n); err != nil || n < 0 {
				return fmt.Errorf("invalid word count %q", args[0])
			}
			units := pricing.EstimateUnitsFromWordCount(n)
			if g.jsonOut {
				return printJSON(map[string]int64{"words": n, "units": units})
			}
			fmt.Printf("%d words ≈ %d units\n", n, units)
			return nil
		},
	}
}
