package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/catalog"
	"github.com/pario-ai/costscope/pkg/models"
)

func newModelsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the model catalog",
	}

	withRegistry := func(fn func(ctx context.Context, r *catalog.Registry) error) error {
		r, err := g.openRegistry()
		if err != nil {
			return err
		}
		defer r.Close()
		return fn(context.Background(), r)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(ctx context.Context, r *catalog.Registry) error {
				all, err := r.List(ctx)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(all)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTEXT\tINPUT/M\tOUTPUT/M\tCACHED/M\tCUSTOM")
				for _, m := range all {
					p := m.Pricing
					custom := ""
					if m.Custom {
						custom = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.4f\t%s\t%s\n",
						m.ID, m.Name, m.Type, m.ContextWindow, p.InputPricePerMillion, p.OutputPricePerMillion,
						optionalPrice(p.CachedInputPricePerMillion), custom)
				}
				return w.Flush()
			})
		},
	}

	var (
		m       models.ModelInfo
		cached  float64
		storage float64
		image   float64
	)
	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a custom model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m.ID = args[0]
			if m.Name == "" {
				m.Name = m.ID
			}
			if cmd.Flags().Changed("cached") {
				m.Pricing.CachedInputPricePerMillion = models.Price(cached)
			}
			if cmd.Flags().Changed("storage") {
				m.Pricing.CacheStoragePerMillionPerHour = models.Price(storage)
			}
			if cmd.Flags().Changed("image") {
				m.Pricing.PricePerImage = models.Price(image)
			}
			if err := m.Pricing.Validate(); err != nil {
				return err
			}
			return withRegistry(func(ctx context.Context, r *catalog.Registry) error {
				if err := r.Add(ctx, m); err != nil {
					return err
				}
				fmt.Printf("Added custom model %s\n", m.ID)
				return nil
			})
		},
	}
	f := addCmd.Flags()
	f.StringVar(&m.Name, "name", "", "display name (default the id)")
	f.StringVar(&m.Description, "description", "", "description")
	f.IntVar(&m.ContextWindow, "context-window", 0, "context window in tokens")
	f.Float64Var(&m.Pricing.InputPricePerMillion, "input", 0, "input price per million units")
	f.Float64Var(&m.Pricing.OutputPricePerMillion, "output", 0, "output price per million units")
	f.Float64Var(&cached, "cached", 0, "cached input price per million units")
	f.Float64Var(&storage, "storage", 0, "cache storage price per million units per hour")
	f.Float64Var(&image, "image", 0, "price per generated image")
	_ = addCmd.MarkFlagRequired("input")
	_ = addCmd.MarkFlagRequired("output")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(ctx context.Context, r *catalog.Registry) error {
				if err := r.Remove(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed custom model %s\n", args[0])
				return nil
			})
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every custom model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(ctx context.Context, r *catalog.Registry) error {
				if err := r.Reset(ctx); err != nil {
					return err
				}
				fmt.Println("Custom models cleared.")
				return nil
			})
		},
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd, resetCmd)
	return cmd
}

func optionalPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *p)
}
