package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/costscope/pkg/budget"
	"github.com/pario-ai/costscope/pkg/catalog"
	"github.com/pario-ai/costscope/pkg/config"
	"github.com/pario-ai/costscope/pkg/tracker"
)

var version = "dev"

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	jsonOut    bool
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "costscope",
		Short:         "costscope - generative AI API cost estimation, shadow costs and budgets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "costscope.yaml", "path to config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	root.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "output JSON")

	root.AddCommand(
		newEstimateCmd(g),
		newWordsCmd(g),
		newShadowCmd(g),
		newAdviseCmd(g),
		newBudgetCmd(g),
		newModelsCmd(g),
		newCallsCmd(g),
		newMCPCmd(g),
	)
	return root
}

// init loads the config and installs the default logger. A missing config
// file is only an error when --config was given explicitly.
func (g *globals) init(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	case err != nil:
		return err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))
	slog.Debug("config loaded", "path", g.configPath, "db", cfg.DBPath)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (g *globals) openRegistry() (*catalog.Registry, error) {
	return catalog.New(g.cfg.DBPath, g.cfg.Models...)
}

func (g *globals) openBudgets() (*budget.Store, error) {
	return budget.NewStore(g.cfg.DBPath)
}

func (g *globals) openTracker() (*tracker.SQLiteTracker, error) {
	return tracker.New(g.cfg.DBPath)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseSince parses a YYYY-MM-DD date. Empty means the start of the current UTC month.
func parseSince(s string) (time.Time, error) {
	if s == "" {
		return budget.MonthStart(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
	}
	return t, nil
}
