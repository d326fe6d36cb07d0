// cmd/menuctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"kondate-planner/internal/bootstrap"
	"kondate-planner/internal/common/config"
	"kondate-planner/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration

	cfg *config.Config
	log logger.Logger
	zl  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "menuctl",
	Short: "Operator tooling for the kondate planner tables and actions",
	Long: `menuctl seeds and clears the recipe and menu history tables, runs
agent actions against recorded events and inspects the action catalogue.

Table names, region and endpoint come from configs/config.yaml and the
usual environment overrides (RECIPES_TABLE, HISTORY_TABLE, DYNAMODB_ENDPOINT).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		zl = logger.New(level, "console")
		log = logger.NewZapAdapter(zl)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zl != nil {
			_ = zl.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(actionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dependencies wires the stores and handlers against the configured tables.
// The caller closes the result.
func dependencies(ctx context.Context) (*bootstrap.Dependencies, error) {
	deps, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise dependencies: %w", err)
	}
	return deps, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
