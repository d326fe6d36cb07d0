// cmd/menuctl/cmd_tables.go
package main

import (
	"context"
	"fmt"

	"kondate-planner/internal/bootstrap"
	"kondate-planner/internal/seed"

	"github.com/spf13/cobra"
)

var (
	seedFile    string
	historyDays int

	clearRecipes bool
	clearHistory bool
	clearYes     bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write sample recipes and synthesize menu history",
	Long: `Writes the recipes of a seed file (the built-in catalogue when --file is
not given) and then one synthesized menu per day for the last --history-days
days. Recipes without a recipe_id are numbered recipe_001, recipe_002, ...`,
	Example: `  menuctl seed
  menuctl seed --file seed.yaml --history-days 14`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every item from the recipe and/or history table",
	Long: `Scans the selected tables and deletes every item. Without --recipes or
--history both tables are cleared. --yes is required.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file with a recipes list")
	seedCmd.Flags().IntVar(&historyDays, "history-days", 30, "Days of menu history to synthesize")

	clearCmd.Flags().BoolVar(&clearRecipes, "recipes", false, "Clear the recipe table")
	clearCmd.Flags().BoolVar(&clearHistory, "history", false, "Clear the menu history table")
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
}

func newSeeder(deps *bootstrap.Dependencies) *seed.Seeder {
	return seed.NewSeeder(deps.Recipes, deps.History, log, seed.WithLocation(cfg.Location()))
}

func runSeed(cmd *cobra.Command, args []string) error {
	if historyDays < 0 {
		return fmt.Errorf("--history-days must not be negative")
	}

	f, err := seed.LoadFile(seedFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	deps, err := dependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	summary, err := newSeeder(deps).Seed(ctx, f, historyDays)
	if err != nil {
		return err
	}
	invalidateCache(ctx, deps)

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d recipes into %s and %d days of history into %s\n",
		summary.Recipes, deps.Recipes.Table(), summary.History, deps.History.Table())
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to delete table contents without --yes")
	}
	recipes, history := clearRecipes, clearHistory
	if !recipes && !history {
		recipes, history = true, true
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	deps, err := dependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	summary, err := newSeeder(deps).Clear(ctx, recipes, history)
	if err != nil {
		return err
	}
	if recipes {
		invalidateCache(ctx, deps)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d recipes and %d history records\n", summary.Recipes, summary.History)
	return nil
}

func invalidateCache(ctx context.Context, deps *bootstrap.Dependencies) {
	if deps.Cache == nil {
		return
	}
	if err := deps.Cache.Invalidate(ctx); err != nil {
		log.Warn("Recipe cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
