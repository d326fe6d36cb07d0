// Package seed loads sample recipes into the tables and synthesizes menu
// history from them. It backs the menuctl seed and clear commands.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"time"

	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed recipes.yaml
var defaultCatalogue []byte

// File is the layout of a seed file.
type File struct {
	Recipes []models.Recipe `yaml:"recipes"`
}

// slot sampling windows: breakfast draws 1-2 recipes from the head of the
// day's sample, lunch 1-3 starting at offset 2, dinner 2-3 starting at 5.
var slotWindows = []struct {
	slot     models.MealSlot
	offset   int
	min, max int
}{
	{models.Breakfast, 0, 1, 2},
	{models.Lunch, 2, 1, 3},
	{models.Dinner, 5, 2, 3},
}

const sampleSize = 8

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads a seed file, or the built-in catalogue when path is empty.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return Parse(defaultCatalogue)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// PrepareRecipes fills ids, defaults and timestamps. Recipes without an id
// get recipe_%03d from their 1-based position.
func PrepareRecipes(recipes []models.Recipe, stamp string) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for i, r := range recipes {
		if r.RecipeID == "" {
			r.RecipeID = fmt.Sprintf("recipe_%03d", i+1)
		}
		if r.Category == "" {
			r.Category = models.DefaultCategory
		}
		if r.CookingTime <= 0 {
			r.CookingTime = models.DefaultCookingTime
		}
		if r.Ingredients == nil {
			r.Ingredients = []string{}
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		r.CreatedAt = stamp
		r.UpdatedAt = stamp
		out = append(out, r)
	}
	return out
}

// SynthesizeHistory builds one record per day for the days calendar dates
// ending at today. Every record references recipes from the catalogue only.
func SynthesizeHistory(recipes []models.Recipe, today time.Time, days int, rng *rand.Rand, stamp string) []models.MenuHistory {
	if len(recipes) == 0 || days <= 0 {
		return []models.MenuHistory{}
	}

	records := make([]models.MenuHistory, 0, days)
	for _, date := range menu.DateKeys(today, days) {
		picks := sample(recipes, sampleSize, rng)

		var meals models.Meals
		for _, w := range slotWindows {
			n := w.min + rng.Intn(w.max-w.min+1)
			refs := make([]models.RecipeReference, 0, n)
			for j := 0; j < n && w.offset+j < len(picks); j++ {
				r := picks[w.offset+j]
				refs = append(refs, models.RecipeReference{RecipeID: r.RecipeID, Name: r.Name})
			}
			if len(refs) > 0 {
				meals.SetSlot(w.slot, refs)
			}
		}

		records = append(records, models.MenuHistory{
			Date:      date,
			Meals:     meals,
			Recipes:   meals.RecipeIDs(),
			CreatedAt: stamp,
			UpdatedAt: stamp,
		})
	}
	return records
}

func sample(recipes []models.Recipe, n int, rng *rand.Rand) []models.Recipe {
	if n > len(recipes) {
		n = len(recipes)
	}
	out := make([]models.Recipe, 0, n)
	for _, i := range rng.Perm(len(recipes))[:n] {
		out = append(out, recipes[i])
	}
	return out
}

type RecipeTable interface {
	Put(ctx context.Context, recipe models.Recipe) error
	List(ctx context.Context) ([]models.Recipe, error)
	Delete(ctx context.Context, recipeID string) error
}

type HistoryTable interface {
	Put(ctx context.Context, record models.MenuHistory) error
	List(ctx context.Context) ([]models.MenuHistory, error)
	Delete(ctx context.Context, date string) error
}

// Summary counts the items a run wrote or removed.
type Summary struct {
	Recipes int `json:"recipes"`
	History int `json:"history"`
}

type Seeder struct {
	recipes RecipeTable
	history HistoryTable
	logger  logger.Logger
	now     func() time.Time
	loc     *time.Location
	rng     *rand.Rand
}

type Option func(*Seeder)

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Seeder) { s.loc = loc }
}

// WithRand fixes the source used to pick recipes for synthesized days.
func WithRand(rng *rand.Rand) Option {
	return func(s *Seeder) { s.rng = rng }
}

func NewSeeder(recipes RecipeTable, history HistoryTable, log logger.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		recipes: recipes,
		history: history,
		logger:  log,
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	return s
}

// Seed writes the recipes and then historyDays days of synthesized history.
// History is drawn from the recipes written by this run.
func (s *Seeder) Seed(ctx context.Context, f *File, historyDays int) (Summary, error) {
	var summary Summary
	stamp := s.now().UTC().Format(time.RFC3339)

	recipes := PrepareRecipes(f.Recipes, stamp)
	for _, r := range recipes {
		if err := s.recipes.Put(ctx, r); err != nil {
			return summary, fmt.Errorf("seed recipe %s: %w", r.RecipeID, err)
		}
		summary.Recipes++
		s.logger.Debug("Recipe written", map[string]interface{}{"recipeId": r.RecipeID, "name": r.Name})
	}

	if historyDays > 0 && len(recipes) == 0 {
		s.logger.Warn("No recipes to build history from", nil)
		return summary, nil
	}

	for _, record := range SynthesizeHistory(recipes, s.now().In(s.loc), historyDays, s.rng, stamp) {
		if err := s.history.Put(ctx, record); err != nil {
			return summary, fmt.Errorf("seed history %s: %w", record.Date, err)
		}
		summary.History++
	}

	s.logger.Info("Seed complete", map[string]interface{}{
		"recipes": summary.Recipes,
		"history": summary.History,
	})
	return summary, nil
}

// Clear deletes every item of the selected tables.
func (s *Seeder) Clear(ctx context.Context, recipes, history bool) (Summary, error) {
	var summary Summary

	if recipes {
		items, err := s.recipes.List(ctx)
		if err != nil {
			return summary, err
		}
		for _, r := range items {
			if err := s.recipes.Delete(ctx, r.RecipeID); err != nil {
				return summary, err
			}
			summary.Recipes++
		}
	}

	if history {
		items, err := s.history.List(ctx)
		if err != nil {
			return summary, err
		}
		for _, h := range items {
			if err := s.history.Delete(ctx, h.Date); err != nil {
				return summary, err
			}
			summary.History++
		}
	}

	s.logger.Info("Tables cleared", map[string]interface{}{
		"recipes": summary.Recipes,
		"history": summary.History,
	})
	return summary, nil
}
