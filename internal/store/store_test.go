package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"kondate-planner/internal/models"
	"kondate-planner/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	recipesTable = "kondate-recipes"
	historyTable = "kondate-menu-history"
)

func newFake() *storetest.FakeDynamo {
	return storetest.NewFakeDynamo(map[string]string{
		recipesTable: "recipe_id",
		historyTable: "date",
	})
}

func menuFor(date string) models.MenuHistory {
	return models.MenuHistory{
		Date: date,
		Meals: models.Meals{
			Dinner: []models.RecipeReference{{RecipeID: "recipe_001", Name: "カレー"}},
		},
		Recipes:   []string{"recipe_001"},
		CreatedAt: "2025-11-08T10:00:00Z",
		UpdatedAt: "2025-11-08T10:00:00Z",
	}
}

// ==========================
// Recipes
// ==========================

func TestRecipeStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewRecipeStore(newFake(), recipesTable)

	recipe := models.Recipe{RecipeID: "recipe_001", Name: "カレーライス", Category: "主菜", CookingTime: 45}
	require.NoError(t, s.Put(ctx, recipe))

	got, err := s.Get(ctx, "recipe_001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "カレーライス", got.Name)
	assert.Equal(t, 45, got.CookingTime)
	assert.Equal(t, []string{}, got.Ingredients)
	assert.Equal(t, []string{}, got.Tags)

	missing, err := s.Get(ctx, "recipe_999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecipeStore_CreateRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	s := NewRecipeStore(newFake(), recipesTable)

	require.NoError(t, s.Create(ctx, models.Recipe{RecipeID: "recipe_001", Name: "A"}))
	err := s.Create(ctx, models.Recipe{RecipeID: "recipe_001", Name: "B"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, _ := s.Get(ctx, "recipe_001")
	assert.Equal(t, "A", got.Name)
}

func TestRecipeStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	fake.PageSize = 2
	s := NewRecipeStore(fake, recipesTable)

	for i := 1; i <= 5; i++ {
		fake.Seed(recipesTable, models.Recipe{RecipeID: fmt.Sprintf("recipe_%03d", i), Name: fmt.Sprintf("料理%d", i)})
	}

	recipes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 5)
	assert.Equal(t, 3, fake.Calls["Scan"])
}

func TestRecipeStore_ScanFailure(t *testing.T) {
	fake := newFake()
	fake.Errors["Scan"] = errors.New("ProvisionedThroughputExceededException")

	_, err := NewRecipeStore(fake, recipesTable).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan recipes")
}

func TestRecipeStore_Delete(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := NewRecipeStore(fake, recipesTable)
	fake.Seed(recipesTable, models.Recipe{RecipeID: "recipe_001", Name: "A"})

	require.NoError(t, s.Delete(ctx, "recipe_001"))
	assert.Equal(t, 0, fake.Len(recipesTable))
}

// ==========================
// History
// ==========================

func TestHistoryStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore(newFake(), historyTable)

	require.NoError(t, s.PutIfAbsent(ctx, menuFor("2025-11-08")))
	assert.ErrorIs(t, s.PutIfAbsent(ctx, menuFor("2025-11-08")), ErrAlreadyExists)

	updated := menuFor("2025-11-08")
	updated.Notes = "外食"
	require.NoError(t, s.Put(ctx, updated))

	got, err := s.Get(ctx, "2025-11-08")
	require.NoError(t, err)
	assert.Equal(t, "外食", got.Notes)
	assert.Equal(t, []models.RecipeReference{{RecipeID: "recipe_001", Name: "カレー"}}, got.Meals.Dinner)
	assert.Nil(t, got.Meals.Breakfast)
}

func TestHistoryStore_BatchGetChunksAt100(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := NewHistoryStore(fake, historyTable)

	var dates []string
	for i := 0; i < 250; i++ {
		date := fmt.Sprintf("2025-%02d-%02d", i/28+1, i%28+1)
		dates = append(dates, date)
		if i%2 == 0 {
			fake.Seed(historyTable, menuFor(date))
		}
	}

	records, err := s.BatchGet(ctx, dates)
	require.NoError(t, err)
	assert.Len(t, records, 125)
	assert.Equal(t, 3, fake.Calls["BatchGetItem"])
}

func TestHistoryStore_BatchGetRetriesUnprocessed(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	fake.DeferKeys = 2
	s := NewHistoryStore(fake, historyTable).WithBackoff(0)

	dates := []string{"2025-11-06", "2025-11-07", "2025-11-08"}
	for _, d := range dates {
		fake.Seed(historyTable, menuFor(d))
	}

	records, err := s.BatchGet(ctx, append(dates, "2025-11-08"))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, fake.Calls["BatchGetItem"])

	got := []string{records[0].Date, records[1].Date, records[2].Date}
	sort.Strings(got)
	assert.Equal(t, dates, got)
}

func TestHistoryStore_BatchGetFailure(t *testing.T) {
	fake := newFake()
	fake.Errors["BatchGetItem"] = errors.New("InternalServerError")

	_, err := NewHistoryStore(fake, historyTable).BatchGet(context.Background(), []string{"2025-11-08"})
	assert.Error(t, err)
}

func TestHistoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := NewHistoryStore(fake, historyTable)
	fake.Seed(historyTable, menuFor("2025-11-07"))
	fake.Seed(historyTable, menuFor("2025-11-08"))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, s.Delete(ctx, "2025-11-07"))
	assert.Equal(t, 1, fake.Len(historyTable))
}

func TestChunk(t *testing.T) {
	keys := make([]string, 201)
	groups := chunk(keys, BatchGetLimit)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 100)
	assert.Len(t, groups[2], 1)
	assert.Nil(t, chunk(nil, BatchGetLimit))
}
