package suggest

import (
	"strings"
	"testing"
	"time"

	"kondate-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "recipe_001", Name: "カレーライス", Category: "主菜", CookingTime: 45},
		{RecipeID: "recipe_002", Name: "冷奴"},
	}
	start := time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)

	prompt, err := BuildPrompt(NewPromptData(start, 3, recipes, []string{"recipe_001", "recipe_007"}))
	require.NoError(t, err)

	assert.Contains(t, prompt, "3日分の献立")
	assert.Contains(t, prompt, "対象日: 2025-12-30, 2025-12-31, 2026-01-01")
	assert.Contains(t, prompt, "- recipe_001: カレーライス (カテゴリ: 主菜, 調理時間: 45分)\n")
	assert.Contains(t, prompt, "- recipe_002: 冷奴 (カテゴリ: 未分類, 調理時間: 不明分)\n")
	assert.Contains(t, prompt, "recipe_001、recipe_007")
	assert.Contains(t, prompt, `"date": "2025-12-30"`)
	assert.NotContains(t, prompt, "&#")
}

func TestBuildPrompt_NoRecentRecipes(t *testing.T) {
	prompt, err := BuildPrompt(NewPromptData(time.Now(), 7, []models.Recipe{{RecipeID: "r", Name: "n"}}, nil))
	require.NoError(t, err)

	section := prompt[strings.Index(prompt, "# 最近作った料理"):]
	assert.True(t, strings.HasPrefix(strings.SplitN(section, "\n", 3)[1], "なし"))
}

func TestBuildPrompt_NeedsDates(t *testing.T) {
	_, err := BuildPrompt(PromptData{Days: 0})
	assert.Error(t, err)
}

func TestRecentRecipes(t *testing.T) {
	history := []models.MenuHistory{
		{Date: "2025-11-08", Recipes: []string{"a", "b", "a"}},
		{Date: "2025-11-07", Recipes: []string{"c", "b", "d"}},
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, RecentRecipes(history, MaxRecentRecipes))
	assert.Equal(t, []string{"a", "b", "c"}, RecentRecipes(history, 3))
	assert.Empty(t, RecentRecipes(nil, MaxRecentRecipes))
}
