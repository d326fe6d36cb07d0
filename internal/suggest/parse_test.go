package suggest

import (
	"errors"
	"testing"

	"kondate-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planJSON = `{"menu_plan":[{"date":"2025-11-08","meals":{"breakfast":[{"recipe_id":"recipe_011","name":"トースト"}],"lunch":[{"recipe_id":"recipe_003","name":"ハンバーグ"}],"dinner":[{"recipe_id":"recipe_005","name":"鮭の塩焼き"},{"recipe_id":"recipe_009","name":"味噌汁"}]},"notes":"和食"}],"summary":"軽め"}`

// ==========================
// JSON extraction
// ==========================

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "json fence", reply: "はい。\n```json\n{\"a\":1}\n```\n以上です。", want: `{"a":1}`},
		{name: "json fence preferred over earlier bare fence", reply: "```\nx\n```\n```json\n{\"a\":2}\n```", want: `{"a":2}`},
		{name: "bare fence", reply: "```\n{\"a\":3}\n```", want: `{"a":3}`},
		{name: "bare fence with other tag", reply: "```javascript\n{\"a\":4}\n```", want: `{"a":4}`},
		{name: "unterminated fence", reply: "```json\n{\"a\":5}", want: `{"a":5}`},
		{name: "outermost braces", reply: "提案: {\"a\":{\"b\":6}} です", want: `{"a":{"b":6}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractJSON("申し訳ありません。提案できません。")
	assert.ErrorIs(t, err, ErrNoJSON)
}

// ==========================
// Plan parsing
// ==========================

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan("```json\n" + planJSON + "\n```")
	require.NoError(t, err)

	require.Len(t, plan.MenuPlan, 1)
	day := plan.MenuPlan[0]
	assert.Equal(t, "2025-11-08", day.Date)
	assert.Equal(t, []models.RecipeReference{{RecipeID: "recipe_011", Name: "トースト"}}, day.Meals.Breakfast)
	assert.Len(t, day.Meals.Dinner, 2)
	assert.Equal(t, "和食", day.Notes)
	assert.Equal(t, "軽め", plan.Summary)
}

func TestParsePlan_Rejects(t *testing.T) {
	replies := map[string]string{
		"not json":      "{menu_plan: nope}",
		"schema":        `{"menu_plan":[{"meals":{"breakfast":[]}}]}`,
		"wrong id type": `{"menu_plan":[{"meals":{"breakfast":[{"recipe_id":1,"name":"a"}],"lunch":[{"recipe_id":"a","name":"a"}],"dinner":[{"recipe_id":"a","name":"a"}]}}]}`,
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan(reply)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidReply))
		})
	}

	_, err := ParsePlan("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestWarnings(t *testing.T) {
	plan, err := ParsePlan(planJSON)
	require.NoError(t, err)

	catalogue := []models.Recipe{
		{RecipeID: "recipe_011"}, {RecipeID: "recipe_003"}, {RecipeID: "recipe_005"},
	}

	warnings := Warnings(plan, catalogue, 3)
	assert.Equal(t, []string{
		"requested 3 days, got 1",
		"menu_plan[0].meals.dinner: unknown recipe_id recipe_009 (味噌汁)",
	}, warnings)

	catalogue = append(catalogue, models.Recipe{RecipeID: "recipe_009"})
	assert.Empty(t, Warnings(plan, catalogue, 1))
}
