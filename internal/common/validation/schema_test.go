package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

// ==========================
// Menu plan
// ==========================

func TestMenuPlan_Valid(t *testing.T) {
	doc := decode(t, `{
		"menu_plan": [{
			"date": "2025-11-08",
			"meals": {
				"breakfast": [{"recipe_id": "recipe_011", "name": "トースト"}],
				"lunch": [{"recipe_id": "recipe_003", "name": "ハンバーグ"}],
				"dinner": [{"recipe_id": "recipe_005", "name": "鮭の塩焼き"}, {"recipe_id": "recipe_009", "name": "味噌汁"}]
			},
			"notes": "和食中心"
		}],
		"summary": "バランス重視"
	}`)

	result, err := MenuPlan.Validate(doc)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.String())
	assert.Nil(t, result.First())
}

func TestMenuPlan_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{name: "missing plan", doc: `{"summary": "x"}`, field: "menu_plan"},
		{name: "empty plan", doc: `{"menu_plan": []}`, field: "menu_plan"},
		{
			name:  "missing slot",
			doc:   `{"menu_plan": [{"meals": {"breakfast": [{"recipe_id": "a", "name": "b"}], "lunch": [{"recipe_id": "a", "name": "b"}]}}]}`,
			field: "menu_plan.0.meals.dinner",
		},
		{
			name:  "empty slot",
			doc:   `{"menu_plan": [{"meals": {"breakfast": [], "lunch": [{"recipe_id": "a", "name": "b"}], "dinner": [{"recipe_id": "a", "name": "b"}]}}]}`,
			field: "menu_plan.0.meals.breakfast",
		},
		{
			name:  "reference without name",
			doc:   `{"menu_plan": [{"meals": {"breakfast": [{"recipe_id": "a"}], "lunch": [{"recipe_id": "a", "name": "b"}], "dinner": [{"recipe_id": "a", "name": "b"}]}}]}`,
			field: "menu_plan.0.meals.breakfast.0.name",
		},
		{
			name:  "bad date",
			doc:   `{"menu_plan": [{"date": "11/08", "meals": {"breakfast": [{"recipe_id": "a", "name": "b"}], "lunch": [{"recipe_id": "a", "name": "b"}], "dinner": [{"recipe_id": "a", "name": "b"}]}}]}`,
			field: "menu_plan.0.date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MenuPlan.Validate(decode(t, tt.doc))
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.NotEmpty(t, result.GetErrorsForField(tt.field), result.String())
		})
	}
}

// ==========================
// Create recipe
// ==========================

func TestCreateRecipe(t *testing.T) {
	result, err := CreateRecipe.Validate(decode(t, `{"name": "親子丼", "cooking_time": 20, "tags": ["丼"]}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = CreateRecipe.Validate(decode(t, `{"category": "主菜"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotNil(t, result.First())
	assert.Equal(t, "name", result.First().Field)
	assert.Equal(t, "required", result.First().Code)

	result, err = CreateRecipe.Validate(decode(t, `{"name": "  "}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = CreateRecipe.Validate(decode(t, `{"name": "a", "cooking_time": "30"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "cooking_time", result.First().Field)
}

func TestCompile_RejectsBrokenSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
}
