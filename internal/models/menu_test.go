package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeals_RecipeIDsKeepsServingOrderAndDuplicates(t *testing.T) {
	meals := Meals{
		Dinner:    []RecipeReference{{RecipeID: "r3", Name: "焼き魚"}, {RecipeID: "r1", Name: "ご飯"}},
		Breakfast: []RecipeReference{{RecipeID: "r1", Name: "ご飯"}, {RecipeID: "r2", Name: "味噌汁"}},
		Lunch:     []RecipeReference{{RecipeID: "r4", Name: "カレー"}},
	}

	assert.Equal(t, []string{"r1", "r2", "r4", "r3", "r1"}, meals.RecipeIDs())
}

func TestMeals_EmptyHasNoIDs(t *testing.T) {
	assert.Equal(t, []string{}, Meals{}.RecipeIDs())
}

func TestMeals_SetSlot(t *testing.T) {
	var meals Meals
	meals.SetSlot(Lunch, []RecipeReference{{RecipeID: "r1", Name: "うどん"}})

	assert.Nil(t, meals.Slot(Breakfast))
	assert.Len(t, meals.Slot(Lunch), 1)
	assert.Nil(t, meals.Slot(MealSlot("snack")))
}
