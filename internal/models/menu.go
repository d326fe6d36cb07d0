// internal/models/menu.go
package models

// MealSlot is one of the three daily meals.
type MealSlot string

const (
	Breakfast MealSlot = "breakfast"
	Lunch     MealSlot = "lunch"
	Dinner    MealSlot = "dinner"
)

// MealSlots lists the slots in serving order.
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner}

// RecipeReference names a recipe served in a slot.
type RecipeReference struct {
	RecipeID string `json:"recipe_id" dynamodbav:"recipe_id"`
	Name     string `json:"name" dynamodbav:"name"`
}

// Meals holds a day's slots. An absent slot is nil.
type Meals struct {
	Breakfast []RecipeReference `json:"breakfast,omitempty" dynamodbav:"breakfast,omitempty"`
	Lunch     []RecipeReference `json:"lunch,omitempty" dynamodbav:"lunch,omitempty"`
	Dinner    []RecipeReference `json:"dinner,omitempty" dynamodbav:"dinner,omitempty"`
}

func (m Meals) Slot(slot MealSlot) []RecipeReference {
	switch slot {
	case Breakfast:
		return m.Breakfast
	case Lunch:
		return m.Lunch
	case Dinner:
		return m.Dinner
	default:
		return nil
	}
}

func (m *Meals) SetSlot(slot MealSlot, refs []RecipeReference) {
	switch slot {
	case Breakfast:
		m.Breakfast = refs
	case Lunch:
		m.Lunch = refs
	case Dinner:
		m.Dinner = refs
	}
}

// RecipeIDs concatenates recipe ids across slots in serving order, keeping
// duplicates.
func (m Meals) RecipeIDs() []string {
	ids := make([]string, 0)
	for _, slot := range MealSlots {
		for _, ref := range m.Slot(slot) {
			ids = append(ids, ref.RecipeID)
		}
	}
	return ids
}

// MenuHistory is one item of the history table, keyed by date (YYYY-MM-DD).
type MenuHistory struct {
	Date      string   `json:"date" dynamodbav:"date"`
	Meals     Meals    `json:"meals" dynamodbav:"meals"`
	Recipes   []string `json:"recipes" dynamodbav:"recipes"`
	Notes     string   `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	CreatedAt string   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt string   `json:"updated_at" dynamodbav:"updated_at"`
}
