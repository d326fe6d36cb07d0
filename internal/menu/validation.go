// Package menu validates menu commands and runs them against the stores.
package menu

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/models"
	"kondate-planner/internal/params"
)

const (
	DateLayout = "2006-01-02"

	MinHistoryDays     = 1
	MaxHistoryDays     = 365
	DefaultHistoryDays = 30
)

var datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

// MenuCommand is a validated request to store one day's menu.
type MenuCommand struct {
	Date      string
	Meals     models.Meals
	Notes     string
	Overwrite bool
	// Recipes is every recipe id in serving order, duplicates kept.
	Recipes []string
	// MealsEncoding records whether meals arrived as JSON or quasi-JSON text.
	MealsEncoding params.Encoding
}

type HistoryQuery struct {
	Days int
}

type RecipeQuery struct {
	// Category filters by exact match; empty means all recipes.
	Category string
}

// ValidateSaveMenu checks parameters in a fixed order and stops at the first
// failure: date present, meals present, date format, meals shape, then each
// known slot in serving order.
func ValidateSaveMenu(p invocation.Parameters) (*MenuCommand, error) {
	rawDate := p["date"]
	if isBlank(rawDate) {
		return nil, apperr.NewMissingFieldError("date")
	}

	if isBlank(p["meals"]) {
		return nil, apperr.NewMissingFieldError("meals")
	}
	meals, encoding, err := params.NormalizeWithEncoding(p["meals"], "meals")
	if err != nil {
		return nil, err
	}
	if isEmptyValue(meals) {
		return nil, apperr.NewMissingFieldError("meals")
	}

	date, err := ValidateDate(rawDate, "date")
	if err != nil {
		return nil, err
	}

	slots, ok := meals.(map[string]interface{})
	if !ok {
		return nil, apperr.NewInvalidShapeError("meals", "meals must be an object keyed by breakfast, lunch or dinner")
	}
	if err := requireSlotArrays(slots); err != nil {
		return nil, err
	}

	cmd := &MenuCommand{
		Date:          date,
		Notes:         strings.TrimSpace(params.String(p["notes"])),
		Overwrite:     params.Bool(p["overwrite"]),
		MealsEncoding: encoding,
	}
	for _, slot := range models.MealSlots {
		raw, present := slots[string(slot)]
		if !present {
			continue
		}
		refs, err := validateSlot(slot, raw)
		if err != nil {
			return nil, err
		}
		cmd.Meals.SetSlot(slot, refs)
	}
	cmd.Recipes = cmd.Meals.RecipeIDs()
	return cmd, nil
}

// requireSlotArrays checks that every key under meals holds an array. Keys
// other than breakfast, lunch and dinner are tolerated but never stored.
func requireSlotArrays(slots map[string]interface{}) error {
	keys := make([]string, 0, len(slots))
	for key := range slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := slots[key].([]interface{}); !ok {
			return apperr.NewInvalidShapeError("meals."+key, fmt.Sprintf("meals.%s must be an array", key))
		}
	}
	return nil
}

func validateSlot(slot models.MealSlot, raw interface{}) ([]models.RecipeReference, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, apperr.NewInvalidShapeError("meals."+string(slot), fmt.Sprintf("meals.%s must be an array", slot))
	}
	if len(items) == 0 {
		return nil, apperr.NewEmptyMealSlotError(string(slot))
	}

	refs := make([]models.RecipeReference, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, apperr.NewIncompleteRecipeReferenceError(string(slot), i)
		}
		id, idOK := referenceField(obj, "recipe_id")
		name, nameOK := referenceField(obj, "name")
		if !idOK || !nameOK {
			return nil, apperr.NewIncompleteRecipeReferenceError(string(slot), i)
		}
		refs = append(refs, models.RecipeReference{RecipeID: id, Name: name})
	}
	return refs, nil
}

// referenceField accepts text or a number (quasi-JSON turns recipe_id=12
// into a number). Blank text, null and booleans count as missing.
func referenceField(obj map[string]interface{}, key string) (string, bool) {
	switch v := obj[key].(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return params.String(v), true
	default:
		return "", false
	}
}

// ValidateDate accepts only a zero-padded YYYY-MM-DD string naming a real
// calendar day.
func ValidateDate(value interface{}, field string) (string, error) {
	s, ok := value.(string)
	if !ok || !datePattern.MatchString(s) {
		return "", apperr.NewInvalidDateError(field, value)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", apperr.NewInvalidDateError(field, value)
	}
	return s, nil
}

func ValidateGetHistory(p invocation.Parameters) (*HistoryQuery, error) {
	days, err := params.CoerceInt(p["days"], "days",
		params.Min(MinHistoryDays), params.Max(MaxHistoryDays), params.Default(DefaultHistoryDays))
	if err != nil {
		return nil, err
	}
	return &HistoryQuery{Days: days}, nil
}

func ValidateGetRecipes(p invocation.Parameters) (*RecipeQuery, error) {
	return &RecipeQuery{Category: params.String(p["category"])}, nil
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]interface{}:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	default:
		return false
	}
}
