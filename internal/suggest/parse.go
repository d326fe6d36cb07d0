package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"kondate-planner/internal/common/validation"
	"kondate-planner/internal/models"
)

var (
	ErrNoJSON       = errors.New("NO_JSON_IN_REPLY")
	ErrInvalidReply = errors.New("INVALID_MODEL_REPLY")
)

type DayPlan struct {
	Day   int          `json:"day,omitempty"`
	Date  string       `json:"date,omitempty"`
	Meals models.Meals `json:"meals"`
	Notes string       `json:"notes,omitempty"`
}

type Plan struct {
	MenuPlan []DayPlan `json:"menu_plan"`
	Summary  string    `json:"summary,omitempty"`
}

const fence = "```"

// ExtractJSON pulls the JSON document out of a model reply: the body of a
// ```json fence, else of the first bare fence, else the outermost braces.
func ExtractJSON(reply string) (string, error) {
	if i := strings.Index(reply, fence+"json"); i >= 0 {
		return fenced(reply[i+len(fence)+len("json"):]), nil
	}
	if i := strings.Index(reply, fence); i >= 0 {
		body := fenced(reply[i+len(fence):])
		// A fence tagged with some other language: drop the tag line.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.HasPrefix(body, "{") && !strings.HasPrefix(body, "[") {
			body = strings.TrimSpace(body[nl+1:])
		}
		return body, nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return reply[start : end+1], nil
}

func fenced(rest string) string {
	if j := strings.Index(rest, fence); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// ParsePlan extracts, decodes and schema-checks a model reply.
func ParsePlan(reply string) (*Plan, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	result, err := validation.MenuPlan.Validate(doc)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReply, result.String())
	}

	var plan Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	return &plan, nil
}

// Warnings lists recipe ids the plan uses that are not in the catalogue and
// notes a day count that differs from the one requested.
func Warnings(plan *Plan, catalogue []models.Recipe, days int) []string {
	known := make(map[string]bool, len(catalogue))
	for _, r := range catalogue {
		known[r.RecipeID] = true
	}

	var warnings []string
	if len(plan.MenuPlan) != days {
		warnings = append(warnings, fmt.Sprintf("requested %d days, got %d", days, len(plan.MenuPlan)))
	}
	for i, day := range plan.MenuPlan {
		for _, slot := range models.MealSlots {
			for _, ref := range day.Meals.Slot(slot) {
				if !known[ref.RecipeID] {
					warnings = append(warnings, fmt.Sprintf("menu_plan[%d].meals.%s: unknown recipe_id %s (%s)", i, slot, ref.RecipeID, ref.Name))
				}
			}
		}
	}
	return warnings
}
