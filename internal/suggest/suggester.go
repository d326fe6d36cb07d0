// Package suggest asks the language model for a multi-day menu built from
// the recipe catalogue.
package suggest

import (
	"context"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
	"kondate-planner/internal/params"
)

const (
	DefaultDays = 3
	// HistoryWindow is how far back recently served recipes are looked up.
	HistoryWindow = 30

	collaboratorBedrock = "bedrock"
)

// AllowedDays are the plan lengths a caller may ask for.
var AllowedDays = []int{3, 7}

type Request struct {
	Days int
}

// MenuReader is the part of *menu.Service the suggester reads from.
type MenuReader interface {
	Recipes(ctx context.Context, q *menu.RecipeQuery) ([]models.Recipe, error)
	History(ctx context.Context, q *menu.HistoryQuery) ([]models.MenuHistory, error)
	Today() time.Time
}

// Model is satisfied by the Bedrock client.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Suggestion struct {
	Days     int       `json:"days"`
	MenuPlan []DayPlan `json:"menu_plan"`
	Summary  string    `json:"summary,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

type Suggester struct {
	menus MenuReader
	model Model
}

func NewSuggester(menus MenuReader, model Model) *Suggester {
	return &Suggester{menus: menus, model: model}
}

func ValidateRequest(p invocation.Parameters) (*Request, error) {
	days, err := params.CoerceInt(p["days"], "days", params.Default(DefaultDays))
	if err != nil {
		return nil, err
	}
	for _, allowed := range AllowedDays {
		if days == allowed {
			return &Request{Days: days}, nil
		}
	}
	return nil, apperr.NewInvalidChoiceError("days", days, AllowedDays)
}

// Suggest builds the prompt from the catalogue and recent history, calls the
// model and validates its reply. An empty catalogue is NOT_FOUND; model
// failures and unusable replies are COLLABORATOR_FAILURE.
func (s *Suggester) Suggest(ctx context.Context, req *Request) (*Suggestion, error) {
	recipes, err := s.menus.Recipes(ctx, &menu.RecipeQuery{})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, apperr.NewNotFoundError("recipes", "no recipes are registered")
	}

	history, err := s.menus.History(ctx, &menu.HistoryQuery{Days: HistoryWindow})
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(NewPromptData(s.menus.Today(), req.Days, recipes, RecentRecipes(history, MaxRecentRecipes)))
	if err != nil {
		return nil, apperr.NewInternalError(err)
	}

	reply, err := s.model.Complete(ctx, prompt)
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorBedrock, err)
	}

	plan, err := ParsePlan(reply)
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorBedrock, err).
			WithMetadata("reply", reply)
	}

	return &Suggestion{
		Days:     req.Days,
		MenuPlan: plan.MenuPlan,
		Summary:  plan.Summary,
		Warnings: Warnings(plan, recipes, req.Days),
	}, nil
}
