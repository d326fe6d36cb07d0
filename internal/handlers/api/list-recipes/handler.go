// internal/handlers/api/list-recipes/handler.go
package listrecipes

import (
	"context"
	"strconv"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"

	"github.com/aws/aws-lambda-go/events"
)

const TaskType = "list-recipes"

// RecipeLister is satisfied by *menu.Service.
type RecipeLister interface {
	Recipes(ctx context.Context, q *menu.RecipeQuery) ([]models.Recipe, error)
}

type Output struct {
	Recipes []models.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

type ErrorOutput struct {
	Error string `json:"error"`
}

type Handler struct {
	recipes RecipeLister
	logger  logger.Logger
}

func NewHandler(recipes RecipeLister, log logger.Logger) *Handler {
	return &Handler{
		recipes: recipes,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// HandleHTTP serves GET /recipes?category=.
func (h *Handler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	started := time.Now()
	result := h.execute(ctx, req)
	metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)

	resp, err := response.HTTP(result)
	if err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
		return response.InternalErrorHTTP(), nil
	}
	return resp, nil
}

func (h *Handler) execute(ctx context.Context, req events.APIGatewayV2HTTPRequest) response.Result {
	p, err := invocation.FromHTTPRequest(req)
	if err != nil {
		return h.failure(err)
	}
	q, err := menu.ValidateGetRecipes(p)
	if err != nil {
		return h.failure(err)
	}

	recipes, err := h.recipes.Recipes(ctx, q)
	if err != nil {
		return h.failure(err)
	}
	return response.OK(Output{Recipes: recipes, Count: len(recipes)})
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)
	if !apperr.IsValidation(stdErr.Code) {
		h.logger.Error("list-recipes failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	return response.New(apperr.HTTPStatus(stdErr.Code), ErrorOutput{Error: stdErr.Message})
}
