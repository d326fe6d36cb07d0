// internal/handlers/api/get-recipe/handler.go
package getrecipe

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/models"

	"github.com/aws/aws-lambda-go/events"
)

const TaskType = "get-recipe"

const (
	pathParameter = "recipe_id"

	missingIDMessage = "'recipe_id' not found in path"
	notFoundMessage  = "Recipe not found"
)

// RecipeGetter is satisfied by *store.RecipeStore. Get returns nil, nil for
// an unknown id.
type RecipeGetter interface {
	Get(ctx context.Context, recipeID string) (*models.Recipe, error)
}

type ErrorOutput struct {
	Error string `json:"error"`
}

type Handler struct {
	recipes RecipeGetter
	logger  logger.Logger
}

func NewHandler(recipes RecipeGetter, log logger.Logger) *Handler {
	return &Handler{
		recipes: recipes,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// HandleHTTP serves GET /recipes/{recipe_id}.
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
	recipeID := strings.TrimSpace(req.PathParameters[pathParameter])
	if recipeID == "" {
		metrics.RecordFailure(TaskType, apperr.NewMissingFieldError(pathParameter))
		return response.New(http.StatusBadRequest, ErrorOutput{Error: missingIDMessage})
	}

	recipe, err := h.recipes.Get(ctx, recipeID)
	if err != nil {
		stdErr := apperr.NewCollaboratorFailureError("dynamodb", err)
		metrics.RecordFailure(TaskType, stdErr)
		h.logger.Error("get-recipe failed", map[string]interface{}{
			"recipeId": recipeID,
			"details":  stdErr.Details,
		})
		return response.New(http.StatusInternalServerError, ErrorOutput{Error: stdErr.Message})
	}
	if recipe == nil {
		h.logger.Info("recipe not found", map[string]interface{}{"recipeId": recipeID})
		return response.New(http.StatusNotFound, ErrorOutput{Error: notFoundMessage})
	}
	return response.OK(recipe)
}
