// internal/handlers/agent/get-recipes/handler.go
package getrecipes

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
)

const TaskType = "get-recipes"

const errorInternal = "internal_error"

// RecipeLister is satisfied by *menu.Service.
type RecipeLister interface {
	Recipes(ctx context.Context, q *menu.RecipeQuery) ([]models.Recipe, error)
}

type Handler struct {
	config  *Config
	recipes RecipeLister
	logger  logger.Logger
}

func NewHandler(config *Config, recipes RecipeLister, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		recipes: recipes,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	started := time.Now()

	inv, err := invocation.Parse(event)
	if err != nil {
		result := h.failure(err)
		metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)
		return response.ForInvocation(invocation.Routing{}, result)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	result := h.Execute(ctx, inv.Parameters)
	metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)
	return response.ForInvocation(inv.Routing, result)
}

func (h *Handler) Execute(ctx context.Context, p invocation.Parameters) response.Result {
	output, err := h.execute(ctx, p)
	if err != nil {
		return h.failure(err)
	}
	return response.OK(output)
}

func (h *Handler) ExecuteJob(ctx context.Context, p invocation.Parameters) (interface{}, error) {
	output, err := h.execute(ctx, p)
	if err != nil {
		metrics.RecordFailure(TaskType, apperr.AsStandardError(err))
		return nil, err
	}
	return output, nil
}

func (h *Handler) execute(ctx context.Context, p invocation.Parameters) (*Output, error) {
	q, err := menu.ValidateGetRecipes(p)
	if err != nil {
		return nil, err
	}

	recipes, err := h.recipes.Recipes(ctx, q)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("recipes listed", map[string]interface{}{
		"category": q.Category,
		"count":    len(recipes),
	})
	return &Output{Recipes: recipes, Count: len(recipes)}, nil
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)

	errorCode := errorInternal
	if apperr.IsValidation(stdErr.Code) {
		errorCode = string(stdErr.Code)
		h.logger.Warn("get-recipes rejected", map[string]interface{}{"errorCode": errorCode, "field": stdErr.Field})
	} else {
		h.logger.Error("get-recipes failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}

	return response.New(apperr.HTTPStatus(stdErr.Code), ErrorOutput{
		Error:   errorCode,
		Message: stdErr.Message,
		Recipes: []models.Recipe{},
	})
}
