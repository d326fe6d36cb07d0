// internal/handlers/api/create-recipe/handler.go
package createrecipe

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/common/validation"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/models"
	"kondate-planner/internal/params"
	"kondate-planner/internal/store"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const TaskType = "create-recipe"

const SuccessMessage = "Recipe created successfully"

// RecipeCreator is satisfied by *store.RecipeStore. Create fails with
// store.ErrAlreadyExists when the id is taken.
type RecipeCreator interface {
	Create(ctx context.Context, recipe models.Recipe) error
}

// CacheInvalidator drops any cached recipe listing; *cache.RecipeCache
// satisfies it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Handler struct {
	recipes RecipeCreator
	cache   CacheInvalidator
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewHandler takes a nil cache when no recipe cache is configured.
func NewHandler(recipes RecipeCreator, cache CacheInvalidator, log logger.Logger) *Handler {
	return &Handler{
		recipes: recipes,
		cache:   cache,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:     time.Now,
		newID:   NewRecipeID,
	}
}

// NewRecipeID returns recipe_ followed by eight hex digits of a random UUID.
func NewRecipeID() string {
	return "recipe_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// HandleHTTP serves POST /recipes.
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
	body, err := invocation.FromHTTPRequest(req)
	if err != nil {
		return h.rejected(apperr.AsStandardError(err), nil)
	}

	result, err := validation.CreateRecipe.Validate(map[string]interface{}(body))
	if err != nil {
		return h.failed(apperr.NewInternalError(err))
	}
	if !result.Valid {
		first := result.First()
		stdErr := apperr.NewInvalidShapeError(first.Field, first.Field+": "+first.Message)
		if first.Code == "required" {
			stdErr = apperr.NewMissingFieldError(first.Field)
		}
		return h.rejected(stdErr, result.GetErrorMessages())
	}

	recipe := h.buildRecipe(body)
	if err := h.recipes.Create(ctx, recipe); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			stdErr := apperr.NewConflictError("Recipe", recipe.RecipeID, nil)
			metrics.RecordFailure(TaskType, stdErr)
			h.logger.Info("recipe id already taken", map[string]interface{}{"recipeId": recipe.RecipeID})
			return response.New(http.StatusConflict, ErrorOutput{Error: stdErr.Message, Field: "recipe_id"})
		}
		return h.failed(apperr.NewCollaboratorFailureError("dynamodb", err))
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Warn("failed to invalidate recipe cache", map[string]interface{}{"error": err.Error()})
		}
	}

	h.logger.Info("recipe created", map[string]interface{}{
		"recipeId": recipe.RecipeID,
		"category": recipe.Category,
	})
	return response.Created(Output{Message: SuccessMessage, Recipe: recipe})
}

// buildRecipe applies defaults to a schema-valid body.
func (h *Handler) buildRecipe(body invocation.Parameters) models.Recipe {
	stamp := h.now().UTC().Format(time.RFC3339)
	recipe := models.Recipe{
		RecipeID:     strings.TrimSpace(params.String(body["recipe_id"])),
		Name:         strings.TrimSpace(params.String(body["name"])),
		Category:     strings.TrimSpace(params.String(body["category"])),
		CookingTime:  models.DefaultCookingTime,
		Ingredients:  stringList(body["ingredients"]),
		Instructions: params.String(body["instructions"]),
		RecipeURL:    strings.TrimSpace(params.String(body["recipe_url"])),
		Tags:         stringList(body["tags"]),
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
	if recipe.RecipeID == "" {
		recipe.RecipeID = h.newID()
	}
	if recipe.Category == "" {
		recipe.Category = models.DefaultCategory
	}
	if minutes, err := params.CoerceInt(body["cooking_time"], "cooking_time", params.Default(models.DefaultCookingTime)); err == nil {
		recipe.CookingTime = minutes
	}
	return recipe
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) rejected(stdErr *apperr.StandardError, details []string) response.Result {
	metrics.RecordFailure(TaskType, stdErr)
	h.logger.Warn("create-recipe rejected", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"field":     stdErr.Field,
	})
	return response.New(http.StatusBadRequest, ErrorOutput{
		Error:   stdErr.Message,
		Field:   stdErr.Field,
		Details: details,
	})
}

func (h *Handler) failed(stdErr *apperr.StandardError) response.Result {
	metrics.RecordFailure(TaskType, stdErr)
	h.logger.Error("create-recipe failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	return response.New(http.StatusInternalServerError, ErrorOutput{Error: stdErr.Message})
}
