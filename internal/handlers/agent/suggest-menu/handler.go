// internal/handlers/agent/suggest-menu/handler.go
package suggestmenu

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
	"kondate-planner/internal/suggest"

	"github.com/aws/aws-lambda-go/events"
)

const TaskType = "suggest-menu"

const (
	errorNotFound = "not_found"
	errorInternal = "internal_error"

	noRecipesMessage = "No recipes are registered; add recipes before asking for a menu"
)

// MenuSuggester is satisfied by *suggest.Suggester.
type MenuSuggester interface {
	Suggest(ctx context.Context, req *suggest.Request) (*suggest.Suggestion, error)
}

type Handler struct {
	config    *Config
	suggester MenuSuggester
	logger    logger.Logger
}

func NewHandler(config *Config, suggester MenuSuggester, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		suggester: suggester,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType, "modelId": config.ModelID}),
	}
}

// Handle serves an agent or direct Lambda event.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	started := time.Now()

	inv, err := invocation.Parse(event)
	if err != nil {
		result := h.failure(err)
		metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)
		return response.ForInvocation(invocation.Routing{}, result)
	}

	result := h.run(ctx, inv.Parameters)
	metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)
	return response.ForInvocation(inv.Routing, result)
}

// HandleHTTP serves POST /suggest-menu on the HTTP API.
func (h *Handler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	started := time.Now()

	var result response.Result
	p, err := invocation.FromHTTPRequest(req)
	if err != nil {
		result = h.failure(err)
	} else {
		result = h.run(ctx, p)
	}
	metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)

	resp, err := response.HTTP(result)
	if err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
		return response.InternalErrorHTTP(), nil
	}
	return resp, nil
}

func (h *Handler) run(ctx context.Context, p invocation.Parameters) response.Result {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}
	return h.Execute(ctx, p)
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

func (h *Handler) execute(ctx context.Context, p invocation.Parameters) (*suggest.Suggestion, error) {
	req, err := suggest.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	h.logger.Info("requesting menu suggestion", map[string]interface{}{"days": req.Days})

	suggestion, err := h.suggester.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(suggestion.Warnings) > 0 {
		h.logger.Warn("suggestion references unknown recipes", map[string]interface{}{
			"warnings": suggestion.Warnings,
		})
	}
	h.logger.Info("menu suggested", map[string]interface{}{
		"days":        suggestion.Days,
		"plannedDays": len(suggestion.MenuPlan),
	})
	return suggestion, nil
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)
	status := apperr.HTTPStatus(stdErr.Code)

	switch {
	case apperr.IsValidation(stdErr.Code):
		h.logger.Warn("suggest-menu rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"field":     stdErr.Field,
			"details":   stdErr.Details,
		})
		return response.New(status, ErrorOutput{
			Error:   string(stdErr.Code),
			Field:   stdErr.Field,
			Message: stdErr.Message,
		})

	case stdErr.Code == apperr.ErrCodeNotFound:
		h.logger.Info("no recipes to suggest from", nil)
		return response.New(status, ErrorOutput{Error: errorNotFound, Message: noRecipesMessage})

	default:
		// The raw reply is kept in the log only; it can be long.
		h.logger.Error("suggest-menu failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"metadata":  stdErr.Metadata,
		})
		return response.New(status, ErrorOutput{Error: errorInternal, Message: stdErr.Message})
	}
}
