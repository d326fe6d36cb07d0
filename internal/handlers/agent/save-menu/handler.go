// internal/handlers/agent/save-menu/handler.go
package savemenu

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	awsx "kondate-planner/internal/common/aws"
	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/params"
)

const TaskType = "save-menu"

const (
	SuccessMessage = "Menu saved successfully"

	errorDuplicateDate = "duplicate_date"
	errorInternal      = "internal_error"
)

// MenuSaver is satisfied by *menu.Service.
type MenuSaver interface {
	SaveMenu(ctx context.Context, cmd *menu.MenuCommand) (*menu.SaveResult, error)
}

type Handler struct {
	config    *Config
	menus     MenuSaver
	publisher awsx.EventPublisher
	logger    logger.Logger
}

func NewHandler(config *Config, menus MenuSaver, publisher awsx.EventPublisher, log logger.Logger) *Handler {
	if publisher == nil || !config.PublishEvents {
		publisher = awsx.NoopPublisher{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		menus:     menus,
		publisher: awsx.NewLoggingPublisher(publisher, l),
		logger:    l,
	}
}

// Handle serves a raw agent or direct Lambda event.
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

// Execute validates and saves, mapping every outcome to a status and body.
func (h *Handler) Execute(ctx context.Context, p invocation.Parameters) response.Result {
	output, err := h.execute(ctx, p)
	if err != nil {
		return h.failure(err)
	}
	return response.OK(output)
}

// ExecuteJob is the Zeebe entry point; errors go to the job error handler.
func (h *Handler) ExecuteJob(ctx context.Context, p invocation.Parameters) (interface{}, error) {
	output, err := h.execute(ctx, p)
	if err != nil {
		metrics.RecordFailure(TaskType, apperr.AsStandardError(err))
		return nil, err
	}
	return output, nil
}

func (h *Handler) execute(ctx context.Context, p invocation.Parameters) (*Output, error) {
	cmd, err := menu.ValidateSaveMenu(p)
	if err != nil {
		return nil, err
	}
	if cmd.MealsEncoding == params.EncodingQuasiJSON {
		metrics.ParameterRepairs.WithLabelValues("meals").Inc()
		h.logger.Info("meals repaired from quasi-JSON", map[string]interface{}{"date": cmd.Date})
	}

	result, err := h.menus.SaveMenu(ctx, cmd)
	if err != nil {
		return nil, err
	}

	_ = h.publisher.Publish(ctx, awsx.EventMenuSaved, awsx.NewMenuSavedEvent(result.Record, result.Overwritten))

	h.logger.Info("menu saved", map[string]interface{}{
		"date":        result.Record.Date,
		"recipes":     len(result.Record.Recipes),
		"overwritten": result.Overwritten,
	})

	return &Output{
		Success:     true,
		Date:        result.Record.Date,
		Message:     SuccessMessage,
		Overwritten: result.Overwritten,
		Recipes:     result.Record.Recipes,
	}, nil
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)
	status := apperr.HTTPStatus(stdErr.Code)

	switch {
	case apperr.IsValidation(stdErr.Code):
		h.logger.Warn("save-menu rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"field":     stdErr.Field,
			"details":   stdErr.Details,
		})
		return response.New(status, ErrorOutput{
			Error:   string(stdErr.Code),
			Field:   stdErr.Field,
			Message: stdErr.Message,
		})

	case stdErr.Code == apperr.ErrCodeConflict:
		existing, _ := menu.ExistingMenu(stdErr)
		h.logger.Info("menu already exists", map[string]interface{}{"message": stdErr.Message})
		return response.New(http.StatusConflict, ErrorOutput{
			Error:        errorDuplicateDate,
			Message:      stdErr.Message + "; set overwrite to true to replace it",
			ExistingMenu: existing,
		})

	default:
		h.logger.Error("save-menu failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"metadata":  stdErr.Metadata,
		})
		return response.New(http.StatusInternalServerError, ErrorOutput{
			Error:   errorInternal,
			Message: stdErr.Message,
		})
	}
}
