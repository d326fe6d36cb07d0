// internal/handlers/agent/get-history/handler.go
package gethistory

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

const TaskType = "get-history"

const errorInternal = "internal_error"

// HistoryReader is satisfied by *menu.Service.
type HistoryReader interface {
	History(ctx context.Context, q *menu.HistoryQuery) ([]models.MenuHistory, error)
}

type Handler struct {
	config  *Config
	history HistoryReader
	logger  logger.Logger
}

func NewHandler(config *Config, history HistoryReader, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		history: history,
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
	q, err := menu.ValidateGetHistory(p)
	if err != nil {
		return nil, err
	}

	records, err := h.history.History(ctx, q)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.MenuHistory{}
	}

	h.logger.Info("history fetched", map[string]interface{}{
		"days":  q.Days,
		"count": len(records),
	})

	return &Output{History: records, Count: len(records), Days: q.Days}, nil
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)
	status := apperr.HTTPStatus(stdErr.Code)

	if apperr.IsValidation(stdErr.Code) {
		h.logger.Warn("get-history rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"field":     stdErr.Field,
			"details":   stdErr.Details,
		})
		return response.New(status, ErrorOutput{
			Error:   string(stdErr.Code),
			Field:   stdErr.Field,
			Message: stdErr.Message,
			History: []models.MenuHistory{},
		})
	}

	h.logger.Error("get-history failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	return response.New(status, ErrorOutput{
		Error:   errorInternal,
		Message: stdErr.Message,
		History: []models.MenuHistory{},
	})
}
