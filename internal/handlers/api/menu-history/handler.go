// internal/handlers/api/menu-history/handler.go
package menuhistory

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	awsx "kondate-planner/internal/common/aws"
	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/metrics"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
	"kondate-planner/internal/params"

	"github.com/aws/aws-lambda-go/events"
)

const TaskType = "menu-history"

const SavedMessage = "Menu history saved successfully"

// MenuService is satisfied by *menu.Service.
type MenuService interface {
	History(ctx context.Context, q *menu.HistoryQuery) ([]models.MenuHistory, error)
	SaveMenu(ctx context.Context, cmd *menu.MenuCommand) (*menu.SaveResult, error)
}

type Handler struct {
	menus     MenuService
	publisher awsx.EventPublisher
	logger    logger.Logger
}

// NewHandler accepts a nil publisher when menu events are disabled.
func NewHandler(menus MenuService, publisher awsx.EventPublisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = awsx.NoopPublisher{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		menus:     menus,
		publisher: awsx.NewLoggingPublisher(publisher, l),
		logger:    l,
	}
}

// HandleHTTP serves GET and POST /history.
func (h *Handler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	started := time.Now()

	var result response.Result
	switch method := strings.ToUpper(invocation.Method(req)); method {
	case http.MethodGet:
		result = h.list(ctx, req)
	case http.MethodPost:
		result = h.save(ctx, req)
	default:
		result = h.failure(apperr.NewMethodNotAllowedError(method))
	}
	metrics.ObserveInvocation(TaskType, strconv.Itoa(result.StatusCode), started)

	resp, err := response.HTTP(result)
	if err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
		return response.InternalErrorHTTP(), nil
	}
	return resp, nil
}

func (h *Handler) list(ctx context.Context, req events.APIGatewayV2HTTPRequest) response.Result {
	p, err := invocation.FromHTTPRequest(req)
	if err != nil {
		return h.failure(err)
	}
	q, err := menu.ValidateGetHistory(p)
	if err != nil {
		return h.failure(err)
	}

	records, err := h.menus.History(ctx, q)
	if err != nil {
		return h.failure(err)
	}
	if records == nil {
		records = []models.MenuHistory{}
	}
	return response.OK(ListOutput{History: records, Count: len(records)})
}

func (h *Handler) save(ctx context.Context, req events.APIGatewayV2HTTPRequest) response.Result {
	p, err := invocation.FromHTTPRequest(req)
	if err != nil {
		return h.failure(err)
	}
	cmd, err := menu.ValidateSaveMenu(p)
	if err != nil {
		return h.failure(err)
	}
	if cmd.MealsEncoding == params.EncodingQuasiJSON {
		metrics.ParameterRepairs.WithLabelValues("meals").Inc()
	}

	result, err := h.menus.SaveMenu(ctx, cmd)
	if err != nil {
		return h.failure(err)
	}

	_ = h.publisher.Publish(ctx, awsx.EventMenuSaved, awsx.NewMenuSavedEvent(result.Record, result.Overwritten))
	h.logger.Info("menu history saved", map[string]interface{}{
		"date":        result.Record.Date,
		"overwritten": result.Overwritten,
	})

	out := SaveOutput{Message: SavedMessage, Overwritten: result.Overwritten, History: result.Record}
	if result.Overwritten {
		return response.OK(out)
	}
	return response.Created(out)
}

func (h *Handler) failure(err error) response.Result {
	stdErr := apperr.AsStandardError(err)
	metrics.RecordFailure(TaskType, stdErr)
	status := apperr.HTTPStatus(stdErr.Code)

	switch {
	case apperr.IsValidation(stdErr.Code):
		h.logger.Warn("menu-history rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"field":     stdErr.Field,
		})
		return response.New(status, ErrorOutput{Error: stdErr.Message, Field: stdErr.Field})

	case stdErr.Code == apperr.ErrCodeConflict:
		existing, _ := menu.ExistingMenu(stdErr)
		return response.New(status, ErrorOutput{Error: stdErr.Message, ExistingMenu: existing})

	case stdErr.Code == apperr.ErrCodeMethodNotAllowed:
		h.logger.Info("method not allowed", map[string]interface{}{"details": stdErr.Details})
		return response.New(status, ErrorOutput{Error: stdErr.Message})

	default:
		h.logger.Error("menu-history failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return response.New(status, ErrorOutput{Error: stdErr.Message})
	}
}
