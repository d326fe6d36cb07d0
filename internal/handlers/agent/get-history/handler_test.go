// internal/handlers/agent/get-history/handler_test.go
package gethistory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/response"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
	"kondate-planner/internal/store"
	"kondate-planner/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	recipesTable = "kondate-recipes"
	historyTable = "kondate-menu-history"
)

func createTestHandler(t *testing.T) (*Handler, *storetest.FakeDynamo) {
	t.Helper()
	fake := storetest.NewFakeDynamo(map[string]string{recipesTable: "recipe_id", historyTable: "date"})
	svc := menu.NewService(
		store.NewHistoryStore(fake, historyTable),
		store.NewRecipeStore(fake, recipesTable),
		menu.WithClock(func() time.Time { return time.Date(2025, 11, 8, 9, 0, 0, 0, time.UTC) }),
	)
	return NewHandler(&Config{Timeout: 5 * time.Second}, svc, logger.NewTestLogger(t)), fake
}

func seedHistory(fake *storetest.FakeDynamo, dates ...string) {
	for _, d := range dates {
		fake.Seed(historyTable, models.MenuHistory{
			Date:    d,
			Meals:   models.Meals{Dinner: []models.RecipeReference{{RecipeID: "recipe_005", Name: "鮭の塩焼き"}}},
			Recipes: []string{"recipe_005"},
		})
	}
}

func decodeBody(t *testing.T, result response.Result) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(result.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_DefaultWindow(t *testing.T) {
	h, fake := createTestHandler(t)
	seedHistory(fake, "2025-11-01", "2025-11-08", "2025-10-10", "2025-10-09", "2025-11-09")

	result := h.Execute(context.Background(), invocation.Parameters{})
	require.Equal(t, http.StatusOK, result.StatusCode)

	out, ok := result.Body.(*Output)
	require.True(t, ok)
	assert.Equal(t, 30, out.Days)
	assert.Equal(t, 3, out.Count)

	dates := make([]string, 0, len(out.History))
	for _, r := range out.History {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2025-11-08", "2025-11-01", "2025-10-10"}, dates)
}

func TestHandler_Execute_DaysAsText(t *testing.T) {
	h, fake := createTestHandler(t)
	seedHistory(fake, "2025-11-08", "2025-11-07", "2025-11-06")

	result := h.Execute(context.Background(), invocation.Parameters{"days": "2"})
	require.Equal(t, http.StatusOK, result.StatusCode)

	body := decodeBody(t, result)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(2), body["days"])
}

func TestHandler_Execute_EmptyHistoryIsList(t *testing.T) {
	h, _ := createTestHandler(t)

	result := h.Execute(context.Background(), invocation.Parameters{"days": 7})
	require.Equal(t, http.StatusOK, result.StatusCode)

	raw, err := response.Marshal(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[],"count":0,"days":7}`, raw)
}

func TestHandler_Execute_InvalidDays(t *testing.T) {
	tests := []struct {
		name string
		days interface{}
		code string
	}{
		{name: "zero", days: "0", code: "OUT_OF_RANGE"},
		{name: "too many", days: 366, code: "OUT_OF_RANGE"},
		{name: "not a number", days: "week", code: "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fake := createTestHandler(t)

			result := h.Execute(context.Background(), invocation.Parameters{"days": tt.days})
			assert.Equal(t, http.StatusBadRequest, result.StatusCode)

			body := decodeBody(t, result)
			assert.Equal(t, tt.code, body["error"])
			assert.Equal(t, "days", body["field"])
			assert.Equal(t, []interface{}{}, body["history"])
			assert.Zero(t, fake.Calls["BatchGetItem"])
		})
	}
}

func TestHandler_Execute_StorageFailure(t *testing.T) {
	h, fake := createTestHandler(t)
	fake.Errors["BatchGetItem"] = errors.New("ProvisionedThroughputExceededException")

	result := h.Execute(context.Background(), invocation.Parameters{"days": 3})
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)

	body := decodeBody(t, result)
	assert.Equal(t, "internal_error", body["error"])
	assert.Equal(t, []interface{}{}, body["history"])
	assert.NotContains(t, body["message"], "Throughput")
}

func TestHandler_ExecuteJob_ReturnsClassifiedError(t *testing.T) {
	h, _ := createTestHandler(t)

	_, err := h.ExecuteJob(context.Background(), invocation.Parameters{"days": 0})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrCodeOutOfRange, apperr.CodeOf(err))
}

// ==========================
// Envelope Tests
// ==========================

func TestHandler_Handle_ParameterListEnvelope(t *testing.T) {
	h, fake := createTestHandler(t)
	seedHistory(fake, "2025-11-08")

	event := `{
		"messageVersion": "1.0",
		"actionGroup": "menu-actions",
		"apiPath": "/history",
		"httpMethod": "GET",
		"parameters": [{"name": "days", "type": "integer", "value": "7"}]
	}`

	out, err := h.Handle(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	agent, ok := out.(*response.AgentResponse)
	require.True(t, ok)
	assert.Equal(t, "/history", agent.Response.APIPath)
	assert.Equal(t, http.StatusOK, agent.Response.HTTPStatusCode)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(agent.Response.ResponseBody[response.ContentTypeJSON].Body), &body))
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(7), body["days"])
}

func TestHandler_Handle_FunctionStyleFailure(t *testing.T) {
	h, _ := createTestHandler(t)

	event := `{"messageVersion": "1.0", "actionGroup": "menu", "function": "get_history",
		"parameters": [{"name": "days", "value": "400"}]}`

	out, err := h.Handle(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	agent := out.(*response.AgentResponse)
	require.NotNil(t, agent.Response.FunctionResponse)
	assert.Equal(t, "FAILURE", agent.Response.FunctionResponse.ResponseState)
}
