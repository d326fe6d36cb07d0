package getrecipes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

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

const (
	recipesTable = "kondate-recipes"
	historyTable = "kondate-menu-history"
)

func createTestHandler(t *testing.T) (*Handler, *storetest.FakeDynamo) {
	t.Helper()
	fake := storetest.NewFakeDynamo(map[string]string{recipesTable: "recipe_id", historyTable: "date"})
	fake.Seed(recipesTable, models.Recipe{RecipeID: "recipe_002", Name: "味噌汁", Category: "汁物", CookingTime: 10})
	fake.Seed(recipesTable, models.Recipe{RecipeID: "recipe_001", Name: "肉じゃが", Category: "主菜", CookingTime: 40})
	fake.Seed(recipesTable, models.Recipe{RecipeID: "recipe_003", Name: "カレー", Category: "主菜", CookingTime: 60})

	svc := menu.NewService(store.NewHistoryStore(fake, historyTable), store.NewRecipeStore(fake, recipesTable))
	return NewHandler(&Config{}, svc, logger.NewTestLogger(t)), fake
}

func names(recipes []models.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Name)
	}
	return out
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		params   invocation.Parameters
		expected []string
	}{
		{name: "no filter", params: invocation.Parameters{}, expected: []string{"カレー", "味噌汁", "肉じゃが"}},
		{name: "empty category is no filter", params: invocation.Parameters{"category": ""}, expected: []string{"カレー", "味噌汁", "肉じゃが"}},
		{name: "category filter", params: invocation.Parameters{"category": "主菜"}, expected: []string{"カレー", "肉じゃが"}},
		{name: "unknown category", params: invocation.Parameters{"category": "デザート"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := createTestHandler(t)

			result := h.Execute(context.Background(), tt.params)
			require.Equal(t, http.StatusOK, result.StatusCode)

			out := result.Body.(*Output)
			assert.Equal(t, tt.expected, names(out.Recipes))
			assert.Equal(t, len(tt.expected), out.Count)
		})
	}
}

func TestHandler_Execute_ScanFailure(t *testing.T) {
	h, fake := createTestHandler(t)
	fake.Errors["Scan"] = errors.New("AccessDeniedException")

	result := h.Execute(context.Background(), invocation.Parameters{})
	require.Equal(t, http.StatusInternalServerError, result.StatusCode)

	raw, err := response.Marshal(result.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"internal_error","message":"Internal server error","recipes":[]}`, raw)

	_, err = h.ExecuteJob(context.Background(), invocation.Parameters{})
	assert.Error(t, err)
}

// ==========================
// Handle
// ==========================

func TestHandler_Handle_RequestBodyEnvelope(t *testing.T) {
	h, _ := createTestHandler(t)

	event := `{"messageVersion":"1.0","actionGroup":"menu-actions","apiPath":"/recipes","httpMethod":"GET",
		"requestBody":{"content":{"application/json":[{"name":"category","value":"汁物"}]}}}`

	out, err := h.Handle(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	agent := out.(*response.AgentResponse)
	var body Output
	require.NoError(t, json.Unmarshal([]byte(agent.Response.ResponseBody[response.ContentTypeJSON].Body), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "recipe_002", body.Recipes[0].RecipeID)
}
