package listrecipes

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
	"kondate-planner/internal/store"
	"kondate-planner/internal/store/storetest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) (*Handler, *storetest.FakeDynamo) {
	t.Helper()
	fake := storetest.NewFakeDynamo(map[string]string{"recipes": "recipe_id", "history": "date"})
	fake.Seed("recipes", models.Recipe{RecipeID: "recipe_001", Name: "肉じゃが", Category: "主菜"})
	fake.Seed("recipes", models.Recipe{RecipeID: "recipe_002", Name: "味噌汁", Category: "汁物"})
	svc := menu.NewService(store.NewHistoryStore(fake, "history"), store.NewRecipeStore(fake, "recipes"))
	return NewHandler(svc, logger.NewTestLogger(t)), fake
}

func TestHandleHTTP(t *testing.T) {
	tests := []struct {
		name     string
		query    map[string]string
		expected string
	}{
		{name: "all recipes", expected: `"count":2`},
		{name: "filtered", query: map[string]string{"category": "汁物"}, expected: `"count":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := createTestHandler(t)

			resp, err := h.HandleHTTP(context.Background(), events.APIGatewayV2HTTPRequest{QueryStringParameters: tt.query})
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Body, tt.expected)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
		})
	}
}

func TestHandleHTTP_ScanFailure(t *testing.T) {
	h, fake := createTestHandler(t)
	fake.Errors["Scan"] = errors.New("AccessDeniedException: not authorized")

	resp, err := h.HandleHTTP(context.Background(), events.APIGatewayV2HTTPRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body)
}
