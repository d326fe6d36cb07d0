package menuhistory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	awsx "kondate-planner/internal/common/aws"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
	"kondate-planner/internal/store"
	"kondate-planner/internal/store/storetest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type recordingPublisher struct {
	types    []string
	payloads []interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	p.types = append(p.types, eventType)
	p.payloads = append(p.payloads, payload)
	return nil
}

func createTestHandler(t *testing.T) (*Handler, *storetest.FakeDynamo, *recordingPublisher) {
	t.Helper()
	fake := storetest.NewFakeDynamo(map[string]string{"recipes": "recipe_id", "history": "date"})
	svc := menu.NewService(
		store.NewHistoryStore(fake, "history").WithBackoff(0),
		store.NewRecipeStore(fake, "recipes"),
		menu.WithClock(func() time.Time { return time.Date(2025, 11, 8, 23, 30, 0, 0, time.UTC) }),
	)
	pub := &recordingPublisher{}
	return NewHandler(svc, pub, logger.NewTestLogger(t)), fake, pub
}

func request(method, body string, query map[string]string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Body: body, QueryStringParameters: query}
	req.RequestContext.HTTP.Method = method
	return req
}

const saveBody = `{"date": "2025-11-08", "meals": {"dinner": [{"recipe_id": "recipe_005", "name": "鮭の塩焼き"}]}, "notes": "家族4人"}`

// ==========================
// POST
// ==========================

func TestHandleHTTP_PostCreatesThenConflicts(t *testing.T) {
	h, fake, pub := createTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleHTTP(ctx, request(http.MethodPost, saveBody, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved SaveOutput
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &saved))
	assert.Equal(t, SavedMessage, saved.Message)
	assert.Equal(t, "2025-11-08", saved.History.Date)
	assert.Equal(t, []string{"recipe_005"}, saved.History.Recipes)
	assert.Equal(t, "家族4人", saved.History.Notes)
	assert.Equal(t, 1, fake.Len("history"))

	resp, err = h.HandleHTTP(ctx, request(http.MethodPost, saveBody, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict ErrorOutput
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &conflict))
	require.NotNil(t, conflict.ExistingMenu)
	assert.Equal(t, "家族4人", conflict.ExistingMenu.Notes)

	assert.Equal(t, []string{"menu.saved"}, pub.types)
	event, ok := pub.payloads[0].(awsx.MenuSavedEvent)
	require.True(t, ok, "payload is %T", pub.payloads[0])
	assert.Equal(t, "2025-11-08", event.Date)
	assert.Equal(t, []string{"recipe_005"}, event.Recipes)
}

func TestHandleHTTP_PostOverwriteReturnsOK(t *testing.T) {
	h, fake, _ := createTestHandler(t)
	fake.Seed("history", models.MenuHistory{Date: "2025-11-08", CreatedAt: "2025-11-01T00:00:00Z"})

	body := `{"date": "2025-11-08", "overwrite": true, "meals": "{lunch=[{recipe_id=recipe_001, name=カレー}]}"}`
	resp, err := h.HandleHTTP(context.Background(), request(http.MethodPost, body, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved SaveOutput
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &saved))
	assert.True(t, saved.Overwritten)
	assert.Equal(t, "2025-11-01T00:00:00Z", saved.History.CreatedAt)
	assert.Equal(t, "2025-11-08T23:30:00Z", saved.History.UpdatedAt)
}

func TestHandleHTTP_PostValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing date", body: `{"meals": {"lunch": []}}`, field: "date"},
		{name: "slash date", body: `{"date": "2025/11/08", "meals": {"lunch": [{"recipe_id": "r", "name": "n"}]}}`, field: "date"},
		{name: "incomplete reference", body: `{"date": "2025-11-08", "meals": {"lunch": [{"recipe_id": "r"}]}}`, field: "meals.lunch[0]"},
		{name: "not an object", body: `"hello"`, field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fake, _ := createTestHandler(t)

			resp, err := h.HandleHTTP(context.Background(), request(http.MethodPost, tt.body, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out ErrorOutput
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
			assert.Equal(t, tt.field, out.Field)
			assert.Equal(t, 0, fake.Len("history"))
		})
	}
}

// ==========================
// GET and other methods
// ==========================

func TestHandleHTTP_Get(t *testing.T) {
	h, fake, _ := createTestHandler(t)
	fake.Seed("history", models.MenuHistory{Date: "2025-11-06"})
	fake.Seed("history", models.MenuHistory{Date: "2025-11-08"})
	fake.Seed("history", models.MenuHistory{Date: "2025-10-01"})

	resp, err := h.HandleHTTP(context.Background(), request(http.MethodGet, "", map[string]string{"days": "7"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ListOutput
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "2025-11-08", out.History[0].Date)
	assert.Equal(t, "2025-11-06", out.History[1].Date)
}

func TestHandleHTTP_GetErrors(t *testing.T) {
	h, fake, _ := createTestHandler(t)

	resp, err := h.HandleHTTP(context.Background(), request(http.MethodGet, "", map[string]string{"days": "1000"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "days must be at most 365")

	fake.Errors["BatchGetItem"] = errors.New("ServiceUnavailable")
	resp, err = h.HandleHTTP(context.Background(), request(http.MethodGet, "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body)
}

func TestHandleHTTP_MethodNotAllowed(t *testing.T) {
	h, _, _ := createTestHandler(t)

	for _, method := range []string{http.MethodDelete, http.MethodPut, ""} {
		resp, err := h.HandleHTTP(context.Background(), request(method, "", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, resp.Body)
	}
}
