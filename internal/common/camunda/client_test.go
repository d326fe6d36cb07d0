package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"kondate-planner/internal/common/config"
	apperr "kondate-planner/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetry_RecoversFromTransientErrors(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("rpc error: code = Unavailable")
		}
		return "ok", nil
	}, "publish")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("connection refused")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, apperr.ErrCodeCollaboratorFailure, apperr.CodeOf(err))
}

func TestExecuteWithRetry_PermanentErrorsAreNotRetried(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("process definition not found")
	}, "create instance")

	assert.Equal(t, 1, calls)
	assert.Equal(t, apperr.ErrCodeNotFound, apperr.CodeOf(err))
}

func TestExecuteWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	_, err := executeWithRetry(ctx, slow, func(ctx context.Context) (interface{}, error) {
		cancel()
		return nil, errors.New("deadline exceeded")
	}, "complete")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "localhost:26500", RequestTimeout: 5000})
	assert.Equal(t, "localhost:26500", cfg.GatewayAddress)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cfg.RetryConfig)
}
