package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	path := writeConfig(t, "app:\n  name: test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "kondate-recipes", cfg.Tables.Recipes)
	assert.Equal(t, "kondate-menu-history", cfg.Tables.History)
	assert.Equal(t, "ap-northeast-1", cfg.AWS.Region)
	assert.Equal(t, 4000, cfg.Bedrock.MaxTokens)
	assert.Equal(t, "bedrock-2023-05-31", cfg.Bedrock.AnthropicVersion)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFromFile_DeploymentEnvNames(t *testing.T) {
	t.Setenv("RECIPES_TABLE", "prod-recipes")
	t.Setenv("HISTORY_TABLE", "prod-history")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet")
	t.Setenv("LAMBDA_HANDLER", "save-menu")

	path := writeConfig(t, "tables:\n  recipes: from-file\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "prod-recipes", cfg.Tables.Recipes)
	assert.Equal(t, "prod-history", cfg.Tables.History)
	assert.Equal(t, "anthropic.claude-3-5-sonnet", cfg.Bedrock.ModelID)
	assert.Equal(t, "save-menu", cfg.Lambda.Handler)
}

func TestLoadFromFile_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_TOPIC", "arn:aws:sns:ap-northeast-1:123456789012:menu-events")
	path := writeConfig(t, `
notifications:
  sns:
    enabled: true
    topic_arn: ${TEST_TOPIC}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:ap-northeast-1:123456789012:menu-events", cfg.Notifications.SNS.TopicARN)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"same table twice", "tables:\n  recipes: t\n  history: t\n"},
		{"cache without address", "cache:\n  enabled: true\n  address: \"\"\n"},
		{"sns without topic", "notifications:\n  sns:\n    enabled: true\n"},
		{"unknown timezone", "app:\n  timezone: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestWorkerDefaults(t *testing.T) {
	path := writeConfig(t, "workers:\n  save-menu:\n    enabled: true\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "save-menu")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "not-configured"))
	assert.Equal(t, 30*time.Second, GetDuration(w.Timeout))
}
