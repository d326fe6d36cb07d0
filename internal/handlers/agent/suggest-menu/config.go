// internal/handlers/agent/suggest-menu/config.go
package suggestmenu

import (
	"time"

	"kondate-planner/internal/common/config"
)

type Config struct {
	// Timeout bounds the whole invocation, model call included, so it is the
	// larger of the worker timeout and the Bedrock timeout.
	Timeout time.Duration
	ModelID string
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	if bedrock := config.GetDuration(cfg.Bedrock.Timeout); bedrock > timeout {
		timeout = bedrock
	}
	return &Config{
		Timeout: timeout,
		ModelID: cfg.Bedrock.ModelID,
	}
}
