// internal/handlers/agent/get-recipes/config.go
package getrecipes

import (
	"time"

	"kondate-planner/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wcfg.Timeout),
	}
}
