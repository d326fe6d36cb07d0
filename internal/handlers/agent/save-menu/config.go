// internal/handlers/agent/save-menu/config.go
package savemenu

import (
	"time"

	"kondate-planner/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	PublishEvents bool
}

func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       config.GetDuration(wcfg.Timeout),
		PublishEvents: cfg.Notifications.SNS.Enabled,
	}
}
