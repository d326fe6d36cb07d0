// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envAliases binds the environment names the Lambda deployment already uses
// to their config keys. AutomaticEnv covers the TABLES_RECIPES style names.
var envAliases = map[string][]string{
	"tables.recipes":              {"RECIPES_TABLE"},
	"tables.history":              {"HISTORY_TABLE"},
	"bedrock.model_id":            {"BEDROCK_MODEL_ID"},
	"aws.region":                  {"AWS_REGION", "AWS_DEFAULT_REGION"},
	"aws.endpoint":                {"DYNAMODB_ENDPOINT"},
	"lambda.handler":              {"LAMBDA_HANDLER", "_HANDLER"},
	"cache.address":               {"REDIS_ADDRESS"},
	"cache.password":              {"REDIS_PASSWORD"},
	"notifications.sns.topic_arn": {"MENU_EVENTS_TOPIC_ARN"},
	"camunda.broker_address":      {"ZEEBE_ADDRESS"},
}

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// and applies environment overrides. A missing config file is not an error:
// a Lambda function is configured from its environment alone.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return decode(v)
}

// LoadFromFile reads one explicit YAML file, used by the CLI --config flag.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		// An explicit binding replaces the automatic name, so keep it first.
		names := append([]string{key, strings.ToUpper(envKeyReplacer.Replace(key))}, aliases...)
		_ = v.BindEnv(names...)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} references left in YAML values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "kondate-planner"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "UTC"
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "ap-northeast-1"
	}

	if cfg.Tables.Recipes == "" {
		cfg.Tables.Recipes = "kondate-recipes"
	}
	if cfg.Tables.History == "" {
		cfg.Tables.History = "kondate-menu-history"
	}

	if cfg.Bedrock.ModelID == "" {
		cfg.Bedrock.ModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	if cfg.Bedrock.AnthropicVersion == "" {
		cfg.Bedrock.AnthropicVersion = "bedrock-2023-05-31"
	}
	if cfg.Bedrock.MaxTokens == 0 {
		cfg.Bedrock.MaxTokens = 4000
	}
	if cfg.Bedrock.Timeout == 0 {
		cfg.Bedrock.Timeout = 60000
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 8080
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Tables.Recipes == cfg.Tables.History {
		return fmt.Errorf("tables.recipes and tables.history must differ")
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	if cfg.Bedrock.MaxTokens < 0 {
		return fmt.Errorf("bedrock.max_tokens must be positive")
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when the cache is enabled")
	}
	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// Location returns the configured timezone; validateConfig has already
// proven it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
