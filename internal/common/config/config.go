// internal/common/config/config.go
package config

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	AWS           AWSConfig               `mapstructure:"aws"`
	Tables        TablesConfig            `mapstructure:"tables"`
	Bedrock       BedrockConfig           `mapstructure:"bedrock"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Lambda        LambdaConfig            `mapstructure:"lambda"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// Timezone used to compute "today" for history windows.
	Timezone string `mapstructure:"timezone"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	// Endpoint overrides the DynamoDB endpoint, e.g. DynamoDB Local.
	Endpoint string `mapstructure:"endpoint"`
}

type TablesConfig struct {
	Recipes string `mapstructure:"recipes"`
	History string `mapstructure:"history"`
}

type BedrockConfig struct {
	ModelID          string `mapstructure:"model_id"`
	AnthropicVersion string `mapstructure:"anthropic_version"`
	MaxTokens        int    `mapstructure:"max_tokens"`
	Timeout          int    `mapstructure:"timeout"` // milliseconds
}

type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LambdaConfig struct {
	// Handler selects which action the Lambda binary serves.
	Handler string `mapstructure:"handler"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
