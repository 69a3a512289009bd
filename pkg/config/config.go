// Package config loads ratewatch configuration from an optional .env file,
// ~/.ratewatch/config.yaml and environment variables, in increasing order of
// precedence. The loaded Config value is passed down explicitly; there are no
// package-level singletons.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GoogleAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	DeepSeekAPIKey  string

	// Adapter and Model select the narrative provider.
	Adapter string
	Model   string

	// SourceURL overrides the quote endpoint; empty selects the default.
	SourceURL string

	DataDir      string
	ReportsDir   string
	ArtifactsDir string
	RunsDir      string

	Archive ArchiveConfig
	Notify  NotifyConfig
	History HistoryConfig

	ConfigDir string
}

// ArchiveConfig holds S3-compatible upload settings. Publishing is enabled
// when Endpoint is set.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// NotifyConfig holds Kafka step-notification settings. Notification is
// enabled when Broker is set.
type NotifyConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// HistoryConfig holds the Postgres quote-history settings. The history sink
// is enabled when DSN is set.
type HistoryConfig struct {
	DSN string `yaml:"dsn"`
}

// fileConfig represents the structure of ~/.ratewatch/config.yaml.
type fileConfig struct {
	APIKeys struct {
		Google    string `yaml:"google"`
		OpenAI    string `yaml:"openai"`
		Anthropic string `yaml:"anthropic"`
		DeepSeek  string `yaml:"deepseek"`
	} `yaml:"api_keys"`
	Analysis struct {
		Adapter string `yaml:"adapter"`
		Model   string `yaml:"model"`
	} `yaml:"analysis"`
	Source struct {
		URL string `yaml:"url"`
	} `yaml:"source"`
	Output struct {
		DataDir      string `yaml:"data_dir"`
		ReportsDir   string `yaml:"reports_dir"`
		ArtifactsDir string `yaml:"artifacts_dir"`
		RunsDir      string `yaml:"runs_dir"`
	} `yaml:"output"`
	Archive ArchiveConfig `yaml:"archive"`
	Notify  NotifyConfig  `yaml:"notify"`
	History HistoryConfig `yaml:"history"`
}

// Load reads configuration. A .env file in the working directory is loaded
// first (missing is fine), then the config file, then environment variables.
func Load() (*Config, error) {
	// Ignore a missing .env; direct environment variables are enough.
	_ = godotenv.Load()

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fc := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fc.APIKeys.Google),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fc.APIKeys.OpenAI),
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fc.APIKeys.Anthropic),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fc.APIKeys.DeepSeek),

		Adapter:   getEnvOrDefault("RATEWATCH_ADAPTER", fc.Analysis.Adapter),
		Model:     getEnvOrDefault("RATEWATCH_MODEL", fc.Analysis.Model),
		SourceURL: getEnvOrDefault("RATEWATCH_SOURCE_URL", fc.Source.URL),

		DataDir:      getEnvOrDefault("RATEWATCH_DATA_DIR", fc.Output.DataDir),
		ReportsDir:   getEnvOrDefault("RATEWATCH_REPORTS_DIR", fc.Output.ReportsDir),
		ArtifactsDir: getEnvOrDefault("RATEWATCH_ARTIFACTS_DIR", fc.Output.ArtifactsDir),
		RunsDir:      getEnvOrDefault("RATEWATCH_RUNS_DIR", fc.Output.RunsDir),

		Archive: ArchiveConfig{
			Endpoint:  getEnvOrDefault("MINIO_ENDPOINT", fc.Archive.Endpoint),
			AccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", fc.Archive.AccessKey),
			SecretKey: getEnvOrDefault("MINIO_SECRET_KEY", fc.Archive.SecretKey),
			Bucket:    getEnvOrDefault("MINIO_BUCKET", fc.Archive.Bucket),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true" || fc.Archive.UseSSL,
		},
		Notify: NotifyConfig{
			Broker: getEnvOrDefault("RATEWATCH_KAFKA_BROKER", fc.Notify.Broker),
			Topic:  getEnvOrDefault("RATEWATCH_KAFKA_TOPIC", fc.Notify.Topic),
		},
		History: HistoryConfig{
			DSN: getEnvOrDefault("RATEWATCH_POSTGRES_DSN", fc.History.DSN),
		},

		ConfigDir: configDir,
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Adapter == "" {
		cfg.Adapter = "google"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "reports"
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = "artifacts"
	}
	if cfg.RunsDir == "" {
		cfg.RunsDir = "runs"
	}
	if cfg.Notify.Topic == "" {
		cfg.Notify.Topic = "ratewatch.steps"
	}
	if cfg.Archive.Bucket == "" {
		cfg.Archive.Bucket = "ratewatch"
	}
}

// APIKey returns the configured key for the given adapter name.
func (c *Config) APIKey(adapter string) string {
	switch adapter {
	case "google":
		return c.GoogleAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "deepseek":
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}

// HasAdapter returns true if the API key for the given adapter is configured.
func (c *Config) HasAdapter(name string) bool {
	return c.APIKey(name) != ""
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *fileConfig {
	fc := &fileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, fc) // Ignore parse errors, use defaults
	return fc
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".ratewatch")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
