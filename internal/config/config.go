// Package config loads runtime configuration from the environment, an
// optional .env file, and an optional YAML overrides file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported text-generator providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// Text generator
	LLMProvider     string
	LLMModel        string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OllamaHost      string

	// Shared LLM request budget
	LLMMaxRequests   int
	LLMWindowSeconds int

	// YouTube OAuth
	ClientSecretsFile string
	TokenFile         string

	// Bilibili cookies
	BilibiliSessData string
	BilibiliJCT      string

	// Durable files
	DataDir string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration. Precedence: YAML overrides > environment >
// defaults. A .env file in the working directory is folded into the
// environment first (existing variables win).
func Load() (Config, error) {
	_ = godotenv.Load() // absent .env is fine

	cfg := Config{
		LLMProvider:     getEnv("YTMAN_LLM_PROVIDER", ProviderAnthropic),
		LLMModel:        getEnv("YTMAN_LLM_MODEL", "claude-sonnet-4-5"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		// Conservative default: 40 requests/minute stays under a 50 RPM tier.
		LLMMaxRequests:   getEnvInt("YTMAN_LLM_MAX_REQUESTS", 40),
		LLMWindowSeconds: getEnvInt("YTMAN_LLM_WINDOW_SECONDS", 60),

		ClientSecretsFile: getEnv("YTMAN_CLIENT_SECRETS", "client_secret.json"),
		TokenFile:         getEnv("YTMAN_TOKEN_FILE", "token.json"),

		BilibiliSessData: os.Getenv("BILIBILI_SESSDATA"),
		BilibiliJCT:      os.Getenv("BILIBILI_BILI_JCT"),

		DataDir: getEnv("YTMAN_DATA_DIR", "."),

		LogFile:  getEnv("YTMAN_LOG_FILE", "ytman.log"),
		LogLevel: parseLogLevel(getEnv("YTMAN_LOG_LEVEL", "INFO")),
	}

	if err := applyFileOverrides(&cfg, getEnv("YTMAN_CONFIG", "ytman.yaml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LedgerPath is the processing-ledger file.
func (c Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "processed_videos.json")
}

// MatchPath is the default persisted match-batch file.
func (c Config) MatchPath() string {
	return filepath.Join(c.DataDir, "bilibili_matches.json")
}

// AnalyticsPath is the analytics-history file.
func (c Config) AnalyticsPath() string {
	return filepath.Join(c.DataDir, "analytics_history.json")
}

// LLMWindow returns the rate-limit window as a duration.
func (c Config) LLMWindow() time.Duration {
	return time.Duration(c.LLMWindowSeconds) * time.Second
}

// RequireBilibili validates the secondary-platform credentials.
func (c Config) RequireBilibili() error {
	if c.BilibiliSessData == "" || c.BilibiliJCT == "" {
		return fmt.Errorf("bilibili credentials not configured: set BILIBILI_SESSDATA and BILIBILI_BILI_JCT")
	}
	return nil
}

// fileConfig mirrors the YAML overrides file. Pointer fields so unset keys
// leave env/default values alone.
type fileConfig struct {
	LLMProvider      *string `yaml:"llm_provider"`
	LLMModel         *string `yaml:"llm_model"`
	LLMMaxRequests   *int    `yaml:"llm_max_requests"`
	LLMWindowSeconds *int    `yaml:"llm_window_seconds"`
	ClientSecrets    *string `yaml:"client_secrets"`
	TokenFile        *string `yaml:"token_file"`
	DataDir          *string `yaml:"data_dir"`
	LogFile          *string `yaml:"log_file"`
	LogLevel         *string `yaml:"log_level"`
}

func applyFileOverrides(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.LLMProvider, fc.LLMProvider)
	setString(&cfg.LLMModel, fc.LLMModel)
	setInt(&cfg.LLMMaxRequests, fc.LLMMaxRequests)
	setInt(&cfg.LLMWindowSeconds, fc.LLMWindowSeconds)
	setString(&cfg.ClientSecretsFile, fc.ClientSecrets)
	setString(&cfg.TokenFile, fc.TokenFile)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogFile, fc.LogFile)
	if fc.LogLevel != nil {
		cfg.LogLevel = parseLogLevel(*fc.LogLevel)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
