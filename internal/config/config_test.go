package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env, no ytman.yaml

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("provider = %q, want anthropic", cfg.LLMProvider)
	}
	if cfg.LLMMaxRequests != 40 || cfg.LLMWindowSeconds != 60 {
		t.Errorf("rate budget = %d/%ds, want 40/60s", cfg.LLMMaxRequests, cfg.LLMWindowSeconds)
	}
	if cfg.LedgerPath() != "processed_videos.json" {
		t.Errorf("ledger path = %q", cfg.LedgerPath())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("YTMAN_LLM_PROVIDER", "ollama")
	t.Setenv("YTMAN_LLM_MAX_REQUESTS", "10")
	t.Setenv("YTMAN_DATA_DIR", "/var/lib/ytman")
	t.Setenv("YTMAN_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLMProvider != ProviderOllama {
		t.Errorf("provider = %q, want ollama", cfg.LLMProvider)
	}
	if cfg.LLMMaxRequests != 10 {
		t.Errorf("max requests = %d, want 10", cfg.LLMMaxRequests)
	}
	if cfg.MatchPath() != "/var/lib/ytman/bilibili_matches.json" {
		t.Errorf("match path = %q", cfg.MatchPath())
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadYAMLOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("YTMAN_LLM_MODEL", "from-env")

	yamlPath := filepath.Join(dir, "ytman.yaml")
	content := "llm_model: from-yaml\nllm_max_requests: 5\n"
	if err := os.WriteFile(yamlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLMModel != "from-yaml" {
		t.Errorf("model = %q, want yaml value to win", cfg.LLMModel)
	}
	if cfg.LLMMaxRequests != 5 {
		t.Errorf("max requests = %d, want 5", cfg.LLMMaxRequests)
	}
	// Keys absent from the file keep their env/default values.
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("provider = %q, want default", cfg.LLMProvider)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "ytman.yaml"), []byte(":\tnot yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestRequireBilibili(t *testing.T) {
	cfg := Config{}
	if err := cfg.RequireBilibili(); err == nil {
		t.Error("expected error with no credentials")
	}
	cfg.BilibiliSessData = "s"
	cfg.BilibiliJCT = "j"
	if err := cfg.RequireBilibili(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
