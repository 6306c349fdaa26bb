package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Econ.BaseURL != "https://data.nasdaq.com/api/v3" {
		t.Errorf("Unexpected default econ base URL: %s", cfg.Econ.BaseURL)
	}
	if cfg.Stocks.BaseURL != "https://data.alpaca.markets" {
		t.Errorf("Unexpected default stocks base URL: %s", cfg.Stocks.BaseURL)
	}
	if cfg.Logging.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ECON_API_KEY", "econ-key")
	t.Setenv("STOCKS_API_KEY", "stocks-key")
	t.Setenv("STOCKS_SECRET_KEY", "stocks-secret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.Econ.APIKey != "econ-key" {
		t.Errorf("Expected econ API key override, got %s", cfg.Econ.APIKey)
	}
	if cfg.Stocks.APIKey != "stocks-key" || cfg.Stocks.SecretKey != "stocks-secret" {
		t.Errorf("Expected stocks credentials override, got %s/%s", cfg.Stocks.APIKey, cfg.Stocks.SecretKey)
	}
	if cfg.Logging.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.LogLevel)
	}
}

func TestYAMLConfigThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := `
port: "7070"
econ:
  api_key: "yaml-econ-key"
logging:
  log_level: "verbose"
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("PORT", "6060")

	cfg := &Config{Port: "8080", Logging: LoggingConfig{LogLevel: "info"}}
	loadYAMLConfig(cfg, path)
	applyEnvOverrides(cfg)

	// YAML overrides the default, env overrides YAML
	if cfg.Port != "6060" {
		t.Errorf("Expected env port 6060 to win over YAML, got %s", cfg.Port)
	}
	if cfg.Econ.APIKey != "yaml-econ-key" {
		t.Errorf("Expected YAML econ key, got %s", cfg.Econ.APIKey)
	}
	if cfg.Logging.LogLevel != "verbose" {
		t.Errorf("Expected YAML log level verbose, got %s", cfg.Logging.LogLevel)
	}
}

func TestLoadYAMLConfigMissingFileIsNoop(t *testing.T) {
	cfg := &Config{Port: "8080"}
	loadYAMLConfig(cfg, filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Port != "8080" {
		t.Errorf("Expected port unchanged, got %s", cfg.Port)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CONDOR_TEST_STR", "value")
	t.Setenv("CONDOR_TEST_INT", "42")

	if got := getEnv("CONDOR_TEST_STR", "fallback"); got != "value" {
		t.Errorf("Expected value, got %s", got)
	}
	if got := getEnv("CONDOR_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
	if got := getEnvInt("CONDOR_TEST_INT", 7); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := getEnvInt("CONDOR_TEST_STR", 7); got != 7 {
		t.Errorf("Expected fallback 7 for non-numeric, got %d", got)
	}
}
