package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// EconConfig represents the economic data API (treasury bills, inflation)
type EconConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// StocksConfig represents the market data API (quotes, option chains)
type StocksConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	SecretKey string `yaml:"secret_key"`
}

type Config struct {
	// Server settings
	Port string

	// Economic data settings
	Econ EconConfig `yaml:"econ"`

	// Market data settings
	Stocks StocksConfig `yaml:"stocks"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

type YAMLConfig struct {
	Port    string        `yaml:"port"`
	Econ    EconConfig    `yaml:"econ"`
	Stocks  StocksConfig  `yaml:"stocks"`
	Logging LoggingConfig `yaml:"logging"`
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Econ: EconConfig{
			BaseURL: getEnv("ECON_BASE_URL", "https://data.nasdaq.com/api/v3"),
			APIKey:  getEnv("ECON_API_KEY", ""),
		},
		Stocks: StocksConfig{
			BaseURL:   getEnv("STOCKS_BASE_URL", "https://data.alpaca.markets"),
			APIKey:    getEnv("STOCKS_API_KEY", ""),
			SecretKey: getEnv("STOCKS_SECRET_KEY", ""),
		},
		Logging: LoggingConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", "condor.log"),
		},
	}

	// YAML file overrides defaults; environment variables win over both
	loadYAMLConfig(cfg, "config.yaml")

	applyEnvOverrides(cfg)

	return cfg
}

// loadYAMLConfig loads configuration from the YAML file if present
func loadYAMLConfig(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Missing config file is fine - env vars and defaults apply
		return
	}

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return
	}

	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}
	if yamlCfg.Econ.BaseURL != "" {
		cfg.Econ.BaseURL = yamlCfg.Econ.BaseURL
	}
	if yamlCfg.Econ.APIKey != "" {
		cfg.Econ.APIKey = yamlCfg.Econ.APIKey
	}
	if yamlCfg.Stocks.BaseURL != "" {
		cfg.Stocks.BaseURL = yamlCfg.Stocks.BaseURL
	}
	if yamlCfg.Stocks.APIKey != "" {
		cfg.Stocks.APIKey = yamlCfg.Stocks.APIKey
	}
	if yamlCfg.Stocks.SecretKey != "" {
		cfg.Stocks.SecretKey = yamlCfg.Stocks.SecretKey
	}
	if yamlCfg.Logging.LogLevel != "" {
		cfg.Logging.LogLevel = yamlCfg.Logging.LogLevel
	}
	if yamlCfg.Logging.LogFile != "" {
		cfg.Logging.LogFile = yamlCfg.Logging.LogFile
	}
}

// applyEnvOverrides re-applies environment variables on top of YAML values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ECON_BASE_URL"); v != "" {
		cfg.Econ.BaseURL = v
	}
	if v := os.Getenv("ECON_API_KEY"); v != "" {
		cfg.Econ.APIKey = v
	}
	if v := os.Getenv("STOCKS_BASE_URL"); v != "" {
		cfg.Stocks.BaseURL = v
	}
	if v := os.Getenv("STOCKS_API_KEY"); v != "" {
		cfg.Stocks.APIKey = v
	}
	if v := os.Getenv("STOCKS_SECRET_KEY"); v != "" {
		cfg.Stocks.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.LogFile = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
