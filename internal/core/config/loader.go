package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Default returns the configuration used when no file overrides it.
func Default() *AppConfig {
	return &AppConfig{
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			RetryDelay:  1 * time.Second,
		},
		Pagination: PaginationConfig{
			PageSize:     10,
			SiblingCount: 1,
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding environment variables first.
// Keys absent from data keep their Default value; keys present, including
// explicit zeros, override it.
func Parse(data []byte) (*AppConfig, error) {
	cfg := *Default()
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
