package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/console/internal/infra/resilience"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Retry      RetryConfig      `yaml:"retry"`
	Pagination PaginationConfig `yaml:"pagination"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// UpstreamConfig points at the API serving list data.
type UpstreamConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig holds the retry policy applied to upstream calls.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RetryableStatuses []int         `yaml:"retryable_statuses"` // empty = default transient set
}

// PaginationConfig holds list view defaults.
type PaginationConfig struct {
	PageSize     int `yaml:"page_size"`
	SiblingCount int `yaml:"sibling_count"`
}

// Policy builds the retry policy described by c.
func (c RetryConfig) Policy() resilience.Policy {
	p := resilience.DefaultPolicy()
	p.MaxAttempts = c.MaxAttempts
	p.RetryDelay = c.RetryDelay
	if len(c.RetryableStatuses) > 0 {
		p.RetryCondition = resilience.RetryOnStatuses(c.RetryableStatuses...)
	}
	return p
}

// Validate checks the loaded configuration for values the console cannot use.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be >= 1, got %d", c.Retry.MaxAttempts))
	}
	if c.Retry.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry.retry_delay must not be negative, got %v", c.Retry.RetryDelay))
	}
	if c.Pagination.PageSize < 1 {
		errs = append(errs, fmt.Errorf("pagination.page_size must be >= 1, got %d", c.Pagination.PageSize))
	}
	if c.Pagination.SiblingCount < 0 {
		errs = append(errs, fmt.Errorf("pagination.sibling_count must be >= 0, got %d", c.Pagination.SiblingCount))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}
