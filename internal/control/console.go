package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/console/internal/api"
	"github.com/vietddude/console/internal/core/config"
	"github.com/vietddude/console/internal/infra/resilience"
	"github.com/vietddude/console/internal/listing"
)

// Console is the main application struct that manages the API server lifecycle.
type Console struct {
	cfg    Config
	client *listing.Client
	server *api.Server
	log    *slog.Logger
	done   chan error
}

// Config holds the application configuration.
type Config struct {
	Port       int
	Upstream   config.UpstreamConfig
	Retry      config.RetryConfig
	Pagination config.PaginationConfig
}

// FromAppConfig maps the loaded file configuration onto the console's settings.
func FromAppConfig(cfg *config.AppConfig) Config {
	return Config{
		Port:       cfg.Server.Port,
		Upstream:   cfg.Upstream,
		Retry:      cfg.Retry,
		Pagination: cfg.Pagination,
	}
}

// NewConsole creates a new Console instance with all dependencies initialized.
func NewConsole(cfg Config) (*Console, error) {
	if cfg.Pagination.PageSize < 1 {
		return nil, errors.New("page size must be >= 1")
	}

	log := slog.Default()

	var client *listing.Client
	if cfg.Upstream.URL != "" {
		client = listing.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, cfg.Retry.Policy(),
			resilience.WithLogger(log.With("component", "retry")))
		log.Info("Upstream configured",
			"url", cfg.Upstream.URL,
			"max_attempts", cfg.Retry.MaxAttempts,
			"retry_delay", cfg.Retry.RetryDelay,
		)
	} else {
		log.Warn("No upstream configured, list endpoints disabled")
	}

	server := api.NewServer(api.Config{
		Port:         cfg.Port,
		PageSize:     cfg.Pagination.PageSize,
		SiblingCount: cfg.Pagination.SiblingCount,
	}, client)

	return &Console{
		cfg:    cfg,
		client: client,
		server: server,
		log:    log,
		done:   make(chan error, 1),
	}, nil
}

// Handler returns the HTTP handler of the API server.
func (c *Console) Handler() http.Handler {
	return c.server.Handler()
}

// Start starts the API server in the background.
func (c *Console) Start(ctx context.Context) error {
	go func() {
		err := c.server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("API server failed", "error", err)
		}
		c.done <- err
	}()
	return nil
}

// Done reports the API server's exit.
func (c *Console) Done() <-chan error {
	return c.done
}

// Stop stops the console.
func (c *Console) Stop(ctx context.Context) error {
	c.log.Info("Stopping Console...")

	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.log.Warn("Failed to close upstream client", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.server.Stop(shutdownCtx)
}
