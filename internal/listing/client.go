package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/console/internal/infra/resilience"
	"github.com/vietddude/console/internal/metrics"
)

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// ErrNoUpstream is returned when the client has no base URL configured.
var ErrNoUpstream = errors.New("upstream url not configured")

// PageResult is one page of items plus the total count matching the query.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Client fetches resource lists over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
	log        *slog.Logger
}

// NewClient creates a list client for the API at baseURL.
// Every fetch is retried according to policy.
func NewClient(baseURL string, timeout time.Duration, policy resilience.Policy, opts ...resilience.Option) *Client {
	opts = append([]resilience.Option{resilience.WithName("list_fetch")}, opts...)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		executor: resilience.NewExecutor(policy, opts...),
		log:      slog.Default().With("component", "listing"),
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Fetch loads one page of q.Resource, decoding items into T.
//
// On failure the error of the last attempt is returned as is, so an
// upstream status stays reachable through resilience.StatusCode.
func Fetch[T any](ctx context.Context, c *Client, q Query) (PageResult[T], error) {
	if c.baseURL == "" {
		return PageResult[T]{}, ErrNoUpstream
	}

	requestID := uuid.NewString()
	start := time.Now()

	res, err := resilience.Run(ctx, c.executor, func(ctx context.Context) (PageResult[T], error) {
		return fetchOnce[T](ctx, c, q, requestID)
	})

	metrics.ListFetchLatency.WithLabelValues(q.Resource).Observe(time.Since(start).Seconds())
	metrics.ListFetches.WithLabelValues(q.Resource, strconv.Itoa(fetchStatus(err))).Inc()

	if err != nil {
		c.log.Warn("List fetch failed",
			"resource", q.Resource,
			"page", q.Page,
			"request_id", requestID,
			"error", err,
		)
		return PageResult[T]{}, err
	}
	return res, nil
}

func fetchStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return resilience.StatusCode(err)
}

func fetchOnce[T any](ctx context.Context, c *Client, q Query, requestID string) (PageResult[T], error) {
	var res PageResult[T]

	endpoint := c.baseURL + "/" + url.PathEscape(q.Resource) + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return res, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("list %s: %w", q.Resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return res, &resilience.HTTPError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("parse response: %w", err)
	}
	if res.Total < len(res.Items) {
		res.Total = len(res.Items)
	}
	return res, nil
}
