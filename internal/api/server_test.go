package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vietddude/console/internal/infra/resilience"
	"github.com/vietddude/console/internal/listing"
)

func newTestServer(t *testing.T, upstream string) *httptest.Server {
	t.Helper()

	var client *listing.Client
	if upstream != "" {
		client = listing.NewClient(upstream, 5*time.Second,
			resilience.Policy{MaxAttempts: 3, RetryDelay: time.Millisecond},
			resilience.WithSleep(func(ctx context.Context, d time.Duration) error { return nil }),
			resilience.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
	}
	s := NewServer(Config{Port: 0, PageSize: 10, SiblingCount: 1}, client)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")

	var body map[string]string
	if code := getJSON(t, ts.URL+"/health", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestPagination(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		query  string
		code   int
		expect string
	}{
		{"?total=100&page=5", http.StatusOK, `[1,"gap",4,5,6,"gap",10]`},
		{"?total=100&page=1", http.StatusOK, `[1,2,3,"gap",10]`},
		{"?total=100&page=10", http.StatusOK, `[1,"gap",8,9,10]`},
		{"?total=30&page=2", http.StatusOK, `[1,2,3]`},
		{"?total=5&page=1", http.StatusOK, `[]`},
		{"?total=200&page=10&page_size=10&siblings=2", http.StatusOK, `[1,"gap",8,9,10,11,12,"gap",20]`},
		{"?total=abc", http.StatusBadRequest, ""},
		{"?total=100&page=0", http.StatusBadRequest, ""},
		{"?total=100&page_size=-1", http.StatusBadRequest, ""},
		{"?total=100&siblings=-1", http.StatusBadRequest, ""},
		{"?total=100&siblings=11", http.StatusBadRequest, ""},
		{"?total=100&page_size=1001", http.StatusBadRequest, ""},
		{"?total=1000000000000000000&page_size=1&siblings=1000000000000000000", http.StatusBadRequest, ""},
		{"?total=9223372036854775807&page_size=1&siblings=10", http.StatusOK,
			`[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,"gap",9223372036854775807]`},
		{"?total=9223372036854775807&page_size=1000&page=4611686018427387&siblings=0", http.StatusOK,
			`[1,"gap",4611686018427387,"gap",9223372036854776]`},
		{"?total=100&page=3&siblings=10", http.StatusOK, `[1,2,3,4,5,6,7,8,9,10]`},
	}

	for _, tt := range tests {
		var body struct {
			Markers json.RawMessage `json:"markers"`
			Error   string          `json:"error"`
		}
		code := getJSON(t, ts.URL+"/api/pagination"+tt.query, &body)
		if code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.query, tt.code, code)
			continue
		}
		if tt.code == http.StatusOK && string(body.Markers) != tt.expect {
			t.Errorf("%s: expected markers %s, got %s", tt.query, tt.expect, body.Markers)
		}
		if tt.code != http.StatusOK && body.Error == "" {
			t.Errorf("%s: expected error message", tt.query)
		}
	}
}

func TestList_ProxiesWithMarkers(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("expected /orders, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("status") != "paid" {
			t.Errorf("expected status filter to be forwarded, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("siblings") != "" {
			t.Error("siblings must not be forwarded upstream")
		}
		_, _ = io.WriteString(w, `{"items":[{"id":41},{"id":42}],"total":100}`)
	}))
	defer upstream.Close()

	ts := newTestServer(t, upstream.URL)

	var body struct {
		Items   []map[string]int `json:"items"`
		Total   int              `json:"total"`
		Markers json.RawMessage  `json:"markers"`
	}
	code := getJSON(t, ts.URL+"/api/lists/orders?page=5&status=paid", &body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Total != 100 || len(body.Items) != 2 {
		t.Errorf("unexpected body %+v", body)
	}
	if string(body.Markers) != `[1,"gap",4,5,6,"gap",10]` {
		t.Errorf("unexpected markers %s", body.Markers)
	}
}

func TestList_UpstreamFailure(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	ts := newTestServer(t, upstream.URL)

	var body struct {
		Error          string `json:"error"`
		UpstreamStatus int    `json:"upstream_status"`
	}
	code := getJSON(t, ts.URL+"/api/lists/orders", &body)
	if code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", code)
	}
	if body.UpstreamStatus != http.StatusServiceUnavailable {
		t.Errorf("expected upstream status 503, got %d", body.UpstreamStatus)
	}
	if body.Error != "http 503: overloaded" {
		t.Errorf("expected original error message, got %q", body.Error)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 upstream calls, got %d", calls.Load())
	}
}

func TestList_NoUpstream(t *testing.T) {
	ts := newTestServer(t, "")

	var body map[string]string
	if code := getJSON(t, ts.URL+"/api/lists/orders", &body); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
}
