package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vietddude/console/internal/core/pagination"
	"github.com/vietddude/console/internal/infra/resilience"
	"github.com/vietddude/console/internal/listing"
	"github.com/vietddude/console/internal/metrics"
)

// reserved query parameters that are not forwarded as list filters
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"siblings":  true,
}

// Upper bounds for client-supplied paging parameters. With siblings bounded a
// marker list never exceeds 2*maxSiblings+5 entries, whatever the total.
const (
	maxSiblings = 10
	maxPageSize = 1000
)

// Config holds the server settings.
type Config struct {
	Port         int
	PageSize     int
	SiblingCount int
}

// Server exposes pagination and list endpoints for the console views.
type Server struct {
	cfg    Config
	client *listing.Client
	server *http.Server
	log    *slog.Logger
}

// NewServer creates a new API server. client may be nil when no upstream is configured.
func NewServer(cfg Config, client *listing.Client) *Server {
	mux := http.NewServeMux()
	s := &Server{
		cfg:    cfg,
		client: client,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: mux,
		},
		log: slog.Default().With("component", "api"),
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/pagination", s.handlePagination)
	mux.HandleFunc("GET /api/lists/{resource}", s.handleList)

	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("API server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "health", http.StatusOK, map[string]string{"status": "healthy"})
}

type paginationResponse struct {
	TotalPages int                 `json:"total_pages"`
	Window     pagination.Window   `json:"window"`
	Markers    []pagination.Marker `json:"markers"`
}

func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	total, err := intParam(q.Get("total"), 0)
	if err != nil || total < 0 {
		writeError(w, "pagination", http.StatusBadRequest, "invalid total")
		return
	}
	req, err := s.pageRequest(r)
	if err != nil {
		writeError(w, "pagination", http.StatusBadRequest, err.Error())
		return
	}
	req.TotalItems = total

	markers := req.Markers()
	if markers == nil {
		markers = []pagination.Marker{}
	}
	writeJSON(w, "pagination", http.StatusOK, paginationResponse{
		TotalPages: req.TotalPages(),
		Window:     req.Window(),
		Markers:    markers,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		writeError(w, "lists", http.StatusServiceUnavailable, listing.ErrNoUpstream.Error())
		return
	}

	req, err := s.pageRequest(r)
	if err != nil {
		writeError(w, "lists", http.StatusBadRequest, err.Error())
		return
	}

	query := listing.NewQuery(r.PathValue("resource"), req.PageSize)
	for key, values := range r.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		query = query.WithFilter(key, values[0])
	}
	query = query.WithPage(req.CurrentPage)

	res, err := listing.Fetch[json.RawMessage](r.Context(), s.client, query)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, listing.ErrNoUpstream) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, "lists", status, map[string]any{
			"error":           err.Error(),
			"upstream_status": resilience.StatusCode(err),
		})
		return
	}

	writeJSON(w, "lists", http.StatusOK, listing.NewView(query, res, req.SiblingCount))
}

// pageRequest reads page, page_size and siblings, falling back to server defaults.
func (s *Server) pageRequest(r *http.Request) (pagination.Request, error) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil || page < 1 {
		return pagination.Request{}, errors.New("invalid page")
	}
	size, err := intParam(q.Get("page_size"), s.cfg.PageSize)
	if err != nil || size < 1 || size > maxPageSize {
		return pagination.Request{}, errors.New("invalid page_size")
	}
	siblings, err := intParam(q.Get("siblings"), s.cfg.SiblingCount)
	if err != nil || siblings < 0 || siblings > maxSiblings {
		return pagination.Request{}, errors.New("invalid siblings")
	}

	return pagination.Request{
		PageSize:     size,
		CurrentPage:  page,
		SiblingCount: siblings,
	}, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(w http.ResponseWriter, route string, status int, msg string) {
	writeJSON(w, route, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, route string, status int, body any) {
	metrics.APIRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
