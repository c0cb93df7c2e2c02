// Package api serves the HTTP surface: the read API, synchronous launches,
// the cron-triggered scan, the live feed and operational endpoints.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"molenker/internal/launch"
	"molenker/internal/observability"
	"molenker/internal/query"
	"molenker/internal/scan"
)

// Launcher runs a synchronous launch.
type Launcher interface {
	Launch(ctx context.Context, req launch.Request) (*launch.Response, error)
}

// Scanner runs one scan on demand and reports scheduler state.
type Scanner interface {
	RunOnce(ctx context.Context) (*launch.BatchSummary, error)
	Status() scan.Status
}

// Feed is the live launch stream.
type Feed interface {
	http.Handler
	Clients() int
}

// Options for creating Server.
type Options struct {
	Query    *query.Service
	Launcher Launcher
	Scanner  Scanner
	Feed     Feed // optional

	// CronSecret, when set, must be presented as a bearer token to trigger a scan.
	CronSecret string
	Simulation bool

	Logger *zap.Logger
	Now    func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	query      *query.Service
	launcher   Launcher
	scanner    Scanner
	feed       Feed
	cronSecret string
	simulation bool
	logger     *zap.Logger
	now        func() time.Time
	started    time.Time
}

// New creates a new Server.
func New(opts Options) *Server {
	s := &Server{
		query:      opts.Query,
		launcher:   opts.Launcher,
		scanner:    opts.Scanner,
		feed:       opts.Feed,
		cronSecret: opts.CronSecret,
		simulation: opts.Simulation,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.started = s.now()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/launch", s.handleLaunch)
	mux.HandleFunc("GET /api/cron/scan", s.handleCronScan)

	if s.feed != nil {
		mux.Handle("GET /ws/launches", s.feed)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	return s.logRequests(mux)
}

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, resp errorResponse) {
	s.writeJSON(w, status, resp)
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status      string      `json:"status"`
	Uptime      string      `json:"uptime"`
	StartedAt   time.Time   `json:"started_at"`
	Simulation  bool        `json:"simulation"`
	Scan        scan.Status `json:"scan"`
	FeedClients int         `json:"feed_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:     "running",
		Uptime:     s.now().Sub(s.started).Truncate(time.Second).String(),
		StartedAt:  s.started,
		Simulation: s.simulation,
	}
	if s.scanner != nil {
		resp.Scan = s.scanner.Status()
	}
	if s.feed != nil {
		resp.FeedClients = s.feed.Clients()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
