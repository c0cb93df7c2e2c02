// Package watcher triggers the service's scan endpoint on a fixed interval,
// for deployments that run the scan from an external scheduler.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults.
const (
	DefaultInterval = 60 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// ScanResult is the decoded body of a successful scan.
type ScanResult struct {
	Success        bool     `json:"success"`
	ScannedPosts   int      `json:"scanned_posts"`
	NewLaunches    int      `json:"new_launches"`
	FailedLaunches int      `json:"failed_launches"`
	Details        []Detail `json:"details"`
	Timestamp      string   `json:"timestamp"`
}

// Detail is one launch reported by a scan.
type Detail struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

// StatusError is returned when the endpoint answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scan endpoint returned %d: %s", e.Code, e.Body)
}

// Options for creating Watcher.
type Options struct {
	URL        string
	Secret     string // sent as a bearer token when set
	Interval   time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Watcher calls the scan endpoint.
type Watcher struct {
	url      string
	secret   string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// New creates a new Watcher.
func New(opts Options) *Watcher {
	w := &Watcher{
		url:      opts.URL,
		secret:   opts.Secret,
		interval: opts.Interval,
		client:   opts.HTTPClient,
		logger:   opts.Logger,
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.client == nil {
		w.client = &http.Client{Timeout: DefaultTimeout}
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// ScanURL appends the scan path to a service base URL unless it is already there.
func ScanURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/api/cron/scan") {
		return base
	}
	return base + "/api/cron/scan"
}

// Trigger runs one scan.
func (w *Watcher) Trigger(ctx context.Context) (*ScanResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if w.secret != "" {
		req.Header.Set("Authorization", "Bearer "+w.secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request scan: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		text := string(body)
		if len(text) > 200 {
			text = text[:200]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: text}
	}

	var result ScanResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// Run triggers immediately and then on every tick until ctx is done.
// Failed triggers are logged and the loop continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started",
		zap.String("target", w.url),
		zap.Duration("interval", w.interval),
	)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping watcher")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	w.logger.Debug("triggering scan", zap.String("target", w.url))

	result, err := w.Trigger(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("scan trigger failed", zap.Error(err))
		}
		return
	}

	w.logger.Info("scan complete",
		zap.Int("scanned_posts", result.ScannedPosts),
		zap.Int("new_launches", result.NewLaunches),
		zap.Int("failed_launches", result.FailedLaunches),
	)
	for _, d := range result.Details {
		w.logger.Info("new token",
			zap.String("name", d.Name),
			zap.String("symbol", d.Symbol),
			zap.String("status", d.Status),
		)
	}
}
