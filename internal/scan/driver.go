// Package scan periodically searches a social source and feeds the results
// through the launch orchestrator.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"molenker/internal/domain"
	"molenker/internal/launch"
	"molenker/internal/observability"
	"molenker/internal/social"
)

// DefaultInterval is the time between scheduled scans.
const DefaultInterval = 60 * time.Second

// ErrScanInProgress is returned by RunOnce while another scan is running.
var ErrScanInProgress = errors.New("scan already in progress")

// Processor handles a batch of fetched posts.
type Processor interface {
	ProcessBatch(ctx context.Context, source domain.Source, posts []domain.Post) *launch.BatchSummary
}

// Options for creating Driver.
type Options struct {
	Searcher  social.Searcher
	Source    domain.Source
	Processor Processor
	Interval  time.Duration
	Logger    *zap.Logger
}

// Status is a snapshot of the driver state for /status.
type Status struct {
	Running     bool                 `json:"running"`
	Runs        int                  `json:"runs"`
	LastRun     time.Time            `json:"last_run,omitempty"`
	LastError   string               `json:"last_error,omitempty"`
	LastSummary *launch.BatchSummary `json:"-"`
}

// Driver runs scans on demand and on a schedule. At most one scan runs at a time.
type Driver struct {
	searcher  social.Searcher
	source    domain.Source
	processor Processor
	interval  time.Duration
	logger    *zap.Logger

	mu          sync.Mutex
	running     bool
	runs        int
	lastRun     time.Time
	lastError   string
	lastSummary *launch.BatchSummary
}

// New creates a new Driver.
func New(opts Options) *Driver {
	d := &Driver{
		searcher:  opts.Searcher,
		source:    opts.Source,
		processor: opts.Processor,
		interval:  opts.Interval,
		logger:    opts.Logger,
	}
	if d.source == "" {
		d.source = domain.SourceMoltx
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// RunOnce fetches posts and processes them. A fetch failure is logged and
// degrades to an empty batch rather than failing the scan.
func (d *Driver) RunOnce(ctx context.Context) (*launch.BatchSummary, error) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil, ErrScanInProgress
	}
	d.running = true
	d.mu.Unlock()

	start := time.Now()
	var fetchErr error
	defer func() {
		d.mu.Lock()
		d.running = false
		d.runs++
		d.lastRun = time.Now()
		d.lastError = ""
		if fetchErr != nil {
			d.lastError = fetchErr.Error()
		}
		d.mu.Unlock()
	}()

	posts, err := d.searcher.Search(ctx)
	if err != nil {
		fetchErr = err
		observability.RecordSourceFetchError(string(d.source))
		d.logger.Warn("source fetch failed, processing empty batch",
			zap.String("source", string(d.source)),
			zap.Error(err),
		)
		posts = nil
	}

	summary := d.processor.ProcessBatch(ctx, d.source, posts)

	status := "success"
	if fetchErr != nil {
		status = "degraded"
	}
	observability.RecordScan(status, time.Since(start))

	d.logger.Info("scan complete",
		zap.String("source", string(d.source)),
		zap.Int("scanned", summary.Scanned),
		zap.Int("launched", summary.Launched),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", time.Since(start)),
	)

	d.mu.Lock()
	d.lastSummary = summary
	d.mu.Unlock()

	return summary, nil
}

// Run scans immediately and then on every tick until ctx is done.
// A tick that arrives while a scan is still running is skipped.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("starting scan scheduler", zap.Duration("interval", d.interval))

	d.tick(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Driver) tick(ctx context.Context) {
	if _, err := d.RunOnce(ctx); errors.Is(err, ErrScanInProgress) {
		d.logger.Info("scan already running, skipping tick")
	}
}

// Status returns the current driver state.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Running:     d.running,
		Runs:        d.runs,
		LastRun:     d.lastRun,
		LastError:   d.lastError,
		LastSummary: d.lastSummary,
	}
}
