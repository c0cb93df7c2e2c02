// Package launch turns parsed agent posts into deployed tokens.
//
// Batch mode handles posts returned by a source search; synchronous mode
// handles one explicitly requested post. Both share the same per-post flow:
// claim the post in the ledger, persist a pending record, deploy, persist the
// final record.
package launch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"molenker/internal/deploy"
	"molenker/internal/domain"
	"molenker/internal/observability"
	"molenker/internal/parser"
	"molenker/internal/social"
	"molenker/internal/storage"
)

// DefaultDeployTimeout bounds one deploy call.
const DefaultDeployTimeout = 120 * time.Second

// persistTimeout bounds each launch record write.
const persistTimeout = 10 * time.Second

// Notifier receives every finalized launch record.
type Notifier interface {
	Notify(t *domain.TokenLaunch)
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Parser  *parser.Parser
	Tokens  storage.TokenStore
	Ledger  storage.Ledger
	Gateway deploy.Gateway

	// Required for synchronous mode
	Fetcher     social.PostFetcher
	FetchSource domain.Source // defaults to moltbook

	Split         deploy.RewardSplit
	Notifier      Notifier
	Logger        *zap.Logger
	DeployTimeout time.Duration

	// Test hooks
	Now   func() time.Time
	NewID func() string
}

// Orchestrator runs the launch flow.
type Orchestrator struct {
	parser        *parser.Parser
	tokens        storage.TokenStore
	ledger        storage.Ledger
	gateway       deploy.Gateway
	fetcher       social.PostFetcher
	fetchSource   domain.Source
	split         deploy.RewardSplit
	notifier      Notifier
	logger        *zap.Logger
	deployTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		parser:        opts.Parser,
		tokens:        opts.Tokens,
		ledger:        opts.Ledger,
		gateway:       opts.Gateway,
		fetcher:       opts.Fetcher,
		fetchSource:   opts.FetchSource,
		split:         opts.Split,
		notifier:      opts.Notifier,
		logger:        opts.Logger,
		deployTimeout: opts.DeployTimeout,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	if o.parser == nil {
		o.parser = parser.New()
	}
	if o.fetchSource == "" {
		o.fetchSource = domain.SourceMoltbook
	}
	if o.split.PlatformWallet == "" {
		o.split = deploy.NewRewardSplit("")
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.deployTimeout <= 0 {
		o.deployTimeout = DefaultDeployTimeout
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

// Split returns the reward split applied to launches.
func (o *Orchestrator) Split() deploy.RewardSplit {
	return o.split
}

// execute runs the shared pending -> deploy -> final flow for a claimed post.
// The returned record is always persisted in its final state unless err != nil.
//
// Once the post is claimed the flow no longer follows the caller's
// cancellation: the deploy is bounded by the deploy timeout and every write by
// persistTimeout, so the record always leaves pending.
func (o *Orchestrator) execute(ctx context.Context, parsed *domain.ParsedLaunchData, prov domain.Provenance) (*domain.TokenLaunch, error) {
	ctx = context.WithoutCancel(ctx)

	record := domain.NewPendingLaunch(o.newID(), parsed, prov, o.now())
	if err := o.persist(ctx, record); err != nil {
		return nil, fmt.Errorf("persist pending launch: %w", err)
	}

	result, deployErr := o.deploy(ctx, record, prov)

	at := o.now()
	switch {
	case deployErr != nil:
		_ = record.MarkFailed(deployErr.Error(), at)
	case !result.Success:
		_ = record.MarkFailed(result.Error, at)
	case result.TokenAddress == "" || result.TxHash == "":
		reason := "deployment unconfirmed"
		if result.TxHash != "" {
			reason = fmt.Sprintf("deployment unconfirmed: tx %s has no token address", result.TxHash)
		}
		if result.Error != "" {
			reason += ": " + result.Error
		}
		_ = record.MarkFailed(reason, at)
	default:
		if err := record.MarkDeployed(result.TxHash, result.TokenAddress, at); err != nil {
			_ = record.MarkFailed(err.Error(), at)
		}
		record.Simulated = result.Simulated
	}

	// The pending record stays behind if this write fails; the ledger entry
	// still prevents a second attempt for the post.
	if err := o.persist(ctx, record); err != nil {
		return record, fmt.Errorf("persist final launch %s: %w", record.ID, err)
	}

	observability.RecordLaunch(string(prov.Source), string(record.Status))
	if o.notifier != nil {
		o.notifier.Notify(record.Clone())
	}
	return record, nil
}

func (o *Orchestrator) persist(ctx context.Context, record *domain.TokenLaunch) error {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	return o.tokens.Put(ctx, record)
}

// deploy calls the gateway with the deploy timeout applied.
func (o *Orchestrator) deploy(ctx context.Context, record *domain.TokenLaunch, prov domain.Provenance) (*deploy.Result, error) {
	deployCtx, cancel := context.WithTimeout(ctx, o.deployTimeout)
	defer cancel()

	start := time.Now()
	result, err := o.gateway.Deploy(deployCtx, deploy.Request{
		Name:          record.Name,
		Symbol:        record.Symbol,
		Image:         record.Image,
		Description:   record.Description,
		OwnerWallet:   record.Wallet,
		CorrelationID: prov.PostID,
		Source:        string(prov.Source),
		Website:       record.Website,
		Twitter:       record.Twitter,
	})

	outcome := "success"
	switch {
	case err != nil && errors.Is(deployCtx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
		err = fmt.Errorf("deploy timed out after %s: %w", o.deployTimeout, err)
	case err != nil:
		outcome = "error"
	case result == nil:
		outcome = "error"
		err = errors.New("deploy gateway returned no result")
	case !result.Success:
		outcome = "rejected"
	}
	observability.RecordDeployLatency(outcome, time.Since(start))

	if err != nil {
		o.logger.Warn("deploy failed",
			zap.String("launch_id", record.ID),
			zap.String("post_id", prov.PostID),
			zap.Error(err),
		)
	}
	return result, err
}
