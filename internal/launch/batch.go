package launch

import (
	"context"

	"go.uber.org/zap"

	"molenker/internal/domain"
	"molenker/internal/observability"
)

// Outcome of one post in a batch.
type Outcome string

const (
	OutcomeLaunched  Outcome = "launched"
	OutcomeFailed    Outcome = "failed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeError     Outcome = "error"
)

// PostOutcome records what happened to a single post.
type PostOutcome struct {
	PostID  string
	Outcome Outcome
	Launch  *domain.TokenLaunch
	Err     error
}

// LaunchDetail is the per-launch entry of a batch summary.
type LaunchDetail struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Symbol string        `json:"symbol"`
	Status domain.Status `json:"status"`
}

// BatchSummary aggregates a batch run.
// Launched counts every new launch record, including those that failed to deploy.
type BatchSummary struct {
	Scanned  int
	Launched int
	Failed   int
	Skipped  int
	Errors   int
	Details  []LaunchDetail
	Outcomes []PostOutcome
}

// ProcessBatch runs the launch flow over posts one at a time.
// A failure on one post is captured in its outcome and never stops the batch.
func (o *Orchestrator) ProcessBatch(ctx context.Context, source domain.Source, posts []domain.Post) *BatchSummary {
	summary := &BatchSummary{
		Scanned: len(posts),
		Details: []LaunchDetail{},
	}

	for _, post := range posts {
		if ctx.Err() != nil {
			summary.Outcomes = append(summary.Outcomes, PostOutcome{PostID: post.ID, Outcome: OutcomeError, Err: ctx.Err()})
			summary.Errors++
			continue
		}

		if post.Source == "" {
			post.Source = source
		}
		out := o.processPost(ctx, post)
		summary.Outcomes = append(summary.Outcomes, out)

		switch out.Outcome {
		case OutcomeLaunched, OutcomeFailed:
			summary.Launched++
			if out.Outcome == OutcomeFailed {
				summary.Failed++
			}
			summary.Details = append(summary.Details, LaunchDetail{
				ID:     out.Launch.ID,
				Name:   out.Launch.Name,
				Symbol: out.Launch.Symbol,
				Status: out.Launch.Status,
			})
		case OutcomeDuplicate, OutcomeIgnored:
			summary.Skipped++
		case OutcomeError:
			summary.Errors++
			o.logger.Error("post processing failed",
				zap.String("post_id", post.ID),
				zap.String("source", string(post.Source)),
				zap.Error(out.Err),
			)
		}
	}

	return summary
}

func (o *Orchestrator) processPost(ctx context.Context, post domain.Post) PostOutcome {
	out := PostOutcome{PostID: post.ID}
	source := string(post.Source)
	observability.RecordPostScanned(source)

	if post.ID == "" {
		out.Outcome = OutcomeIgnored
		return out
	}

	processed, err := o.ledger.IsProcessed(ctx, post.ID)
	if err != nil {
		out.Outcome, out.Err = OutcomeError, err
		return out
	}
	if processed {
		observability.RecordDuplicatePost(source)
		out.Outcome = OutcomeDuplicate
		return out
	}

	parsed := o.parser.Parse(post.Content)
	if parsed == nil {
		observability.RecordParseRejection(source)
		out.Outcome = OutcomeIgnored
		return out
	}

	claimed, err := o.ledger.Claim(ctx, post.ID)
	if err != nil {
		out.Outcome, out.Err = OutcomeError, err
		return out
	}
	if !claimed {
		observability.RecordDuplicatePost(source)
		out.Outcome = OutcomeDuplicate
		return out
	}

	record, err := o.execute(ctx, parsed, domain.Provenance{
		Source:    post.Source,
		SourceURL: post.URL,
		AgentName: post.AgentName,
		PostID:    post.ID,
	})
	if err != nil {
		out.Outcome, out.Err, out.Launch = OutcomeError, err, record
		return out
	}

	out.Launch = record
	if record.Status == domain.StatusDeployed {
		out.Outcome = OutcomeLaunched
		o.logger.Info("token launched",
			zap.String("launch_id", record.ID),
			zap.String("symbol", record.Symbol),
			zap.String("token_address", record.TokenAddress),
			zap.Bool("simulated", record.Simulated),
		)
	} else {
		out.Outcome = OutcomeFailed
	}
	return out
}
