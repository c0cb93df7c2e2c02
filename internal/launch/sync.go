package launch

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"molenker/internal/deploy"
	"molenker/internal/domain"
	"molenker/internal/social"
)

// Request is a synchronous launch of one post.
type Request struct {
	PostID     string
	Credential string
}

// Rewards describes the fee split of a launched token.
type Rewards struct {
	AgentShare    string `json:"agent_share"`
	PlatformShare string `json:"platform_share"`
	AgentWallet   string `json:"agent_wallet"`
}

// Response describes a successful synchronous launch.
type Response struct {
	Success      bool    `json:"success"`
	ID           string  `json:"id"`
	Agent        string  `json:"agent"`
	PostID       string  `json:"post_id"`
	PostURL      string  `json:"post_url"`
	TokenAddress string  `json:"token_address"`
	TxHash       string  `json:"tx_hash"`
	ClankerURL   string  `json:"clanker_url"`
	ExplorerURL  string  `json:"explorer_url"`
	Rewards      Rewards `json:"rewards"`
	Simulated    bool    `json:"simulated,omitempty"`
}

const defaultParseError = "Could not parse launch data from post"

// Launch fetches, parses and deploys a single post. Failures are *Error.
func (o *Orchestrator) Launch(ctx context.Context, req Request) (*Response, error) {
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return nil, newError(CodeMissingPostID, "Missing post_id", "post_id is required")
	}

	processed, err := o.ledger.IsProcessed(ctx, postID)
	if err != nil {
		return nil, o.internal(err)
	}
	if processed {
		return nil, alreadyProcessed()
	}

	if req.Credential == "" {
		return nil, newError(CodeMissingCredential, "Missing moltbook_key",
			"moltbook_key is required for Moltbook launches")
	}
	if o.fetcher == nil {
		return nil, o.internal(errors.New("no post fetcher configured"))
	}

	post, err := o.fetcher.FetchPost(ctx, postID, req.Credential)
	if err != nil {
		o.logger.Warn("fetch post failed", zap.String("post_id", postID), zap.Error(err))
		if errors.Is(err, social.ErrUpstreamStatus) {
			e := newError(CodeFetchFailed, "Failed to fetch post from Moltbook",
				"Could not retrieve post. Check post_id and API key.")
			e.Err = err
			return nil, e
		}
		e := newError(CodeNetworkError, "Failed to connect to Moltbook",
			"Network error connecting to Moltbook API")
		e.Err = err
		return nil, e
	}
	if post.Source == "" {
		post.Source = o.fetchSource
	}

	parsed := o.parser.Parse(post.Content)
	if parsed == nil {
		details := o.parser.Errors(post.Content)
		if len(details) == 0 {
			details = []string{defaultParseError}
		}
		return nil, newError(CodeInvalidFormat, "Invalid launch format", details...)
	}

	claimed, err := o.ledger.Claim(ctx, postID)
	if err != nil {
		return nil, o.internal(err)
	}
	if !claimed {
		return nil, alreadyProcessed()
	}

	record, err := o.execute(ctx, parsed, domain.Provenance{
		Source:    post.Source,
		SourceURL: post.URL,
		AgentName: post.AgentName,
		PostID:    postID,
	})
	if err != nil {
		return nil, o.internal(err)
	}

	if record.Status != domain.StatusDeployed {
		e := newError(CodeDeployFailed, "Token deployment failed", record.Error)
		return nil, e
	}

	agentShare, platformShare := o.split.Shares()
	return &Response{
		Success:      true,
		ID:           record.ID,
		Agent:        record.AgentName,
		PostID:       postID,
		PostURL:      record.SourceURL,
		TokenAddress: record.TokenAddress,
		TxHash:       record.TxHash,
		ClankerURL:   deploy.ClankerURL(record.TokenAddress),
		ExplorerURL:  deploy.ExplorerURL(record.TokenAddress),
		Rewards: Rewards{
			AgentShare:    agentShare,
			PlatformShare: platformShare,
			AgentWallet:   record.Wallet,
		},
		Simulated: record.Simulated,
	}, nil
}

func alreadyProcessed() *Error {
	return newError(CodeAlreadyProcessed, "Post already processed",
		"This post has already been used for a launch")
}

func (o *Orchestrator) internal(err error) *Error {
	o.logger.Error("launch failed", zap.Error(err))
	e := newError(CodeInternal, "Internal server error", "An unexpected error occurred")
	e.Err = err
	return e
}
