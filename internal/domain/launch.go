package domain

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when a launch is moved out of a terminal status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ParsedLaunchData is the normalized launch request extracted from a post.
// A value only exists when every required field passed validation.
type ParsedLaunchData struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Wallet      string `json:"wallet"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
}

// Provenance records where a launch request came from.
type Provenance struct {
	Source    Source
	SourceURL string
	AgentName string
	PostID    string
}

// TokenLaunch is the persistent record of one launch attempt.
// Corresponds to token_launches table in PostgreSQL and the molenker:tokens hash in Redis.
type TokenLaunch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Wallet      string `json:"wallet"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`

	// Deployment outcome, set once the deploy call resolves.
	TokenAddress string     `json:"tokenAddress,omitempty"`
	TxHash       string     `json:"txHash,omitempty"`
	DeployedAt   *time.Time `json:"deployedAt,omitempty"`

	Source    Source `json:"source"`
	SourceURL string `json:"sourceUrl"`
	AgentName string `json:"agentName,omitempty"`
	PostID    string `json:"postId,omitempty"`

	// Market telemetry (nullable, refreshed out of band).
	MarketCap      *float64 `json:"marketCap,omitempty"`
	Volume24h      *float64 `json:"volume24h,omitempty"`
	PriceChange24h *float64 `json:"priceChange24h,omitempty"`
	Holders        *int64   `json:"holders,omitempty"`

	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPendingLaunch builds the initial pending record for a parsed post.
func NewPendingLaunch(id string, p *ParsedLaunchData, prov Provenance, now time.Time) *TokenLaunch {
	return &TokenLaunch{
		ID:          id,
		Name:        p.Name,
		Symbol:      p.Symbol,
		Description: p.Description,
		Image:       p.Image,
		Wallet:      p.Wallet,
		Website:     p.Website,
		Twitter:     p.Twitter,
		Source:      prov.Source,
		SourceURL:   prov.SourceURL,
		AgentName:   prov.AgentName,
		PostID:      prov.PostID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkDeployed moves a pending launch to deployed.
func (t *TokenLaunch) MarkDeployed(txHash, tokenAddress string, at time.Time) error {
	if t.Status != StatusPending {
		return ErrInvalidTransition
	}
	if txHash == "" || tokenAddress == "" {
		return errors.New("deployed launch requires tx hash and token address")
	}
	t.TxHash = txHash
	t.TokenAddress = tokenAddress
	t.DeployedAt = &at
	t.Status = StatusDeployed
	t.Error = ""
	t.UpdatedAt = at
	return nil
}

// MarkFailed moves a pending launch to failed. Outcome fields are cleared.
func (t *TokenLaunch) MarkFailed(reason string, at time.Time) error {
	if t.Status != StatusPending {
		return ErrInvalidTransition
	}
	if reason == "" {
		reason = "deployment failed"
	}
	t.TxHash = ""
	t.TokenAddress = ""
	t.DeployedAt = nil
	t.Status = StatusFailed
	t.Error = reason
	t.UpdatedAt = at
	return nil
}

// Clone returns a deep copy of the launch.
func (t *TokenLaunch) Clone() *TokenLaunch {
	c := *t
	if t.DeployedAt != nil {
		v := *t.DeployedAt
		c.DeployedAt = &v
	}
	c.MarketCap = cloneFloat(t.MarketCap)
	c.Volume24h = cloneFloat(t.Volume24h)
	c.PriceChange24h = cloneFloat(t.PriceChange24h)
	if t.Holders != nil {
		v := *t.Holders
		c.Holders = &v
	}
	return &c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
