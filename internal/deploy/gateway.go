// Package deploy submits token creation requests to the launchpad.
//
// Signing and chain submission live behind a sidecar; this package only builds
// the deploy payload and interprets the result.
package deploy

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPlatformWallet receives the platform share of rewards and administers
// every deployed token.
const DefaultPlatformWallet = "0x8644EBC4126a7EB130dCddC6e3C215d0EdC2F9eE"

// Interface is reported in the deploy context of every token.
const Interface = "Molenker"

// Reward split in basis points.
const (
	OwnerBps    = 9000
	PlatformBps = 1000
	totalBps    = 10000
)

// RewardToken selects which leg of the pool fees a recipient earns.
const RewardToken = "Both"

// Request is a single token creation request.
type Request struct {
	Name          string
	Symbol        string
	Image         string
	Description   string
	OwnerWallet   string
	CorrelationID string // source post id
	Source        string
	Website       string
	Twitter       string
}

// Result is the gateway outcome. A successful result without TokenAddress
// means the transaction was sent but its receipt was never confirmed.
type Result struct {
	Success      bool
	TxHash       string
	TokenAddress string
	Error        string
	Simulated    bool
}

// Gateway deploys tokens. Implementations must honor ctx cancellation and
// must not retry on their own.
type Gateway interface {
	Deploy(ctx context.Context, req Request) (*Result, error)
}

// RewardSplit describes how trading rewards are divided between the post owner
// and the platform.
type RewardSplit struct {
	PlatformWallet string
	OwnerBps       int
	PlatformBps    int
}

// NewRewardSplit returns the standard 90/10 split for platformWallet.
func NewRewardSplit(platformWallet string) RewardSplit {
	if platformWallet == "" {
		platformWallet = DefaultPlatformWallet
	}
	return RewardSplit{
		PlatformWallet: platformWallet,
		OwnerBps:       OwnerBps,
		PlatformBps:    PlatformBps,
	}
}

// Shares renders the owner and platform shares as percentages, e.g. "90%".
func (s RewardSplit) Shares() (owner, platform string) {
	return bpsPercent(s.OwnerBps), bpsPercent(s.PlatformBps)
}

func bpsPercent(bps int) string {
	pct := decimal.NewFromInt(int64(bps)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(totalBps))
	return pct.String() + "%"
}

// RewardRecipient is one entry of the reward distribution.
type RewardRecipient struct {
	Admin     string `json:"admin"`
	Recipient string `json:"recipient"`
	Bps       int    `json:"bps"`
	Token     string `json:"token"`
}

// Recipients returns the reward recipients for a token owned by owner.
func (s RewardSplit) Recipients(owner string) []RewardRecipient {
	return []RewardRecipient{
		{Admin: s.PlatformWallet, Recipient: owner, Bps: s.OwnerBps, Token: RewardToken},
		{Admin: s.PlatformWallet, Recipient: s.PlatformWallet, Bps: s.PlatformBps, Token: RewardToken},
	}
}

// TwitterURL turns a handle such as "@lobsterking" into a profile URL.
func TwitterURL(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	return "https://twitter.com/" + strings.Replace(handle, "@", "", 1)
}

// ClankerURL is the launchpad page for a deployed token.
func ClankerURL(address string) string {
	return "https://clanker.world/clanker/" + address
}

// ExplorerURL is the block explorer page for a deployed token.
func ExplorerURL(address string) string {
	return "https://basescan.org/token/" + address
}
