package deploy

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Simulator fabricates deploy results without touching any chain.
// Every result it returns carries Simulated=true.
type Simulator struct{}

// NewSimulator creates a Simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

var _ Gateway = (*Simulator)(nil)

// Deploy returns a random 20-byte address and 32-byte transaction hash.
func (s *Simulator) Deploy(ctx context.Context, _ Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr, err := randomHex(20)
	if err != nil {
		return nil, err
	}
	hash, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:      true,
		TxHash:       hash,
		TokenAddress: addr,
		Simulated:    true,
	}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}
