// Package identity builds the on-chain agent identity used for A2A calls.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/babylon-agents/babylon-agent/internal/config"
)

// Identity is the immutable agent identity, created once at startup.
type Identity struct {
	ChainID int64
	TokenID int64
	Address string
	Name    string
}

// New builds an Identity from configuration. The address and chain id must be
// present; a missing token id is derived from the wall clock, matching the
// ephemeral registration scheme of the Babylon testnet.
func New(cfg config.BabylonConfig, name string) (*Identity, error) {
	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		return nil, fmt.Errorf("identity: agent address is required (set BABYLON_ADDRESS)")
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("identity: chain id must be positive, got %d", cfg.ChainID)
	}
	tokenID := cfg.TokenID
	if tokenID <= 0 {
		tokenID = time.Now().Unix() % 100000
	}
	return &Identity{
		ChainID: cfg.ChainID,
		TokenID: tokenID,
		Address: address,
		Name:    name,
	}, nil
}

// AgentID returns the "<chainID>:<tokenID>" identifier sent in A2A headers.
func (i *Identity) AgentID() string {
	return fmt.Sprintf("%d:%d", i.ChainID, i.TokenID)
}
