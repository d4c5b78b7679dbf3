package service

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config carries the registered client identity and the settlement
// contract parameters every pipeline run needs. Values come from the
// environment at wiring time; nothing here is process-global state.
type Config struct {
	// ClientSWA is the client's smart wallet account registered with
	// the gateway.
	ClientSWA common.Address

	// ClientPrivateKey is the long-lived client key, 0x-prefixed.
	ClientPrivateKey string

	// EntryPoint, Paymaster and JobManager are the settlement contract
	// addresses on the vendor chain.
	EntryPoint common.Address
	Paymaster  common.Address
	JobManager common.Address

	// FeePayer funds gas in non-sponsored mode.
	FeePayer common.Address

	// VendorChainID is the chain the settlement contracts live on; it
	// is bound into the user operation hash.
	VendorChainID *big.Int

	// SessionTTL bounds both the stored session descriptor and the
	// paymaster validity window.
	SessionTTL time.Duration
}

// DefaultSessionTTL matches the paymaster validity window the gateway
// sandbox issues.
const DefaultSessionTTL = 6 * time.Hour

func (c Config) sessionTTL() time.Duration {
	if c.SessionTTL > 0 {
		return c.SessionTTL
	}
	return DefaultSessionTTL
}
