package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SessionKey is an ephemeral secp256k1 keypair authorizing actions for
// a single authenticated session. It is created at session start, held
// only in memory, and never reused across authentication attempts.
type SessionKey struct {
	PrivateKey string // 0x-prefixed 32-byte scalar
	PublicKey  string // 0x-prefixed 65-byte uncompressed point
	Address    common.Address
}

// NewSessionKey generates a fresh session key from the process
// randomness source.
func NewSessionKey() (*SessionKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	return &SessionKey{
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		PublicKey:  hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)),
		Address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Session is the durable descriptor produced by a successful
// authentication. The caller persists it and supplies it to every
// signing operation for the session's lifetime.
type Session struct {
	ID             string `json:"id"`
	SessionPrivKey string `json:"session_priv_key"`
	SessionPubKey  string `json:"session_pub_key"`
	UserSWA        string `json:"user_swa"` // user's smart wallet account address
}
