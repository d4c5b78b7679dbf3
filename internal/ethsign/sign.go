// Package ethsign holds the EIP-191 signing helpers shared by the
// authentication and user-operation flows.
package ethsign

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/layer-3/rangda/core"
)

// ParseKey decodes a 0x-prefixed 32-byte private scalar.
func ParseKey(privHex string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key: %v", core.ErrSigning, err)
	}
	return key, nil
}

// PersonalSign signs message under the EIP-191 personal-message scheme
// and returns the 65-byte signature with the legacy 27/28 recovery id,
// as the gateway expects.
func PersonalSign(message []byte, privHex string) (string, error) {
	key, err := ParseKey(privHex)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSigning, err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// RecoverAddress recovers the signer address of a PersonalSign
// signature over message.
func RecoverAddress(message []byte, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: malformed signature", core.ErrSigning)
	}

	// crypto.SigToPub wants the raw 0/1 recovery id.
	recovered := make([]byte, 65)
	copy(recovered, sig)
	if recovered[64] >= 27 {
		recovered[64] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), recovered)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", core.ErrSigning, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Keccak is a convenience wrapper over crypto.Keccak256.
func Keccak(data ...[]byte) []byte {
	return crypto.Keccak256(data...)
}
