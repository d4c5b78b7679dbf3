package ethabi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// NonceBigInt interprets the UUID's 128-bit value as an unsigned
// integer reduced modulo the secp256k1 group order. Reduction keeps
// the nonce usable as a field element; distinct UUIDs keep distinct
// values since the group order far exceeds the UUID space.
func NonceBigInt(nonce uuid.UUID) *big.Int {
	n := new(big.Int).SetBytes(nonce[:])
	return n.Mod(n, crypto.S256().Params().N)
}

// NonceBytes32 left-pads the reduced nonce to a 32-byte word.
func NonceBytes32(nonce uuid.UUID) [32]byte {
	var out [32]byte
	NonceBigInt(nonce).FillBytes(out[:])
	return out
}

// NonceHex renders the 32-byte nonce as a 0x-prefixed hex string, the
// form carried inside a user operation.
func NonceHex(nonce uuid.UUID) string {
	b := NonceBytes32(nonce)
	return hexutil.Encode(b[:])
}
