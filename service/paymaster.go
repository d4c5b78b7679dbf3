package service

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/ethabi"
	"github.com/layer-3/rangda/internal/ethsign"
)

// PaymasterDataGenerator produces the sponsorship blob embedded in
// auth payloads and user operations: the client address, the validity
// window and a client-key signature proving authorization to sponsor
// gas. Given the same nonce and deadline it regenerates the same
// canonical inputs, so the blob stays consistent across the flow.
type PaymasterDataGenerator struct {
	clientSWA        common.Address
	clientPrivateKey string
}

// NewPaymasterDataGenerator creates a generator for the registered
// client.
func NewPaymasterDataGenerator(clientSWA common.Address, clientPrivateKey string) *PaymasterDataGenerator {
	return &PaymasterDataGenerator{clientSWA: clientSWA, clientPrivateKey: clientPrivateKey}
}

// Generate builds the paymaster data blob for one nonce. validAfter is
// the discriminator slot; zero means valid immediately. It fails
// closed: any error aborts rather than returning an empty blob.
func (g *PaymasterDataGenerator) Generate(nonce uuid.UUID, validUntil time.Time, validAfter int64) (string, error) {
	if validUntil.IsZero() || !validUntil.After(time.Now()) {
		return "", fmt.Errorf("%w: validity deadline must be in the future", core.ErrPaymasterData)
	}

	until := big.NewInt(validUntil.Unix())
	after := big.NewInt(validAfter)
	nonce32 := ethabi.NonceBytes32(nonce)

	hashInput, err := ethabi.Pack("bytes32, address, uint48, uint48", nonce32, g.clientSWA, until, after)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPaymasterData, err)
	}

	signature, err := ethsign.PersonalSign(ethsign.Keccak(hashInput), g.clientPrivateKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPaymasterData, err)
	}

	sigBytes, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPaymasterData, err)
	}

	blob, err := ethabi.Pack("address, uint48, uint48, bytes", g.clientSWA, until, after, sigBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPaymasterData, err)
	}
	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty blob", core.ErrPaymasterData)
	}

	return hexutil.Encode(blob), nil
}
