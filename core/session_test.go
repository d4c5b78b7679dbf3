package core

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionKeyShape(t *testing.T) {
	key, err := NewSessionKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key.PrivateKey, "0x"))
	assert.Len(t, key.PrivateKey, 2+64)

	assert.True(t, strings.HasPrefix(key.PublicKey, "0x04"), "public key must be uncompressed")
	assert.Len(t, key.PublicKey, 2+130)
}

func TestNewSessionKeyAddressDerivation(t *testing.T) {
	key, err := NewSessionKey()
	require.NoError(t, err)

	pub, err := hexutil.Decode(key.PublicKey)
	require.NoError(t, err)

	// The address is the low 20 bytes of the keccak hash of the
	// public key point.
	assert.Equal(t, crypto.Keccak256(pub[1:])[12:], key.Address.Bytes())
}

func TestNewSessionKeyUniquePerCall(t *testing.T) {
	a, err := NewSessionKey()
	require.NoError(t, err)
	b, err := NewSessionKey()
	require.NoError(t, err)

	assert.NotEqual(t, a.PrivateKey, b.PrivateKey)
	assert.NotEqual(t, a.Address, b.Address)
}
