package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/adapters/store"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/ethabi"
	"github.com/layer-3/rangda/internal/ethsign"
)

func newAuthService(gw *fakeGateway) *AuthService {
	return NewAuthService(gw, store.NewMemoryStore(), fakeTokenizer{}, testConfig())
}

func TestBuildAuthPayloadDualSignatures(t *testing.T) {
	svc := newAuthService(&fakeGateway{})

	sessionKey, err := core.NewSessionKey()
	require.NoError(t, err)

	payload, err := svc.BuildAuthPayload(core.AuthData{IDToken: "id-token", Provider: "google"}, sessionKey)
	require.NoError(t, err)

	// Both signatures cover the same digest: the keccak hash of the
	// ABI-encoded session key address.
	encodedAddr, err := ethabi.Pack("address", sessionKey.Address)
	require.NoError(t, err)
	digest := ethsign.Keccak(encodedAddr)

	clientSigner, err := ethsign.RecoverAddress(digest, payload.SessionPKClientSignature)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testClientKeyAddress), clientSigner)

	sessionSigner, err := ethsign.RecoverAddress(digest, payload.SessionDataUserSignature)
	require.NoError(t, err)
	assert.Equal(t, sessionKey.Address, sessionSigner)
}

func TestBuildAuthPayloadSessionData(t *testing.T) {
	cfg := testConfig()
	svc := newAuthService(&fakeGateway{})

	sessionKey, err := core.NewSessionKey()
	require.NoError(t, err)

	payload, err := svc.BuildAuthPayload(core.AuthData{IDToken: "id-token", Provider: "google"}, sessionKey)
	require.NoError(t, err)

	_, err = uuid.Parse(payload.SessionData.Nonce)
	require.NoError(t, err, "nonce must be a UUID")

	assert.Equal(t, cfg.ClientSWA.Hex(), payload.SessionData.ClientSWA)
	assert.Equal(t, sessionKey.PublicKey, payload.SessionData.SessionPK)
	assert.Equal(t, cfg.Paymaster.Hex(), payload.SessionData.Paymaster)
	assert.Equal(t, feeCeiling, payload.SessionData.MaxFeePerGas)
	assert.Equal(t, feeCeiling, payload.SessionData.MaxPriorityFeePerGas)
	assert.NotEmpty(t, payload.SessionData.PaymasterData)
}

func TestBuildAuthPayloadFreshNoncePerAttempt(t *testing.T) {
	svc := newAuthService(&fakeGateway{})

	keyA, err := core.NewSessionKey()
	require.NoError(t, err)
	keyB, err := core.NewSessionKey()
	require.NoError(t, err)

	a, err := svc.BuildAuthPayload(core.AuthData{IDToken: "t", Provider: "google"}, keyA)
	require.NoError(t, err)
	b, err := svc.BuildAuthPayload(core.AuthData{IDToken: "t", Provider: "google"}, keyB)
	require.NoError(t, err)

	assert.NotEqual(t, a.SessionData.Nonce, b.SessionData.Nonce)
}

func TestLoginEstablishesSession(t *testing.T) {
	gw := &fakeGateway{
		authenticateFn: func(payload *core.AuthPayload, clientSignature string) (*core.AuthResult, error) {
			assert.Equal(t, "id-token", payload.AuthData.IDToken)
			assert.Equal(t, "google", payload.AuthData.Provider)
			assert.NotEmpty(t, clientSignature)
			return &core.AuthResult{UserSWA: "0x9999000000000000000000000000000000009999", AuthToken: "upstream"}, nil
		},
	}
	svc := newAuthService(gw)

	result, err := svc.Login(context.Background(), "id-token", "google")
	require.NoError(t, err)

	assert.Equal(t, "0x9999000000000000000000000000000000009999", result.UserSWA)
	assert.Equal(t, "token-"+result.Session.ID, result.AccessToken)
	assert.NotEmpty(t, result.Session.SessionPrivKey)
	assert.NotEmpty(t, result.Session.SessionPubKey)

	// The stored descriptor must match what the caller received.
	stored, err := svc.SessionFromToken(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Session, stored)
}

func TestLoginDistinctSessionKeysPerAttempt(t *testing.T) {
	gw := &fakeGateway{
		authenticateFn: func(payload *core.AuthPayload, _ string) (*core.AuthResult, error) {
			return &core.AuthResult{UserSWA: "0x9999000000000000000000000000000000009999", AuthToken: "upstream"}, nil
		},
	}
	svc := newAuthService(gw)

	a, err := svc.Login(context.Background(), "id-token", "google")
	require.NoError(t, err)
	b, err := svc.Login(context.Background(), "id-token", "google")
	require.NoError(t, err)

	assert.NotEqual(t, a.Session.SessionPrivKey, b.Session.SessionPrivKey)
}

func TestLoginPropagatesGatewayError(t *testing.T) {
	authErr := errors.New("identity rejected")
	gw := &fakeGateway{
		authenticateFn: func(*core.AuthPayload, string) (*core.AuthResult, error) { return nil, authErr },
	}
	svc := newAuthService(gw)

	_, err := svc.Login(context.Background(), "id-token", "google")
	require.ErrorIs(t, err, authErr)
}

func TestLoginRequiresIdentity(t *testing.T) {
	svc := newAuthService(&fakeGateway{})

	_, err := svc.Login(context.Background(), "", "google")
	require.ErrorIs(t, err, core.ErrAuthorization)

	_, err = svc.Login(context.Background(), "id-token", "")
	require.ErrorIs(t, err, core.ErrAuthorization)
}

func TestGatewayAuthTokenSignedBySessionKey(t *testing.T) {
	svc := newAuthService(&fakeGateway{})

	session, key, err := testSession()
	require.NoError(t, err)

	token, err := svc.GatewayAuthToken(session)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	var envelope struct {
		Type          string          `json:"type"`
		Data          json.RawMessage `json:"data"`
		DataSignature string          `json:"data_signature"`
	}
	require.NoError(t, json.Unmarshal(decoded, &envelope))
	assert.Equal(t, "ecdsa_uncompressed", envelope.Type)

	var data struct {
		ExpireAt      int64  `json:"expire_at"`
		SessionPubKey string `json:"session_pub_key"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, session.SessionPubKey, data.SessionPubKey)
	assert.Positive(t, data.ExpireAt)

	signer, err := ethsign.RecoverAddress(envelope.Data, envelope.DataSignature)
	require.NoError(t, err)
	assert.Equal(t, key.Address, signer)
}
