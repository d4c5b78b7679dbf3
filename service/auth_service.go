package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/ethabi"
	"github.com/layer-3/rangda/internal/ethsign"
	"github.com/layer-3/rangda/ports"
)

// feeCeiling is the fixed fee ceiling the gateway accepts in session
// data (50 gwei).
const feeCeiling = "0xBA43B7400"

// gatewayTokenTTL bounds a minted gateway authorization token.
const gatewayTokenTTL = 90 * time.Minute

// AuthService runs the session authorization flow: session key
// generation, auth payload construction with dual signatures, the
// authentication call, and persistence of the resulting session
// descriptor.
type AuthService struct {
	gateway   ports.Gateway
	store     ports.SessionStore
	tokenizer ports.Tokenizer
	paymaster *PaymasterDataGenerator
	cfg       Config
}

// NewAuthService creates a new authentication service.
func NewAuthService(gateway ports.Gateway, store ports.SessionStore, tokenizer ports.Tokenizer, cfg Config) *AuthService {
	return &AuthService{
		gateway:   gateway,
		store:     store,
		tokenizer: tokenizer,
		paymaster: NewPaymasterDataGenerator(cfg.ClientSWA, cfg.ClientPrivateKey),
		cfg:       cfg,
	}
}

// LoginResult is what a successful authentication hands back to the
// caller.
type LoginResult struct {
	AccessToken string
	UserSWA     string
	Session     *core.Session
}

// Login authorizes a verified identity to control a smart wallet: it
// generates a fresh session key, builds and signs the auth payload,
// authenticates against the gateway, stores the session descriptor
// and mints an API access token. One session key per attempt; nothing
// is reused.
func (s *AuthService) Login(ctx context.Context, idToken, provider string) (*LoginResult, error) {
	if idToken == "" || provider == "" {
		return nil, fmt.Errorf("%w: idToken and provider are required", core.ErrAuthorization)
	}

	sessionKey, err := core.NewSessionKey()
	if err != nil {
		return nil, err
	}

	payload, err := s.BuildAuthPayload(core.AuthData{IDToken: idToken, Provider: provider}, sessionKey)
	if err != nil {
		return nil, err
	}

	clientSignature, err := s.signPayload(payload)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Authenticate(ctx, payload, clientSignature)
	if err != nil {
		return nil, err
	}

	session := &core.Session{
		ID:             uuid.New().String(),
		SessionPrivKey: sessionKey.PrivateKey,
		SessionPubKey:  sessionKey.PublicKey,
		UserSWA:        result.UserSWA,
	}
	if err := s.store.Save(ctx, session, s.cfg.sessionTTL()); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to mint access token: %w", err)
	}

	return &LoginResult{
		AccessToken: accessToken,
		UserSWA:     result.UserSWA,
		Session:     session,
	}, nil
}

// BuildAuthPayload assembles the single-use session-authorization
// payload. Both signatures cover the same digest, the keccak hash of
// the ABI-encoded session key address: one under the long-lived client
// key and one under the session key.
func (s *AuthService) BuildAuthPayload(authData core.AuthData, sessionKey *core.SessionKey) (*core.AuthPayload, error) {
	nonce := uuid.New()

	paymasterData, err := s.paymaster.Generate(nonce, time.Now().Add(s.cfg.sessionTTL()), 0)
	if err != nil {
		return nil, err
	}

	encodedAddr, err := ethabi.Pack("address", sessionKey.Address)
	if err != nil {
		return nil, err
	}
	digest := ethsign.Keccak(encodedAddr)

	clientSig, err := ethsign.PersonalSign(digest, s.cfg.ClientPrivateKey)
	if err != nil {
		return nil, err
	}
	sessionSig, err := ethsign.PersonalSign(digest, sessionKey.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &core.AuthPayload{
		AuthData: authData,
		SessionData: core.SessionData{
			Nonce:                nonce.String(),
			ClientSWA:            s.cfg.ClientSWA.Hex(),
			SessionPK:            sessionKey.PublicKey,
			MaxPriorityFeePerGas: feeCeiling,
			MaxFeePerGas:         feeCeiling,
			Paymaster:            s.cfg.Paymaster.Hex(),
			PaymasterData:        paymasterData,
		},
		SessionPKClientSignature: clientSig,
		SessionDataUserSignature: sessionSig,
	}, nil
}

// SessionFromToken resolves an access token into the full stored
// session descriptor.
func (s *AuthService) SessionFromToken(ctx context.Context, accessToken string) (*core.Session, error) {
	partial, err := s.tokenizer.AccessTokenToSession(accessToken)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, partial.ID)
}

// GatewayAuthToken mints the gateway authorization token from a
// session descriptor: a base64 JSON envelope whose payload is signed
// with the session key. It is regenerated per request; nothing is
// cached process-wide.
func (s *AuthService) GatewayAuthToken(session *core.Session) (string, error) {
	data := struct {
		ExpireAt      int64  `json:"expire_at"`
		SessionPubKey string `json:"session_pub_key"`
	}{
		ExpireAt:      time.Now().Add(gatewayTokenTTL).Unix(),
		SessionPubKey: session.SessionPubKey,
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrAuthorization, err)
	}

	signature, err := ethsign.PersonalSign(raw, session.SessionPrivKey)
	if err != nil {
		return "", err
	}

	token := struct {
		Type          string          `json:"type"`
		Data          json.RawMessage `json:"data"`
		DataSignature string          `json:"data_signature"`
	}{
		Type:          "ecdsa_uncompressed",
		Data:          raw,
		DataSignature: signature,
	}

	encoded, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrAuthorization, err)
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// signPayload signs the canonical JSON of the payload under the client
// key, producing the client_signature of the authentication request
// wrapper.
func (s *AuthService) signPayload(payload *core.AuthPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSigning, err)
	}
	return ethsign.PersonalSign(raw, s.cfg.ClientPrivateKey)
}
