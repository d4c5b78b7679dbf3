package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/layer-3/rangda/core"
)

// Well-known throwaway key, fixtures only.
const testClientKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

const testClientKeyAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func testConfig() Config {
	return Config{
		ClientSWA:        common.HexToAddress("0xaaaa00000000000000000000000000000000aaaa"),
		ClientPrivateKey: testClientKey,
		EntryPoint:       common.HexToAddress("0xbbbb00000000000000000000000000000000bbbb"),
		Paymaster:        common.HexToAddress("0xcccc00000000000000000000000000000000cccc"),
		JobManager:       common.HexToAddress("0xdddd00000000000000000000000000000000dddd"),
		FeePayer:         common.HexToAddress("0xeeee00000000000000000000000000000000eeee"),
		VendorChainID:    big.NewInt(8801),
	}
}

// fakeGateway implements ports.Gateway with per-test function fields.
type fakeGateway struct {
	authenticateFn func(payload *core.AuthPayload, clientSignature string) (*core.AuthResult, error)
	executeFn      func(op *core.UserOperation, authToken string) (string, error)
	gasPriceFn     func(authToken string) (*core.GasPrice, error)
	chainsFn       func(authToken string) ([]core.Chain, error)
	ordersFn       func(authToken, intentID string, intentType core.IntentType) ([]core.Order, error)
}

func (g *fakeGateway) Authenticate(ctx context.Context, payload *core.AuthPayload, clientSignature string) (*core.AuthResult, error) {
	return g.authenticateFn(payload, clientSignature)
}

func (g *fakeGateway) Execute(ctx context.Context, op *core.UserOperation, authToken string) (string, error) {
	return g.executeFn(op, authToken)
}

func (g *fakeGateway) GasPrice(ctx context.Context, authToken string) (*core.GasPrice, error) {
	return g.gasPriceFn(authToken)
}

func (g *fakeGateway) SupportedChains(ctx context.Context, authToken string) ([]core.Chain, error) {
	return g.chainsFn(authToken)
}

func (g *fakeGateway) Orders(ctx context.Context, authToken, intentID string, intentType core.IntentType) ([]core.Order, error) {
	return g.ordersFn(authToken, intentID, intentType)
}

// fakePublisher records published order events.
type fakePublisher struct {
	submitted []string
	terminal  []core.OrderStatus
}

func (p *fakePublisher) PublishOrderSubmitted(ctx context.Context, userSWA, jobID string, intentType core.IntentType) error {
	p.submitted = append(p.submitted, jobID)
	return nil
}

func (p *fakePublisher) PublishOrderTerminal(ctx context.Context, userSWA, jobID string, status core.OrderStatus) error {
	p.terminal = append(p.terminal, status)
	return nil
}

// fakeTokenizer mints predictable tokens for auth service tests.
type fakeTokenizer struct{}

func (fakeTokenizer) SessionToAccessToken(session *core.Session) (string, error) {
	return "token-" + session.ID, nil
}

func (fakeTokenizer) AccessTokenToSession(token string) (*core.Session, error) {
	if len(token) <= len("token-") {
		return nil, core.ErrInvalidToken
	}
	return &core.Session{ID: token[len("token-"):]}, nil
}

func testSession() (*core.Session, *core.SessionKey, error) {
	key, err := core.NewSessionKey()
	if err != nil {
		return nil, nil, err
	}
	return &core.Session{
		ID:             "test-session",
		SessionPrivKey: key.PrivateKey,
		SessionPubKey:  key.PublicKey,
		UserSWA:        "0x9999000000000000000000000000000000009999",
	}, key, nil
}

func supportedChains(ids ...string) []core.Chain {
	chains := make([]core.Chain, len(ids))
	for i, id := range ids {
		chains[i] = core.Chain{CAIPID: id, NetworkName: id, GSNEnabled: false, SponsorshipEnabled: false}
	}
	return chains
}
