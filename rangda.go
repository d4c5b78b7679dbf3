// Package rangda authorizes externally verified identities to control
// smart-contract wallets and executes transfer intents through an
// execution gateway: session-key generation, dual-signed session
// authorization, ABI-encoded intent calldata, user-operation assembly
// and signing, JSON-RPC submission, and order tracking to a terminal
// status.
package rangda

import (
	"context"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
)

// Client is the public interface for driving the wallet pipeline
// programmatically, without the HTTP transport.
type Client interface {
	// Login authorizes a verified identity, establishes a session with
	// the gateway and returns the durable session descriptor.
	Login(ctx context.Context, idToken, provider string) (*core.Session, error)

	// TransferToken encodes, signs and submits a transfer intent for
	// the session and returns the job id tracking it.
	TransferToken(ctx context.Context, session *core.Session, intent core.TransferIntent) (string, error)

	// TrackOrder polls the order until a terminal status. Cancel ctx
	// to bound the wait; the job id stays valid for resumption.
	TrackOrder(ctx context.Context, session *core.Session, jobID string, intentType core.IntentType) (core.OrderStatus, error)
}

type client struct {
	auth    *service.AuthService
	intents *service.IntentService
	tracker *service.OrderTracker
}

// New creates a Client over the given collaborators.
func New(gateway ports.Gateway, store ports.SessionStore, tokenizer ports.Tokenizer, events ports.EventPublisher, cfg service.Config) Client {
	return &client{
		auth:    service.NewAuthService(gateway, store, tokenizer, cfg),
		intents: service.NewIntentService(gateway, events, cfg),
		tracker: service.NewOrderTracker(gateway, events, 0),
	}
}

func (c *client) Login(ctx context.Context, idToken, provider string) (*core.Session, error) {
	result, err := c.auth.Login(ctx, idToken, provider)
	if err != nil {
		return nil, err
	}
	return result.Session, nil
}

func (c *client) TransferToken(ctx context.Context, session *core.Session, intent core.TransferIntent) (string, error) {
	authToken, err := c.auth.GatewayAuthToken(session)
	if err != nil {
		return "", err
	}
	return c.intents.TransferToken(ctx, session, authToken, intent)
}

func (c *client) TrackOrder(ctx context.Context, session *core.Session, jobID string, intentType core.IntentType) (core.OrderStatus, error) {
	authToken, err := c.auth.GatewayAuthToken(session)
	if err != nil {
		return "", err
	}
	return c.tracker.Wait(ctx, authToken, session.UserSWA, jobID, intentType)
}
