package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// Gateway is the remote execution gateway boundary: the authentication
// service, the gas price and chain registry services, the JSON-RPC
// execute endpoint and the order status service.
type Gateway interface {
	// Authenticate submits a session-authorization payload and returns
	// the established wallet identity and gateway tokens.
	Authenticate(ctx context.Context, payload *core.AuthPayload, clientSignature string) (*core.AuthResult, error)

	// Execute submits a signed user operation and returns the job id
	// tracking it. Submission is not retried here; it is not
	// idempotent and the caller owns the retry decision.
	Execute(ctx context.Context, op *core.UserOperation, authToken string) (string, error)

	// GasPrice fetches the current fee-per-gas quote.
	GasPrice(ctx context.Context, authToken string) (*core.GasPrice, error)

	// SupportedChains fetches the chain metadata visible to the
	// registered client.
	SupportedChains(ctx context.Context, authToken string) ([]core.Chain, error)

	// Orders fetches the order records for one intent.
	Orders(ctx context.Context, authToken, intentID string, intentType core.IntentType) ([]core.Order, error)
}
