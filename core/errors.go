package core

import "errors"

var (
	// ErrKeyGeneration is returned when the randomness source cannot
	// produce a valid session key.
	ErrKeyGeneration = errors.New("session key generation failed")

	// ErrEncoding is returned when a value does not match its declared
	// ABI type signature.
	ErrEncoding = errors.New("abi encoding failed")

	// ErrUnsupportedChain is returned when the requested chain is not
	// in the registry's supported set.
	ErrUnsupportedChain = errors.New("chain is not supported")

	// ErrGasPriceUnavailable is returned when the gas price service
	// omits a required fee field.
	ErrGasPriceUnavailable = errors.New("gas price unavailable")

	// ErrPaymasterData is returned when sponsorship data cannot be
	// generated.
	ErrPaymasterData = errors.New("paymaster data generation failed")

	// ErrSigning is returned when a user operation cannot be packed or
	// signed.
	ErrSigning = errors.New("user operation signing failed")

	// ErrValidation is returned when a user operation fails the local
	// pre-submission gate.
	ErrValidation = errors.New("user operation validation failed")

	// ErrGateway is returned when the gateway responds with an error
	// object; the remote payload is preserved in the wrapping message.
	ErrGateway = errors.New("gateway rejected the request")

	// ErrAuthorization is returned on an authentication failure status
	// from the gateway.
	ErrAuthorization = errors.New("authorization failed")

	// ErrTransport is returned on network-level failures.
	ErrTransport = errors.New("transport failure")

	// ErrPolling is returned when an order status query fails; the job
	// id stays valid and polling may be resumed by the caller.
	ErrPolling = errors.New("order status polling failed")

	// ErrSessionNotFound is returned when no descriptor exists for a
	// session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidToken is returned when an access token is malformed or
	// expired.
	ErrInvalidToken = errors.New("invalid token")
)
