package core

// IntentType discriminates the action encoded into a user operation's
// call data.
type IntentType string

const (
	IntentTypeTokenTransfer IntentType = "TOKEN_TRANSFER"
)

// TransferIntent holds the parameters of a token transfer intent. The
// amount is always the raw integer amount in the token's smallest
// unit; the encoder never rescales it. An empty token address selects
// the native asset.
type TransferIntent struct {
	CAIP2ID   string `json:"caip2_id"`
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
	Amount    string `json:"amount"` // base-10 integer, smallest unit
}

// Chain is one record from the chain registry.
type Chain struct {
	CAIPID             string `json:"caip_id"`
	NetworkName        string `json:"network_name"`
	SponsorshipEnabled bool   `json:"sponsorship_enabled"`
	GSNEnabled         bool   `json:"gsn_enabled"`
}

// OrderStatus is the relay-side job status vocabulary.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusSuccessful       OrderStatus = "SUCCESSFUL"
	OrderStatusFailed           OrderStatus = "FAILED"
	OrderStatusBundlerDiscarded OrderStatus = "BUNDLER_DISCARDED"
)

// IsTerminal reports whether no further transition can occur.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusSuccessful, OrderStatusFailed, OrderStatusBundlerDiscarded:
		return true
	}
	return false
}

// Order is one job record as observed from the order status service.
// Orders are created on submission and mutated only by the relay; this
// side only ever reads them.
type Order struct {
	IntentID        string      `json:"intent_id"`
	IntentType      IntentType  `json:"intent_type"`
	Status          OrderStatus `json:"status"`
	NetworkName     string      `json:"network_name,omitempty"`
	TransactionHash string      `json:"transaction_hash,omitempty"`
}
