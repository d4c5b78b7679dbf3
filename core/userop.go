package core

import (
	"fmt"
	"strings"
)

// UserOperation is the structured instruction submitted to the
// execution relay on behalf of a smart wallet account. Every numeric
// and address field is carried as a 0x-prefixed hex string, matching
// the gateway wire format. The structure is immutable once signed; any
// mutation invalidates the signature.
type UserOperation struct {
	Sender                        string `json:"sender"`
	Nonce                         string `json:"nonce"`
	Paymaster                     string `json:"paymaster"`
	CallGasLimit                  string `json:"callGasLimit"`
	VerificationGasLimit          string `json:"verificationGasLimit"`
	PreVerificationGas            string `json:"preVerificationGas"`
	MaxFeePerGas                  string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas          string `json:"maxPriorityFeePerGas"`
	PaymasterPostOpGasLimit       string `json:"paymasterPostOpGasLimit"`
	PaymasterVerificationGasLimit string `json:"paymasterVerificationGasLimit"`
	CallData                      string `json:"callData"`
	PaymasterData                 string `json:"paymasterData"`
	Signature                     string `json:"signature,omitempty"`
}

// requiredUserOpFields lists the fields every operation must carry
// before submission, in schema order.
var requiredUserOpFields = []struct {
	name string
	get  func(*UserOperation) string
	hex  bool
}{
	{"sender", func(op *UserOperation) string { return op.Sender }, true},
	{"nonce", func(op *UserOperation) string { return op.Nonce }, true},
	{"paymaster", func(op *UserOperation) string { return op.Paymaster }, true},
	{"callGasLimit", func(op *UserOperation) string { return op.CallGasLimit }, true},
	{"verificationGasLimit", func(op *UserOperation) string { return op.VerificationGasLimit }, true},
	{"preVerificationGas", func(op *UserOperation) string { return op.PreVerificationGas }, true},
	{"maxFeePerGas", func(op *UserOperation) string { return op.MaxFeePerGas }, true},
	{"maxPriorityFeePerGas", func(op *UserOperation) string { return op.MaxPriorityFeePerGas }, true},
	{"paymasterPostOpGasLimit", func(op *UserOperation) string { return op.PaymasterPostOpGasLimit }, true},
	{"paymasterVerificationGasLimit", func(op *UserOperation) string { return op.PaymasterVerificationGasLimit }, true},
	{"callData", func(op *UserOperation) string { return op.CallData }, true},
	{"paymasterData", func(op *UserOperation) string { return op.PaymasterData }, true},
	{"signature", func(op *UserOperation) string { return op.Signature }, true},
}

// Validate is the local pre-submission gate: the relay rejects a
// malformed operation with an opaque error, so missing fields and
// unprefixed hex values are caught here instead. Returns
// ErrValidation naming every offending field.
func (op *UserOperation) Validate() error {
	var missing, unprefixed []string
	for _, f := range requiredUserOpFields {
		v := f.get(op)
		if v == "" {
			missing = append(missing, f.name)
			continue
		}
		if f.hex && !strings.HasPrefix(v, "0x") {
			unprefixed = append(unprefixed, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if len(unprefixed) > 0 {
		return fmt.Errorf("%w: fields must be hex encoded: %s", ErrValidation, strings.Join(unprefixed, ", "))
	}
	return nil
}

// GasPrice is the live fee quote used when assembling an operation.
type GasPrice struct {
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
}
