package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUserOp() *UserOperation {
	return &UserOperation{
		Sender:                        "0x1111111111111111111111111111111111111111",
		Nonce:                         "0x0000000000000000000000000000000000000000000000000000000000000001",
		Paymaster:                     "0x2222222222222222222222222222222222222222",
		CallGasLimit:                  "0x493e0",
		VerificationGasLimit:          "0x30d40",
		PreVerificationGas:            "0xc350",
		MaxFeePerGas:                  "0xba43b7400",
		MaxPriorityFeePerGas:          "0xba43b7400",
		PaymasterPostOpGasLimit:       "0x186a0",
		PaymasterVerificationGasLimit: "0x186a0",
		CallData:                      "0xdeadbeef",
		PaymasterData:                 "0xfeedface",
		Signature:                     "0xabcdef",
	}
}

func TestValidateAcceptsCompleteOperation(t *testing.T) {
	require.NoError(t, validUserOp().Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	op := validUserOp()
	op.Nonce = ""
	op.Signature = ""

	err := op.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "nonce")
	assert.Contains(t, err.Error(), "signature")
}

func TestValidateRejectsUnprefixedHex(t *testing.T) {
	op := validUserOp()
	op.CallGasLimit = "493e0"

	err := op.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "callGasLimit")
}

func TestOrderStatusTerminality(t *testing.T) {
	assert.True(t, OrderStatusSuccessful.IsTerminal())
	assert.True(t, OrderStatusFailed.IsTerminal())
	assert.True(t, OrderStatusBundlerDiscarded.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatus("IN_PROGRESS").IsTerminal())
}
