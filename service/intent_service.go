package service

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/internal/ethabi"
	"github.com/layer-3/rangda/internal/ethsign"
	"github.com/layer-3/rangda/ports"
)

// Static gas limits the gateway sandbox accepts for intent operations.
const (
	callGasLimit                  = 300_000
	verificationGasLimit          = 200_000
	preVerificationGas            = 50_000
	paymasterPostOpGasLimit       = 100_000
	paymasterVerificationGasLimit = 100_000
)

// executeSelector is the 4-byte selector of the wallet's execute entry
// point.
var executeSelector = [4]byte{0x8d, 0xd7, 0x71, 0x2f}

const (
	jobParametersSig = "(string caip2Id, string recipientWalletAddress, string tokenAddress, uint amount)"
	policyInfoSig    = "(bool gsnEnabled, bool sponsorshipEnabled)"
	gsnDataSig       = "(bool isRequired, string[] requiredNetworks, " + jobParametersSig + "[] tokens)"
)

const intentABIJSON = `[{"type":"function","name":"initiateJob","inputs":[
{"name":"_jobId","type":"bytes32"},
{"name":"_clientSWA","type":"address"},
{"name":"_userSWA","type":"address"},
{"name":"_feePayerAddress","type":"address"},
{"name":"_policyInfo","type":"bytes"},
{"name":"_gsnData","type":"bytes"},
{"name":"_jobParameters","type":"bytes"},
{"name":"_intentType","type":"string"}]}]`

var intentABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(intentABIJSON))
	if err != nil {
		panic(err)
	}
	intentABI = parsed
}

// jobParameters mirrors the jobParametersSig tuple.
type jobParameters struct {
	Caip2Id                string
	RecipientWalletAddress string
	TokenAddress           string
	Amount                 *big.Int
}

type policyInfo struct {
	GsnEnabled         bool
	SponsorshipEnabled bool
}

type gsnData struct {
	IsRequired       bool
	RequiredNetworks []string
	Tokens           []jobParameters
}

// IntentService turns transfer intents into signed user operations and
// submits them. The authorization token is threaded through every
// call; there is no process-wide session state.
type IntentService struct {
	gateway   ports.Gateway
	events    ports.EventPublisher
	paymaster *PaymasterDataGenerator
	cfg       Config
}

// NewIntentService creates a new intent pipeline.
func NewIntentService(gateway ports.Gateway, events ports.EventPublisher, cfg Config) *IntentService {
	return &IntentService{
		gateway:   gateway,
		events:    events,
		paymaster: NewPaymasterDataGenerator(cfg.ClientSWA, cfg.ClientPrivateKey),
		cfg:       cfg,
	}
}

// TransferToken runs the full pipeline for one transfer intent:
// chain lookup, calldata encoding, gas quote, paymaster data, user
// operation assembly, signing, validation, submission. Returns the
// job id tracking the submitted operation. Each call generates an
// independent nonce; concurrent submissions are unordered and rely on
// nonce uniqueness, not serialization.
func (s *IntentService) TransferToken(ctx context.Context, session *core.Session, authToken string, intent core.TransferIntent) (string, error) {
	amount, err := parseAmount(intent.Amount)
	if err != nil {
		return "", err
	}
	if intent.CAIP2ID == "" || intent.Recipient == "" {
		return "", fmt.Errorf("%w: caip2_id and recipient are required", core.ErrValidation)
	}

	nonce := uuid.New()

	chain, err := s.resolveChain(ctx, authToken, intent.CAIP2ID)
	if err != nil {
		return "", err
	}

	callData, err := s.encodeIntentCallData(nonce, session, chain, intent, amount)
	if err != nil {
		return "", err
	}

	// Both checks must fail before anything is signed: a missing gas
	// price or paymaster blob discovered at submission time costs a
	// relay attempt.
	gasPrice, err := s.gateway.GasPrice(ctx, authToken)
	if err != nil {
		return "", err
	}
	if gasPrice.MaxFeePerGas == "" || gasPrice.MaxPriorityFeePerGas == "" {
		return "", fmt.Errorf("%w: incomplete gas price quote", core.ErrGasPriceUnavailable)
	}

	paymasterData, err := s.paymaster.Generate(nonce, time.Now().Add(s.cfg.sessionTTL()), 0)
	if err != nil {
		return "", err
	}

	op := s.buildUserOp(nonce, session, gasPrice, callData, paymasterData)

	if err := s.SignUserOp(op, session.SessionPrivKey); err != nil {
		return "", err
	}
	if err := op.Validate(); err != nil {
		return "", err
	}

	jobID, err := s.gateway.Execute(ctx, op, authToken)
	if err != nil {
		return "", err
	}

	if s.events != nil {
		if err := s.events.PublishOrderSubmitted(ctx, session.UserSWA, jobID, core.IntentTypeTokenTransfer); err != nil {
			log.Printf("failed to publish order submitted event: %v", err)
		}
	}

	return jobID, nil
}

// resolveChain matches the requested CAIP-2 id against the registry,
// case-insensitively.
func (s *IntentService) resolveChain(ctx context.Context, authToken, caip2ID string) (*core.Chain, error) {
	chains, err := s.gateway.SupportedChains(ctx, authToken)
	if err != nil {
		return nil, err
	}

	for i := range chains {
		if strings.EqualFold(chains[i].CAIPID, caip2ID) {
			return &chains[i], nil
		}
	}

	supported := make([]string, len(chains))
	for i, c := range chains {
		supported[i] = c.CAIPID
	}
	return nil, fmt.Errorf("%w: chain %s is not supported, available chains: %s",
		core.ErrUnsupportedChain, caip2ID, strings.Join(supported, ", "))
}

// encodeIntentCallData builds the execute calldata: selector, job
// manager address, zero value, and the ABI-packed initiateJob call
// carrying the nonce, the account addresses, the sponsorship flags and
// the intent parameters.
func (s *IntentService) encodeIntentCallData(nonce uuid.UUID, session *core.Session, chain *core.Chain, intent core.TransferIntent, amount *big.Int) (string, error) {
	policy, err := ethabi.Pack(policyInfoSig, policyInfo{
		GsnEnabled:         chain.GSNEnabled,
		SponsorshipEnabled: chain.SponsorshipEnabled,
	})
	if err != nil {
		return "", err
	}

	// Sponsorship requirements default to none.
	gsn, err := ethabi.Pack(gsnDataSig, gsnData{
		IsRequired:       false,
		RequiredNetworks: []string{},
		Tokens:           []jobParameters{},
	})
	if err != nil {
		return "", err
	}

	params, err := ethabi.Pack(jobParametersSig, jobParameters{
		Caip2Id:                intent.CAIP2ID,
		RecipientWalletAddress: intent.Recipient,
		TokenAddress:           intent.Token,
		Amount:                 amount,
	})
	if err != nil {
		return "", err
	}

	inner, err := intentABI.Pack("initiateJob",
		ethabi.NonceBytes32(nonce),
		s.cfg.ClientSWA,
		common.HexToAddress(session.UserSWA),
		s.cfg.FeePayer,
		policy,
		gsn,
		params,
		string(core.IntentTypeTokenTransfer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrEncoding, err)
	}

	callData, err := ethabi.Pack("bytes4, address, uint256, bytes",
		executeSelector, s.cfg.JobManager, big.NewInt(0), inner)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(callData), nil
}

// buildUserOp assembles the operation record. All numeric fields are
// fixed-width hex strings, ready for the wire.
func (s *IntentService) buildUserOp(nonce uuid.UUID, session *core.Session, gasPrice *core.GasPrice, callData, paymasterData string) *core.UserOperation {
	return &core.UserOperation{
		Sender:                        session.UserSWA,
		Nonce:                         ethabi.NonceHex(nonce),
		Paymaster:                     s.cfg.Paymaster.Hex(),
		CallGasLimit:                  hexutil.EncodeUint64(callGasLimit),
		VerificationGasLimit:          hexutil.EncodeUint64(verificationGasLimit),
		PreVerificationGas:            hexutil.EncodeUint64(preVerificationGas),
		MaxFeePerGas:                  gasPrice.MaxFeePerGas,
		MaxPriorityFeePerGas:          gasPrice.MaxPriorityFeePerGas,
		PaymasterPostOpGasLimit:       hexutil.EncodeUint64(paymasterPostOpGasLimit),
		PaymasterVerificationGasLimit: hexutil.EncodeUint64(paymasterVerificationGasLimit),
		CallData:                      callData,
		PaymasterData:                 paymasterData,
	}
}

// SignUserOp canonicalizes the operation into its packed form, hashes
// it and signs the hash with the session key, populating the Signature
// field in place. The packing order is fixed by the operation schema.
func (s *IntentService) SignUserOp(op *core.UserOperation, sessionPrivKey string) error {
	digest, err := s.userOpHash(op)
	if err != nil {
		return err
	}

	signature, err := ethsign.PersonalSign(digest, sessionPrivKey)
	if err != nil {
		return err
	}

	op.Signature = signature
	return nil
}

// userOpHash packs the operation and computes the canonical hash bound
// to the entry point and vendor chain.
func (s *IntentService) userOpHash(op *core.UserOperation) ([]byte, error) {
	if err := requireFields(op); err != nil {
		return nil, err
	}

	nonce, err := hexBytes(op.Nonce, "nonce")
	if err != nil || len(nonce) > 32 {
		return nil, fmt.Errorf("%w: field nonce must be a 32-byte hex value", core.ErrSigning)
	}
	verificationGas, err := hexQuantity(op.VerificationGasLimit, "verificationGasLimit")
	if err != nil {
		return nil, err
	}
	callGas, err := hexQuantity(op.CallGasLimit, "callGasLimit")
	if err != nil {
		return nil, err
	}
	preVerification, err := hexQuantity(op.PreVerificationGas, "preVerificationGas")
	if err != nil {
		return nil, err
	}
	maxPriorityFee, err := hexQuantity(op.MaxPriorityFeePerGas, "maxPriorityFeePerGas")
	if err != nil {
		return nil, err
	}
	maxFee, err := hexQuantity(op.MaxFeePerGas, "maxFeePerGas")
	if err != nil {
		return nil, err
	}
	paymasterVerificationGas, err := hexQuantity(op.PaymasterVerificationGasLimit, "paymasterVerificationGasLimit")
	if err != nil {
		return nil, err
	}
	paymasterPostOpGas, err := hexQuantity(op.PaymasterPostOpGasLimit, "paymasterPostOpGasLimit")
	if err != nil {
		return nil, err
	}
	callData, err := hexBytes(op.CallData, "callData")
	if err != nil {
		return nil, err
	}
	paymasterData, err := hexBytes(op.PaymasterData, "paymasterData")
	if err != nil {
		return nil, err
	}

	// Packed layout: verification gas in the high 128 bits of
	// accountGasLimits, priority fee in the high 128 bits of gasFees,
	// paymaster address followed by its gas limits and data.
	accountGasLimits := packPair(verificationGas, callGas)
	gasFees := packPair(maxPriorityFee, maxFee)

	paymasterAndData := make([]byte, 0, 20+32+len(paymasterData))
	paymasterAndData = append(paymasterAndData, common.HexToAddress(op.Paymaster).Bytes()...)
	paymasterAndData = append(paymasterAndData, pad16(paymasterVerificationGas)...)
	paymasterAndData = append(paymasterAndData, pad16(paymasterPostOpGas)...)
	paymasterAndData = append(paymasterAndData, paymasterData...)

	var initCode []byte // account already deployed

	packed, err := ethabi.Pack("address, bytes32, bytes32, bytes32, bytes32, uint256, bytes32, bytes32",
		common.HexToAddress(op.Sender),
		toBytes32(nonce),
		toBytes32(ethsign.Keccak(initCode)),
		toBytes32(ethsign.Keccak(callData)),
		accountGasLimits,
		preVerification,
		gasFees,
		toBytes32(ethsign.Keccak(paymasterAndData)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSigning, err)
	}

	bound, err := ethabi.Pack("bytes32, address, uint256",
		toBytes32(ethsign.Keccak(packed)), s.cfg.EntryPoint, s.cfg.VendorChainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSigning, err)
	}

	return ethsign.Keccak(bound), nil
}

func requireFields(op *core.UserOperation) error {
	missing := []string{}
	check := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	check("sender", op.Sender)
	check("nonce", op.Nonce)
	check("paymaster", op.Paymaster)
	check("callGasLimit", op.CallGasLimit)
	check("verificationGasLimit", op.VerificationGasLimit)
	check("preVerificationGas", op.PreVerificationGas)
	check("maxFeePerGas", op.MaxFeePerGas)
	check("maxPriorityFeePerGas", op.MaxPriorityFeePerGas)
	check("paymasterPostOpGasLimit", op.PaymasterPostOpGasLimit)
	check("paymasterVerificationGasLimit", op.PaymasterVerificationGasLimit)
	check("callData", op.CallData)
	check("paymasterData", op.PaymasterData)
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", core.ErrSigning, strings.Join(missing, ", "))
	}
	return nil
}

func parseAmount(amount string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: amount must be a base-10 integer", core.ErrValidation)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", core.ErrValidation)
	}
	return n, nil
}

func hexQuantity(v, field string) (*big.Int, error) {
	n, err := hexutil.DecodeBig(v)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", core.ErrSigning, field, err)
	}
	return n, nil
}

func hexBytes(v, field string) ([]byte, error) {
	b, err := hexutil.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", core.ErrSigning, field, err)
	}
	return b, nil
}

// packPair concatenates two 16-byte quantities into one 32-byte word.
func packPair(hi, lo *big.Int) [32]byte {
	var out [32]byte
	hi.FillBytes(out[:16])
	lo.FillBytes(out[16:])
	return out
}

func pad16(n *big.Int) []byte {
	out := make([]byte, 16)
	n.FillBytes(out)
	return out
}

func toBytes32(b []byte) [32]byte {
	var out [32]byte
	copy(out[32-len(b):], b)
	return out
}
