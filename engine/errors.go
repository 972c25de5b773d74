package engine

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/revshare"
	"github.com/bitfsorg/libescrow-go/token"
)

var (
	// ErrNilInstruction indicates Execute was called without an instruction.
	ErrNilInstruction = errors.New("engine: instruction is nil")

	// ErrUnknownInstruction indicates an instruction type the engine does not handle.
	ErrUnknownInstruction = errors.New("engine: unknown instruction")

	// ErrInvalidSignature indicates a missing signer or a signature that does not verify.
	ErrInvalidSignature = errors.New("engine: invalid instruction signature")

	// ErrUnauthorized indicates the signer is not the event's authority.
	ErrUnauthorized = errors.New("engine: signer is not the event authority")

	// ErrInvalidQuantity indicates a zero quantity or amount.
	ErrInvalidQuantity = errors.New("engine: quantity must be positive")

	// ErrReplayed indicates an instruction digest that was already executed.
	ErrReplayed = errors.New("engine: instruction already executed")

	// ErrNoClaimsIssued indicates redemption against an event that never minted claims.
	ErrNoClaimsIssued = errors.New("engine: no claim-tokens issued")

	// ErrVaultUnderfunded indicates a vault holds less than the requested outflow.
	ErrVaultUnderfunded = errors.New("engine: vault balance too low")
)

// Kind classifies an error returned by the engine.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindState
	KindArithmeticOverflow
	KindInsufficientBalance
	KindNotFound
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindArithmeticOverflow:
		return "arithmetic_overflow"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// GRPCCode maps a kind to a gRPC status code.
func (k Kind) GRPCCode() codes.Code {
	switch k {
	case KindValidation:
		return codes.InvalidArgument
	case KindAuthorization:
		return codes.PermissionDenied
	case KindState, KindInsufficientBalance:
		return codes.FailedPrecondition
	case KindArithmeticOverflow:
		return codes.OutOfRange
	case KindNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// kindTable is checked in order; the first sentinel found in the chain wins.
var kindTable = []struct {
	err  error
	kind Kind
}{
	{ErrNilInstruction, KindValidation},
	{ErrUnknownInstruction, KindValidation},
	{ErrInvalidQuantity, KindValidation},
	{ErrReplayed, KindValidation},
	{event.ErrInvalidID, KindValidation},
	{event.ErrInvalidName, KindValidation},
	{event.ErrInvalidDescription, KindValidation},
	{event.ErrInvalidPrice, KindValidation},
	{token.ErrMintMismatch, KindValidation},
	{address.ErrInvalidSeeds, KindValidation},
	{address.ErrInvalidAddress, KindValidation},

	{ErrInvalidSignature, KindAuthorization},
	{ErrUnauthorized, KindAuthorization},
	{token.ErrOwnerMismatch, KindAuthorization},
	{token.ErrMintAuthority, KindAuthorization},

	{ErrNoClaimsIssued, KindState},
	{event.ErrInactive, KindState},
	{event.ErrExists, KindState},
	{token.ErrAccountExists, KindState},
	{revshare.ErrZeroTotalShares, KindState},
	{revshare.ErrShareExceedsTotal, KindState},

	{revshare.ErrOverflow, KindArithmeticOverflow},
	{token.ErrOverflow, KindArithmeticOverflow},
	{event.ErrCounterOverflow, KindArithmeticOverflow},

	{ErrVaultUnderfunded, KindInsufficientBalance},
	{token.ErrInsufficientFunds, KindInsufficientBalance},

	{event.ErrAddressMismatch, KindNotFound},
	{event.ErrNotFound, KindNotFound},
	{token.ErrMintNotFound, KindNotFound},
	{token.ErrHoldingNotFound, KindNotFound},
	{ledger.ErrNotFound, KindNotFound},
}

// KindOf classifies err. Errors the engine does not recognise, such as storage
// failures, are KindInternal.
func KindOf(err error) Kind {
	for _, entry := range kindTable {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindInternal
}

// Status converts err into a gRPC status for callers serving the engine
// over gRPC. A nil error yields codes.OK.
func Status(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	return status.New(KindOf(err).GRPCCode(), err.Error())
}
