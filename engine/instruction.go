package engine

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
)

// Op identifies an instruction.
type Op uint8

const (
	OpCreateEvent Op = iota + 1
	OpDeleteEvent
	OpSponsorEvent
	OpBuyTickets
	OpWithdrawFunds
	OpCloseEvent
	OpFinalizeEvent
	OpWithdrawEarnings
)

var opNames = map[Op]string{
	OpCreateEvent:      "create_event",
	OpDeleteEvent:      "delete_event",
	OpSponsorEvent:     "sponsor_event",
	OpBuyTickets:       "buy_tickets",
	OpWithdrawFunds:    "withdraw_funds",
	OpCloseEvent:       "close_event",
	OpFinalizeEvent:    "finalize_event",
	OpWithdrawEarnings: "withdraw_earnings",
}

// String implements fmt.Stringer.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Instruction is a request to the engine. Instructions are passed by value.
type Instruction interface {
	Op() Op
	encode(w *payloadWriter)
}

// CreateEvent registers a new event owned by the signer, priced in AcceptedMint.
type CreateEvent struct {
	Params       event.Params
	AcceptedMint address.Address
}

// DeleteEvent removes an event record. Vault balances are not swept.
type DeleteEvent struct {
	Event address.Address
}

// SponsorEvent buys Quantity claim-tokens. A zero Source selects the signer's
// associated holding of the accepted mint.
type SponsorEvent struct {
	Event    address.Address
	Quantity uint64
	Source   address.Address
}

// BuyTickets buys Quantity tickets. A zero Source selects the signer's
// associated holding of the accepted mint.
type BuyTickets struct {
	Event    address.Address
	Quantity uint64
	Source   address.Address
}

// WithdrawFunds moves Amount base units from the capital vault to the
// authority. A zero Destination selects the authority's associated holding.
type WithdrawFunds struct {
	Event       address.Address
	Amount      uint64
	Destination address.Address
}

// CloseEvent stops sales.
type CloseEvent struct {
	Event address.Address
}

// FinalizeEvent has the same effect as CloseEvent.
type FinalizeEvent struct {
	Event address.Address
}

// WithdrawEarnings burns the signer's claim-tokens and pays their share of the
// revenue vault. A zero Destination selects the signer's associated holding.
type WithdrawEarnings struct {
	Event       address.Address
	Destination address.Address
}

func (CreateEvent) Op() Op      { return OpCreateEvent }
func (DeleteEvent) Op() Op      { return OpDeleteEvent }
func (SponsorEvent) Op() Op     { return OpSponsorEvent }
func (BuyTickets) Op() Op       { return OpBuyTickets }
func (WithdrawFunds) Op() Op    { return OpWithdrawFunds }
func (CloseEvent) Op() Op       { return OpCloseEvent }
func (FinalizeEvent) Op() Op    { return OpFinalizeEvent }
func (WithdrawEarnings) Op() Op { return OpWithdrawEarnings }

func (ix CreateEvent) encode(w *payloadWriter) {
	w.str(ix.Params.ID)
	w.str(ix.Params.Name)
	w.str(ix.Params.Description)
	w.u64(ix.Params.TicketPrice)
	w.u64(ix.Params.TokenPrice)
	w.addr(ix.AcceptedMint)
}

func (ix DeleteEvent) encode(w *payloadWriter) { w.addr(ix.Event) }

func (ix SponsorEvent) encode(w *payloadWriter) {
	w.addr(ix.Event)
	w.u64(ix.Quantity)
	w.addr(ix.Source)
}

func (ix BuyTickets) encode(w *payloadWriter) {
	w.addr(ix.Event)
	w.u64(ix.Quantity)
	w.addr(ix.Source)
}

func (ix WithdrawFunds) encode(w *payloadWriter) {
	w.addr(ix.Event)
	w.u64(ix.Amount)
	w.addr(ix.Destination)
}

func (ix CloseEvent) encode(w *payloadWriter)    { w.addr(ix.Event) }
func (ix FinalizeEvent) encode(w *payloadWriter) { w.addr(ix.Event) }

func (ix WithdrawEarnings) encode(w *payloadWriter) {
	w.addr(ix.Event)
	w.addr(ix.Destination)
}

// payloadWriter builds the canonical big-endian encoding that is signed.
type payloadWriter struct {
	buf []byte
}

func (w *payloadWriter) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *payloadWriter) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }

func (w *payloadWriter) addr(a address.Address) { w.buf = append(w.buf, a[:]...) }

func (w *payloadWriter) str(s string) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// SignedInstruction is an instruction with its signer's key and signature.
type SignedInstruction struct {
	Instruction Instruction
	Nonce       uint64
	Signer      *ec.PublicKey
	Signature   *ec.Signature
}

// Digest returns the 32-byte message signed for ix:
// SHA256(programID || op || nonce || payload).
func Digest(programID address.Address, ix Instruction, nonce uint64) []byte {
	w := &payloadWriter{buf: make([]byte, 0, 128)}
	w.addr(programID)
	w.u8(uint8(ix.Op()))
	w.u64(nonce)
	ix.encode(w)
	return bsvhash.Sha256(w.buf)
}

// SignInstruction signs ix for programID with key.
func SignInstruction(programID address.Address, ix Instruction, nonce uint64, key *ec.PrivateKey) (*SignedInstruction, error) {
	if ix == nil {
		return nil, ErrNilInstruction
	}
	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidSignature)
	}
	sig, err := key.Sign(Digest(programID, ix, nonce))
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", ix.Op(), err)
	}
	return &SignedInstruction{
		Instruction: ix,
		Nonce:       nonce,
		Signer:      key.PubKey(),
		Signature:   sig,
	}, nil
}

// verify checks the signature and returns the digest and signer address.
func (si *SignedInstruction) verify(programID address.Address) ([]byte, address.Address, error) {
	if si == nil || si.Instruction == nil {
		return nil, address.Zero, ErrNilInstruction
	}
	if si.Signer == nil || si.Signature == nil {
		return nil, address.Zero, fmt.Errorf("%w: missing signer or signature", ErrInvalidSignature)
	}
	digest := Digest(programID, si.Instruction, si.Nonce)
	if !si.Signature.Verify(digest, si.Signer) {
		return nil, address.Zero, fmt.Errorf("%w: %s", ErrInvalidSignature, si.Instruction.Op())
	}
	signer, err := address.FromPubKey(si.Signer)
	if err != nil {
		return nil, address.Zero, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return digest, signer, nil
}

func digestHex(digest []byte) string { return hex.EncodeToString(digest) }
