// Package engine executes signed escrow instructions against a ledger store.
//
// Every instruction runs inside a single ledger transaction: either all of its
// balance, supply and record changes commit, or none do. Outflows from an
// event's vaults and claim-token minting are performed with the event's own
// derived address as authority, which no private key can produce.
package engine

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"go.uber.org/zap"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/ledger"
)

const (
	bucketReceipts  = "receipts"
	bucketProcessed = "processed"
)

// DefaultProgramID is the program identity used when none is configured.
var DefaultProgramID = func() address.Address {
	var id address.Address
	copy(id[:], bsvhash.Sha256([]byte("libescrow-go/event-manager")))
	return id
}()

// Engine executes instructions against a Store.
type Engine struct {
	store         ledger.Store
	programID     address.Address
	recordDeposit uint64
	log           *zap.Logger
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgramID sets the program identity used for address derivation and
// instruction digests.
func WithProgramID(id address.Address) Option {
	return func(e *Engine) { e.programID = id }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log == nil {
			log = zap.NewNop()
		}
		e.log = log
	}
}

// WithRecordDeposit sets the native deposit an authority reserves per event.
func WithRecordDeposit(amount uint64) Option {
	return func(e *Engine) { e.recordDeposit = amount }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine over store.
func New(store ledger.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		programID: DefaultProgramID,
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.Stringer("program", e.programID))
	return e
}

// ProgramID returns the engine's program identity.
func (e *Engine) ProgramID() address.Address { return e.programID }

// Store returns the underlying ledger store.
func (e *Engine) Store() ledger.Store { return e.store }

// Sign signs ix for this engine's program.
func (e *Engine) Sign(ix Instruction, nonce uint64, key *ec.PrivateKey) (*SignedInstruction, error) {
	return SignInstruction(e.programID, ix, nonce, key)
}

// Execute verifies si and applies it atomically. A digest may be executed
// only once; the receipt of a successful execution is stored and returned.
func (e *Engine) Execute(ctx context.Context, si *SignedInstruction) (*Receipt, error) {
	digest, signer, err := si.verify(e.programID)
	if err != nil {
		e.reject(si, err)
		return nil, err
	}

	var receipt *Receipt
	err = e.store.Update(ctx, func(tx ledger.Tx) error {
		seen, err := ledger.Exists(tx, bucketProcessed, digest)
		if err != nil {
			return err
		}
		if seen {
			return fmt.Errorf("%w: %s", ErrReplayed, digestHex(digest))
		}

		r, err := e.dispatch(tx, signer, si.Instruction)
		if err != nil {
			return err
		}

		seq, err := tx.NextSequence(bucketReceipts)
		if err != nil {
			return err
		}
		r.Sequence = seq
		r.Op = si.Instruction.Op()
		r.Digest = digestHex(digest)
		r.Signer = signer
		r.Nonce = si.Nonce
		r.Time = e.now().UTC()

		if err := tx.Put(bucketProcessed, digest, receiptKey(seq)); err != nil {
			return err
		}
		if err := ledger.PutGob(tx, bucketReceipts, receiptKey(seq), r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		e.reject(si, err)
		return nil, err
	}

	e.log.Info("instruction executed",
		zap.Stringer("op", receipt.Op),
		zap.Uint64("seq", receipt.Sequence),
		zap.Stringer("event", receipt.Event),
		zap.Stringer("signer", receipt.Signer),
		zap.Uint64("quantity", receipt.Quantity),
		zap.Uint64("amount", receipt.Amount),
	)
	if receipt.Stranded > 0 {
		e.log.Warn("event deleted with funds left in its vaults",
			zap.Stringer("event", receipt.Event),
			zap.Uint64("stranded", receipt.Stranded),
		)
	}
	return receipt, nil
}

func (e *Engine) reject(si *SignedInstruction, err error) {
	op := "unknown"
	if si != nil && si.Instruction != nil {
		op = si.Instruction.Op().String()
	}
	kind := KindOf(err)
	fields := []zap.Field{zap.String("op", op), zap.Stringer("kind", kind), zap.Error(err)}
	if kind == KindInternal && !errors.Is(err, context.Canceled) {
		e.log.Error("instruction failed", fields...)
		return
	}
	e.log.Warn("instruction rejected", fields...)
}

func (e *Engine) dispatch(tx ledger.Tx, signer address.Address, ix Instruction) (*Receipt, error) {
	switch ix := ix.(type) {
	case CreateEvent:
		return e.createEvent(tx, signer, ix)
	case DeleteEvent:
		return e.deleteEvent(tx, signer, ix)
	case SponsorEvent:
		return e.sponsorEvent(tx, signer, ix)
	case BuyTickets:
		return e.buyTickets(tx, signer, ix)
	case WithdrawFunds:
		return e.withdrawFunds(tx, signer, ix)
	case CloseEvent:
		return e.closeEvent(tx, signer, ix.Event)
	case FinalizeEvent:
		return e.closeEvent(tx, signer, ix.Event)
	case WithdrawEarnings:
		return e.withdrawEarnings(tx, signer, ix)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownInstruction, ix)
	}
}

func receiptKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}
