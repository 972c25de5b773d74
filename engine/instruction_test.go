package engine

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
)

func TestDigest_BindsEveryField(t *testing.T) {
	program := DefaultProgramID
	ev := newParticipant(t).addr
	base := Digest(program, SponsorEvent{Event: ev, Quantity: 5}, 1)
	assert.Len(t, base, 32)
	assert.Equal(t, base, Digest(program, SponsorEvent{Event: ev, Quantity: 5}, 1))

	variants := map[string][]byte{
		"nonce":    Digest(program, SponsorEvent{Event: ev, Quantity: 5}, 2),
		"quantity": Digest(program, SponsorEvent{Event: ev, Quantity: 6}, 1),
		"op":       Digest(program, BuyTickets{Event: ev, Quantity: 5}, 1),
		"program":  Digest(address.Zero, SponsorEvent{Event: ev, Quantity: 5}, 1),
		"source":   Digest(program, SponsorEvent{Event: ev, Quantity: 5, Source: ev}, 1),
	}
	for name, d := range variants {
		assert.NotEqual(t, base, d, name)
	}
}

func TestDigest_StringsAreLengthPrefixed(t *testing.T) {
	a := CreateEvent{Params: event.Params{ID: "ab", Name: "c"}}
	b := CreateEvent{Params: event.Params{ID: "a", Name: "bc"}}
	assert.NotEqual(t, Digest(DefaultProgramID, a, 0), Digest(DefaultProgramID, b, 0))
}

func TestSignInstruction(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)

	si, err := SignInstruction(DefaultProgramID, CloseEvent{}, 7, key)
	require.NoError(t, err)
	digest, signer, err := si.verify(DefaultProgramID)
	require.NoError(t, err)
	assert.Equal(t, Digest(DefaultProgramID, CloseEvent{}, 7), digest)

	want, err := address.FromPubKey(key.PubKey())
	require.NoError(t, err)
	assert.Equal(t, want, signer)

	_, err = SignInstruction(DefaultProgramID, nil, 0, key)
	assert.ErrorIs(t, err, ErrNilInstruction)
	_, err = SignInstruction(DefaultProgramID, CloseEvent{}, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "withdraw_earnings", OpWithdrawEarnings.String())
	assert.Equal(t, "finalize_event", FinalizeEvent{}.Op().String())
	assert.Equal(t, "op(99)", Op(99).String())
}
