package engine

import (
	"time"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/revshare"
)

// Receipt records the effect of one executed instruction.
type Receipt struct {
	Sequence uint64
	Op       Op
	Digest   string
	Event    address.Address
	Signer   address.Address
	Nonce    uint64

	Quantity uint64 // tickets or claim-tokens bought
	Amount   uint64 // base units of the accepted currency moved
	Claims   uint64 // claim-tokens minted or burned
	Share    revshare.Share
	Stranded uint64 // vault balance left behind by a delete

	Time time.Time
}
