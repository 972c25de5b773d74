package revshare

import "github.com/bitfsorg/libescrow-go/address"

// Holding is a claim-token balance held by one account.
type Holding struct {
	Holder address.Address
	Claims uint64
}

// Distribution is a single payout computed for a holder.
type Distribution struct {
	Holder address.Address
	Share  Share
	Amount uint64
}
