package revshare

import "fmt"

// PreviewRedemptions simulates holders redeeming one after another, in the
// given order, against a pool that shrinks with every payout. The denominator
// stays at totalClaims for every holder. It returns the payouts and the dust
// left in the pool once every listed holder has redeemed.
func PreviewRedemptions(pool, totalClaims uint64, holders []Holding) ([]Distribution, uint64, error) {
	if totalClaims == 0 {
		return nil, pool, ErrZeroTotalShares
	}

	distributions := make([]Distribution, len(holders))
	remaining := pool
	for i, h := range holders {
		share, err := ComputeShare(totalClaims, h.Claims)
		if err != nil {
			return nil, pool, fmt.Errorf("holder %s: %w", h.Holder, err)
		}
		amount, err := ComputeEntitlement(remaining, share)
		if err != nil {
			return nil, pool, fmt.Errorf("holder %s: %w", h.Holder, err)
		}
		distributions[i] = Distribution{Holder: h.Holder, Share: share, Amount: amount}
		remaining -= amount
	}
	return distributions, remaining, nil
}
