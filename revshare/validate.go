package revshare

import "fmt"

// ValidatePayout checks that paid is exactly the entitlement of share drawn
// from pool.
func ValidatePayout(pool uint64, share Share, paid uint64) error {
	if paid > pool {
		return fmt.Errorf("%w: paid %d from pool %d", ErrPayoutExceedsPool, paid, pool)
	}
	expected, err := ComputeEntitlement(pool, share)
	if err != nil {
		return err
	}
	if paid != expected {
		return fmt.Errorf("%w: paid %d, expected %d", ErrPayoutMismatch, paid, expected)
	}
	return nil
}
