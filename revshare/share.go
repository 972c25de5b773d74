package revshare

import (
	"fmt"
	"math"
	"math/bits"
)

// Share is the exact ratio Claims/Total. Its percentage is Claims*100/Total.
type Share struct {
	Claims uint64
	Total  uint64
}

// ComputeShare returns the share represented by redeemed claims out of the
// lifetime total.
func ComputeShare(total, redeemed uint64) (Share, error) {
	if total == 0 {
		return Share{}, ErrZeroTotalShares
	}
	if redeemed > total {
		return Share{}, fmt.Errorf("%w: %d > %d", ErrShareExceedsTotal, redeemed, total)
	}
	return Share{Claims: redeemed, Total: total}, nil
}

// IsZero reports whether the share entitles its holder to nothing.
func (s Share) IsZero() bool {
	return s.Claims == 0
}

// BasisPoints returns the share in hundredths of a percent, truncated.
func (s Share) BasisPoints() uint64 {
	if s.Total == 0 {
		return 0
	}
	return mulDiv(s.Claims, 10000, s.Total)
}

// Percent renders the share as a percentage with two truncated decimals.
func (s Share) Percent() string {
	bp := s.BasisPoints()
	return fmt.Sprintf("%d.%02d%%", bp/100, bp%100)
}

// String implements fmt.Stringer.
func (s Share) String() string {
	return fmt.Sprintf("%d/%d (%s)", s.Claims, s.Total, s.Percent())
}

// ComputeEntitlement returns floor(pool * share). The floor always favours the
// pool, so an entitlement never exceeds the pool it is drawn from.
func ComputeEntitlement(pool uint64, share Share) (uint64, error) {
	if share.Total == 0 {
		return 0, ErrZeroTotalShares
	}
	if share.Claims > share.Total {
		return 0, fmt.Errorf("%w: %d > %d", ErrShareExceedsTotal, share.Claims, share.Total)
	}
	return mulDiv(pool, share.Claims, share.Total), nil
}

// mulDiv computes floor(a*b/d) with a 128-bit intermediate, saturating when
// the quotient does not fit in 64 bits.
func mulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, d)
	return q
}
