// Package revshare implements the fixed-point arithmetic used by the escrow
// engine: scaling human quantities into minor currency units, and the
// proportional share and entitlement computed at redemption.
//
// All results are exact integers. Multiplications are checked and report
// ErrOverflow instead of wrapping.
package revshare

import (
	"fmt"
	"math/bits"
)

// MaxDecimals is the largest decimals value whose scale factor fits in uint64.
const MaxDecimals = 19

// DecimalsFactor returns 10^decimals.
func DecimalsFactor(decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: 10^%d", ErrOverflow, decimals)
	}
	factor := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		factor *= 10
	}
	return factor, nil
}

// ScaleAmount converts a quantity priced in whole currency units into minor
// units: unitPrice * 10^decimals * quantity.
func ScaleAmount(quantity, unitPrice uint64, decimals uint8) (uint64, error) {
	factor, err := DecimalsFactor(decimals)
	if err != nil {
		return 0, err
	}
	perUnit, err := MulChecked(unitPrice, factor)
	if err != nil {
		return 0, fmt.Errorf("scale price %d by 10^%d: %w", unitPrice, decimals, err)
	}
	total, err := MulChecked(perUnit, quantity)
	if err != nil {
		return 0, fmt.Errorf("scale %d units of %d: %w", quantity, perUnit, err)
	}
	return total, nil
}

// MulChecked returns a*b or ErrOverflow.
func MulChecked(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// AddChecked returns a+b or ErrOverflow.
func AddChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}
