package revshare

import (
	"math"
	"testing"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAddr(seed byte) address.Address {
	var a address.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// --- Scaling tests ---

func TestScaleAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity uint64
		price    uint64
		decimals uint8
		want     uint64
	}{
		{"sponsorship", 20, 5, 2, 10000},
		{"tickets", 3, 10, 2, 3000},
		{"no decimals", 7, 3, 0, 21},
		{"zero quantity", 0, 5, 6, 0},
		{"usdc", 1, 25, 6, 25_000_000},
		{"max decimals", 1, 1, MaxDecimals, 10_000_000_000_000_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleAmount(tt.quantity, tt.price, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleAmount_Overflow(t *testing.T) {
	tests := []struct {
		name     string
		quantity uint64
		price    uint64
		decimals uint8
	}{
		{"price times factor", 1, math.MaxUint64, 1},
		{"times quantity", math.MaxUint64, 1, 1},
		{"decimals too large", 1, 1, MaxDecimals + 1},
		{"just over", 1 << 32, 1 << 32, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScaleAmount(tt.quantity, tt.price, tt.decimals)
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}
}

func TestScaleAmount_NeverWraps(t *testing.T) {
	for decimals := uint8(0); decimals <= MaxDecimals; decimals++ {
		factor, err := DecimalsFactor(decimals)
		require.NoError(t, err)
		for _, q := range []uint64{1, 2, 1000, 1 << 20, 1 << 40, math.MaxUint64} {
			got, err := ScaleAmount(q, 3, decimals)
			if err != nil {
				assert.ErrorIs(t, err, ErrOverflow)
				continue
			}
			assert.Equal(t, q, got/(3*factor), "decimals=%d q=%d", decimals, q)
		}
	}
}

func TestAddChecked(t *testing.T) {
	sum, err := AddChecked(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = AddChecked(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

// --- Share tests ---

func TestComputeShare(t *testing.T) {
	share, err := ComputeShare(20, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), share.BasisPoints())
	assert.Equal(t, "100.00%", share.Percent())

	share, err = ComputeShare(53, 5)
	require.NoError(t, err)
	assert.Equal(t, "9.43%", share.Percent())

	share, err = ComputeShare(20, 0)
	require.NoError(t, err)
	assert.True(t, share.IsZero())
	assert.Equal(t, "0.00%", share.Percent())
}

func TestComputeShare_ZeroTotal(t *testing.T) {
	_, err := ComputeShare(0, 0)
	assert.ErrorIs(t, err, ErrZeroTotalShares)
}

func TestComputeShare_ExceedsTotal(t *testing.T) {
	_, err := ComputeShare(10, 11)
	assert.ErrorIs(t, err, ErrShareExceedsTotal)
}

func TestComputeShare_Bounded(t *testing.T) {
	for _, total := range []uint64{1, 3, 7, 100, math.MaxUint64} {
		for _, redeemed := range []uint64{0, 1, total / 2, total} {
			share, err := ComputeShare(total, redeemed)
			require.NoError(t, err)
			assert.LessOrEqual(t, share.BasisPoints(), uint64(10000))
		}
	}
}

// --- Entitlement tests ---

func TestComputeEntitlement(t *testing.T) {
	tests := []struct {
		name     string
		pool     uint64
		claims   uint64
		total    uint64
		expected uint64
	}{
		{"full pool", 3000, 20, 20, 3000},
		{"half of odd pool floors", 3001, 10, 20, 1500},
		{"second redeemer", 1501, 10, 20, 750},
		{"zero claims", 3000, 0, 20, 0},
		{"empty pool", 0, 5, 20, 0},
		{"one third", 100, 1, 3, 33},
		{"five of fifty-three", 150, 5, 53, 14},
		{"large pool", math.MaxUint64, 1, 2, math.MaxUint64 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEntitlement(tt.pool, Share{Claims: tt.claims, Total: tt.total})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeEntitlement_NeverExceedsPool(t *testing.T) {
	pools := []uint64{0, 1, 99, 3001, 1 << 40, math.MaxUint64}
	totals := []uint64{1, 3, 20, 1 << 33, math.MaxUint64}
	for _, pool := range pools {
		for _, total := range totals {
			for _, claims := range []uint64{0, 1, total / 3, total - 1, total} {
				got, err := ComputeEntitlement(pool, Share{Claims: claims, Total: total})
				require.NoError(t, err)
				assert.LessOrEqual(t, got, pool)
			}
		}
	}
}

func TestComputeEntitlement_InvalidShare(t *testing.T) {
	_, err := ComputeEntitlement(100, Share{})
	assert.ErrorIs(t, err, ErrZeroTotalShares)

	_, err = ComputeEntitlement(100, Share{Claims: 3, Total: 2})
	assert.ErrorIs(t, err, ErrShareExceedsTotal)
}

// --- Preview tests ---

func TestPreviewRedemptions_OrderDependentDust(t *testing.T) {
	holders := []Holding{
		{Holder: makeAddr(0xAA), Claims: 10},
		{Holder: makeAddr(0xBB), Claims: 10},
	}
	dists, dust, err := PreviewRedemptions(3001, 20, holders)
	require.NoError(t, err)
	require.Len(t, dists, 2)

	assert.Equal(t, uint64(1500), dists[0].Amount)
	assert.Equal(t, uint64(750), dists[1].Amount)
	assert.Equal(t, uint64(751), dust)
	assert.Equal(t, makeAddr(0xBB), dists[1].Holder)
}

func TestPreviewRedemptions_SingleHolderDrainsPool(t *testing.T) {
	dists, dust, err := PreviewRedemptions(3000, 20, []Holding{{Holder: makeAddr(0x01), Claims: 20}})
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), dists[0].Amount)
	assert.Zero(t, dust)
}

func TestPreviewRedemptions_Errors(t *testing.T) {
	_, _, err := PreviewRedemptions(100, 0, nil)
	assert.ErrorIs(t, err, ErrZeroTotalShares)

	_, _, err = PreviewRedemptions(100, 5, []Holding{{Holder: makeAddr(0x01), Claims: 6}})
	assert.ErrorIs(t, err, ErrShareExceedsTotal)
}

// --- Validation tests ---

func TestValidatePayout(t *testing.T) {
	share := Share{Claims: 10, Total: 20}
	assert.NoError(t, ValidatePayout(3001, share, 1500))
	assert.ErrorIs(t, ValidatePayout(3001, share, 1501), ErrPayoutMismatch)
	assert.ErrorIs(t, ValidatePayout(10, share, 11), ErrPayoutExceedsPool)
}
