package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBestClassicTierSelection(t *testing.T) {
	tiers := []Tier{
		{MinQuantity: 2, MaxReward: 1, DiscountValue: decimal.RequireFromString("0.1")},
		{MinQuantity: 5, MaxReward: 2, DiscountValue: decimal.RequireFromString("0.2")},
		{MinQuantity: 10, MaxReward: 4, DiscountValue: decimal.RequireFromString("0.3")},
	}

	_, ok := bestClassicTier(tiers, 1, false)
	require.False(t, ok)

	tier, ok := bestClassicTier(tiers, 6, false)
	require.True(t, ok)
	require.Equal(t, 5, tier.MinQuantity)

	tier, ok = bestClassicTier(tiers, 40, false)
	require.True(t, ok)
	require.Equal(t, 10, tier.MinQuantity)
}

func TestBestClassicTierSameProductThreshold(t *testing.T) {
	tiers := []Tier{{MinQuantity: 2, MaxReward: 3, DiscountValue: decimal.NewFromInt(1)}}

	// Same-product qualification requires minQuantity+maxReward units.
	_, ok := bestClassicTier(tiers, 4, true)
	require.False(t, ok)

	tier, ok := bestClassicTier(tiers, 5, true)
	require.True(t, ok)
	require.Equal(t, 3, tier.MaxReward)
}

func TestBestClassicTierFirstWinsTies(t *testing.T) {
	tiers := []Tier{
		{MinQuantity: 3, MaxReward: 1, DiscountValue: decimal.RequireFromString("0.1")},
		{MinQuantity: 3, MaxReward: 9, DiscountValue: decimal.RequireFromString("0.9")},
	}
	tier, ok := bestClassicTier(tiers, 3, false)
	require.True(t, ok)
	require.Equal(t, 1, tier.MaxReward)
}

func TestBestClassicTierMonotonic(t *testing.T) {
	tiers := []Tier{
		{MinQuantity: 2, MaxReward: 1},
		{MinQuantity: 5, MaxReward: 2},
		{MinQuantity: 8, MaxReward: 3},
	}
	prev := -1
	qualified := false
	for buyQty := 0; buyQty <= 20; buyQty++ {
		tier, ok := bestClassicTier(tiers, buyQty, false)
		if qualified {
			// Raising buyQuantity never flips a qualifying result back to empty.
			require.True(t, ok, "buyQty=%d", buyQty)
		}
		if !ok {
			continue
		}
		qualified = true
		require.GreaterOrEqual(t, tier.MinQuantity, prev, "buyQty=%d", buyQty)
		prev = tier.MinQuantity
	}
}

func TestBestVolumeTierSelection(t *testing.T) {
	tiers := []VolumeTier{
		{Qty: 3, DiscountPct: decimal.RequireFromString("0.1")},
		{Qty: 5, DiscountPct: decimal.RequireFromString("0.2")},
	}

	_, ok := bestVolumeTier(tiers, 2)
	require.False(t, ok)

	tier, ok := bestVolumeTier(tiers, 4)
	require.True(t, ok)
	require.Equal(t, 3, tier.Qty)

	tier, ok = bestVolumeTier(tiers, 5)
	require.True(t, ok)
	require.Equal(t, 5, tier.Qty)
}

func TestBestVolumeTierFirstWinsTies(t *testing.T) {
	tiers := []VolumeTier{
		{Qty: 3, DiscountPct: decimal.RequireFromString("0.1")},
		{Qty: 3, DiscountPct: decimal.RequireFromString("0.5")},
	}
	tier, ok := bestVolumeTier(tiers, 10)
	require.True(t, ok)
	require.True(t, tier.DiscountPct.Equal(decimal.RequireFromString("0.1")))
}

func TestEvaluateVolumeNonPositivePercentage(t *testing.T) {
	policy := Policy{
		Kind: KindVolume,
		Volume: VolumePolicy{
			GetProductID: "X",
			Tiers:        []VolumeTier{{Qty: 1, DiscountPct: decimal.Zero}},
		},
	}
	lines := []CartLine{{ProductID: "X", VariantID: "x1", Quantity: 2}}
	require.Equal(t, EmptyResult(), EvaluatePolicy(lines, policy))
}

func TestEvaluateVolumePrefersBuyProductID(t *testing.T) {
	policy := Policy{
		Kind: KindVolume,
		Volume: VolumePolicy{
			BuyProductID: "A",
			GetProductID: "B",
			Tiers:        []VolumeTier{{Qty: 2, DiscountPct: decimal.RequireFromString("0.1")}},
		},
	}
	lines := []CartLine{
		{ProductID: "A", VariantID: "a1", Quantity: 2},
		{ProductID: "B", VariantID: "b1", Quantity: 9},
	}
	res := EvaluatePolicy(lines, policy)
	require.Len(t, res.Discounts, 1)
	require.Equal(t, []Target{{VariantID: "a1", Quantity: 2}}, res.Discounts[0].Targets)
}

func TestEvaluateClassicSameProductPoolExhausted(t *testing.T) {
	policy := Policy{
		Kind: KindClassic,
		Classic: ClassicPolicy{
			BuyType:       BuyTypeProduct,
			BuyProductID:  "A",
			GetProductID:  "A",
			MinQuantity:   2,
			MaxReward:     0,
			DiscountType:  "percentage",
			DiscountValue: decimal.RequireFromString("0.5"),
		},
	}
	lines := []CartLine{{ProductID: "A", VariantID: "a1", Quantity: 2}}
	// buyQuantity-minQuantity leaves nothing discountable.
	require.Equal(t, EmptyResult(), EvaluatePolicy(lines, policy))
}
