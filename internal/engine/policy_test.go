package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigStrategyPriority(t *testing.T) {
	payload := []byte(`{
		"complementProducts": [{"productId": "P", "discountPct": 0.1}],
		"volumeTiers": [{"qty": 2, "discountPct": 0.2}],
		"buyType": "product",
		"buyProductId": "A",
		"getProductId": "B"
	}`)
	policy, ok := ParseConfig(payload)
	require.True(t, ok)
	require.Equal(t, KindComplement, policy.Kind)

	payload = []byte(`{
		"volumeTiers": [{"qty": 2, "discountPct": 0.2}],
		"buyType": "product",
		"buyProductId": "A",
		"getProductId": "B"
	}`)
	policy, ok = ParseConfig(payload)
	require.True(t, ok)
	require.Equal(t, KindVolume, policy.Kind)

	payload = []byte(`{"buyType": "product", "buyProductId": "A", "getProductId": "B"}`)
	policy, ok = ParseConfig(payload)
	require.True(t, ok)
	require.Equal(t, KindClassic, policy.Kind)
}

func TestParseConfigComplementDefaults(t *testing.T) {
	payload := []byte(`{
		"complementProducts": [
			{"productId": "P", "discountPct": 0.1},
			{"productId": "  ", "discountPct": 0.2},
			{"productId": "Q", "discountPct": 0.3, "quantity": 4}
		],
		"triggerProductId": " T "
	}`)
	policy, ok := ParseConfig(payload)
	require.True(t, ok)
	require.Equal(t, "T", policy.Complement.TriggerProductID)
	require.Len(t, policy.Complement.Products, 2)
	require.Equal(t, 1, policy.Complement.Products[0].Quantity)
	require.Equal(t, 4, policy.Complement.Products[1].Quantity)
}

func TestParseConfigVolumeRequiresTargetProduct(t *testing.T) {
	_, ok := ParseConfig([]byte(`{"volumeTiers": [{"qty": 1, "discountPct": 0.1}]}`))
	require.False(t, ok)

	policy, ok := ParseConfig([]byte(`{
		"volumeTiers": [{"qty": 1, "discountPct": 0.1}],
		"getProductId": "X"
	}`))
	require.True(t, ok)
	require.Equal(t, "X", policy.Volume.TargetProductID())
}

func TestParseConfigClassicRequiresGetProduct(t *testing.T) {
	_, ok := ParseConfig([]byte(`{"buyType": "product", "buyProductId": "A"}`))
	require.False(t, ok)
}

func TestParseConfigCollectionSet(t *testing.T) {
	policy, ok := ParseConfig([]byte(`{
		"buyType": "collection",
		"buyCollectionIds": ["A", "B", "", "A"],
		"getProductId": "G"
	}`))
	require.True(t, ok)
	require.Equal(t, BuyTypeCollection, policy.Classic.BuyType)
	require.Len(t, policy.Classic.BuyCollectionIDs, 2)
	_, member := policy.Classic.BuyCollectionIDs["B"]
	require.True(t, member)
}

func TestParseConfigIgnoresUnknownFields(t *testing.T) {
	// The admin app stores design/theming keys alongside the policy fields.
	policy, ok := ParseConfig([]byte(`{
		"bundleName": "Bundle & Save",
		"designAccentColor": "#ff0000",
		"designCardLayout": "vertical",
		"getProductId": "G",
		"buyType": "product",
		"buyProductId": "A"
	}`))
	require.True(t, ok)
	require.Equal(t, "Bundle & Save", policy.BundleName)
	require.Equal(t, KindClassic, policy.Kind)
}

func TestStrategyKindString(t *testing.T) {
	require.Equal(t, "classic", KindClassic.String())
	require.Equal(t, "volume", KindVolume.String())
	require.Equal(t, "complement", KindComplement.String())
}

func TestSameProduct(t *testing.T) {
	require.True(t, ClassicPolicy{BuyProductID: "A", GetProductID: "A"}.SameProduct())
	require.False(t, ClassicPolicy{BuyProductID: "A", GetProductID: "B"}.SameProduct())
	require.False(t, ClassicPolicy{GetProductID: "B"}.SameProduct())
}
