package engine

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// StrategyKind tags the single strategy a normalized policy evaluates under.
type StrategyKind int

const (
	// KindClassic covers plain buy-X-get-Y and its tiered-combo extension.
	KindClassic StrategyKind = iota
	// KindVolume covers quantity-break pricing on a single product.
	KindVolume
	// KindComplement covers frequently-bought-together bundling.
	KindComplement
)

// String returns the metric-friendly name of the strategy.
func (k StrategyKind) String() string {
	switch k {
	case KindVolume:
		return "volume"
	case KindComplement:
		return "complement"
	default:
		return "classic"
	}
}

// BuyType selects how buy-qualifying lines are matched.
type BuyType string

const (
	// BuyTypeProduct matches lines against a single product id.
	BuyTypeProduct BuyType = "product"
	// BuyTypeCollection matches lines against a set of collection product ids.
	BuyTypeCollection BuyType = "collection"
)

// Tier is one threshold/reward step of a tiered-combo configuration.
type Tier struct {
	MinQuantity   int             `json:"minQuantity"`
	MaxReward     int             `json:"maxReward"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// VolumeTier is one quantity-break step.
type VolumeTier struct {
	Qty         int             `json:"qty"`
	DiscountPct decimal.Decimal `json:"discountPct"`
}

// ComplementProduct is one bundled product of a complement configuration.
// Quantity caps how many units of a matching line are discounted; it defaults
// to 1 when the merchant omits it.
type ComplementProduct struct {
	ProductID   string          `json:"productId"`
	DiscountPct decimal.Decimal `json:"discountPct"`
	Quantity    int             `json:"quantity"`
}

// ClassicPolicy holds the classic BXGY fields, including the optional tier
// ladder. When Tiers is empty the top-level MinQuantity/MaxReward/DiscountValue
// apply directly.
type ClassicPolicy struct {
	BuyType          BuyType
	BuyProductID     string
	BuyCollectionIDs map[string]struct{}
	MinQuantity      int
	GetProductID     string
	DiscountType     string
	DiscountValue    decimal.Decimal
	MaxReward        int
	Tiers            []Tier
}

// SameProduct reports whether buy and get reference one product pool, which
// switches the allocator to the buy-quantity exclusion cap.
func (p ClassicPolicy) SameProduct() bool {
	return p.BuyProductID != "" && p.BuyProductID == p.GetProductID
}

// VolumePolicy holds the quantity-break fields. Target lines match
// BuyProductID when set, otherwise GetProductID.
type VolumePolicy struct {
	Tiers        []VolumeTier
	BuyProductID string
	GetProductID string
}

// TargetProductID resolves which product the volume tiers price.
func (p VolumePolicy) TargetProductID() string {
	if p.BuyProductID != "" {
		return p.BuyProductID
	}
	return p.GetProductID
}

// ComplementPolicy holds the frequently-bought-together fields. When
// TriggerProductID is set the cart must contain it for any discount to apply.
type ComplementPolicy struct {
	Products         []ComplementProduct
	TriggerProductID string
}

// Policy is the normalized, strategy-tagged configuration. Exactly one of the
// variant fields is meaningful, selected by Kind; the normalizer fixes the
// priority order complement > volume > classic once, so downstream stages
// never re-check field presence.
type Policy struct {
	Kind       StrategyKind
	BundleName string
	Classic    ClassicPolicy
	Volume     VolumePolicy
	Complement ComplementPolicy
}

// rawConfig mirrors the merchant payload. Unknown fields (the admin app stores
// design/theming keys alongside these) are ignored by the decoder.
type rawConfig struct {
	BundleName         string              `json:"bundleName"`
	BuyType            string              `json:"buyType"`
	BuyProductID       string              `json:"buyProductId"`
	BuyCollectionIDs   []string            `json:"buyCollectionIds"`
	MinQuantity        int                 `json:"minQuantity"`
	GetProductID       string              `json:"getProductId"`
	DiscountType       string              `json:"discountType"`
	DiscountValue      decimal.Decimal     `json:"discountValue"`
	MaxReward          int                 `json:"maxReward"`
	Tiers              []Tier              `json:"tiers"`
	VolumeTiers        []VolumeTier        `json:"volumeTiers"`
	ComplementProducts []ComplementProduct `json:"complementProducts"`
	TriggerProductID   string              `json:"triggerProductId"`
}

// ParseConfig decodes and normalizes a raw configuration payload. A malformed
// or unusable payload reports ok=false, which callers map to the canonical
// empty result: merchant misconfiguration must never block checkout.
func ParseConfig(payload []byte) (Policy, bool) {
	if len(payload) == 0 {
		return Policy{}, false
	}
	var raw rawConfig
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Policy{}, false
	}
	return normalize(raw)
}

// normalize applies the fixed strategy priority: a present, non-empty
// complement block wins over volume tiers, which win over the classic path.
func normalize(raw rawConfig) (Policy, bool) {
	name := strings.TrimSpace(raw.BundleName)

	if len(raw.ComplementProducts) > 0 {
		products := make([]ComplementProduct, 0, len(raw.ComplementProducts))
		for _, cp := range raw.ComplementProducts {
			cp.ProductID = strings.TrimSpace(cp.ProductID)
			if cp.ProductID == "" {
				continue
			}
			if cp.Quantity == 0 {
				cp.Quantity = 1
			}
			products = append(products, cp)
		}
		if len(products) == 0 {
			return Policy{}, false
		}
		return Policy{
			Kind:       KindComplement,
			BundleName: name,
			Complement: ComplementPolicy{
				Products:         products,
				TriggerProductID: strings.TrimSpace(raw.TriggerProductID),
			},
		}, true
	}

	if len(raw.VolumeTiers) > 0 {
		vp := VolumePolicy{
			Tiers:        raw.VolumeTiers,
			BuyProductID: strings.TrimSpace(raw.BuyProductID),
			GetProductID: strings.TrimSpace(raw.GetProductID),
		}
		if vp.TargetProductID() == "" {
			return Policy{}, false
		}
		return Policy{Kind: KindVolume, BundleName: name, Volume: vp}, true
	}

	getID := strings.TrimSpace(raw.GetProductID)
	if getID == "" {
		return Policy{}, false
	}
	cp := ClassicPolicy{
		BuyType:       BuyType(strings.TrimSpace(raw.BuyType)),
		BuyProductID:  strings.TrimSpace(raw.BuyProductID),
		MinQuantity:   raw.MinQuantity,
		GetProductID:  getID,
		DiscountType:  strings.TrimSpace(raw.DiscountType),
		DiscountValue: raw.DiscountValue,
		MaxReward:     raw.MaxReward,
		Tiers:         raw.Tiers,
	}
	if len(raw.BuyCollectionIDs) > 0 {
		cp.BuyCollectionIDs = make(map[string]struct{}, len(raw.BuyCollectionIDs))
		for _, id := range raw.BuyCollectionIDs {
			id = strings.TrimSpace(id)
			if id != "" {
				cp.BuyCollectionIDs[id] = struct{}{}
			}
		}
	}
	return Policy{Kind: KindClassic, BundleName: name, Classic: cp}, true
}
