package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	messageClassic = "BXGY Bundle Discount"
	messageVolume  = "Volume Discount"
)

var oneHundred = decimal.NewFromInt(100)

// evaluateComplement builds one independent discount per distinct complement
// percentage. Discounts combine additively, so the application strategy is ALL.
func evaluateComplement(p Policy, c classification) Result {
	if p.Complement.TriggerProductID != "" && !c.triggerSeen {
		return EmptyResult()
	}
	if len(c.groups) == 0 {
		return EmptyResult()
	}
	discounts := make([]Discount, 0, len(c.groups))
	for _, group := range c.groups {
		targets := make([]Target, 0, len(group.members))
		for _, m := range group.members {
			targets = append(targets, Target{VariantID: m.variantID, Quantity: m.quantity})
		}
		discounts = append(discounts, Discount{
			Message: withBundleName(p.BundleName, complementMessage(group.pct)),
			Targets: targets,
			Value:   Percentage(group.pct),
		})
	}
	return Result{Discounts: discounts, ApplicationStrategy: ApplyAll}
}

// evaluateVolume resolves the best quantity break over the summed target
// quantity and discounts the entire quantity of every target line.
func evaluateVolume(p Policy, c classification) Result {
	if len(c.volumeTargets) == 0 {
		return EmptyResult()
	}
	tier, ok := bestVolumeTier(p.Volume.Tiers, c.totalQty)
	if !ok || tier.DiscountPct.Sign() <= 0 {
		return EmptyResult()
	}
	targets := make([]Target, 0, len(c.volumeTargets))
	for _, t := range c.volumeTargets {
		targets = append(targets, Target{VariantID: t.variantID, Quantity: t.quantity})
	}
	return Result{
		Discounts: []Discount{{
			Message: withBundleName(p.BundleName, messageVolume),
			Targets: targets,
			Value:   Percentage(tier.DiscountPct),
		}},
		ApplicationStrategy: ApplyFirst,
	}
}

// evaluateClassic resolves the effective tier, allocates reward quantity
// across candidates in cart order and assembles a single discount.
func evaluateClassic(p Policy, c classification) Result {
	cp := p.Classic

	minQty := cp.MinQuantity
	maxReward := cp.MaxReward
	value := cp.DiscountValue
	if len(cp.Tiers) > 0 {
		tier, ok := bestClassicTier(cp.Tiers, c.buyQuantity, c.sameProduct)
		if !ok {
			return EmptyResult()
		}
		minQty = tier.MinQuantity
		maxReward = tier.MaxReward
		value = tier.DiscountValue
	} else if !classicQualifies(minQty, maxReward, c.buyQuantity, c.sameProduct) {
		return EmptyResult()
	}

	if len(c.getCandidates) == 0 {
		return EmptyResult()
	}

	maxDiscountable := maxReward
	if c.sameProduct {
		// The paid buy quantity is consumed from the same pool as the reward,
		// so it is always excluded from the discountable units.
		if pool := c.buyQuantity - minQty; pool < maxDiscountable {
			maxDiscountable = pool
		}
	}

	targets := allocateRewards(c.getCandidates, maxDiscountable)
	if len(targets) == 0 {
		return EmptyResult()
	}

	discountValue, ok := buildValue(cp.DiscountType, value)
	if !ok {
		return EmptyResult()
	}
	return Result{
		Discounts: []Discount{{
			Message: withBundleName(p.BundleName, messageClassic),
			Targets: targets,
			Value:   discountValue,
		}},
		ApplicationStrategy: ApplyFirst,
	}
}

// classicQualifies applies the buy-quantity threshold test. In the
// same-product case the reward units must also fit in the pool, so the
// threshold is minQuantity+maxReward.
func classicQualifies(minQty, maxReward, buyQty int, sameProduct bool) bool {
	required := minQty
	if sameProduct {
		required += maxReward
	}
	return buyQty >= required
}

// bestClassicTier selects the qualifying tier with the largest minQuantity.
// The scan only replaces the current best on a strictly larger threshold, so
// the first-configured tier wins exact ties.
func bestClassicTier(tiers []Tier, buyQty int, sameProduct bool) (Tier, bool) {
	best := -1
	for i, t := range tiers {
		if !classicQualifies(t.MinQuantity, t.MaxReward, buyQty, sameProduct) {
			continue
		}
		if best == -1 || t.MinQuantity > tiers[best].MinQuantity {
			best = i
		}
	}
	if best == -1 {
		return Tier{}, false
	}
	return tiers[best], true
}

// bestVolumeTier selects the satisfied tier with the largest qty threshold,
// first-configured winning exact ties.
func bestVolumeTier(tiers []VolumeTier, totalQty int) (VolumeTier, bool) {
	best := -1
	for i, t := range tiers {
		if t.Qty > totalQty {
			continue
		}
		if best == -1 || t.Qty > tiers[best].Qty {
			best = i
		}
	}
	if best == -1 {
		return VolumeTier{}, false
	}
	return tiers[best], true
}

// buildValue maps the configured discount type onto a value. Unknown types
// resolve to no discount rather than an error.
func buildValue(discountType string, amount decimal.Decimal) (Value, bool) {
	switch discountType {
	case "percentage":
		return Percentage(amount), true
	case "fixed":
		return FixedAmount(amount), true
	default:
		return Value{}, false
	}
}

// complementMessage renders the FBT message with the percentage scaled to a
// human-readable percent.
func complementMessage(pct decimal.Decimal) string {
	return fmt.Sprintf("Frequently Bought Together (%s%% off)", pct.Mul(oneHundred))
}

// withBundleName prefixes the merchant's bundle name when one is configured.
func withBundleName(name, message string) string {
	if name == "" {
		return message
	}
	return name + ": " + message
}
