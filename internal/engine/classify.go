package engine

import "github.com/shopspring/decimal"

// candidate is a reward-eligible cart line, kept in cart order so allocation
// stays deterministic.
type candidate struct {
	variantID string
	quantity  int
}

// complementGroup collects complement matches sharing one discount percentage.
// Groups are keyed by the exact decimal representation of the configured
// percentage, never a scaled-float hash, and preserve first-seen order.
type complementGroup struct {
	key     string
	pct     decimal.Decimal
	members []candidate
}

// classification is the aggregate of one pass over the cart lines. Only the
// fields relevant to the active strategy are populated.
type classification struct {
	buyQuantity   int
	getCandidates []candidate
	sameProduct   bool

	totalQty      int
	volumeTargets []candidate

	groups      []complementGroup
	triggerSeen bool
}

// classify scans the cart snapshot exactly once, tagging lines against the
// normalized policy. Lines without variant merchandise or with a non-positive
// quantity do not participate.
func classify(lines []CartLine, p Policy) classification {
	var c classification

	switch p.Kind {
	case KindComplement:
		c.classifyComplement(lines, p.Complement)
	case KindVolume:
		c.classifyVolume(lines, p.Volume)
	default:
		c.classifyClassic(lines, p.Classic)
	}
	return c
}

func (c *classification) classifyClassic(lines []CartLine, p ClassicPolicy) {
	c.sameProduct = p.SameProduct()
	for _, line := range lines {
		if !participates(line) {
			continue
		}
		if isBuyMatch(line.ProductID, p) {
			c.buyQuantity += line.Quantity
		}
		if line.ProductID == p.GetProductID {
			c.getCandidates = append(c.getCandidates, candidate{
				variantID: line.VariantID,
				quantity:  line.Quantity,
			})
		}
	}
}

func (c *classification) classifyVolume(lines []CartLine, p VolumePolicy) {
	target := p.TargetProductID()
	for _, line := range lines {
		if !participates(line) {
			continue
		}
		if line.ProductID != target {
			continue
		}
		c.totalQty += line.Quantity
		c.volumeTargets = append(c.volumeTargets, candidate{
			variantID: line.VariantID,
			quantity:  line.Quantity,
		})
	}
}

func (c *classification) classifyComplement(lines []CartLine, p ComplementPolicy) {
	byProduct := make(map[string]ComplementProduct, len(p.Products))
	for _, cp := range p.Products {
		if _, exists := byProduct[cp.ProductID]; !exists {
			byProduct[cp.ProductID] = cp
		}
	}
	groupIdx := make(map[string]int)

	for _, line := range lines {
		if !participates(line) {
			continue
		}
		if p.TriggerProductID != "" && line.ProductID == p.TriggerProductID {
			c.triggerSeen = true
		}
		cp, ok := byProduct[line.ProductID]
		if !ok {
			continue
		}
		// Percentages that contribute no discount are dropped silently.
		if cp.DiscountPct.Sign() <= 0 {
			continue
		}
		qty := line.Quantity
		if cp.Quantity < qty {
			qty = cp.Quantity
		}
		if qty <= 0 {
			continue
		}
		key := cp.DiscountPct.String()
		idx, seen := groupIdx[key]
		if !seen {
			idx = len(c.groups)
			groupIdx[key] = idx
			c.groups = append(c.groups, complementGroup{key: key, pct: cp.DiscountPct})
		}
		c.groups[idx].members = append(c.groups[idx].members, candidate{
			variantID: line.VariantID,
			quantity:  qty,
		})
	}
}

// participates reports whether the line resolves to a concrete product variant
// with a usable quantity.
func participates(line CartLine) bool {
	return line.ProductID != "" && line.VariantID != "" && line.Quantity > 0
}

// isBuyMatch applies the buy-side matching rule. Unknown buy types and absent
// required references never match.
func isBuyMatch(productID string, p ClassicPolicy) bool {
	switch p.BuyType {
	case BuyTypeProduct:
		return p.BuyProductID != "" && productID == p.BuyProductID
	case BuyTypeCollection:
		_, ok := p.BuyCollectionIDs[productID]
		return ok
	default:
		return false
	}
}
