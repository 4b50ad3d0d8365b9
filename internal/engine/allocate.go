package engine

// allocateRewards distributes up to maxDiscountable units across the reward
// candidates in cart order. Each line takes min(lineQuantity, remaining); the
// walk stops once the pool is exhausted. A non-positive pool allocates nothing.
func allocateRewards(candidates []candidate, maxDiscountable int) []Target {
	if maxDiscountable <= 0 {
		return nil
	}
	remaining := maxDiscountable
	var targets []Target
	for _, cand := range candidates {
		if remaining <= 0 {
			break
		}
		qty := cand.quantity
		if remaining < qty {
			qty = remaining
		}
		if qty <= 0 {
			continue
		}
		targets = append(targets, Target{VariantID: cand.variantID, Quantity: qty})
		remaining -= qty
	}
	return targets
}
