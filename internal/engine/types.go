package engine

import "github.com/shopspring/decimal"

// ApplicationStrategy governs how multiple discounts in a result combine.
type ApplicationStrategy string

const (
	// ApplyFirst instructs the host to apply only the first returned discount.
	ApplyFirst ApplicationStrategy = "FIRST"
	// ApplyAll instructs the host to apply every returned discount independently.
	ApplyAll ApplicationStrategy = "ALL"
)

// CartLine is one line of the immutable cart snapshot. Lines whose merchandise
// does not resolve to a concrete product variant arrive with an empty ProductID
// or VariantID and do not participate in evaluation.
type CartLine struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// Target names a cart line variant and how many of its units receive the
// discount. Quantity never exceeds the line's own cart quantity.
type Target struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// ValueKind discriminates the closed set of discount value shapes.
type ValueKind string

const (
	// ValuePercentage is a percentage expressed as a decimal fraction (0.5 = 50%).
	ValuePercentage ValueKind = "percentage"
	// ValueFixedAmount is a fixed currency amount, not scaled per item.
	ValueFixedAmount ValueKind = "fixedAmount"
)

// Value is the discount value attached to a Discount.
type Value struct {
	Kind   ValueKind       `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Percentage constructs a percentage value from a decimal fraction.
func Percentage(fraction decimal.Decimal) Value {
	return Value{Kind: ValuePercentage, Amount: fraction}
}

// FixedAmount constructs a fixed-amount value.
func FixedAmount(amount decimal.Decimal) Value {
	return Value{Kind: ValueFixedAmount, Amount: amount}
}

// Discount is one discount instruction: a message, the lines it applies to and
// the value taken off them.
type Discount struct {
	Message string   `json:"message"`
	Targets []Target `json:"targets"`
	Value   Value    `json:"value"`
}

// Result is the outcome of one evaluation. Discounts may be empty; the
// application strategy is FIRST unless the complement path produced multiple
// independent discounts.
type Result struct {
	Discounts           []Discount          `json:"discounts"`
	ApplicationStrategy ApplicationStrategy `json:"discountApplicationStrategy"`
}

// EmptyResult is the canonical no-discount outcome. Every qualification
// failure, configuration problem and arithmetic edge case converges here;
// evaluation never fails a checkout.
func EmptyResult() Result {
	return Result{Discounts: []Discount{}, ApplicationStrategy: ApplyFirst}
}

// Applied reports whether the result carries at least one discount.
func (r Result) Applied() bool {
	return len(r.Discounts) > 0
}
