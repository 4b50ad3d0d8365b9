// Package engine evaluates a merchant-configured bundle discount policy
// against a cart snapshot. Evaluation is pure and synchronous: one snapshot
// and one configuration in, one result out, with every failure mode folded
// into the canonical empty result rather than an error.
package engine

// Evaluate decodes the raw configuration payload and evaluates it against the
// cart lines. A malformed or absent payload yields the canonical empty result.
func Evaluate(lines []CartLine, payload []byte) Result {
	policy, ok := ParseConfig(payload)
	if !ok {
		return EmptyResult()
	}
	return EvaluatePolicy(lines, policy)
}

// EvaluatePolicy runs the classify / resolve / allocate / assemble pipeline
// for an already-normalized policy. The policy's strategy tag picks exactly
// one evaluation path; the others are never consulted.
func EvaluatePolicy(lines []CartLine, policy Policy) Result {
	cls := classify(lines, policy)
	switch policy.Kind {
	case KindComplement:
		return evaluateComplement(policy, cls)
	case KindVolume:
		return evaluateVolume(policy, cls)
	default:
		return evaluateClassic(policy, cls)
	}
}
