// Package discount adapts the evaluation engine to the HTTP host: request
// decoding, stored-policy lookup, metrics and tracing. All decision logic
// stays in the engine package.
package discount

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/merchkit/bundle-engine/internal/engine"
	"github.com/merchkit/bundle-engine/internal/obs"
	"github.com/merchkit/bundle-engine/internal/policystore"
)

// Service evaluates carts against inline or stored policy payloads.
type Service struct {
	Store  *policystore.Store
	Logger zerolog.Logger
}

// Evaluate runs the engine over an inline configuration payload. It never
// returns an error: every failure mode resolves to the canonical empty result.
func (s *Service) Evaluate(ctx context.Context, lines []engine.CartLine, payload []byte) engine.Result {
	tracer := otel.Tracer("discount")
	_, span := tracer.Start(ctx, "discount.evaluate")
	defer span.End()

	start := time.Now()
	policy, ok := engine.ParseConfig(payload)
	if !ok {
		span.SetAttributes(attribute.String("discount.strategy", "none"))
		recordEvaluation("none", false, time.Since(start))
		return engine.EmptyResult()
	}

	result := engine.EvaluatePolicy(lines, policy)
	strategy := policy.Kind.String()
	span.SetAttributes(
		attribute.String("discount.strategy", strategy),
		attribute.Bool("discount.applied", result.Applied()),
		attribute.Int("cart.lines", len(lines)),
	)
	recordEvaluation(strategy, result.Applied(), time.Since(start))
	return result
}

// EvaluateStored looks up the payload stored for the shop/key pair and
// evaluates the cart against it. A missing payload, like a malformed one,
// yields the empty result; infrastructure failures are logged and degrade the
// same way, because a discount lookup must never fail a checkout.
func (s *Service) EvaluateStored(ctx context.Context, shopID, key string, lines []engine.CartLine) engine.Result {
	if s.Store == nil {
		return engine.EmptyResult()
	}
	payload, err := s.Store.Get(ctx, shopID, key)
	if err != nil {
		if !errors.Is(err, policystore.ErrNotFound) {
			s.Logger.Error().Err(err).
				Str("shop_id", shopID).
				Str("policy_key", key).
				Msg("policy lookup failed, returning empty result")
		}
		return engine.EmptyResult()
	}
	return s.Evaluate(ctx, lines, payload)
}

func recordEvaluation(strategy string, applied bool, elapsed time.Duration) {
	if obs.EvaluationsTotal == nil || obs.EvaluationDuration == nil {
		return
	}
	outcome := "empty"
	if applied {
		outcome = "applied"
	}
	obs.EvaluationsTotal.WithLabelValues(strategy, outcome).Inc()
	obs.EvaluationDuration.WithLabelValues(strategy).Observe(obs.DurationMillis(elapsed))
}
