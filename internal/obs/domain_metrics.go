package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// EvaluationsTotal counts discount evaluations by strategy and outcome.
	EvaluationsTotal *prometheus.CounterVec
	// EvaluationDuration records evaluation latency in milliseconds per strategy.
	EvaluationDuration *prometheus.HistogramVec
	// PolicyWritesTotal counts policy store mutations by operation and result.
	PolicyWritesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Count of discount evaluations by strategy and outcome.",
		}, []string{"strategy", "outcome"})
		EvaluationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_ms",
			Help:      "Latency of discount evaluations in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"strategy"})
		PolicyWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_writes_total",
			Help:      "Count of policy store operations by result.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, EvaluationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				EvaluationsTotal = v
			}
		})
		mustRegisterCollector(reg, EvaluationDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				EvaluationDuration = v
			}
		})
		mustRegisterCollector(reg, PolicyWritesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PolicyWritesTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
