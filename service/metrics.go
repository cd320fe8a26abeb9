package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "finance_auth_outcomes_total",
		Help: "Authentication attempts by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func recordAuthOutcome(operation, outcome string) {
	authOutcomes.WithLabelValues(operation, outcome).Inc()
}
