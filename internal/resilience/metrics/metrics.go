package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsClassified tracks classified failures per kind
	ErrorsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_errors_classified_total",
			Help: "Total number of failures classified, by kind",
		},
		[]string{"kind"},
	)

	// Recoveries tracks recovery executions per strategy and outcome
	Recoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_recoveries_total",
			Help: "Total number of recovery executions, by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// RecoveryAttempts tracks replay invocations made by the recovery executor
	RecoveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_recovery_attempts_total",
			Help: "Total number of replay attempts made during recovery",
		},
		[]string{"strategy"},
	)

	// RetryAttempts tracks attempts made by the generic retry engine
	RetryAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resilience_retry_attempts_total",
			Help: "Total number of attempts made by the generic retry engine",
		},
	)

	// HistorySize tracks the current number of entries in the error history
	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilience_history_size",
			Help: "Current number of entries in the error history log",
		},
	)
)
