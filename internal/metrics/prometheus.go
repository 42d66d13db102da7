// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celora_transactions_total",
			Help: "Total number of transactions posted",
		},
		[]string{"type"},
	)

	transactionAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "celora_transaction_amount",
			Help:    "Transaction amounts in major currency units",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"type"},
	)

	riskActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celora_risk_actions_total",
			Help: "Risk gate decisions by action",
		},
		[]string{"action"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celora_ledger_errors_total",
			Help: "Ledger operation errors by type",
		},
		[]string{"operation", "error_type"},
	)

	reconciliationDelta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "celora_reconciliation_delta_abs",
			Help:    "Absolute drift between cached balance and transaction log",
			Buckets: []float64{0, 0.001, 0.01, 0.1, 1, 10, 100},
		},
	)
)

// LedgerCollector implements the ledger metrics surface over Prometheus.
type LedgerCollector struct{}

func NewLedgerCollector() *LedgerCollector {
	return &LedgerCollector{}
}

func (c *LedgerCollector) RecordTransaction(txType string, amount float64) {
	transactionsTotal.WithLabelValues(txType).Inc()
	transactionAmount.WithLabelValues(txType).Observe(amount)
}

func (c *LedgerCollector) RecordRiskAction(action string) {
	riskActionsTotal.WithLabelValues(action).Inc()
}

func (c *LedgerCollector) RecordError(operation, errType string) {
	errorsTotal.WithLabelValues(operation, errType).Inc()
}

func (c *LedgerCollector) RecordReconciliationDelta(delta float64) {
	if delta < 0 {
		delta = -delta
	}
	reconciliationDelta.Observe(delta)
}
