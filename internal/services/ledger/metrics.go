package ledger

// MetricsCollector defines the metrics the ledger engine emits.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordRiskAction(action string)
	RecordError(operation, errType string)
	RecordReconciliationDelta(delta float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64)  {}
func (n *NoopMetricsCollector) RecordRiskAction(string)            {}
func (n *NoopMetricsCollector) RecordError(string, string)         {}
func (n *NoopMetricsCollector) RecordReconciliationDelta(float64)  {}
