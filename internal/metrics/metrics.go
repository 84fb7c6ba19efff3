package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcomes.
const (
	ScanMatch    = "match"
	ScanMismatch = "mismatch"
	ScanNotFound = "not_found"
)

// Both collectors register on the default registry, which is what the
// fiberprometheus /metrics handler serves.
var (
	ScanChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chemtrack",
		Name:      "scan_checks_total",
		Help:      "Barcode location checks by outcome.",
	}, []string{"outcome"})

	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chemtrack",
		Name:      "inventory_mutations_total",
		Help:      "Successful inventory writes by entity and action.",
	}, []string{"entity", "action"})
)

// RecordScan counts one location check.
func RecordScan(outcome string) {
	ScanChecks.WithLabelValues(outcome).Inc()
}

// RecordMutation counts one committed write.
func RecordMutation(entity, action string) {
	Mutations.WithLabelValues(entity, action).Inc()
}
