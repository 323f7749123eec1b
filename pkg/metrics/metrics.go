package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "cdf"

	metricLabelDocument = "document"
	metricLabelMode     = "mode"
	metricLabelRoute    = "route"
	metricLabelResult   = "result"
)

var (
	// ExportsCompletedCounter count the number of documents written
	ExportsCompletedCounter = newCounterVec(
		"exports_completed_count",
		"Number of exports that were successfully completed",
		metricLabelDocument, metricLabelMode,
	)
	// ExportsFailedCounter count the number of exports that had an error
	ExportsFailedCounter = newCounterVec(
		"exports_failed_count",
		"Number of exports that failed due to an error",
		metricLabelDocument,
	)
	// ExportDuration observe the duration of each export
	ExportDuration = newSummaryVec(
		"export_duration_seconds",
		"Duration in seconds to load, validate and write a document",
		metricLabelDocument, metricLabelMode,
	)
	// ExportedNodesGauge number of nodes in the last written document
	ExportedNodesGauge = newGaugeVec(
		"exported_nodes",
		"Number of nodes in the last successfully written document",
		metricLabelDocument,
	)
	// HistoryPersistFailedCounter count the number of failed attempts to store a document
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store a document in the history",
		metricLabelDocument,
	)
	// SourceUnchangedCounter count the polls that found an unchanged source
	SourceUnchangedCounter = newCounterVec(
		"source_unchanged_count",
		"Number of polls that skipped the export because the source did not change",
		metricLabelDocument,
	)
	// ServiceRequestCounter count the number of requests for each route
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Number of requests for each route",
		metricLabelRoute, metricLabelResult,
	)
	// ServiceRequestDuration observe the duration of requests for each route
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Duration in seconds of requests for each route",
		metricLabelRoute, metricLabelResult,
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
