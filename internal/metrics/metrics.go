package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Alerting metrics
	RulesEvaluatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biogas_rules_evaluated_total",
			Help: "Total number of rule evaluations against KPI snapshots",
		},
	)

	AlertsTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biogas_alerts_triggered_total",
			Help: "Total number of custom alerts triggered",
		},
		[]string{"severity"},
	)

	RulesConfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "biogas_rules_configured",
			Help: "Number of custom alert rules currently configured",
		},
	)

	PersistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biogas_persistence_failures_total",
			Help: "Total number of failed reads or writes of the alert state",
		},
		[]string{"op"}, // op: load, save, encode, decode
	)

	// Data source metrics
	SystemAlarmFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biogas_system_alarm_fetch_failures_total",
			Help: "Total number of failed system alarm fetches",
		},
	)

	KpiRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "biogas_kpi_refresh_duration_seconds",
			Help:    "Time taken to fetch a KPI snapshot and evaluate rules",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	KpiRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biogas_kpi_refresh_total",
			Help: "Total number of KPI refresh cycles",
		},
		[]string{"status"}, // status: success, failed
	)

	IngestedReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biogas_ingested_readings_total",
			Help: "Total number of KPI readings received over MQTT",
		},
		[]string{"status"}, // status: stored, rejected
	)
)
