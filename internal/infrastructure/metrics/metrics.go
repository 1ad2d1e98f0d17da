package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Posting metrics
	PostingsCreated  *prometheus.CounterVec
	PostingsReversed prometheus.Counter
	PostingErrors    *prometheus.CounterVec
	PostingDuration  prometheus.Histogram
	PostingAmount    prometheus.Histogram

	// Float metrics
	FloatAdjustments   *prometheus.CounterVec
	FloatBalance       *prometheus.GaugeVec
	FloatBelowMinimum  *prometheus.GaugeVec
	SettlementsCreated prometheus.Counter
	SettlementAmount   prometheus.Histogram

	// Reconciliation metrics
	ReconciliationRuns    prometheus.Counter
	ReconciliationDrift   *prometheus.GaugeVec
	DriftedAccounts       prometheus.Gauge
	RepairsPosted         prometheus.Counter

	// Outbox metrics
	EventsDispatched *prometheus.CounterVec
	EventsPending    prometheus.Gauge
	DispatchErrors   *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PostingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_postings_created_total",
				Help: "Total GL postings created, by source module",
			},
			[]string{"source_module", "transaction_type"},
		),
		PostingsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agencyledger_postings_reversed_total",
			Help: "Total GL postings reversed",
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_posting_errors_total",
				Help: "Total posting failures by error type",
			},
			[]string{"error_type"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agencyledger_posting_duration_seconds",
			Help:    "Duration of GL posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agencyledger_posting_amount",
			Help:    "Posted transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		FloatAdjustments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_float_adjustments_total",
				Help: "Total float balance adjustments by type",
			},
			[]string{"type"},
		),
		FloatBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agencyledger_float_balance",
				Help: "Current float account balance",
			},
			[]string{"float_account_id", "branch_id", "account_type"},
		),
		FloatBelowMinimum: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agencyledger_float_below_minimum",
				Help: "1 when a float account sits below its minimum threshold",
			},
			[]string{"float_account_id", "branch_id"},
		),
		SettlementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agencyledger_settlements_total",
			Help: "Total settlement transfers",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agencyledger_settlement_amount",
			Help:    "Settlement transfer amounts",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agencyledger_reconciliation_runs_total",
			Help: "Total reconciliation sweeps",
		}),
		ReconciliationDrift: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agencyledger_reconciliation_drift",
				Help: "Float-vs-GL drift per account at last check",
			},
			[]string{"float_account_id", "branch_id"},
		),
		DriftedAccounts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "agencyledger_drifted_accounts",
			Help: "Number of float accounts with nonzero drift at last sweep",
		}),
		RepairsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agencyledger_repairs_posted_total",
			Help: "Total supervised reconciliation repairs posted",
		}),

		EventsDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_events_dispatched_total",
				Help: "Total outbox events dispatched by type",
			},
			[]string{"event_type"},
		),
		EventsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "agencyledger_events_pending",
			Help: "Unpublished outbox events at last poll",
		}),
		DispatchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_dispatch_errors_total",
				Help: "Total outbox dispatch failures by type",
			},
			[]string{"event_type"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
