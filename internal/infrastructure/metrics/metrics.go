package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Intake metrics
	AmountsReceived *prometheus.CounterVec
	AmountsRejected *prometheus.CounterVec
	IntakeDuration  prometheus.Histogram

	// Matching metrics
	MatchRuns        prometheus.Counter
	MatchDuration    prometheus.Histogram
	BillsSettled     prometheus.Counter
	AmountsExhausted prometheus.Counter

	// Assignment metrics
	AssignmentsCreated  *prometheus.CounterVec
	AssignmentsReversed prometheus.Counter
	AssignmentErrors    *prometheus.CounterVec

	// Reversal metrics
	ReversalsLinked    prometheus.Counter
	ReversalsAmbiguous prometheus.Counter

	// Queue metrics
	QueueSweeps    prometheus.Counter
	QueueProcessed prometheus.Counter
	QueuePending   prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Intake metrics
		AmountsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_amounts_received_total",
				Help: "Total number of incoming amounts received",
			},
			[]string{"currency", "deb_cred"},
		),
		AmountsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_amounts_rejected_total",
				Help: "Total number of incoming amounts rejected at intake",
			},
			[]string{"reason"},
		),
		IntakeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_intake_duration_seconds",
			Help:    "Duration of amount intake operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Matching metrics
		MatchRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_match_runs_total",
			Help: "Total number of automatic matching runs",
		}),
		MatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_match_duration_seconds",
			Help:    "Duration of matching runs",
			Buckets: prometheus.DefBuckets,
		}),
		BillsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_bills_settled_total",
			Help: "Total number of bills settled by matching",
		}),
		AmountsExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_amounts_exhausted_total",
			Help: "Total number of amounts that became fully assigned",
		}),

		// Assignment metrics
		AssignmentsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_assignments_created_total",
				Help: "Total number of assignments created by target type",
			},
			[]string{"target"},
		),
		AssignmentsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_assignments_reversed_total",
			Help: "Total number of assignments reversed",
		}),
		AssignmentErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_assignment_errors_total",
				Help: "Total number of assignment errors by type",
			},
			[]string{"error_type"},
		),

		// Reversal metrics
		ReversalsLinked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_reversals_linked_total",
			Help: "Total number of debit reversals linked to credits",
		}),
		ReversalsAmbiguous: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_reversals_ambiguous_total",
			Help: "Total number of reversal lookups left for manual review",
		}),

		// Queue metrics
		QueueSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_queue_sweeps_total",
			Help: "Total number of queue sweep runs",
		}),
		QueueProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_queue_processed_total",
			Help: "Total number of queue entries processed",
		}),
		QueuePending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "debtledger_queue_pending",
			Help: "Current number of pending queue entries",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "debtledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "debtledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "debtledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "debtledger_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
