package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Request metrics
	RequestsSubmitted prometheus.Counter
	RequestsProcessed *prometheus.CounterVec

	// Cash box metrics
	BoxesOpened     *prometheus.CounterVec
	BoxesClosed     *prometheus.CounterVec
	IncomeEntries   *prometheus.CounterVec
	ExpenseEntries  prometheus.Counter
	EntryAmount     *prometheus.HistogramVec
	CloseVariance   prometheus.Histogram
	BoxOperationDur *prometheus.HistogramVec
	BoxErrors       *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Request metrics
		RequestsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_requests_submitted_total",
			Help: "Total number of cash box opening requests submitted",
		}),
		RequestsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_requests_processed_total",
				Help: "Cash box requests leaving pending, by outcome",
			},
			[]string{"status"},
		),

		// Cash box metrics
		BoxesOpened: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_boxes_opened_total",
				Help: "Total number of cash boxes opened",
			},
			[]string{"mode"},
		),
		BoxesClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_boxes_closed_total",
				Help: "Total number of cash boxes closed, by variance severity",
			},
			[]string{"severity"},
		),
		IncomeEntries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_income_entries_total",
				Help: "Total income entries appended, by channel",
			},
			[]string{"channel"},
		),
		ExpenseEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_expense_entries_total",
			Help: "Total expense entries appended",
		}),
		EntryAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashbox_entry_amount",
				Help:    "Entry amounts",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"kind"},
		),
		CloseVariance: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbox_close_variance_abs",
			Help:    "Absolute closing variance",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		}),
		BoxOperationDur: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashbox_operation_duration_seconds",
				Help:    "Duration of cash box operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		BoxErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_errors_total",
				Help: "Total cash box operation errors by type",
			},
			[]string{"operation", "error_type"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashbox_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cashbox_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_totals_cache_total",
				Help: "Closed box totals cache lookups, by result",
			},
			[]string{"result"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_outbox_events_total",
				Help: "Outbox events processed by the publisher",
			},
			[]string{"event_type", "status"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
