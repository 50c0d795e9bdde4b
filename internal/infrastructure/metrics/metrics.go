package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger entry metrics
	EntriesCreated  *prometheus.CounterVec
	EntriesUpdated  prometheus.Counter
	EntriesDeleted  prometheus.Counter
	EntriesReversed prometheus.Counter
	EntryDuration   *prometheus.HistogramVec
	EntryErrors     *prometheus.CounterVec
	EntryMoney      *prometheus.CounterVec

	// Material metrics
	MaterialsCreated prometheus.Counter
	MaterialStock    *prometheus.GaugeVec
	StockViolations  *prometheus.CounterVec

	// Register metrics
	CustomersCreated *prometheus.CounterVec
	CustomerVisits   *prometheus.CounterVec
	ExtraChargeMoney *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EntriesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_entries_created_total",
				Help: "Total number of ledger entries created",
			},
			[]string{"action", "price_type"},
		),
		EntriesUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "washledger_entries_updated_total",
			Help: "Total number of ledger entries edited",
		}),
		EntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "washledger_entries_deleted_total",
			Help: "Total number of ledger entries soft-deleted",
		}),
		EntriesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "washledger_entries_reversed_total",
			Help: "Total number of ledger entries reversed",
		}),
		EntryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "washledger_entry_duration_seconds",
				Help:    "Duration of ledger entry pipeline runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		EntryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_entry_errors_total",
				Help: "Total number of failed pipeline runs by error kind",
			},
			[]string{"operation", "kind"},
		),
		EntryMoney: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_entry_money_total",
				Help: "Money recorded by newly created entries",
			},
			[]string{"action"},
		),

		MaterialsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "washledger_materials_created_total",
			Help: "Total number of materials created",
		}),
		MaterialStock: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "washledger_material_stock",
				Help: "Stock quantity of a material after its last write",
			},
			[]string{"material_id"},
		),
		StockViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_stock_violations_total",
				Help: "Rejected adjustments that would have made stock negative",
			},
			[]string{"operation"},
		),

		CustomersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_customers_created_total",
				Help: "Total number of customers registered",
			},
			[]string{"level"},
		),
		CustomerVisits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_customer_visits_total",
				Help: "Washes served to registered customers by membership status after the visit",
			},
			[]string{"status"},
		),
		ExtraChargeMoney: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_extra_charge_money_total",
				Help: "Money recorded by newly created extra charges",
			},
			[]string{"event_type"},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_cache_lookups_total",
				Help: "Material cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "washledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "washledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
