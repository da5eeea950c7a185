package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated prometheus.Counter
	EntriesSaved   prometheus.Counter
	EntriesDeleted prometheus.Counter
	SaveRejections *prometheus.CounterVec
	SaveDuration   prometheus.Histogram
	LinesAdded     prometheus.Counter
	LinesRemoved   prometheus.Counter

	// Form metrics
	TotalsComputed *prometheus.CounterVec

	// Allocation metrics
	AllocationsReplaced *prometheus.CounterVec
	GridRenders         *prometheus.CounterVec

	// Balance metrics
	BalanceRecalculations prometheus.Counter
	BalanceRows           *prometheus.CounterVec
	RecalcDuration        prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Entry metrics
		EntriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_entries_created_total",
			Help: "Total number of journal entries created",
		}),
		EntriesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_entries_saved_total",
			Help: "Total number of journal entries saved as balanced",
		}),
		EntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_entries_deleted_total",
			Help: "Total number of journal entries deleted",
		}),
		SaveRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_save_rejections_total",
				Help: "Saves rejected by validation, by reason",
			},
			[]string{"reason"},
		),
		SaveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerform_save_duration_seconds",
			Help:    "Duration of entry save operations",
			Buckets: prometheus.DefBuckets,
		}),
		LinesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_lines_added_total",
			Help: "Total number of entry lines added",
		}),
		LinesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_lines_removed_total",
			Help: "Total number of entry lines removed",
		}),

		// Form metrics
		TotalsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_totals_computed_total",
				Help: "Form totals computed while rendering, by balance state",
			},
			[]string{"balanced"},
		),

		// Allocation metrics
		AllocationsReplaced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_allocations_replaced_total",
				Help: "Allocation sets replaced, by kind",
			},
			[]string{"kind"},
		),
		GridRenders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_grid_renders_total",
				Help: "Allocation grid fragments served, by kind and cache result",
			},
			[]string{"kind", "cache"},
		),

		// Balance metrics
		BalanceRecalculations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerform_balance_recalculations_total",
			Help: "Total number of period balance recalculations",
		}),
		BalanceRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_balance_rows_written_total",
				Help: "Period balance rows written, by kind",
			},
			[]string{"kind"},
		),
		RecalcDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerform_recalc_duration_seconds",
			Help:    "Duration of period balance recalculations",
			Buckets: prometheus.DefBuckets,
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerform_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerform_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
