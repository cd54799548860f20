package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Replay metrics
	RecordsProcessed *prometheus.CounterVec
	RecordsRejected  *prometheus.CounterVec
	RowsMalformed    prometheus.Counter
	ReplayDuration   prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsLocked  prometheus.Counter

	// Dispute metrics
	DisputesOpened      prometheus.Counter
	DisputesResolved    prometheus.Counter
	DisputesChargedBack prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Replay metrics
		RecordsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txreplay_records_processed_total",
				Help: "Total number of records processed by kind",
			},
			[]string{"kind"},
		),
		RecordsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txreplay_records_rejected_total",
				Help: "Total number of records rejected by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		RowsMalformed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_rows_malformed_total",
			Help: "Total number of input rows skipped as malformed",
		}),
		ReplayDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "txreplay_replay_duration_seconds",
			Help:    "Duration of full replay runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_accounts_locked_total",
			Help: "Total number of accounts locked by chargebacks",
		}),

		// Dispute metrics
		DisputesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_disputes_opened_total",
			Help: "Total number of disputes opened",
		}),
		DisputesResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_disputes_resolved_total",
			Help: "Total number of disputes resolved",
		}),
		DisputesChargedBack: promauto.NewCounter(prometheus.CounterOpts{
			Name: "txreplay_disputes_charged_back_total",
			Help: "Total number of disputes charged back",
		}),
	}
}
