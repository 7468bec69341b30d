package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the word-of-day HTTP handlers
	SelectionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "word_selection_latency_seconds",
		Help:    "Latency of word selection handlers",
		Buckets: prometheus.DefBuckets,
	})

	// Fresh global daily-word assignments
	GlobalSelections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "word_global_selections_total",
		Help: "Total number of freshly assigned global daily words",
	})

	// Fresh personalized assignments
	UserSelections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "word_user_selections_total",
		Help: "Total number of freshly assigned personalized words",
	})

	// Personalized selections that fell back to another band
	FallbackSelections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "word_fallback_selections_total",
		Help: "Total number of personalized selections that used a fallback band",
	})

	// Cycle rollovers, global and per-user combined
	CycleAdvances = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "word_cycle_advances_total",
		Help: "Total number of selection cycle rollovers",
	})

	// Fresh scheduled deliveries handed to the push collaborator
	ScheduledDeliveries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "word_scheduled_deliveries_total",
		Help: "Total number of scheduled word deliveries dispatched",
	})
)

func Init() {
	prometheus.MustRegister(
		SelectionLatency,
		GlobalSelections,
		UserSelections,
		FallbackSelections,
		CycleAdvances,
		ScheduledDeliveries,
	)
}
