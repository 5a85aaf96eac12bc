package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	GatesCreated          prometheus.Counter
	TransitsOpened        prometheus.Counter
	TransitsClosed        prometheus.Counter
	CapacityRejections    prometheus.Counter
	TariffLookupMisses    prometheus.Counter
	RevenueCents          prometheus.Counter
	RequestLatencySeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		GatesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_gates_created_total",
			Help: "Total number of gates provisioned",
		}),
		TransitsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_transits_opened_total",
			Help: "Total number of transits opened",
		}),
		TransitsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_transits_closed_total",
			Help: "Total number of transits closed",
		}),
		CapacityRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_capacity_rejections_total",
			Help: "Transit opens rejected because the facility was full",
		}),
		TariffLookupMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_tariff_lookup_misses_total",
			Help: "Transit closes that found no applicable tariff rule",
		}),
		RevenueCents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkgate_revenue_cents_total",
			Help: "Cumulative billed amount across closed transits, in cents",
		}),
		RequestLatencySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "parkgate_request_latency_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
