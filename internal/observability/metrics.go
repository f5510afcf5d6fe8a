package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "area_check"

// Metrics holds the Prometheus collectors for the area-check service.
type Metrics struct {
	// Session metrics.
	Actions            *prometheus.CounterVec // labels: action={search,locate,draw}, state={drawn,rejected,failed,stale}
	RegionVerdicts     *prometheus.CounterVec // labels: source={search,locate}, verdict={in_england,not_in_england,unknown}
	IntersectionChecks *prometheus.CounterVec // labels: result={intersect,disjoint}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeEnabled     prometheus.Gauge

	// Outcome publishing metrics.
	OutcomesPublished prometheus.Counter
	PublishErrors     prometheus.Counter

	HTTPRequests *prometheus.CounterVec // labels: method, status
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Session actions by action and final state.",
		}, []string{"action", "state"}),
		RegionVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_verdicts_total",
			Help:      "England classification verdicts by lookup source.",
		}, []string{"source", "verdict"}),
		IntersectionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intersection_checks_total",
			Help:      "Bounding box / polygon intersection checks by result.",
		}, []string{"result"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when a geocoding provider is configured, 0 otherwise.",
		}),
		OutcomesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_published_total",
			Help:      "Outcome events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Outcome events that failed to publish.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}

	prometheus.MustRegister(
		m.Actions,
		m.RegionVerdicts,
		m.IntersectionChecks,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.OutcomesPublished,
		m.PublishErrors,
		m.HTTPRequests,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Actions:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "actions_total"}, []string{"action", "state"}),
		RegionVerdicts:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "region_verdicts_total"}, []string{"source", "verdict"}),
		IntersectionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "intersection_checks_total"}, []string{"result"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"method", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}, []string{"method"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
		OutcomesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "outcomes_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		HTTPRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "status"}),
	}
}
