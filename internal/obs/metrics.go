package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NonceRequests counts nonce issuance attempts by outcome. The outcome label
// is "ok" for success or the failure kind otherwise.
var NonceRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "designer_gateway",
	Name:      "nonce_requests_total",
	Help:      "Total nonce issuance attempts by outcome.",
}, []string{"outcome"})

// ProviderLatency tracks round-trip latency of outbound provider calls.
var ProviderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "designer_gateway",
	Name:      "provider_request_duration_seconds",
	Help:      "Latency of outbound fulfillment provider calls.",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"endpoint"})

// DesignEvents counts widget callback events accepted for processing.
var DesignEvents = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "designer_gateway",
	Name:      "design_events_total",
	Help:      "Total widget design events accepted.",
})

func init() {
	prometheus.MustRegister(NonceRequests, ProviderLatency, DesignEvents)
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
