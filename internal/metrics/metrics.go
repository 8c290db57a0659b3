// Package metrics exposes Prometheus counters for the outbound API client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements apiclient.Recorder.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      prometheus.Histogram
	unauthorized prometheus.Counter
}

// NewCollector registers the API client metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tumaini_api_requests_total",
			Help: "Backend API requests by method and status code (0 = transport failure).",
		}, []string{"method", "status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tumaini_api_request_duration_seconds",
			Help:    "Backend API request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tumaini_api_unauthorized_total",
			Help: "401 responses that purged the stored credential.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.unauthorized)
	return c
}

func (c *Collector) RecordRequest(method string, statusCode int, d time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.latency.Observe(d.Seconds())
}

func (c *Collector) RecordUnauthorized() {
	c.unauthorized.Inc()
}

// Handler serves the scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
