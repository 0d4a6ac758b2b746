// Package metrics exposes Prometheus counters and histograms for calculations and HTTP traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/netpay/internal/domain"
)

const (
	ReasonInvalidInput    = "invalid_input"
	ReasonUnsupportedYear = "unsupported_year"
	ReasonCanceled        = "canceled"
	ReasonUnknown         = "unknown"
)

// Metrics holds the netpay collectors and the registry they are registered on.
type Metrics struct {
	registry        *prometheus.Registry
	calculations    *prometheus.CounterVec
	calcErrors      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	adviceCacheHits prometheus.Counter
	adviceCacheMiss prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

func newMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netpay_calculations_total",
			Help: "Deduction calculations by tax year.",
		}, []string{"year"}),
		calcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netpay_calculation_errors_total",
			Help: "Rejected calculations by low-cardinality reason.",
		}, []string{"reason"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netpay_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
		adviceCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netpay_advice_cache_hits_total",
			Help: "Advice requests served from the cache.",
		}),
		adviceCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netpay_advice_cache_misses_total",
			Help: "Advice requests that reached the generator.",
		}),
	}
	registry.MustRegister(m.calculations, m.calcErrors, m.requestDuration, m.adviceCacheHits, m.adviceCacheMiss)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation counts one successful calculation for year.
func (m *Metrics) ObserveCalculation(year domain.TaxYear) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(strconv.Itoa(int(year))).Inc()
}

// ObserveError counts a rejected calculation, classified by ClassifyError.
func (m *Metrics) ObserveError(err error) {
	if m == nil || err == nil {
		return
	}
	m.calcErrors.WithLabelValues(ClassifyError(err)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveAdviceCache counts an advice cache lookup.
func (m *Metrics) ObserveAdviceCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.adviceCacheHits.Inc()
		return
	}
	m.adviceCacheMiss.Inc()
}

// ClassifyError maps an error to a metric reason label.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnsupportedYear):
		return ReasonUnsupportedYear
	case errors.Is(err, domain.ErrInvalidInput):
		return ReasonInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonUnknown
	}
}
