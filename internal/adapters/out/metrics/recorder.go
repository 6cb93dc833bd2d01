// Package metrics exposes the service's Prometheus metrics on a private
// registry.
package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment"

// Recorder holds every collector of the service. It is a
// ports.StatusChangeNotifier, so committed ledger entries are counted.
type Recorder struct {
	registry *prometheus.Registry

	StatusTransitions    *prometheus.CounterVec
	OrdersByStatus       *prometheus.GaugeVec
	AverageFulfillment   prometheus.Gauge
	OnTimeDeliveryRate   prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	OrderEventsProcessed *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{registry: registry}

	r.StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Committed fulfillment order status changes",
		},
		[]string{"from", "to", "source"},
	)

	r.OrdersByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Fulfillment orders per status at the last stats refresh",
		},
		[]string{"status"},
	)

	r.AverageFulfillment = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "average_fulfillment_days",
		Help:      "Mean days from creation to delivery over delivered orders",
	})

	r.OnTimeDeliveryRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "on_time_delivery_ratio",
		Help:      "Share of delivered orders that arrived by their estimated delivery date",
	})

	r.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	r.OrderEventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_completed_events_total",
			Help:      "Order completed events consumed from Kafka, by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		r.StatusTransitions,
		r.OrdersByStatus,
		r.AverageFulfillment,
		r.OnTimeDeliveryRate,
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
		r.OrderEventsProcessed,
	)

	return r
}

// NotifyStatusChanged counts committed transitions. Entries without an actor
// are labelled as system changes.
func (r *Recorder) NotifyStatusChanged(_ context.Context, changes []*fulfillment.StatusChange) error {
	for _, c := range changes {
		from := "none"
		if prev := c.PreviousStatus(); prev != nil {
			from = prev.String()
		}
		source := "user"
		if c.ChangedBy() == nil {
			source = "system"
		}
		r.StatusTransitions.WithLabelValues(from, c.Status().String(), source).Inc()
	}
	return nil
}

// RecordStats publishes a stats snapshot. Metrics that are unavailable are
// reported as NaN.
func (r *Recorder) RecordStats(stats queries.FulfillmentStats) {
	for status, count := range stats.CountsByStatus {
		r.OrdersByStatus.WithLabelValues(status.String()).Set(float64(count))
	}
	r.AverageFulfillment.Set(valueOrNaN(stats.AverageFulfillmentDays))
	r.OnTimeDeliveryRate.Set(valueOrNaN(stats.OnTimeDeliveryRate))
}

// ObserveHTTPRequest records one served request.
func (r *Recorder) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveOrderEvent records the outcome of one consumed order event.
func (r *Recorder) ObserveOrderEvent(outcome string) {
	r.OrderEventsProcessed.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
