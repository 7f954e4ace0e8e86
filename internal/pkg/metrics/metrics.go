package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the dispatch metrics on a private registry
type Collector struct {
	reg *prometheus.Registry

	RequestsCreated  prometheus.Counter
	RidesMatched     prometheus.Counter
	SearchFailures   *prometheus.CounterVec // reason label: no_drivers|timeout|cancelled|storage
	ReserveConflicts prometheus.Counter
	Transitions      *prometheus.CounterVec // status label
	EventsPublished  prometheus.Counter
	EventPublishErrs prometheus.Counter

	SearchDuration prometheus.Histogram
	FareTotals     *prometheus.HistogramVec // vehicle_class label
}

// NewCollector creates a collector with Go runtime metrics registered
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_ride_requests_created_total",
			Help: "Total ride requests created.",
		}),
		RidesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_rides_matched_total",
			Help: "Total ride requests converted into matched rides.",
		}),
		SearchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_search_failures_total",
			Help: "Searches that ended without a ride.",
		}, []string{"reason"}),
		ReserveConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_reserve_conflicts_total",
			Help: "Reservations lost to a concurrent search.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_ride_transitions_total",
			Help: "Committed ride status transitions by target status.",
		}, []string{"status"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_events_published_total",
			Help: "Lifecycle events published.",
		}),
		EventPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_event_publish_errors_total",
			Help: "Lifecycle events that could not be published.",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_search_duration_seconds",
			Help:    "Time spent matching a request to a driver.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		FareTotals: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dispatch_fare_total",
			Help:    "Quoted fare totals at request time.",
			Buckets: prometheus.LinearBuckets(20, 20, 15),
		}, []string{"vehicle_class"}),
	}

	reg.MustRegister(
		c.RequestsCreated, c.RidesMatched, c.SearchFailures, c.ReserveConflicts,
		c.Transitions, c.EventsPublished, c.EventPublishErrs,
		c.SearchDuration, c.FareTotals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry exposes the underlying registry, mostly for tests
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the prometheus text format
func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// ObserveSearch records how long a search took
func (c *Collector) ObserveSearch(start time.Time) {
	if c == nil {
		return
	}
	c.SearchDuration.Observe(time.Since(start).Seconds())
}

// IncSearchFailure counts a failed search
func (c *Collector) IncSearchFailure(reason string) {
	if c == nil {
		return
	}
	c.SearchFailures.WithLabelValues(reason).Inc()
}

// IncTransition counts a committed transition
func (c *Collector) IncTransition(status string) {
	if c == nil {
		return
	}
	c.Transitions.WithLabelValues(status).Inc()
}

// IncRequestCreated counts a new request and its quoted fare
func (c *Collector) IncRequestCreated(vehicleClass string, fareTotal int) {
	if c == nil {
		return
	}
	c.RequestsCreated.Inc()
	c.FareTotals.WithLabelValues(vehicleClass).Observe(float64(fareTotal))
}

// IncMatched counts a converted request
func (c *Collector) IncMatched() {
	if c == nil {
		return
	}
	c.RidesMatched.Inc()
}

// IncReserveConflict counts a lost reservation race
func (c *Collector) IncReserveConflict() {
	if c == nil {
		return
	}
	c.ReserveConflicts.Inc()
}

// IncEventPublished counts a publish attempt by outcome
func (c *Collector) IncEventPublished(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.EventPublishErrs.Inc()
		return
	}
	c.EventsPublished.Inc()
}
