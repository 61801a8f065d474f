// Package metrics defines the Prometheus collectors exported by the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bryanwahyu/sandai/src/domain/combat"
)

// Metrics groups HTTP and battle collectors registered on one registry.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	Requests       *prometheus.CounterVec
	Battles        *prometheus.CounterVec
	BattleTurns    prometheus.Histogram
	BattleDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sandai",
			Subsystem: "http",
			Name:      "request_latency_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sandai",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route",
		}, []string{"route", "method", "code"}),
		Battles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sandai",
			Subsystem: "battle",
			Name:      "resolved_total",
			Help:      "Resolved battles by outcome",
		}, []string{"outcome"}),
		BattleTurns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sandai",
			Subsystem: "battle",
			Name:      "turns",
			Help:      "Rounds played per resolved battle",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
		}),
		BattleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sandai",
			Subsystem: "battle",
			Name:      "simulation_seconds",
			Help:      "Wall time spent simulating one battle",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	reg.MustRegister(m.RequestLatency, m.Requests, m.Battles, m.BattleTurns, m.BattleDuration)
	return m
}

// ObserveBattle records one resolved simulation.
func (m *Metrics) ObserveBattle(outcome combat.Outcome, totalTurns int, elapsed time.Duration) {
	m.Battles.WithLabelValues(string(outcome)).Inc()
	m.BattleTurns.Observe(float64(totalTurns))
	m.BattleDuration.Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, code string, elapsed time.Duration) {
	labels := prometheus.Labels{"route": route, "method": method, "code": code}
	m.RequestLatency.With(labels).Observe(elapsed.Seconds())
	m.Requests.With(labels).Inc()
}
