package metrics

import (
	coremetrics "github.com/fleetsim/ridepool/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records epoch results in Prometheus metrics.
type PromSink struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	fleet    prometheus.Gauge
	obj      prometheus.Gauge
}

// NewPromSink registers epoch metrics on the default Prometheus registerer.
// The exposition server is started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epoch_requests_total",
		Help: "Requests processed per epoch by outcome",
	}, []string{"outcome", "strategy"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epoch_duration_seconds",
		Help:    "End-to-end duration of a decision epoch",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "epoch_fleet_vehicles",
		Help: "Number of vehicles in the last epoch",
	})
	obj := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "epoch_objective_value",
		Help: "Objective value of the last epoch assignment",
	})

	for _, c := range []prometheus.Collector{requests, duration, fleet, obj} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{requests: requests, duration: duration, fleet: fleet, obj: obj}, nil
}

// RecordEpoch implements coremetrics.MetricsSink.
func (s *PromSink) RecordEpoch(r coremetrics.EpochResult) error {
	s.requests.WithLabelValues("served", r.Strategy).Add(float64(r.Served))
	s.requests.WithLabelValues("unserved", r.Strategy).Add(float64(r.Unserved))
	s.duration.WithLabelValues(r.Strategy).Observe(r.Duration.Seconds())
	s.fleet.Set(float64(r.Vehicles))
	s.obj.Set(r.Objective)
	return nil
}
