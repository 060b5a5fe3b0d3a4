package metrics

import "time"

// EpochResult is the per-epoch record handed to metrics sinks.
type EpochResult struct {
	Vehicles  int
	Requests  int
	Served    int
	Unserved  int
	Strategy  string
	Objective float64
	Duration  time.Duration
}

// MetricsSink records epoch results for observability purposes.
type MetricsSink interface {
	RecordEpoch(EpochResult) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordEpoch implements MetricsSink.
func (NopSink) RecordEpoch(EpochResult) error { return nil }

// Config defines metrics-related settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}
