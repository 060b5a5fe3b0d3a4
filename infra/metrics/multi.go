package metrics

import (
	"errors"

	coremetrics "github.com/fleetsim/ridepool/core/metrics"
)

// MultiSink fans records out to several sinks, joining their errors.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink returns a sink writing to all given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordEpoch implements coremetrics.MetricsSink.
func (m *MultiSink) RecordEpoch(r coremetrics.EpochResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordEpoch(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
