package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/fleetsim/ridepool/core/metrics"
)

func sampleResult() coremetrics.EpochResult {
	return coremetrics.EpochResult{
		Vehicles:  3,
		Requests:  5,
		Served:    4,
		Unserved:  1,
		Strategy:  "exact",
		Objective: 60,
		Duration:  200 * time.Millisecond,
	}
}

func TestPromSinkRecordsEpoch(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordEpoch(sampleResult()))

	served := testutil.ToFloat64(sink.(*PromSink).requests.WithLabelValues("served", "exact"))
	assert.Equal(t, 4.0, served)
	unserved := testutil.ToFloat64(sink.(*PromSink).requests.WithLabelValues("unserved", "exact"))
	assert.Equal(t, 1.0, unserved)
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.(*PromSink).fleet))
	assert.Equal(t, 60.0, testutil.ToFloat64(sink.(*PromSink).obj))
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	assert.NoError(t, err, "re-registration must be tolerated")
}

type failingSink struct{}

func (failingSink) RecordEpoch(coremetrics.EpochResult) error {
	return errors.New("sink down")
}

func TestMultiSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	multi := NewMultiSink(coremetrics.NopSink{}, prom)
	assert.NoError(t, multi.RecordEpoch(sampleResult()))

	withFailure := NewMultiSink(prom, failingSink{})
	err = withFailure.RecordEpoch(sampleResult())
	assert.Error(t, err)
	// The healthy sink still received the record.
	served := testutil.ToFloat64(prom.(*PromSink).requests.WithLabelValues("served", "exact"))
	assert.Equal(t, 8.0, served)
}
