package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/internal/metrics"
)

func TestNewIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := metrics.New(reg)
	b := metrics.New(reg)
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestObserveMethodsIncrementCounters(t *testing.T) {
	m := metrics.New(nil)

	before := testutil.ToFloat64(m.FramesDecoded.WithLabelValues("binary"))
	m.ObserveDecoded("binary")
	assert.Equal(t, before+1, testutil.ToFloat64(m.FramesDecoded.WithLabelValues("binary")))

	beforeErr := testutil.ToFloat64(m.DecodeErrors.WithLabelValues("crc"))
	m.ObserveError("crc")
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("crc")))

	beforeEnc := testutil.ToFloat64(m.FramesEncoded.WithLabelValues("ascii"))
	m.ObserveEncoded("ascii")
	assert.Equal(t, beforeEnc+1, testutil.ToFloat64(m.FramesEncoded.WithLabelValues("ascii")))

	beforeUnk := testutil.ToFloat64(m.UnknownBytes.WithLabelValues("sync"))
	m.ObserveUnknown("sync", 7)
	assert.Equal(t, beforeUnk+7, testutil.ToFloat64(m.UnknownBytes.WithLabelValues("sync")))
}

func TestNilReceiverMethodsAreNoOps(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecoded("binary")
		m.ObserveError("crc")
		m.ObserveEncoded("ascii")
		m.ObserveUnknown("sync", 1)
	})
}
