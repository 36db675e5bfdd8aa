// Package metrics tracks Prometheus counters for decoder/encoder
// throughput, in the same nil-receiver-is-a-no-op shape as the other
// example repo's GSS metrics: a *Metrics registered once, whose methods
// tolerate a nil receiver so a caller that wants no metrics can simply
// leave them unset.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks decode/encode counters by wire format and outcome.
//
// All metrics use the "novadec_" prefix. Methods handle a nil receiver
// gracefully, so a nil *Metrics is zero overhead when disabled.
type Metrics struct {
	// FramesDecoded counts successfully decoded frames by format.
	// Labels: format=[BINARY, SHORT_BINARY, ASCII, SHORT_ASCII, ABBREV_ASCII, NMEA]
	FramesDecoded *prometheus.CounterVec

	// UnknownBytes counts bytes rejected by the framer by stage.
	// Labels: stage=[sync, eof]
	UnknownBytes *prometheus.CounterVec

	// DecodeErrors counts surfaced decode errors by kind.
	DecodeErrors *prometheus.CounterVec

	// FramesEncoded counts frames produced by the encoder by format.
	FramesEncoded *prometheus.CounterVec
}

var (
	once     sync.Once
	instance *Metrics
)

// New creates and registers the package's Prometheus metrics against
// registerer (prometheus.DefaultRegisterer if nil). Idempotent: later
// calls return the first instance without re-registering.
func New(registerer prometheus.Registerer) *Metrics {
	once.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		m := &Metrics{
			FramesDecoded: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "novadec_frames_decoded_total",
					Help: "Total frames successfully decoded, by wire format.",
				},
				[]string{"format"},
			),
			UnknownBytes: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "novadec_unknown_bytes_total",
					Help: "Total bytes rejected by the framer, by stage.",
				},
				[]string{"stage"},
			),
			DecodeErrors: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "novadec_decode_errors_total",
					Help: "Total surfaced decode errors, by kind.",
				},
				[]string{"kind"},
			),
			FramesEncoded: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "novadec_frames_encoded_total",
					Help: "Total frames produced by the encoder, by wire format.",
				},
				[]string{"format"},
			),
		}
		registerer.MustRegister(m.FramesDecoded, m.UnknownBytes, m.DecodeErrors, m.FramesEncoded)
		instance = m
	})
	return instance
}

func (m *Metrics) ObserveDecoded(format string) {
	if m == nil {
		return
	}
	m.FramesDecoded.WithLabelValues(format).Inc()
}

func (m *Metrics) ObserveUnknown(stage string, n int) {
	if m == nil {
		return
	}
	m.UnknownBytes.WithLabelValues(stage).Add(float64(n))
}

func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.DecodeErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveEncoded(format string) {
	if m == nil {
		return
	}
	m.FramesEncoded.WithLabelValues(format).Inc()
}
