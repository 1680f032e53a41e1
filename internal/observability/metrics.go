package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
)

var (
	registerOnce sync.Once

	decodeFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdl90",
			Subsystem: "decode",
			Name:      "frames_total",
			Help:      "Frames handled by the decoder by message and outcome.",
		},
		[]string{"message", "outcome"},
	)
	decodeBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gdl90",
			Subsystem: "decode",
			Name:      "frame_bytes_total",
			Help:      "Wire bytes of frames handled by the decoder.",
		},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gdl90",
			Subsystem: "decode",
			Name:      "frame_duration_seconds",
			Help:      "Frame decode duration in seconds.",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3},
		},
		[]string{"message"},
	)
	encodeFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdl90",
			Subsystem: "encode",
			Name:      "frames_total",
			Help:      "Frames produced by the encoder by message and outcome.",
		},
		[]string{"message", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeFrames, decodeBytes, decodeDuration, encodeFrames)
	})
}

// RecordDecode counts one frame. message is empty when the frame never got
// as far as an id lookup.
func RecordDecode(message, outcome string, size int, duration time.Duration) {
	RegisterMetrics()
	if message == "" {
		message = "none"
	}
	decodeFrames.WithLabelValues(message, outcome).Inc()
	decodeBytes.Add(float64(size))
	decodeDuration.WithLabelValues(message).Observe(duration.Seconds())
}

func RecordEncode(message, outcome string) {
	RegisterMetrics()
	encodeFrames.WithLabelValues(message, outcome).Inc()
}

// WriteTextfile exports the default registry in the node_exporter textfile
// format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
