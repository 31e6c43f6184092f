package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_server_active_sessions",
		Help: "Number of active voice sessions",
	})

	totalSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_server_sessions_total",
		Help: "Total number of voice sessions created",
	})

	// STT metrics
	sttLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_server_stt_latency_seconds",
		Help:    "Latency from utterance start to final transcript",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// TTS metrics
	ttsFirstChunkLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_server_tts_first_chunk_seconds",
		Help:    "Latency from reply formulation to the first synthesized frame",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	// Barge-in metrics
	bargeInLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_server_barge_in_latency_seconds",
		Help:    "Latency of the barge-in interruption sequence",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.3, 1.0},
	})

	bargeInsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_server_barge_ins_total",
		Help: "Total number of barge-in interruptions",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_server_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Audio metrics
	audioBytesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_server_audio_bytes_total",
		Help: "Total audio bytes processed",
	}, []string{"direction"}) // direction: "in" or "out"
)

// SessionStarted records a new active session.
func SessionStarted() {
	activeSessions.Inc()
	totalSessions.Inc()
}

// SessionEnded records a session close.
func SessionEnded() {
	activeSessions.Dec()
}

// ObserveSTTLatency records recognition latency in seconds.
func ObserveSTTLatency(seconds float64) {
	sttLatency.Observe(seconds)
}

// ObserveTTSFirstChunk records time-to-first-audio in seconds.
func ObserveTTSFirstChunk(seconds float64) {
	ttsFirstChunkLatency.Observe(seconds)
}

// ObserveBargeInLatency records one barge-in sequence duration in seconds.
func ObserveBargeInLatency(seconds float64) {
	bargeInsTotal.Inc()
	bargeInLatency.Observe(seconds)
}

// RecordError records an error by type and component.
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordAudioBytes records audio bytes moved in a direction ("in"/"out").
func RecordAudioBytes(direction string, bytes int64) {
	audioBytesProcessed.WithLabelValues(direction).Add(float64(bytes))
}
