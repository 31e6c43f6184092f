package transport

import (
	"encoding/base64"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voicebridge/voice-server/internal/audio"
	"github.com/voicebridge/voice-server/internal/config"
	"github.com/voicebridge/voice-server/internal/observability"
	"github.com/voicebridge/voice-server/internal/resilience"
)

// WSAdapter ships outbound audio to the peer over the session's WebSocket.
// It chunks into 10ms slices to match the media transport's expected frame
// size, retries transient send failures, and reports persistent failure
// through a circuit breaker.
type WSAdapter struct {
	conn      *websocket.Conn
	sessionID string
	logger    zerolog.Logger

	breaker  *resilience.CircuitBreaker
	retryCfg *resilience.RetryConfig

	writeMu sync.Mutex

	mu         sync.Mutex
	generation int
}

// NewWSAdapter creates an adapter for one connection.
func NewWSAdapter(conn *websocket.Conn, sessionID string, cfg *config.Config) *WSAdapter {
	return &WSAdapter{
		conn:      conn,
		sessionID: sessionID,
		logger:    observability.WithSession(sessionID),
		breaker: resilience.NewCircuitBreaker(
			"outbound-media",
			cfg.BreakerMaxFailures,
			time.Duration(cfg.BreakerResetTimeoutSec)*time.Second,
		),
		retryCfg: &resilience.RetryConfig{
			MaxAttempts:       cfg.SendRetryMaxAttempts,
			InitialBackoff:    time.Duration(cfg.SendRetryBackoffMs) * time.Millisecond,
			MaxBackoff:        200 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
	}
}

// OnPersistentFailure registers the callback fired when the breaker opens.
func (a *WSAdapter) OnPersistentFailure(fn func()) {
	a.breaker.OnOpen(fn)
}

// SendAudio chunks samples into 10ms slices and writes each as a media
// envelope. A DiscardPending call between chunks aborts the remainder.
func (a *WSAdapter) SendAudio(samples []int16, sampleRate int) error {
	chunkSamples := sampleRate / 100 // 10ms
	if chunkSamples <= 0 || chunkSamples > len(samples) {
		chunkSamples = len(samples)
	}

	a.mu.Lock()
	generation := a.generation
	a.mu.Unlock()

	for offset := 0; offset < len(samples); offset += chunkSamples {
		a.mu.Lock()
		stale := a.generation != generation
		a.mu.Unlock()
		if stale {
			return nil
		}

		end := offset + chunkSamples
		if end > len(samples) {
			end = len(samples)
		}

		data := audio.SamplesToBytes(samples[offset:end])
		msg := &ServerMessage{
			Event:     "media",
			SessionID: a.sessionID,
			Media: &MediaPayload{
				Payload:    base64.StdEncoding.EncodeToString(data),
				SampleRate: sampleRate,
				Channels:   audio.Channels,
			},
		}

		err := a.breaker.Call(func() error {
			return resilience.Retry(func() error {
				a.writeMu.Lock()
				defer a.writeMu.Unlock()
				return a.conn.WriteJSON(msg)
			}, a.retryCfg, resilience.IsRetryableNetworkError)
		})
		if err != nil {
			return err
		}

		observability.RecordAudioBytes("out", int64(len(data)))
	}

	return nil
}

// DiscardPending invalidates chunks not yet committed to the wire. Chunks
// already written may still reach the peer; that tail is the transport's.
func (a *WSAdapter) DiscardPending() {
	a.mu.Lock()
	a.generation++
	a.mu.Unlock()
	a.logger.Debug().Msg("Discarded pending outbound audio")
}

// SendAnswer acknowledges an offer with the allocated session id.
func (a *WSAdapter) SendAnswer() error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.conn.WriteJSON(&ServerMessage{Event: "answer", SessionID: a.sessionID})
}

// SendError reports a protocol error to the peer.
func (a *WSAdapter) SendError(message string) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.conn.WriteJSON(&ServerMessage{Event: "error", SessionID: a.sessionID, Error: message})
}
