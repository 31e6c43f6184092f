package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicebridge/voice-server/internal/audio"
	"github.com/voicebridge/voice-server/internal/config"
	"github.com/voicebridge/voice-server/internal/observability"
	"github.com/voicebridge/voice-server/internal/stt"
	"github.com/voicebridge/voice-server/internal/tts"
)

// bargeInBudgetMs is the end-to-end latency budget for interrupting the bot.
const bargeInBudgetMs = 300

// Sink accepts outbound synthesized audio on its way to the peer.
type Sink interface {
	// SendAudio ships samples to the transport. Errors are transient; a
	// persistently failing sink surfaces that out-of-band (see transport).
	SendAudio(samples []int16, sampleRate int) error

	// DiscardPending drops any outbound audio the sink has buffered but
	// not yet committed to the wire.
	DiscardPending()
}

// Controller routes frames and events for one session, enforces the state
// machine, and owns the synthesis cancellation token. Each session owns its
// controller exclusively; no two sessions share mutable state.
type Controller struct {
	id     string
	logger zerolog.Logger

	machine     *Machine
	normalizer  *audio.Normalizer
	recognizer  stt.Recognizer
	synthesizer tts.Synthesizer
	responder   *Responder
	recorder    *Recorder
	sink        Sink

	voiceThreshold float64

	mu               sync.Mutex
	cancel           *CancelToken
	audioEnabled     bool
	started          bool
	closed           bool
	utteranceStarted time.Time
}

// NewController assembles a session pipeline around a transport sink.
func NewController(id string, sink Sink, cfg *config.Config) *Controller {
	logger := observability.GetLogger().With().Str("session_id", id).Logger()

	vadConfig := &audio.VADConfig{
		VoiceThreshold:   cfg.VADVoiceThreshold,
		VoiceStartFrames: cfg.VADVoiceStartFrames,
		PartialInterval:  cfg.VADPartialInterval,
		SilenceEndFrames: cfg.VADSilenceEndFrames,
	}
	synthConfig := &tts.SynthesizerConfig{
		Pacing:    time.Duration(cfg.TTSPacingMs) * time.Millisecond,
		Amplitude: 9000,
	}

	return &Controller{
		id:             id,
		logger:         logger,
		machine:        NewMachine(logger),
		normalizer:     audio.NewNormalizer(),
		recognizer:     stt.NewStubRecognizer(vadConfig),
		synthesizer:    tts.NewSineSynthesizer(synthConfig),
		responder:      NewResponder(),
		recorder:       NewRecorder(id),
		sink:           sink,
		voiceThreshold: cfg.VADVoiceThreshold,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.machine.State()
}

// Recorder exposes the per-session metrics recorder.
func (c *Controller) Recorder() *Recorder {
	return c.recorder
}

// Start moves the session from idle to listening and enables audio
// processing.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.machine.Transition(StateListening) {
		return
	}
	c.audioEnabled = true
	c.started = true
	c.recorder.Record(EventSessionStart)
	observability.SessionStarted()
	c.logger.Info().Msg("Session started")
}

// RecordConnected notes how long media negotiation took.
func (c *Controller) RecordConnected(connectionTimeMs int64) {
	c.recorder.RecordLatency(EventConnected, connectionTimeMs)
}

// PushAudio normalizes an inbound PCM block and processes the resulting
// frames in arrival order. Called only from the transport reader.
func (c *Controller) PushAudio(data []byte, sampleRate, channels int) {
	for _, frame := range c.normalizer.Push(data, sampleRate, channels) {
		c.OnInboundFrame(frame)
	}
}

// OnInboundFrame handles one normalized frame according to the current
// state: barge-in energy inspection while speaking, recognition while
// listening, dropped otherwise.
func (c *Controller) OnInboundFrame(frame audio.Frame) {
	c.mu.Lock()

	if !c.audioEnabled {
		c.mu.Unlock()
		return
	}

	switch c.machine.State() {
	case StateSpeaking:
		if audio.RMS(frame.Samples()) > c.voiceThreshold {
			c.bargeInLocked()
		}
		c.mu.Unlock()

	case StateListening:
		event := c.recognizer.ProcessFrame(frame)
		if event == nil {
			c.mu.Unlock()
			return
		}

		if !event.IsFinal {
			if c.utteranceStarted.IsZero() {
				c.utteranceStarted = time.Now()
			}
			c.recorder.RecordText(EventSTTPartial, event.Text)
			c.mu.Unlock()
			return
		}

		latencyMs := int64(0)
		if !c.utteranceStarted.IsZero() {
			latencyMs = time.Since(c.utteranceStarted).Milliseconds()
			c.utteranceStarted = time.Time{}
		}
		c.recorder.RecordFinal(event.Text, latencyMs)
		observability.ObserveSTTLatency(float64(latencyMs) / 1000)

		if !c.machine.Transition(StateProcessing) {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		go c.respond(event.Text)

	default:
		c.mu.Unlock()
	}
}

// respond generates the reply and drains the synthesis stream to the sink.
func (c *Controller) respond(transcript string) {
	reply := c.responder.Reply(transcript)
	c.recorder.RecordText(EventTTSStart, reply)
	ttsStarted := time.Now()

	c.mu.Lock()
	if c.closed || !c.machine.Transition(StateSpeaking) {
		c.mu.Unlock()
		return
	}
	token := NewCancelToken()
	c.cancel = token
	c.mu.Unlock()

	c.logger.Debug().Str("reply", reply).Msg("Synthesis started")

	firstChunk := true
	for frame := range c.synthesizer.Synthesize(reply, token) {
		if token.Tripped() {
			break
		}

		if firstChunk {
			latencyMs := time.Since(ttsStarted).Milliseconds()
			c.recorder.RecordLatency(EventTTSFirstChunk, latencyMs)
			observability.ObserveTTSFirstChunk(float64(latencyMs) / 1000)
			firstChunk = false
		}

		if err := c.sink.SendAudio(frame.Samples(), audio.SampleRate); err != nil {
			// Transient send failures drop the frame; a persistently
			// failing transport tears the session down via OnTransportFailure.
			c.logger.Error().Err(err).Msg("Failed to send synthesized audio")
			observability.RecordError("transport_send", "session")
		}
	}

	if token.Tripped() {
		// Barge-in or close already handled the state and token.
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.recorder.Record(EventTTSComplete)
	c.machine.Transition(StateListening)
	c.synthesizer.Reset()
	c.cancel = nil
}

// bargeInLocked runs the interruption sequence. Caller holds c.mu and the
// machine is in the speaking state.
func (c *Controller) bargeInLocked() {
	started := time.Now()

	c.machine.Transition(StateInterrupted)
	if c.cancel != nil {
		c.cancel.Trip()
	}
	c.sink.DiscardPending()
	c.synthesizer.Reset()
	c.machine.Transition(StateListening)
	c.recognizer.Reset()
	c.cancel = nil

	latencyMs := time.Since(started).Milliseconds()
	c.recorder.RecordLatency(EventBargeIn, latencyMs)
	observability.ObserveBargeInLatency(float64(latencyMs) / 1000)

	if latencyMs > bargeInBudgetMs {
		c.logger.Warn().Int64("latency_ms", latencyMs).Msg("Barge-in exceeded latency budget")
	} else {
		c.logger.Info().Int64("latency_ms", latencyMs).Msg("Barge-in")
	}
}

// OnTransportFailure tears the session down after a persistent transport
// error. Errors in one session never affect another.
func (c *Controller) OnTransportFailure(err error) {
	c.logger.Error().Err(err).Msg("Transport failure, closing session")
	observability.RecordError("transport_fatal", "session")
	c.Close()
}

// Close trips any active synthesis, stops audio processing, and records the
// close event. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.audioEnabled = false

	if c.cancel != nil {
		c.cancel.Trip()
		c.cancel = nil
	}
	c.normalizer.Reset()
	if c.machine.State() != StateIdle {
		c.machine.Transition(StateIdle)
	}
	c.recorder.Record(EventSessionClose)
	started := c.started
	c.mu.Unlock()

	if started {
		observability.SessionEnded()
	}
	c.logger.Info().Msg("Session closed")
}
