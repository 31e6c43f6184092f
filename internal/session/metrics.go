package session

import (
	"sync"
	"time"
)

// Protocol event names recorded by the per-session recorder.
const (
	EventSessionStart  = "session_start"
	EventConnected     = "webrtc_connected"
	EventSTTPartial    = "stt_partial"
	EventSTTFinal      = "stt_final"
	EventTTSStart      = "tts_start"
	EventTTSFirstChunk = "tts_first_chunk"
	EventTTSComplete   = "tts_complete"
	EventBargeIn       = "barge_in"
	EventSessionClose  = "session_close"
)

// Event is a single time-stamped protocol event.
type Event struct {
	Name      string    `json:"name"`
	Text      string    `json:"text,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the per-session counters view served by the metrics endpoint.
type Snapshot struct {
	SessionID           string  `json:"session_id"`
	ConnectTimeMs       int64   `json:"connect_time_ms"`
	AvgSTTLatencyMs     float64 `json:"avg_stt_latency_ms"`
	BargeInLatenciesMs  []int64 `json:"barge_in_latencies_ms"`
	MaxBargeInLatencyMs int64   `json:"max_barge_in_latency_ms"`
	TotalEvents         int     `json:"total_events"`
}

// Recorder appends time-stamped protocol events for one session. It is
// owned by the session and never shared across sessions.
type Recorder struct {
	mu        sync.Mutex
	sessionID string

	events           []Event
	connectTimeMs    int64
	sttLatencies     []int64
	bargeInLatencies []int64
}

// NewRecorder creates a recorder for a session.
func NewRecorder(sessionID string) *Recorder {
	return &Recorder{sessionID: sessionID}
}

// Record appends a bare named event.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Timestamp: time.Now()})
}

// RecordText appends an event carrying transcript or reply text.
func (r *Recorder) RecordText(name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Text: text, Timestamp: time.Now()})
}

// RecordLatency appends an event with a millisecond latency field and rolls
// it into the matching counter.
func (r *Recorder) RecordLatency(name string, latencyMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Name: name, LatencyMs: latencyMs, Timestamp: time.Now()})

	switch name {
	case EventConnected:
		r.connectTimeMs = latencyMs
	case EventSTTFinal:
		r.sttLatencies = append(r.sttLatencies, latencyMs)
	case EventBargeIn:
		r.bargeInLatencies = append(r.bargeInLatencies, latencyMs)
	}
}

// RecordFinal appends a final-transcript event with its latency.
func (r *Recorder) RecordFinal(text string, latencyMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Name: EventSTTFinal, Text: text, LatencyMs: latencyMs, Timestamp: time.Now()})
	r.sttLatencies = append(r.sttLatencies, latencyMs)
}

// Events returns a copy of the event log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Snapshot returns the per-session counters.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		SessionID:          r.sessionID,
		ConnectTimeMs:      r.connectTimeMs,
		BargeInLatenciesMs: append([]int64(nil), r.bargeInLatencies...),
		TotalEvents:        len(r.events),
	}

	if len(r.sttLatencies) > 0 {
		sum := int64(0)
		for _, l := range r.sttLatencies {
			sum += l
		}
		snap.AvgSTTLatencyMs = float64(sum) / float64(len(r.sttLatencies))
	}
	for _, l := range r.bargeInLatencies {
		if l > snap.MaxBargeInLatencyMs {
			snap.MaxBargeInLatencyMs = l
		}
	}

	return snap
}
