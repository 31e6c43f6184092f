package stt

import "github.com/voicebridge/voice-server/internal/audio"

// TranscriptEvent is an incremental recognition result.
type TranscriptEvent struct {
	// Text is the transcribed text so far. For non-final events this is a
	// growing prefix of the eventual final text.
	Text string

	// IsFinal marks the end of an utterance.
	IsFinal bool
}

// Recognizer consumes normalized pipeline frames and emits transcript
// events. ProcessFrame returns nil when the frame produced no event.
type Recognizer interface {
	ProcessFrame(frame audio.Frame) *TranscriptEvent

	// Reset clears voice-activity counters and any open utterance.
	Reset()
}
