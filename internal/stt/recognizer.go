package stt

import (
	"strings"

	"github.com/voicebridge/voice-server/internal/audio"
)

// cannedUtterances are served round-robin, one per detected utterance.
// The recognition contract here is the VAD gating, not the text content.
var cannedUtterances = []string{
	"hello there how can I help you today",
	"could you tell me more about what you need",
	"let me check on that for you right away",
	"thanks for waiting I have the details now",
}

// StubRecognizer emits VAD-gated partial and final transcripts with canned
// text. Partials are word-boundary prefixes of the final text and only grow
// within one utterance.
type StubRecognizer struct {
	detector     *audio.Detector
	utteranceIdx int
	prefixWords  int
}

// NewStubRecognizer creates a recognizer with the given VAD thresholds.
func NewStubRecognizer(config *audio.VADConfig) *StubRecognizer {
	return &StubRecognizer{
		detector: audio.NewDetector(config),
	}
}

// ProcessFrame advances voice-activity tracking and returns a transcript
// event when one is due.
func (r *StubRecognizer) ProcessFrame(frame audio.Frame) *TranscriptEvent {
	switch r.detector.ProcessFrame(frame) {
	case audio.VerdictUtteranceStart:
		r.prefixWords = 1
		return &TranscriptEvent{Text: r.prefix(), IsFinal: false}

	case audio.VerdictPartial:
		r.prefixWords++
		return &TranscriptEvent{Text: r.prefix(), IsFinal: false}

	case audio.VerdictUtteranceEnd:
		text := cannedUtterances[r.utteranceIdx%len(cannedUtterances)]
		r.utteranceIdx++
		r.prefixWords = 0
		return &TranscriptEvent{Text: text, IsFinal: true}
	}
	return nil
}

// prefix returns the first prefixWords words of the current utterance text.
func (r *StubRecognizer) prefix() string {
	words := strings.Fields(cannedUtterances[r.utteranceIdx%len(cannedUtterances)])
	n := r.prefixWords
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[:n], " ")
}

// Reset clears the VAD counters and any open utterance. The round-robin
// position is kept so consecutive utterances still rotate.
func (r *StubRecognizer) Reset() {
	r.detector.Reset()
	r.prefixWords = 0
}
