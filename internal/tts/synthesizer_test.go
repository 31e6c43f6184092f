package tts

import (
	"testing"
	"time"

	"github.com/voicebridge/voice-server/internal/audio"
)

// testCancel is a minimal one-shot handle for exercising the synthesizer.
type testCancel struct {
	done chan struct{}
}

func newTestCancel() *testCancel {
	return &testCancel{done: make(chan struct{})}
}

func (c *testCancel) Trip() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *testCancel) Tripped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *testCancel) Done() <-chan struct{} {
	return c.done
}

func fastConfig() *SynthesizerConfig {
	return &SynthesizerConfig{Pacing: 0, Amplitude: 9000}
}

func TestFrameCount(t *testing.T) {
	cases := []struct {
		text     string
		expected int
	}{
		{"one two three four five six", 100}, // 6 words -> 2s floor
		{"hi", 100},                          // short text hits the 2s floor
		{"a b c d e f g h i j k l", 200},     // 12 words -> 4s
		{"a b c d e f g", 117},               // 7 words -> 2.333s -> ceil
	}

	for _, tc := range cases {
		if got := FrameCount(tc.text); got != tc.expected {
			t.Errorf("FrameCount(%q): expected %d, got %d", tc.text, tc.expected, got)
		}
	}
}

func TestSineSynthesizer_FrameShape(t *testing.T) {
	s := NewSineSynthesizer(fastConfig())

	count := 0
	for frame := range s.Synthesize("one two three four five six", newTestCancel()) {
		if len(frame) != audio.FrameBytes {
			t.Fatalf("Frame %d has %d bytes, expected %d", count, len(frame), audio.FrameBytes)
		}
		count++
	}

	if count != 100 {
		t.Errorf("Expected 100 frames for a 6 word reply, got %d", count)
	}
}

func TestSineSynthesizer_CancelStopsStream(t *testing.T) {
	s := NewSineSynthesizer(fastConfig())
	cancel := newTestCancel()

	stream := s.Synthesize("one two three four five six", cancel)

	received := 0
	for frame := range stream {
		_ = frame
		received++
		if received == 10 {
			cancel.Trip()
		}
	}

	// The producer may have one frame in flight at the cancellation point.
	if received > 11 {
		t.Errorf("Expected stream to stop promptly after cancel, got %d frames", received)
	}
	if received < 10 {
		t.Errorf("Expected the frames consumed before cancel, got %d", received)
	}
}

func TestSineSynthesizer_CancelBeforeStart(t *testing.T) {
	s := NewSineSynthesizer(fastConfig())
	cancel := newTestCancel()
	cancel.Trip()

	count := 0
	for range s.Synthesize("hello world", cancel) {
		count++
	}
	if count != 0 {
		t.Errorf("Expected no frames from a pre-tripped handle, got %d", count)
	}
}

func TestSineSynthesizer_CancelInterruptsPacing(t *testing.T) {
	// Long pacing: without a cancellable wait this test would take seconds.
	s := NewSineSynthesizer(&SynthesizerConfig{Pacing: time.Second, Amplitude: 9000})
	cancel := newTestCancel()

	stream := s.Synthesize("hello world", cancel)

	<-stream // first frame arrives before pacing kicks in
	start := time.Now()
	cancel.Trip()

	for range stream {
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Cancellation took %v, expected the paced wait to abort early", elapsed)
	}
}

func TestSineSynthesizer_NonSilentOutput(t *testing.T) {
	s := NewSineSynthesizer(fastConfig())

	stream := s.Synthesize("hello world", newTestCancel())
	frame := <-stream
	for range stream {
	}

	if rms := audio.RMS(frame.Samples()); rms < 0.02 {
		t.Errorf("Expected audible synthesized output, RMS %.4f", rms)
	}
}

func TestSineSynthesizer_ResetIdempotent(t *testing.T) {
	s := NewSineSynthesizer(fastConfig())

	stream := s.Synthesize("hello", newTestCancel())
	for range stream {
	}

	s.Reset()
	s.Reset()

	// After reset the waveform restarts from zero phase: first sample is 0.
	next := <-s.Synthesize("hello", newTestCancel())
	if next.Samples()[0] != 0 {
		t.Errorf("Expected phase reset to restart waveform at zero, got %d", next.Samples()[0])
	}
}
