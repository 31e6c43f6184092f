package tts

import "github.com/voicebridge/voice-server/internal/audio"

// Cancel is the one-shot cancellation handle a synthesis stream honors.
// The session controller owns the concrete token; the synthesizer only
// needs to observe it between frames.
type Cancel interface {
	// Tripped reports whether cancellation has been requested.
	Tripped() bool

	// Done is closed when the handle trips, so paced waits can abort early.
	Done() <-chan struct{}
}

// Synthesizer produces a lazy stream of pipeline frames for a reply string.
type Synthesizer interface {
	// Synthesize starts producing frames for text. The returned channel is
	// closed when the reply completes or cancel trips; cancellation is a
	// normal outcome, not an error.
	Synthesize(text string, cancel Cancel) <-chan audio.Frame

	// Reset re-initializes carried waveform state. Idempotent.
	Reset()
}
