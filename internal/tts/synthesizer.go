package tts

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/voicebridge/voice-server/internal/audio"
)

// SynthesizerConfig tunes the stub synthesizer.
type SynthesizerConfig struct {
	// Pacing is the wall-clock wait between frames. Real-time playback is
	// one frame duration; tests shorten it.
	Pacing time.Duration

	// Amplitude of the generated tone, in S16 sample units.
	Amplitude float64
}

// DefaultSynthesizerConfig paces output at playback rate.
func DefaultSynthesizerConfig() *SynthesizerConfig {
	return &SynthesizerConfig{
		Pacing:    audio.FrameDurationMs * time.Millisecond,
		Amplitude: 9000,
	}
}

// SineSynthesizer is a stub that renders each reply as a sine tone whose
// frequency is derived from the text. The testable contract is frame count,
// frame shape, pacing, and prompt response to cancellation.
type SineSynthesizer struct {
	config *SynthesizerConfig

	mu    sync.Mutex
	phase float64
}

// NewSineSynthesizer creates a synthesizer.
func NewSineSynthesizer(config *SynthesizerConfig) *SineSynthesizer {
	if config == nil {
		config = DefaultSynthesizerConfig()
	}
	return &SineSynthesizer{config: config}
}

// FrameCount returns the number of frames a reply text synthesizes to:
// max(2, words/3) seconds of 20ms frames.
func FrameCount(text string) int {
	words := len(strings.Fields(text))
	seconds := math.Max(2, float64(words)/3.0)
	return int(math.Ceil(seconds * 1000 / audio.FrameDurationMs))
}

// Synthesize produces the frame stream for text. Cancellation is checked
// before every frame, and the inter-frame wait itself aborts when the
// handle trips, so response stays within one frame time.
func (s *SineSynthesizer) Synthesize(text string, cancel Cancel) <-chan audio.Frame {
	out := make(chan audio.Frame)

	frequency := toneFrequency(text)
	total := FrameCount(text)

	go func() {
		defer close(out)

		for i := 0; i < total; i++ {
			if cancel != nil && cancel.Tripped() {
				return
			}

			frame := s.nextFrame(frequency)

			if cancel != nil {
				select {
				case out <- frame:
				case <-cancel.Done():
					return
				}
			} else {
				out <- frame
			}

			if s.config.Pacing > 0 {
				timer := time.NewTimer(s.config.Pacing)
				if cancel != nil {
					select {
					case <-timer.C:
					case <-cancel.Done():
						timer.Stop()
						return
					}
				} else {
					<-timer.C
				}
			}
		}
	}()

	return out
}

// nextFrame renders one frame, carrying the oscillator phase across calls.
func (s *SineSynthesizer) nextFrame(frequency float64) audio.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]int16, audio.FrameSamples)
	step := 2 * math.Pi * frequency / audio.SampleRate
	for i := range samples {
		samples[i] = int16(math.Sin(s.phase) * s.config.Amplitude)
		s.phase += step
	}
	// Keep phase bounded.
	s.phase = math.Mod(s.phase, 2*math.Pi)

	return audio.FrameFromSamples(samples)
}

// Reset clears the carried oscillator phase. Safe to call repeatedly.
func (s *SineSynthesizer) Reset() {
	s.mu.Lock()
	s.phase = 0
	s.mu.Unlock()
}

// toneFrequency maps a reply text to a stable audible frequency.
func toneFrequency(text string) float64 {
	hash := 0
	for _, r := range text {
		hash = hash*31 + int(r)
		hash &= 0xffff
	}
	return 220 + float64(hash%440)
}
