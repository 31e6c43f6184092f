package audio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var malformedPCMBlocks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "voice_server_malformed_pcm_total",
	Help: "Inbound PCM blocks with an odd byte length (trailing byte truncated)",
})

// Normalizer converts arbitrary-rate, arbitrary-channel PCM blocks into
// fixed 20ms mono 16kHz S16LE frames. Bytes that don't fill a whole frame
// are carried in a residual buffer until the next push; the residual is
// always shorter than one frame between calls.
type Normalizer struct {
	residual []byte
}

// NewNormalizer creates a normalizer with an empty residual.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		residual: make([]byte, 0, FrameBytes),
	}
}

// Push converts a PCM block to the pipeline format and returns every full
// frame now available. Odd-length blocks lose their trailing byte; upstream
// transports occasionally deliver padded blocks, so this is counted rather
// than rejected.
func (n *Normalizer) Push(data []byte, sampleRate, channels int) []Frame {
	if len(data)%2 != 0 {
		malformedPCMBlocks.Inc()
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil
	}

	samples := BytesToSamples(data)

	if channels > 1 {
		samples = downmix(samples, channels)
	}
	if sampleRate != SampleRate {
		samples = resample(samples, sampleRate, SampleRate)
	}

	n.residual = append(n.residual, SamplesToBytes(samples)...)

	frameCount := len(n.residual) / FrameBytes
	if frameCount == 0 {
		return nil
	}

	frames := make([]Frame, 0, frameCount)
	for i := 0; i < frameCount; i++ {
		frame := make(Frame, FrameBytes)
		copy(frame, n.residual[i*FrameBytes:(i+1)*FrameBytes])
		frames = append(frames, frame)
	}

	remainder := len(n.residual) - frameCount*FrameBytes
	copy(n.residual, n.residual[frameCount*FrameBytes:])
	n.residual = n.residual[:remainder]

	return frames
}

// Reset discards the residual. Called on state transitions that drop
// inbound audio.
func (n *Normalizer) Reset() {
	n.residual = n.residual[:0]
}

// Residual returns the number of carried bytes (always < FrameBytes).
func (n *Normalizer) Residual() int {
	return len(n.residual)
}

// downmix averages interleaved channels into mono at each sample index.
func downmix(samples []int16, channels int) []int16 {
	mono := make([]int16, len(samples)/channels)
	for i := 0; i < len(mono); i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}

// resample performs linear interpolation between adjacent source samples.
// The last output positions reuse the final valid index rather than reading
// past the source.
func resample(samples []int16, inputRate, outputRate int) []int16 {
	if inputRate == outputRate {
		return samples
	}

	ratio := float64(outputRate) / float64(inputRate)
	outputLength := int(float64(len(samples)) * ratio)
	output := make([]int16, outputLength)

	for i := 0; i < outputLength; i++ {
		srcPos := float64(i) / ratio

		idx0 := int(srcPos)
		if idx0 >= len(samples) {
			idx0 = len(samples) - 1
		}
		idx1 := idx0 + 1
		if idx1 >= len(samples) {
			idx1 = len(samples) - 1
		}

		fraction := srcPos - float64(idx0)
		output[i] = int16(float64(samples[idx0])*(1.0-fraction) + float64(samples[idx1])*fraction)
	}

	return output
}
