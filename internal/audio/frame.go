package audio

// Pipeline frame format. Every component boundary after the normalizer
// carries exactly this shape: 20ms of mono 16kHz signed 16-bit little-endian.
const (
	SampleRate      = 16000
	Channels        = 1
	FrameDurationMs = 20
	FrameSamples    = SampleRate * FrameDurationMs / 1000 // 320
	FrameBytes      = FrameSamples * 2                    // 640
)

// Frame is a single 20ms chunk of pipeline audio (640 bytes, S16LE).
type Frame []byte

// Samples decodes the frame into 16-bit signed samples (little-endian).
func (f Frame) Samples() []int16 {
	samples := make([]int16, len(f)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(f[i*2]) | int16(f[i*2+1])<<8
	}
	return samples
}

// FrameFromSamples encodes samples as a little-endian frame buffer.
func FrameFromSamples(samples []int16) Frame {
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	return buf
}

// BytesToSamples decodes an arbitrary S16LE byte block into samples.
// The block length must be even; callers are expected to have handled
// odd trailing bytes already.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

// SamplesToBytes encodes samples as S16LE bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	return buf
}
