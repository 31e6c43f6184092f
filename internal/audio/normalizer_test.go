package audio

import (
	"bytes"
	"math"
	"testing"
)

func sineBlock(samples int, amplitude float64) []int16 {
	block := make([]int16, samples)
	for i := range block {
		block[i] = int16(math.Sin(float64(i)*0.1) * amplitude)
	}
	return block
}

func TestNormalizer_Identity16kMono(t *testing.T) {
	n := NewNormalizer()

	input := sineBlock(FrameSamples, 8000)
	frames := n.Push(SamplesToBytes(input), SampleRate, 1)

	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(frames))
	}

	output := frames[0].Samples()
	for i := range input {
		if output[i] != input[i] {
			t.Fatalf("Sample %d changed: %d != %d", i, output[i], input[i])
		}
	}
}

func TestNormalizer_48kStereoToOneFrame(t *testing.T) {
	n := NewNormalizer()

	// 960 sample positions at 48kHz, two channels, interleaved.
	// Downmixed and resampled this is exactly 320 samples = one frame.
	interleaved := make([]int16, 960*2)
	for i := 0; i < 960; i++ {
		sample := int16(math.Sin(float64(i)*0.1) * 16000)
		interleaved[i*2] = sample
		interleaved[i*2+1] = sample
	}

	frames := n.Push(SamplesToBytes(interleaved), 48000, 2)

	if len(frames) != 1 {
		t.Fatalf("Expected exactly 1 frame, got %d", len(frames))
	}
	if len(frames[0]) != FrameBytes {
		t.Errorf("Expected %d byte frame, got %d", FrameBytes, len(frames[0]))
	}
	if n.Residual() != 0 {
		t.Errorf("Expected empty residual, got %d bytes", n.Residual())
	}
}

func TestNormalizer_ResidualCarry(t *testing.T) {
	n := NewNormalizer()

	// Half a frame: no output, residual carried.
	half := make([]int16, FrameSamples/2)
	frames := n.Push(SamplesToBytes(half), SampleRate, 1)
	if len(frames) != 0 {
		t.Fatalf("Expected no frames from half input, got %d", len(frames))
	}
	if n.Residual() != FrameBytes/2 {
		t.Errorf("Expected residual %d, got %d", FrameBytes/2, n.Residual())
	}

	// Second half completes the frame.
	frames = n.Push(SamplesToBytes(half), SampleRate, 1)
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame after completing input, got %d", len(frames))
	}
	if n.Residual() != 0 {
		t.Errorf("Expected empty residual, got %d", n.Residual())
	}
}

func TestNormalizer_ResidualAlwaysUnderFrame(t *testing.T) {
	n := NewNormalizer()

	// Odd-sized pushes keep the residual strictly below one frame.
	block := make([]int16, 117)
	for i := 0; i < 50; i++ {
		n.Push(SamplesToBytes(block), SampleRate, 1)
		if n.Residual() >= FrameBytes {
			t.Fatalf("Residual %d reached a full frame on push %d", n.Residual(), i)
		}
	}
}

func TestNormalizer_SplitPushMatchesCombined(t *testing.T) {
	input := sineBlock(FrameSamples*3+100, 12000)
	data := SamplesToBytes(input)

	combined := NewNormalizer()
	combinedFrames := combined.Push(data, SampleRate, 1)

	split := NewNormalizer()
	splitFrames := split.Push(data[:1000], SampleRate, 1)
	splitFrames = append(splitFrames, split.Push(data[1000:], SampleRate, 1)...)

	if len(combinedFrames) != len(splitFrames) {
		t.Fatalf("Frame count differs: combined %d, split %d", len(combinedFrames), len(splitFrames))
	}
	for i := range combinedFrames {
		if !bytes.Equal(combinedFrames[i], splitFrames[i]) {
			t.Errorf("Frame %d differs between combined and split pushes", i)
		}
	}
	if combined.Residual() != split.Residual() {
		t.Errorf("Residual differs: combined %d, split %d", combined.Residual(), split.Residual())
	}
}

func TestNormalizer_OddByteTruncated(t *testing.T) {
	n := NewNormalizer()

	data := SamplesToBytes(make([]int16, FrameSamples))
	data = append(data, 0x7f) // padded trailing byte

	frames := n.Push(data, SampleRate, 1)
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame from padded block, got %d", len(frames))
	}
	if n.Residual() != 0 {
		t.Errorf("Expected truncated byte to be dropped, residual %d", n.Residual())
	}
}

func TestNormalizer_Reset(t *testing.T) {
	n := NewNormalizer()

	n.Push(SamplesToBytes(make([]int16, 100)), SampleRate, 1)
	if n.Residual() == 0 {
		t.Fatal("Expected residual before reset")
	}

	n.Reset()
	if n.Residual() != 0 {
		t.Errorf("Expected empty residual after reset, got %d", n.Residual())
	}

	// Nothing emitted until a full frame of fresh input arrives.
	frames := n.Push(SamplesToBytes(make([]int16, FrameSamples-1)), SampleRate, 1)
	if len(frames) != 0 {
		t.Errorf("Expected no frames until a full frame of new input, got %d", len(frames))
	}
	frames = n.Push(SamplesToBytes(make([]int16, 1)), SampleRate, 1)
	if len(frames) != 1 {
		t.Errorf("Expected 1 frame once enough input arrived, got %d", len(frames))
	}
}

func TestDownmix_MonoIdentity(t *testing.T) {
	input := sineBlock(FrameSamples, 10000)
	output := downmix(input, 1)

	for i := range input {
		if output[i] != input[i] {
			t.Fatalf("Mono downmix changed sample %d: %d != %d", i, output[i], input[i])
		}
	}
}

func TestDownmix_StereoMean(t *testing.T) {
	interleaved := []int16{100, 200, -300, -100, 32000, 32000}
	output := downmix(interleaved, 2)

	expected := []int16{150, -200, 32000}
	if len(output) != len(expected) {
		t.Fatalf("Expected %d samples, got %d", len(expected), len(output))
	}
	for i := range expected {
		if output[i] != expected[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, expected[i], output[i])
		}
	}
}

func TestResample_SameRateIdentity(t *testing.T) {
	input := sineBlock(320, 16000)
	output := resample(input, 16000, 16000)

	for i := range input {
		if output[i] != input[i] {
			t.Fatalf("Identity resample changed sample %d", i)
		}
	}
}

func TestResample_Downsample3to1(t *testing.T) {
	input := sineBlock(960, 16000)
	output := resample(input, 48000, 16000)

	if len(output) != 320 {
		t.Errorf("Expected 320 output samples, got %d", len(output))
	}
}

func TestFrameRoundTrip(t *testing.T) {
	samples := sineBlock(FrameSamples, 16000)
	frame := FrameFromSamples(samples)

	if len(frame) != FrameBytes {
		t.Fatalf("Expected %d bytes, got %d", FrameBytes, len(frame))
	}

	decoded := frame.Samples()
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Fatalf("Sample %d did not round-trip: %d != %d", i, decoded[i], samples[i])
		}
	}
}
