// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
	"time"
)

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int // Total frames to generate (per channel)
	generated   int // Frames generated so far (per channel)
	waveform    func(frame int, channel int) float32
}

// NewMockSource creates a new mock audio source.
// totalFrames is the total number of frames per channel to generate.
// waveform generates sample values given frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		generated:   0,
		waveform:    waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, channel int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, channel int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error    { return nil }

// Seek repositions the generator; Seek(0) rewinds, including after EOF.
func (m *MockSource) Seek(pos time.Duration) error {
	frame := int(pos.Seconds() * float64(m.sampleRate))
	if frame > m.totalFrames {
		frame = m.totalFrames
	}
	m.generated = frame
	return nil
}

// Position reports the current frame index, for seek assertions.
func (m *MockSource) Position() int { return m.generated }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalFrames - m.generated
	framesToWrite := framesRequested
	if framesToWrite > framesAvailable {
		framesToWrite = framesAvailable
	}

	for frame := range framesToWrite {
		frameIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(frameIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalFrames {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// FailingSource produces constant samples until failAfter frames have been
// read, then returns err on every subsequent read. Used to exercise
// decoder-failure paths.
type FailingSource struct {
	inner     *MockSource
	failAfter int
	err       error
}

func NewFailingSource(sampleRate, channels, failAfter int, err error) *FailingSource {
	return &FailingSource{
		inner:     NewConstantSource(sampleRate, channels, 1<<30, 0.5),
		failAfter: failAfter,
		err:       err,
	}
}

func (f *FailingSource) SampleRate() int          { return f.inner.SampleRate() }
func (f *FailingSource) Channels() int            { return f.inner.Channels() }
func (f *FailingSource) Close() error             { return nil }
func (f *FailingSource) Seek(time.Duration) error { return nil }

func (f *FailingSource) ReadSamples(dst []float32) (int, error) {
	if f.inner.Position() >= f.failAfter {
		return 0, f.err
	}
	return f.inner.ReadSamples(dst)
}
