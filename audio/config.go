// SPDX-License-Identifier: EPL-2.0

package audio

import "time"

// Default audio format, matching CD-quality stereo in 1024-frame chunks.
const (
	DefaultSampleRate  = 44100
	DefaultChannels    = 2
	DefaultSampleWidth = 2
	DefaultFrameSize   = 1024
)

// Config describes the PCM format shared by every entity composing a mix.
// The engine never resamples or remixes internally; sources that do not match
// must be adapted first (see MatchConfig).
type Config struct {
	// SampleRate in Hz (e.g., 44100, 48000).
	SampleRate int
	// Channels count: 1=mono, 2=stereo.
	Channels int
	// SampleWidth in bytes per sample at the output boundary: 2 (int16) or
	// 4 (int32). Internal mixing always runs in float32.
	SampleWidth int
	// FrameSize is the number of frames per pulled chunk.
	FrameSize int
}

// DefaultConfig returns 44.1kHz stereo, 16-bit output, 1024-frame chunks.
func DefaultConfig() Config {
	return Config{
		SampleRate:  DefaultSampleRate,
		Channels:    DefaultChannels,
		SampleWidth: DefaultSampleWidth,
		FrameSize:   DefaultFrameSize,
	}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if c.Channels != 1 && c.Channels != 2 {
		return ErrInvalidChannels
	}
	if c.SampleWidth != 2 && c.SampleWidth != 4 {
		return ErrInvalidSampleWidth
	}
	if c.FrameSize <= 0 {
		return ErrInvalidFrameSize
	}
	return nil
}

// SamplesPerChunk is the float32 slice length of one chunk (frames × channels).
func (c Config) SamplesPerChunk() int {
	return c.FrameSize * c.Channels
}

// BytesPerSecond of encoded output at this format.
func (c Config) BytesPerSecond() int {
	return c.SampleRate * c.Channels * c.SampleWidth
}

// ChunkDuration is the wall-clock length of one chunk.
func (c Config) ChunkDuration() time.Duration {
	return c.FramesToDuration(c.FrameSize)
}

// DurationToFrames converts a duration to a frame count at the configured rate.
func (c Config) DurationToFrames(d time.Duration) int {
	return int(d.Seconds() * float64(c.SampleRate))
}

// FramesToDuration converts a frame count to a duration at the configured rate.
func (c Config) FramesToDuration(frames int) time.Duration {
	return time.Duration(float64(frames) / float64(c.SampleRate) * float64(time.Second))
}
