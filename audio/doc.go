// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level contracts and pure primitives the
// mixing engine is built on.
//
// This package contains:
//   - Source, the decoder-side interface every playable stream implements
//   - Config, the shared PCM format of a mix
//   - Envelope and the fade Curve shapes
//   - Resampler and ChannelConverter for adapting sources to a Config
//   - Registry for decoder registration by format key
//
// # Source Interface
//
// The Source interface is the boundary between the engine and whatever
// produces PCM (file decoders, synthesis, network streams):
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Seek(pos time.Duration) error
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]; io.EOF marks the end of the
// stream. Sources must remain callable after EOF so that looping playback can
// Seek(0) and continue.
//
// # Fades
//
// An Envelope generates one volume multiplier per frame along a curve shape:
//
//	env := audio.NewEnvelope(audio.CurveSCurve, audio.FadeOut, 1, 0, 44100)
//	env.Apply(chunk, 2, 1.0)
//
// Envelopes count frames rather than wall-clock time, so a one-second fade at
// 44100 Hz reaches its target after exactly 44100 frames no matter how the
// chunks are sized.
//
// # Format Matching
//
// All entities composing a mix must share one Config. MatchConfig wraps a
// source with a Resampler and/or ChannelConverter as needed:
//
//	src = audio.MatchConfig(src, cfg)
//
// # Sample Format
//
// Audio samples are float32 in [-1.0, 1.0] throughout the engine; the wider
// intermediate format gives the mixer summation headroom. Conversion to
// int16/int32 happens only at output sinks.
package audio
