// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV (RIFF/WAVE) audio file decoding.
//
// This package wraps github.com/go-audio/wav and exposes the decoded PCM data
// as an audio.Source of float32 samples normalized to [-1.0, 1.0].
//
// # Supported Formats
//
// The decoder supports:
//   - PCM WAV at 8, 16, 24 and 32 bits per sample
//   - Any channel count and sample rate the file declares
//
// # Decoding WAV Files
//
//	decoder := wav.Decoder{}
//	f, _ := os.Open("audio.wav")
//	src, err := decoder.Decode(f)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Seeking
//
// The decoder requires an io.ReadSeeker: Seek reparses the file headers and
// skips to the requested position, which is what makes looped playback of
// WAV sounds possible.
package wav
