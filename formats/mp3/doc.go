// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files into
// float32 samples normalized to [-1.0, 1.0].
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: always 2 (go-mp3 upmixes mono files)
//   - Sample rate: whatever the MP3 file declares
//
// # Seeking
//
// go-mp3 exposes byte seeking over its decoded output, which is a fixed 4
// bytes per frame. Seek translates a time position into that byte offset, so
// loop rewinds land frame-exact.
//
// # Limitations
//
//   - Decoding only, no MP3 writing
//   - Output is always stereo; channel conversion is the audio package's job
package mp3
