// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis, which decodes straight to
// interleaved float32 samples in [-1.0, 1.0], the engine's native format.
//
// Sample rate and channel count come from the stream headers. Seeking uses
// the reader's frame positioning and requires the input to support random
// access.
package vorbis
