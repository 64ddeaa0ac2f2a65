// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF audio file decoding.
//
// This package wraps github.com/go-audio/aiff and exposes the decoded PCM
// data as an audio.Source of float32 samples normalized to [-1.0, 1.0].
// Seeking reparses the file and decodes forward to the target, so it needs an
// io.ReadSeeker input.
package aiff
