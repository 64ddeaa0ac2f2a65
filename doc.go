// SPDX-License-Identifier: EPL-2.0

// Package sndmix is a real-time PCM mixing engine built around a pull model:
// a sink asks the Player for fixed-size chunks of interleaved float32
// samples, the player sums its named Layers, and each layer sums the Sounds
// it currently has playing.
//
// Sounds, layers and the player share one playback state machine (stopped,
// playing, paused, error) with per-entity volume. Layers schedule their
// sounds: a waiting queue feeds a bounded set of playing slots, optionally
// evicting the oldest sound with a crossfade when a new one arrives. Fades
// are sample-counted envelopes, so their timing is exact regardless of how
// the pulling sink paces itself.
//
// Decoders for WAV, MP3, Ogg Vorbis and AIFF live under formats/; sinks that
// drive the pull loop live under sinks/ (a speaker sink and an offline WAV
// renderer). Open ties them together, turning a file path into a ready
// Sound in the engine's output format.
package sndmix
