// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"sync"

	"github.com/sndmix/sndmix/audio"
)

// ChunkSource is anything the mixer can pull fixed-size chunks from. Both
// Sound and Layer satisfy it, which is how layers nest into the player's
// master mix.
type ChunkSource interface {
	// Status reports the source's playback state. Only playing sources are
	// pulled; the rest contribute silence for the chunk.
	Status() Status

	// NextChunk fills dst with the source's next chunk of interleaved
	// samples. It returns false when the source produced nothing (stopped,
	// paused or failed), in which case dst content is ignored.
	NextChunk(dst []float32) bool
}

// Mixer sums chunks from a set of sources into a single stream. Summed
// samples are scaled by the mix volume and clamped to [-1, 1]; individual
// source volumes are the sources' own concern.
type Mixer struct {
	mu      sync.Mutex
	cfg     audio.Config
	sources []ChunkSource
	scratch []float32
}

func NewMixer(cfg audio.Config) *Mixer {
	return &Mixer{
		cfg:     cfg,
		scratch: make([]float32, cfg.SamplesPerChunk()),
	}
}

// Add registers a source with the mix. Adding the same source twice is a
// no-op.
func (m *Mixer) Add(src ChunkSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s == src {
			return
		}
	}
	m.sources = append(m.sources, src)
}

// Remove takes a source out of the mix.
func (m *Mixer) Remove(src ChunkSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sources {
		if s == src {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return
		}
	}
}

// Clear removes every source from the mix.
func (m *Mixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = nil
}

// Len reports the number of registered sources.
func (m *Mixer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

// ReadChunk sums one chunk from every playing source into dst, scales the
// result by vol and clamps each sample to [-1, 1]. An empty or fully idle mix
// yields silence. Sources are pulled outside the mixer lock so a slow decoder
// never blocks Add and Remove.
func (m *Mixer) ReadChunk(dst []float32, vol float64) {
	zero(dst)

	m.mu.Lock()
	sources := make([]ChunkSource, len(m.sources))
	copy(sources, m.sources)
	scratch := m.scratch
	m.mu.Unlock()

	if len(scratch) < len(dst) {
		scratch = make([]float32, len(dst))
		m.mu.Lock()
		m.scratch = scratch
		m.mu.Unlock()
	}
	scratch = scratch[:len(dst)]

	active := false
	for _, src := range sources {
		if src.Status() != StatusPlaying {
			continue
		}
		if !src.NextChunk(scratch) {
			continue
		}
		active = true
		for i, v := range scratch {
			dst[i] += v
		}
	}
	if !active {
		return
	}

	g := float32(vol)
	for i, v := range dst {
		v *= g
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst[i] = v
	}
}
