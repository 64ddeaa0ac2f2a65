// SPDX-License-Identifier: EPL-2.0

// Package otosink plays a chunk source through the system's audio device
// using github.com/hajimehoshi/oto. The device drives the pace: oto's player
// reads PCM bytes as the hardware drains them, and each read pulls chunks
// from the engine.
//
// oto allows a single audio context per process, so create at most one Sink
// (or reuse the process-wide context yourself).
package otosink

import (
	"errors"
	"fmt"

	oto "github.com/hajimehoshi/oto/v2"

	"github.com/sndmix/sndmix"
	"github.com/sndmix/sndmix/audio"
	"github.com/sndmix/sndmix/pcm"
)

// ErrUnsupportedWidth is returned for sample widths other than 16-bit.
var ErrUnsupportedWidth = errors.New("otosink supports 16-bit samples only")

// Sink streams a chunk source to the default audio device.
type Sink struct {
	ctx    *oto.Context
	player oto.Player
}

// New opens the audio device for cfg's format and binds it to src. The sink
// is created paused; call Start to begin playback.
func New(src sndmix.ChunkSource, cfg audio.Config) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if cfg.SampleWidth != 2 {
		return nil, ErrUnsupportedWidth
	}

	ctx, ready, err := oto.NewContext(cfg.SampleRate, cfg.Channels, cfg.SampleWidth)
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}
	<-ready

	r := newChunkReader(src, cfg)
	return &Sink{
		ctx:    ctx,
		player: ctx.NewPlayer(r),
	}, nil
}

// Start begins (or resumes) feeding the device.
func (s *Sink) Start() { s.player.Play() }

// Pause stops feeding the device without losing buffered audio.
func (s *Sink) Pause() { s.player.Pause() }

// SetVolume adjusts the device-side gain in [0, 1]. This is a final output
// stage on top of the engine's own per-entity volumes.
func (s *Sink) SetVolume(vol float64) { s.player.SetVolume(vol) }

// Close releases the device player.
func (s *Sink) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// chunkReader adapts the pull model to oto's io.Reader: each device read
// drains leftover bytes from the previous chunk, then pulls fresh chunks from
// the source. An idle source reads as silence, never io.EOF, so the device
// keeps running across stop/play cycles.
type chunkReader struct {
	src   sndmix.ChunkSource
	chunk []float32
	buf   []byte
	off   int
	n     int
}

func newChunkReader(src sndmix.ChunkSource, cfg audio.Config) *chunkReader {
	samples := cfg.SamplesPerChunk()
	return &chunkReader{
		src:   src,
		chunk: make([]float32, samples),
		buf:   make([]byte, samples*2),
	}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if r.off == r.n {
			r.src.NextChunk(r.chunk)
			r.n = pcm.EncodeInt16LE(r.buf, r.chunk)
			r.off = 0
		}
		c := copy(p[total:], r.buf[r.off:r.n])
		r.off += c
		total += c
	}
	return total, nil
}
