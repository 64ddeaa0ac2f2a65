// SPDX-License-Identifier: EPL-2.0

// Package wavsink renders a chunk source offline into a WAV file. It pulls
// chunks as fast as the encoder accepts them, so a ten minute mix renders in
// however long the decoders take, not ten minutes.
package wavsink

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/sndmix/sndmix"
	"github.com/sndmix/sndmix/audio"
	"github.com/sndmix/sndmix/pcm"
)

// Render pulls d worth of chunks from src and writes them to w as a PCM WAV
// file at cfg's rate, channel count and sample width. Chunks the source does
// not produce (stopped or paused stretches) render as silence.
func Render(w io.WriteSeeker, src sndmix.ChunkSource, cfg audio.Config, d time.Duration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w", err)
	}

	bitDepth := cfg.SampleWidth * 8
	enc := gowav.NewEncoder(w, cfg.SampleRate, bitDepth, cfg.Channels, 1)

	chunk := make([]float32, cfg.SamplesPerChunk())
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: cfg.Channels, SampleRate: cfg.SampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(chunk)),
	}

	total := cfg.DurationToFrames(d)
	for written := 0; written < total; written += cfg.FrameSize {
		src.NextChunk(chunk)

		frames := total - written
		if frames > cfg.FrameSize {
			frames = cfg.FrameSize
		}
		samples := frames * cfg.Channels

		buf.Data = buf.Data[:samples]
		for i, v := range chunk[:samples] {
			buf.Data[i] = pcm.Float32ToInt(v, bitDepth)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
