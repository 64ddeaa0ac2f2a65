// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/sndmix/sndmix/audio"
)

// oggReader is the slice of oggvorbis.Reader the source needs, split out so
// tests can substitute a mock.
type oggReader interface {
	Read(p []float32) (int, error)
	SetPosition(pos int64) error
	SampleRate() int
	Channels() int
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

// oggvorbis already yields interleaved float32 in [-1, 1], no conversion
// needed.
func (s *source) ReadSamples(dst []float32) (int, error) {
	return s.dec.Read(dst)
}

// Seek positions the stream at the given time. oggvorbis positions are in
// frames per channel.
func (s *source) Seek(pos time.Duration) error {
	frame := int64(float64(pos) / float64(time.Second) * float64(s.sampleRate))
	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

type Decoder struct{}

// Decode parses an Ogg Vorbis stream. Seeking needs random access, so r
// should implement io.ReadSeeker for looped playback to work.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
