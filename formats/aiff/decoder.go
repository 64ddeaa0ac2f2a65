// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"
	"time"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/sndmix/sndmix/audio"
)

type aiffSource struct {
	rs  io.ReadSeeker
	dec *goaiff.Decoder

	sampleRate int
	channels   int
	scale      float32

	buf *goaudio.IntBuffer
}

func (s *aiffSource) SampleRate() int { return s.sampleRate }
func (s *aiffSource) Channels() int   { return s.channels }
func (s *aiffSource) Close() error    { return nil }

func (s *aiffSource) ReadSamples(dst []float32) (int, error) {
	if s.buf == nil || len(s.buf.Data) != len(dst) {
		s.buf = &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
			Data:   make([]int, len(dst)),
		}
	}

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.buf.Data[i]) * s.scale
	}
	return n, nil
}

// Seek rewinds the underlying reader, reparses the headers and skips forward
// to pos by decoding.
func (s *aiffSource) Seek(pos time.Duration) error {
	if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	dec := goaiff.NewDecoder(s.rs)
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("%w", err)
	}
	s.dec = dec

	skip := int(float64(pos) / float64(time.Second) * float64(s.sampleRate))
	if skip <= 0 {
		return nil
	}
	scratch := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		Data:   make([]int, 4096*s.channels),
	}
	remaining := skip * s.channels
	for remaining > 0 {
		want := len(scratch.Data)
		if want > remaining {
			want = remaining
		}
		scratch.Data = scratch.Data[:want]
		n, err := s.dec.PCMBuffer(scratch)
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if n == 0 {
			return nil
		}
		remaining -= n
	}
	return nil
}

type Decoder struct{}

// Decode parses an AIFF stream. Seeking needs random access, so r must
// implement io.ReadSeeker.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, ErrSeekerRequired
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &aiffSource{
		rs:         rs,
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		scale:      1.0 / float32(int(1)<<(bitDepth-1)),
	}, nil
}
