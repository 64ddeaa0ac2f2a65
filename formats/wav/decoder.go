// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/sndmix/sndmix/audio"
)

type wavSource struct {
	rs  io.ReadSeeker
	dec *gowav.Decoder

	sampleRate int
	channels   int
	scale      float32

	buf *goaudio.IntBuffer
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
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
// to pos. WAV chunk offsets are frame-exact, so decoding resumes on a frame
// boundary.
func (s *wavSource) Seek(pos time.Duration) error {
	if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	dec := gowav.NewDecoder(s.rs)
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("%w", err)
	}
	s.dec = dec

	skip := int(float64(pos) / float64(time.Second) * float64(s.sampleRate))
	return s.skipFrames(skip)
}

func (s *wavSource) skipFrames(frames int) error {
	if frames <= 0 {
		return nil
	}
	scratch := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		Data:   make([]int, 4096*s.channels),
	}
	remaining := frames * s.channels
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

// Decode parses a RIFF/WAVE stream. Seeking (and therefore looped playback)
// needs random access, so r must implement io.ReadSeeker.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, ErrSeekerRequired
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &wavSource{
		rs:         rs,
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		scale:      1.0 / float32(int(1)<<(bitDepth-1)),
	}, nil
}
