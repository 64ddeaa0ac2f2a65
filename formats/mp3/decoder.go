// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/sndmix/sndmix/audio"
	"github.com/sndmix/sndmix/pcm"
)

// mp3Reader is the slice of gomp3.Decoder the source needs, split out so
// tests can substitute a mock.
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }

// go-mp3 always outputs stereo.
func (s *source) Channels() int { return 2 }

func (s *source) Close() error { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// go-mp3 outputs 16-bit little-endian interleaved PCM, 2 bytes a sample.
	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	samples := n / 2
	pcm.DecodeInt16LE(dst[:samples], s.buf)

	if err == io.EOF {
		err = nil
	}
	return samples, err
}

// Seek positions the stream by byte offset into the decoded output: go-mp3
// frames are a fixed 4 bytes (16-bit stereo), so the offset is frame-exact.
func (s *source) Seek(pos time.Duration) error {
	frame := int64(float64(pos) / float64(time.Second) * float64(s.sampleRate))
	if _, err := s.dec.Seek(frame*4, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

type Decoder struct{}

// Decode parses an MP3 stream. go-mp3 requires an io.ReadSeeker for frame
// sync, so r must provide one for seeking to work.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
