// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
	"time"
)

// Source is a decoded PCM stream the engine pulls frames from.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with
	// err == io.EOF, the stream is finished. A Source must stay safe to call
	// after EOF; a Seek back into the stream restarts reading.
	ReadSamples(dst []float32) (n int, err error)

	// Seek moves the read position. Seek(0) after io.EOF rewinds the stream,
	// which is how looping playback restarts a finished source.
	Seek(pos time.Duration) error

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader. Decoders that need random
// access (seeking, loop rewinds) require r to also implement io.Seeker.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

type closerSource struct {
	Source
	c io.Closer
}

func (s *closerSource) Close() error {
	err := s.Source.Close()
	if cerr := s.c.Close(); err == nil {
		err = cerr
	}
	return err
}

// WithCloser returns a Source that also closes c (typically the backing file)
// when the Source is closed.
func WithCloser(src Source, c io.Closer) Source {
	return &closerSource{Source: src, c: c}
}
