// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sndmix/sndmix/audio"
	"github.com/sndmix/sndmix/formats/aiff"
	"github.com/sndmix/sndmix/formats/mp3"
	"github.com/sndmix/sndmix/formats/vorbis"
	"github.com/sndmix/sndmix/formats/wav"
)

// DefaultRegistry holds the decoders Open resolves file extensions against.
// Additional formats can be registered under their extension key.
var DefaultRegistry = audio.NewRegistry()

func init() {
	DefaultRegistry.Register("wav", wav.Decoder{})
	DefaultRegistry.Register("mp3", mp3.Decoder{})
	DefaultRegistry.Register("ogg", vorbis.Decoder{})
	DefaultRegistry.Register("aiff", aiff.Decoder{})
	DefaultRegistry.Register("aif", aiff.Decoder{})
}

// Open loads an audio file into a Sound producing chunks in cfg's format. The
// decoder is picked by file extension; the source is resampled and channel
// converted as needed, and the backing file is closed with the Sound.
func Open(path string, cfg audio.Config) (*Sound, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	dec, ok := DefaultRegistry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	src = audio.WithCloser(src, f)
	return NewSound(audio.MatchConfig(src, cfg), cfg), nil
}
