package wav

import "errors"

var (
	ErrNotWavFile     = errors.New("not a WAV file")
	ErrSeekerRequired = errors.New("wav decoding requires an io.ReadSeeker")
	ErrNoPCMData      = errors.New("no PCM data in WAV file")
)
