package aiff

import "errors"

var (
	ErrNotAiffFile    = errors.New("not an AIFF file")
	ErrSeekerRequired = errors.New("aiff decoding requires an io.ReadSeeker")
)
