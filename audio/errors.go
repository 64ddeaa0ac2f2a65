// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize     = errors.New("dst size must be multiple of channels")
	ErrInvalidSampleRate  = errors.New("sample rate must be positive")
	ErrInvalidChannels    = errors.New("channels must be 1 or 2")
	ErrInvalidSampleWidth = errors.New("sample width must be 2 or 4 bytes")
	ErrInvalidFrameSize   = errors.New("frame size must be positive")
)
