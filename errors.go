// SPDX-License-Identifier: EPL-2.0

package sndmix

import "errors"

var (
	// ErrIllegalTransition is returned for a play/pause/stop call that is not
	// legal from the current status (e.g. pausing a stopped entity). No-op
	// transitions into the state an entity is already in succeed instead.
	ErrIllegalTransition = errors.New("illegal playback state transition")
	// ErrFailedState is returned for any control operation on an entity that
	// entered the error state and has not been Reset.
	ErrFailedState = errors.New("entity is in failed state")
	// ErrDuplicateLayer is returned by CreateLayer without force when the id
	// is taken.
	ErrDuplicateLayer = errors.New("layer id already exists")
	// ErrUnknownLayer is returned for operations addressing an unregistered
	// layer id.
	ErrUnknownLayer = errors.New("unknown layer id")
	// ErrUnknownFormat is returned by Open for unrecognized file extensions.
	ErrUnknownFormat = errors.New("unknown audio format")
)
