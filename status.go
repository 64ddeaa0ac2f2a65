// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"sync"
	"time"
)

// Status is the playback state shared by every controllable entity.
type Status int

const (
	// StatusStopped is the initial state and re-enterable via Stop.
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
	// StatusError is absorbing until an explicit Reset.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// alreadyStopped is shared by every freshly constructed controller: a never
// played entity is stopped, so Wait on it returns immediately.
var alreadyStopped = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// controller is the playback state machine plus the entity lock and volume.
// Sound, Layer and Player embed it by composition; its mutex guards every
// mutable field of the embedding entity. The status is set before the hook
// runs so a concurrent reader never observes a stale status mid-transition,
// and hooks execute with the lock held, so they must be short and must not
// block on I/O.
type controller struct {
	mu      sync.Mutex
	status  Status
	volume  float64
	stopped chan struct{} // closed when status becomes Stopped or Error

	onPlay  func(from Status) error
	onPause func(from Status) error
	onStop  func(from Status) error
}

func (c *controller) init(volume float64) {
	c.status = StatusStopped
	c.volume = clampVolume(volume)
	c.stopped = alreadyStopped
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Status returns the current playback status.
func (c *controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetVolume stores the entity volume, clamped into [0,1]. Out-of-range values
// are clamped, never rejected.
func (c *controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = clampVolume(v)
}

// Volume returns the entity volume in [0,1].
func (c *controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// Play transitions Stopped/Paused entities into Playing. Playing again is a
// no-op returning nil.
func (c *controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

func (c *controller) playLocked() error {
	from := c.status
	switch from {
	case StatusError:
		return ErrFailedState
	case StatusPlaying:
		return nil
	}
	c.status = StatusPlaying
	// Resuming from Paused keeps the existing channel: waiters grabbed it
	// before the pause and must still see the eventual stop.
	if from == StatusStopped {
		c.stopped = make(chan struct{})
	}
	if c.onPlay != nil {
		if err := c.onPlay(from); err != nil {
			c.failLocked()
			return err
		}
	}
	return nil
}

// Pause transitions Playing into Paused. Pausing a paused entity is a no-op;
// pausing a stopped one fails with ErrIllegalTransition and leaves the status
// unchanged.
func (c *controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauseLocked()
}

func (c *controller) pauseLocked() error {
	from := c.status
	switch from {
	case StatusError:
		return ErrFailedState
	case StatusPaused:
		return nil
	case StatusStopped:
		return ErrIllegalTransition
	}
	c.status = StatusPaused
	if c.onPause != nil {
		if err := c.onPause(from); err != nil {
			c.failLocked()
			return err
		}
	}
	return nil
}

// Stop transitions any non-error state into Stopped. Stopping a stopped
// entity is a no-op returning nil.
func (c *controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *controller) stopLocked() error {
	from := c.status
	switch from {
	case StatusError:
		return ErrFailedState
	case StatusStopped:
		return nil
	}
	c.status = StatusStopped
	close(c.stopped)
	if c.onStop != nil {
		if err := c.onStop(from); err != nil {
			c.failLocked()
			return err
		}
	}
	return nil
}

// failLocked drives the entity into the absorbing error state.
func (c *controller) failLocked() {
	c.status = StatusError
	select {
	case <-c.stopped:
	default:
		close(c.stopped)
	}
}

// Reset clears the error state back to Stopped. On a non-errored entity it is
// a no-op.
func (c *controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusError {
		c.status = StatusStopped
	}
}

// Wait blocks until the entity becomes Stopped or Error, or timeout elapses.
// A timeout of zero or less waits indefinitely. Returns true if the entity
// stopped, false on timeout.
func (c *controller) Wait(timeout time.Duration) bool {
	c.mu.Lock()
	ch := c.stopped
	c.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
