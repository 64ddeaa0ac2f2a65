// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"fmt"
	"io"
	"time"

	"github.com/sndmix/sndmix/audio"
)

// Sound wraps a decoded PCM stream with playback state, loop counting and
// sample-accurate fades. A Sound is created by the caller, handed to a Layer
// via Enqueue, and owned by that layer until it finishes, is stopped, or is
// evicted.
type Sound struct {
	controller

	src audio.Source
	cfg audio.Config

	// loop counts remaining stream traversals: -1 plays forever, N stops on
	// the Nth completion. loopTotal keeps the declared value for replays.
	loop      int
	loopTotal int
	loopSet   bool

	curve    audio.Curve
	curveSet bool

	fade       *audio.Envelope
	fadeIn     time.Duration
	fadeInSet  bool
	fadeOut    time.Duration
	fadeOutSet bool

	needRewind bool
	onEnd      func()
	err        error
}

// NewSound wraps src, which must already match cfg (see audio.MatchConfig).
func NewSound(src audio.Source, cfg audio.Config) *Sound {
	s := &Sound{
		src:       src,
		cfg:       cfg,
		loop:      1,
		loopTotal: 1,
		curve:     audio.CurveDefault,
	}
	s.controller.init(1.0)
	s.onPlay = s.playHook
	s.onStop = s.stopHook
	return s
}

// playHook runs under the sound lock. A play from Stopped restarts the
// stream; the actual decoder rewind is deferred to the next chunk pull so the
// hook itself never touches I/O.
func (s *Sound) playHook(from Status) error {
	if from == StatusStopped {
		s.needRewind = true
		s.loop = s.loopTotal
	}
	return nil
}

func (s *Sound) stopHook(Status) error {
	s.fade = nil
	return nil
}

// Config returns the PCM format the sound produces chunks in.
func (s *Sound) Config() audio.Config { return s.cfg }

// SetLoop declares how many full stream traversals to play: -1 loops forever,
// N stops on the Nth completion. Sounds default to a single traversal.
func (s *Sound) SetLoop(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLoopLocked(n)
	s.loopSet = true
}

func (s *Sound) setLoopLocked(n int) {
	if n == 0 || n < -1 {
		n = 1
	}
	s.loop = n
	s.loopTotal = n
}

// LoopRemaining reports how many traversals are left, -1 for infinite.
func (s *Sound) LoopRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// SetFadeCurve declares the curve shape used by this sound's fades.
func (s *Sound) SetFadeCurve(c audio.Curve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curve = c
	s.curveSet = true
}

// SetFadeIn declares the fade-in applied when the sound is admitted into a
// layer, overriding the layer default.
func (s *Sound) SetFadeIn(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fadeIn = d
	s.fadeInSet = true
}

// SetFadeOut declares the fade-out used when the sound is evicted or faded
// out by its layer, overriding the layer default.
func (s *Sound) SetFadeOut(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fadeOut = d
	s.fadeOutSet = true
}

// SetOnEnd registers a callback fired (on its own goroutine) when the sound
// finishes naturally, either by exhausting its loops or completing a fade-out
// to silence. Explicit Stop calls do not fire it.
func (s *Sound) SetOnEnd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// Err returns the decoder error that drove the sound into StatusError, if any.
func (s *Sound) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FadeIn starts a fade from silence (or from the current multiplier if a fade
// is active) up to full volume over d. Starting a new fade replaces any
// active one; fades never stack.
func (s *Sound) FadeIn(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusError {
		return ErrFailedState
	}
	s.beginFadeLocked(audio.FadeIn, d)
	return nil
}

// FadeOut starts a fade from the current multiplier down to silence over d.
// When it completes the sound stops itself.
func (s *Sound) FadeOut(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusError {
		return ErrFailedState
	}
	s.beginFadeLocked(audio.FadeOut, d)
	return nil
}

func (s *Sound) beginFadeLocked(dir audio.Direction, d time.Duration) {
	frames := s.cfg.DurationToFrames(d)
	// A replaced fade starts from the multiplier it was interrupted at, so
	// the transition has no audible discontinuity.
	start := float32(1)
	if s.fade != nil {
		start = s.fade.Value()
	} else if dir == audio.FadeIn {
		start = 0
	}
	target := float32(1)
	if dir == audio.FadeOut {
		target = 0
	}
	s.fade = audio.NewEnvelope(s.curve, dir, start, target, frames)
}

// IsFading reports whether a fade is currently in progress.
func (s *Sound) IsFading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fade != nil
}

// Seek moves the stream position. Any in-flight fade is discarded since its
// sample basis no longer applies.
func (s *Sound) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusError {
		return ErrFailedState
	}
	if err := s.src.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	s.fade = nil
	s.needRewind = false
	return nil
}

// Close stops the sound and releases the underlying source.
func (s *Sound) Close() error {
	s.mu.Lock()
	if s.status == StatusPlaying || s.status == StatusPaused {
		_ = s.stopLocked()
	}
	s.mu.Unlock()
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// NextChunk fills dst with fade- and volume-adjusted samples. It returns
// false when the sound is not playing or its decoder failed, in which case
// dst holds silence and the caller mixes nothing. This is the pull side the
// Mixer drives each tick.
func (s *Sound) NextChunk(dst []float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		zero(dst)
		return false
	}

	if s.needRewind {
		if err := s.src.Seek(0); err != nil {
			s.failWith(err)
			zero(dst)
			return false
		}
		s.needRewind = false
	}

	filled, ok := s.fillLocked(dst)
	if !ok {
		zero(dst)
		return false
	}
	zero(dst[filled:])

	gain := float32(s.volume)
	if s.fade != nil {
		s.fade.Apply(dst, s.cfg.Channels, gain)
		if s.fade.Done() {
			done := s.fade
			s.fade = nil
			if done.Direction() == audio.FadeOut && done.Target() == 0 {
				s.finishLocked()
			}
		}
	} else if gain != 1 {
		for i := range dst {
			dst[i] *= gain
		}
	}

	return true
}

// fillLocked reads raw samples from the decoder, looping across stream ends
// until dst is full or the sound finishes. Returns the number of samples
// written and false on decoder failure.
func (s *Sound) fillLocked(dst []float32) (int, bool) {
	filled := 0
	empty := 0
	for filled < len(dst) {
		n, err := s.src.ReadSamples(dst[filled:])
		filled += n

		if err != nil && err != io.EOF {
			s.failWith(err)
			return 0, false
		}

		if err == io.EOF || n == 0 {
			if n == 0 {
				empty++
				// A source that yields nothing even after a rewind is
				// done, looping or not.
				if empty > 1 {
					s.finishLocked()
					break
				}
			} else {
				empty = 0
			}
			// One full traversal completed.
			if s.loop > 0 {
				s.loop--
			}
			if s.loop == 0 {
				s.finishLocked()
				break
			}
			if serr := s.src.Seek(0); serr != nil {
				s.failWith(serr)
				return 0, false
			}
		}
	}
	return filled, true
}

// finishLocked is the natural end of playback: loop exhaustion or a completed
// fade-out to silence.
func (s *Sound) finishLocked() {
	_ = s.stopLocked()
	if s.onEnd != nil {
		go s.onEnd()
	}
}

func (s *Sound) failWith(err error) {
	s.err = fmt.Errorf("decode: %w", err)
	s.failLocked()
}

// fadeInFor resolves the effective fade-in duration given a layer default.
func (s *Sound) fadeInFor(layerDefault time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fadeInSet {
		return s.fadeIn
	}
	return layerDefault
}

// fadeOutFor resolves the effective eviction fade given a layer default.
func (s *Sound) fadeOutFor(layerDefault time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fadeOutSet {
		return s.fadeOut
	}
	return layerDefault
}

// applyDefaults copies layer defaults onto settings the caller never declared.
func (s *Sound) applyDefaults(loop int, curve audio.Curve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loopSet && loop != 0 {
		s.setLoopLocked(loop)
	}
	if !s.curveSet && curve != audio.CurveDefault {
		s.curve = curve
	}
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
