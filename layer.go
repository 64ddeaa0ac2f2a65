// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"context"
	"time"

	"github.com/sndmix/sndmix/audio"
)

// DefaultTick is the interval at which a layer reconciles its queues when no
// explicit tick is configured.
const DefaultTick = 100 * time.Millisecond

// LayerConfig declares a layer's scheduling policy. The zero value gives a
// single-slot, non-replacing layer at full volume with no fades.
type LayerConfig struct {
	// Concurrency is the number of sounds allowed to play at once. Values
	// below 1 are treated as 1.
	Concurrency int

	// Replace makes a full layer evict its oldest playing sounds to admit
	// queued ones. Without it queued sounds wait for a free slot.
	Replace bool

	// Loop is the default traversal count applied to sounds that never
	// declared their own: -1 loops forever, 0 leaves sounds untouched.
	Loop int

	// FadeIn is applied to every admitted sound that did not declare its own.
	FadeIn time.Duration

	// FadeOut is the default eviction fade when Crossfade is zero, and the
	// fade used by FadeOutAll.
	FadeOut time.Duration

	// Crossfade, when set, is the eviction fade on replacement: the evicted
	// sound fades out over this duration while its replacement plays in.
	Crossfade time.Duration

	// Curve shapes the layer's default fades.
	Curve audio.Curve

	// Volume is the layer gain in [0, 1]. Zero means full volume, so the
	// zero config stays usable.
	Volume float64

	// Tick overrides the reconciliation interval. Zero means DefaultTick.
	Tick time.Duration
}

// Layer owns an ordered queue of sounds and plays up to Concurrency of them
// at once through its own mixer. A background goroutine reconciles the queues
// every tick: finished sounds are pruned, evictions are started and waiting
// sounds admitted. Layers nest into a Player's master mix as ChunkSources.
type Layer struct {
	controller

	cfg audio.Config
	mix *Mixer

	concurrency int
	replace     bool
	loop        int
	fadeIn      time.Duration
	fadeOut     time.Duration
	crossfade   time.Duration
	curve       audio.Curve
	tick        time.Duration

	waiting   []*Sound
	active    []*Sound
	fadingOut []*Sound

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewLayer builds a standalone layer producing chunks in cfg's format. Layers
// inside a Player are created with Player.CreateLayer instead.
func NewLayer(cfg audio.Config, lc LayerConfig) *Layer {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Layer{
		cfg:         cfg,
		mix:         NewMixer(cfg),
		concurrency: lc.Concurrency,
		replace:     lc.Replace,
		loop:        lc.Loop,
		fadeIn:      lc.FadeIn,
		fadeOut:     lc.FadeOut,
		crossfade:   lc.Crossfade,
		curve:       lc.Curve,
		tick:        lc.Tick,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	if l.concurrency < 1 {
		l.concurrency = 1
	}
	if l.tick <= 0 {
		l.tick = DefaultTick
	}
	vol := lc.Volume
	if vol == 0 {
		vol = 1
	}
	l.controller.init(vol)
	l.onPlay = l.playHook
	l.onPause = l.pauseHook
	l.onStop = l.stopHook
	return l
}

// playHook runs under the layer lock: it spins up the reconciliation
// goroutine on first play and resumes any paused sounds.
func (l *Layer) playHook(Status) error {
	if !l.started {
		l.started = true
		go l.run()
	}
	// Resume paused sounds only; stopped ones are pruned next reconcile
	// rather than restarted.
	for _, s := range l.active {
		if s.Status() == StatusPaused {
			_ = s.Play()
		}
	}
	for _, s := range l.fadingOut {
		if s.Status() == StatusPaused {
			_ = s.Play()
		}
	}
	return nil
}

func (l *Layer) pauseHook(Status) error {
	for _, s := range l.active {
		_ = s.Pause()
	}
	for _, s := range l.fadingOut {
		_ = s.Pause()
	}
	return nil
}

func (l *Layer) stopHook(Status) error {
	l.clearLocked()
	return nil
}

// Play starts the layer and immediately reconciles, so the head of the queue
// is audible without waiting for the next tick.
func (l *Layer) Play() error {
	if err := l.controller.Play(); err != nil {
		return err
	}
	l.reconcile()
	return nil
}

func (l *Layer) run() {
	defer close(l.done)
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			if l.Status() == StatusPlaying {
				l.reconcile()
			}
		}
	}
}

// Enqueue appends s to the waiting queue. If the layer is playing the queues
// are reconciled at once, so an enqueue into a free slot starts immediately.
func (l *Layer) Enqueue(s *Sound) error {
	l.mu.Lock()
	if l.status == StatusError {
		l.mu.Unlock()
		return ErrFailedState
	}
	l.waiting = append(l.waiting, s)
	playing := l.status == StatusPlaying
	l.mu.Unlock()

	if playing {
		l.reconcile()
	}
	return nil
}

// EnqueueWithFade enqueues s with one-off fade durations. A negative duration
// keeps the layer default for that direction.
func (l *Layer) EnqueueWithFade(s *Sound, fadeIn, fadeOut time.Duration) error {
	if fadeIn >= 0 {
		s.SetFadeIn(fadeIn)
	}
	if fadeOut >= 0 {
		s.SetFadeOut(fadeOut)
	}
	return l.Enqueue(s)
}

// reconcile is the layer's scheduling pass: prune finished sounds, evict for
// replacement, admit from the waiting queue. It runs on every tick, on Play
// and on Enqueue.
func (l *Layer) reconcile() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != StatusPlaying {
		return
	}

	l.pruneLocked()
	l.evictLocked()
	l.admitLocked()
}

func (l *Layer) pruneLocked() {
	kept := l.active[:0]
	for _, s := range l.active {
		switch s.Status() {
		case StatusPlaying, StatusPaused:
			kept = append(kept, s)
		default:
			l.mix.Remove(s)
		}
	}
	l.active = kept

	keptOut := l.fadingOut[:0]
	for _, s := range l.fadingOut {
		st := s.Status()
		if (st == StatusPlaying || st == StatusPaused) && s.IsFading() {
			keptOut = append(keptOut, s)
			continue
		}
		if st == StatusPlaying || st == StatusPaused {
			_ = s.Stop()
		}
		l.mix.Remove(s)
	}
	l.fadingOut = keptOut
}

// evictLocked starts fade-outs on the oldest active sounds when replacement
// is on and the waiting queue would otherwise not fit. A sound fading out
// stays in the mix, overlapping its replacement for the fade duration.
func (l *Layer) evictLocked() {
	if !l.replace || len(l.waiting) == 0 {
		return
	}
	need := len(l.active) + len(l.waiting) - l.concurrency
	if need <= 0 {
		return
	}
	if need > len(l.active) {
		need = len(l.active)
	}

	def := l.crossfade
	if def <= 0 {
		def = l.fadeOut
	}
	for _, s := range l.active[:need] {
		if d := s.fadeOutFor(def); d > 0 {
			if err := s.FadeOut(d); err == nil {
				l.fadingOut = append(l.fadingOut, s)
				continue
			}
		}
		_ = s.Stop()
		l.mix.Remove(s)
	}
	l.active = append(l.active[:0], l.active[need:]...)
}

func (l *Layer) admitLocked() {
	for len(l.active) < l.concurrency && len(l.waiting) > 0 {
		s := l.waiting[0]
		l.waiting = l.waiting[1:]

		s.applyDefaults(l.loop, l.curve)
		if err := s.Play(); err != nil {
			continue
		}
		if d := s.fadeInFor(l.fadeIn); d > 0 {
			_ = s.FadeIn(d)
		}
		l.active = append(l.active, s)
		l.mix.Add(s)
	}
}

// FadeOutAll starts the layer's default fade-out on every active sound. The
// sounds stop themselves when their fades complete.
func (l *Layer) FadeOutAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.active {
		if d := s.fadeOutFor(l.fadeOut); d > 0 {
			if err := s.FadeOut(d); err == nil {
				l.fadingOut = append(l.fadingOut, s)
				continue
			}
		}
		_ = s.Stop()
		l.mix.Remove(s)
	}
	l.active = l.active[:0]
}

// Clear stops and drops every queued and playing sound without changing the
// layer's own status.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

func (l *Layer) clearLocked() error {
	for _, s := range l.active {
		if st := s.Status(); st == StatusPlaying || st == StatusPaused {
			_ = s.Stop()
		}
	}
	for _, s := range l.fadingOut {
		if st := s.Status(); st == StatusPlaying || st == StatusPaused {
			_ = s.Stop()
		}
	}
	l.active = nil
	l.fadingOut = nil
	l.waiting = nil
	l.mix.Clear()
	return nil
}

// SetConcurrency changes the number of simultaneous sounds. Shrinking does
// not evict already playing sounds; they drain naturally.
func (l *Layer) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.concurrency = n
}

func (l *Layer) SetReplace(replace bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replace = replace
}

func (l *Layer) SetLoop(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loop = n
}

func (l *Layer) SetFadeIn(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fadeIn = d
}

func (l *Layer) SetFadeOut(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fadeOut = d
}

func (l *Layer) SetCrossfade(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.crossfade = d
}

func (l *Layer) SetFadeCurve(c audio.Curve) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.curve = c
}

// Waiting reports the number of sounds queued for admission.
func (l *Layer) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiting)
}

// Active reports the number of sounds in playing slots, fading ones excluded.
func (l *Layer) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// NextChunk mixes one chunk from the layer's sounds, scaled by the layer
// volume. A stopped or paused layer yields silence and returns false.
func (l *Layer) NextChunk(dst []float32) bool {
	if l.Status() != StatusPlaying {
		zero(dst)
		return false
	}
	l.mix.ReadChunk(dst, l.Volume())
	return true
}

// Close stops the layer, drops its sounds and joins the reconciliation
// goroutine.
func (l *Layer) Close() error {
	l.mu.Lock()
	switch l.status {
	case StatusPlaying, StatusPaused:
		_ = l.stopLocked()
	case StatusError:
		_ = l.clearLocked()
	}
	started := l.started
	l.mu.Unlock()

	l.cancel()
	if started {
		<-l.done
	}
	return nil
}
