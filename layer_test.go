// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"errors"
	"testing"
	"time"

	"github.com/sndmix/sndmix/audio"
	"github.com/sndmix/sndmix/internal/audiotest"
)

// quietLayer builds a layer whose background tick never fires during the
// test, so every scheduling pass comes from an explicit reconcile and the
// assertions stay deterministic.
func quietLayer(t *testing.T, lc LayerConfig) *Layer {
	t.Helper()
	lc.Tick = time.Hour
	l := NewLayer(testConfig(), lc)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func constantSound(value float32, frames int) *Sound {
	return NewSound(audiotest.NewConstantSource(1000, 1, frames, value), testConfig())
}

func TestLayerAdmitsUpToConcurrency(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 2})
	if err := l.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	a := constantSound(0.1, 1<<20)
	b := constantSound(0.1, 1<<20)
	c := constantSound(0.1, 1<<20)
	for _, s := range []*Sound{a, b, c} {
		if err := l.Enqueue(s); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	if got := l.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}
	if got := l.Waiting(); got != 1 {
		t.Errorf("Waiting() = %d, want 1", got)
	}
	if a.Status() != StatusPlaying || b.Status() != StatusPlaying {
		t.Error("first two sounds should be playing")
	}
	if c.Status() != StatusStopped {
		t.Errorf("queued sound status = %v, want stopped", c.Status())
	}
}

func TestLayerAdmitsWhenSlotFrees(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1})
	_ = l.Play()

	short := constantSound(0.5, 15)
	next := constantSound(0.5, 1<<20)
	_ = l.Enqueue(short)
	_ = l.Enqueue(next)

	if next.Status() != StatusStopped {
		t.Fatal("second sound admitted while slot busy")
	}

	// Drain the first sound to completion, then reconcile.
	dst := make([]float32, testConfig().SamplesPerChunk())
	for short.Status() == StatusPlaying {
		l.NextChunk(dst)
	}
	l.reconcile()

	if got := next.Status(); got != StatusPlaying {
		t.Errorf("next sound status after slot freed = %v, want playing", got)
	}
	if got := l.Active(); got != 1 {
		t.Errorf("Active() = %d, want 1", got)
	}
}

func TestLayerReplaceEvictsWithCrossfade(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{
		Concurrency: 1,
		Replace:     true,
		Crossfade:   20 * time.Millisecond,
		Curve:       audio.CurveLinear,
	})
	_ = l.Play()

	old := constantSound(0.25, 1<<20)
	_ = l.Enqueue(old)
	if old.Status() != StatusPlaying {
		t.Fatal("first sound not admitted")
	}

	replacement := constantSound(0.25, 1<<20)
	_ = l.Enqueue(replacement)

	// The old sound fades, the new one plays; both overlap in the mix.
	if !old.IsFading() {
		t.Error("evicted sound is not fading")
	}
	if replacement.Status() != StatusPlaying {
		t.Error("replacement not admitted")
	}
	if got := l.mix.Len(); got != 2 {
		t.Errorf("mix holds %d sources during crossfade, want 2", got)
	}

	// First overlap frame: old still at multiplier 1 plus the replacement.
	dst := make([]float32, testConfig().SamplesPerChunk())
	if !l.NextChunk(dst) {
		t.Fatal("NextChunk returned false")
	}
	if !floatNear(dst[0], 0.5) {
		t.Errorf("first overlap sample = %v, want 0.5", dst[0])
	}

	// 20ms at 1kHz is two chunks; after that the old sound has stopped.
	l.NextChunk(dst)
	if got := old.Status(); got != StatusStopped {
		t.Errorf("evicted sound status after fade = %v, want stopped", got)
	}

	l.reconcile()
	if got := l.mix.Len(); got != 1 {
		t.Errorf("mix holds %d sources after crossfade, want 1", got)
	}
}

func TestLayerReplaceWithoutFadeStopsImmediately(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1, Replace: true})
	_ = l.Play()

	old := constantSound(0.25, 1<<20)
	replacement := constantSound(0.25, 1<<20)
	_ = l.Enqueue(old)
	_ = l.Enqueue(replacement)

	if got := old.Status(); got != StatusStopped {
		t.Errorf("old sound status = %v, want stopped", got)
	}
	if got := replacement.Status(); got != StatusPlaying {
		t.Errorf("replacement status = %v, want playing", got)
	}
	if got := l.mix.Len(); got != 1 {
		t.Errorf("mix holds %d sources, want 1", got)
	}
}

func TestLayerEvictionOrderIsOldestFirst(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 2, Replace: true})
	_ = l.Play()

	first := constantSound(0.1, 1<<20)
	second := constantSound(0.1, 1<<20)
	third := constantSound(0.1, 1<<20)
	_ = l.Enqueue(first)
	_ = l.Enqueue(second)
	_ = l.Enqueue(third)

	if got := first.Status(); got != StatusStopped {
		t.Errorf("oldest sound status = %v, want stopped (evicted)", got)
	}
	if got := second.Status(); got != StatusPlaying {
		t.Errorf("second sound status = %v, want playing", got)
	}
	if got := third.Status(); got != StatusPlaying {
		t.Errorf("new sound status = %v, want playing", got)
	}
}

func TestLayerAppliesLoopAndFadeDefaults(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{
		Concurrency: 1,
		Loop:        3,
		FadeIn:      20 * time.Millisecond,
	})
	_ = l.Play()

	s := constantSound(0.5, 1<<20)
	_ = l.Enqueue(s)

	if got := s.LoopRemaining(); got != 3 {
		t.Errorf("LoopRemaining() = %d, want layer default 3", got)
	}
	if !s.IsFading() {
		t.Error("admitted sound missing layer default fade-in")
	}
}

func TestLayerSoundOverridesBeatDefaults(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1, Loop: 3})
	_ = l.Play()

	s := constantSound(0.5, 1<<20)
	s.SetLoop(-1)
	_ = l.Enqueue(s)

	if got := s.LoopRemaining(); got != -1 {
		t.Errorf("LoopRemaining() = %d, want the sound's own -1", got)
	}
}

func TestLayerPauseAndResumePropagate(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1})
	_ = l.Play()

	s := constantSound(0.5, 1<<20)
	_ = l.Enqueue(s)

	if err := l.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if got := s.Status(); got != StatusPaused {
		t.Errorf("sound status after layer pause = %v, want paused", got)
	}

	dst := make([]float32, testConfig().SamplesPerChunk())
	if l.NextChunk(dst) {
		t.Error("paused layer produced a chunk")
	}

	if err := l.Play(); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if got := s.Status(); got != StatusPlaying {
		t.Errorf("sound status after layer resume = %v, want playing", got)
	}
}

func TestLayerStopDropsEverything(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1})
	_ = l.Play()

	playing := constantSound(0.5, 1<<20)
	queued := constantSound(0.5, 1<<20)
	_ = l.Enqueue(playing)
	_ = l.Enqueue(queued)

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if got := playing.Status(); got != StatusStopped {
		t.Errorf("sound status after layer stop = %v, want stopped", got)
	}
	if l.Active() != 0 || l.Waiting() != 0 {
		t.Errorf("queues after stop = %d active, %d waiting, want empty", l.Active(), l.Waiting())
	}
}

func TestLayerVolumeScalesMix(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1, Volume: 0.5})
	_ = l.Play()
	_ = l.Enqueue(constantSound(0.5, 1<<20))

	dst := make([]float32, testConfig().SamplesPerChunk())
	if !l.NextChunk(dst) {
		t.Fatal("NextChunk returned false")
	}
	for i, v := range dst {
		if !floatNear(v, 0.25) {
			t.Fatalf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestLayerPrunesFailedSound(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 1})
	_ = l.Play()

	s := NewSound(audiotest.NewFailingSource(1000, 1, 0, errors.New("boom")), testConfig())
	_ = l.Enqueue(s)

	dst := make([]float32, testConfig().SamplesPerChunk())
	l.NextChunk(dst)
	if got := s.Status(); got != StatusError {
		t.Fatalf("sound status = %v, want error", got)
	}

	l.reconcile()
	if got := l.Active(); got != 0 {
		t.Errorf("Active() = %d after failure, want 0", got)
	}
	if got := l.mix.Len(); got != 0 {
		t.Errorf("mix holds %d sources after failure, want 0", got)
	}

	// The layer itself keeps playing; one bad file must not take the layer
	// down.
	if got := l.Status(); got != StatusPlaying {
		t.Errorf("layer status = %v, want playing", got)
	}
}

func TestLayerFadeOutAll(t *testing.T) {
	t.Parallel()

	l := quietLayer(t, LayerConfig{Concurrency: 2, FadeOut: 20 * time.Millisecond})
	_ = l.Play()

	a := constantSound(0.25, 1<<20)
	b := constantSound(0.25, 1<<20)
	_ = l.Enqueue(a)
	_ = l.Enqueue(b)

	l.FadeOutAll()
	if !a.IsFading() || !b.IsFading() {
		t.Fatal("FadeOutAll did not start fades")
	}
	if got := l.Active(); got != 0 {
		t.Errorf("Active() = %d during fade out, want 0", got)
	}

	dst := make([]float32, testConfig().SamplesPerChunk())
	l.NextChunk(dst)
	l.NextChunk(dst)
	if a.Status() != StatusStopped || b.Status() != StatusStopped {
		t.Error("sounds did not stop after fade out completed")
	}
}

func TestLayerBackgroundReconcile(t *testing.T) {
	t.Parallel()

	// With a short tick the layer admits without any explicit reconcile:
	// enqueue before Play, then wait for the ticker to pick it up.
	l := NewLayer(testConfig(), LayerConfig{Concurrency: 1, Tick: time.Millisecond})
	t.Cleanup(func() { _ = l.Close() })

	s := constantSound(0.5, 1<<20)
	if err := l.Enqueue(s); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := l.controller.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	deadline := time.After(time.Second)
	for s.Status() != StatusPlaying {
		select {
		case <-deadline:
			t.Fatal("ticker never admitted the queued sound")
		case <-time.After(time.Millisecond):
		}
	}
}
