// SPDX-License-Identifier: EPL-2.0

package sndmix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sndmix/sndmix/audio"
)

// Player is the top of the hierarchy: a set of named layers mixed into one
// master stream under a master volume. Sinks pull the stream with NextChunk.
type Player struct {
	controller

	cfg    audio.Config
	mix    *Mixer
	layers map[string]*Layer
}

// NewPlayer builds a player producing chunks in cfg's format.
func NewPlayer(cfg audio.Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	p := &Player{
		cfg:    cfg,
		mix:    NewMixer(cfg),
		layers: make(map[string]*Layer),
	}
	p.controller.init(1.0)
	p.onPlay = p.playHook
	p.onPause = p.pauseHook
	p.onStop = p.stopHook
	return p, nil
}

// Config returns the PCM format the player produces chunks in.
func (p *Player) Config() audio.Config { return p.cfg }

// CreateLayer registers a new named layer. An existing id is an error unless
// force is set, which closes and replaces the old layer.
func (p *Player) CreateLayer(id string, lc LayerConfig, force bool) (*Layer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.layers[id]; ok {
		if !force {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, id)
		}
		p.mix.Remove(old)
		_ = old.Close()
	}

	l := NewLayer(p.cfg, lc)
	p.layers[id] = l
	p.mix.Add(l)

	// A new layer inherits the player's current transport state.
	switch p.status {
	case StatusPlaying:
		_ = l.Play()
	case StatusPaused:
		_ = l.Play()
		_ = l.Pause()
	}
	return l, nil
}

// DeleteLayer closes a layer and removes it from the mix.
func (p *Player) DeleteLayer(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.layers[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	p.mix.Remove(l)
	delete(p.layers, id)
	return l.Close()
}

// Layer looks up a layer by id.
func (p *Player) Layer(id string) (*Layer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.layers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	return l, nil
}

// Layers returns the registered layer ids in sorted order.
func (p *Player) Layers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.layers))
	for id := range p.layers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Enqueue queues s on the named layer.
func (p *Player) Enqueue(s *Sound, layerID string) error {
	l, err := p.Layer(layerID)
	if err != nil {
		return err
	}
	return l.Enqueue(s)
}

func (p *Player) playHook(Status) error {
	var errs []error
	for _, l := range p.layers {
		if err := l.Play(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Player) pauseHook(Status) error {
	for _, l := range p.layers {
		if st := l.Status(); st == StatusPlaying {
			_ = l.Pause()
		}
	}
	return nil
}

func (p *Player) stopHook(Status) error {
	for _, l := range p.layers {
		if st := l.Status(); st == StatusPlaying || st == StatusPaused {
			_ = l.Stop()
		}
	}
	return nil
}

// PlayLayer starts a single layer without touching the rest.
func (p *Player) PlayLayer(id string) error {
	l, err := p.Layer(id)
	if err != nil {
		return err
	}
	return l.Play()
}

// PauseLayer pauses a single layer.
func (p *Player) PauseLayer(id string) error {
	l, err := p.Layer(id)
	if err != nil {
		return err
	}
	return l.Pause()
}

// StopLayer stops a single layer, dropping its queued sounds.
func (p *Player) StopLayer(id string) error {
	l, err := p.Layer(id)
	if err != nil {
		return err
	}
	return l.Stop()
}

// ClearLayer drops a layer's sounds without changing its status.
func (p *Player) ClearLayer(id string) error {
	l, err := p.Layer(id)
	if err != nil {
		return err
	}
	l.Clear()
	return nil
}

// Clear drops every layer's sounds.
func (p *Player) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.layers {
		l.Clear()
	}
}

// NextChunk mixes one master chunk from all playing layers, scaled by the
// master volume. A stopped or paused player yields silence and returns false.
func (p *Player) NextChunk(dst []float32) bool {
	if p.Status() != StatusPlaying {
		zero(dst)
		return false
	}
	p.mix.ReadChunk(dst, p.Volume())
	return true
}

// Close stops the player and closes every layer.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == StatusPlaying || p.status == StatusPaused {
		_ = p.stopLocked()
	}
	var errs []error
	for id, l := range p.layers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("layer %q: %w", id, err))
		}
		delete(p.layers, id)
	}
	p.mix.Clear()
	return errors.Join(errs...)
}
