// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// Curve selects the interpolation shape of a fade.
type Curve int

const (
	// CurveDefault is an alias for CurveSCurve, the zero value.
	CurveDefault Curve = iota
	CurveLinear
	// CurveExponential rises as progress², a smoother natural fade.
	CurveExponential
	// CurveLogarithmic is an equal-power sine window, best for crossfades.
	CurveLogarithmic
	// CurveSCurve is smoothstep (3p²-2p³), near-flat at both ends.
	CurveSCurve
)

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveExponential:
		return "exponential"
	case CurveLogarithmic:
		return "logarithmic"
	case CurveSCurve, CurveDefault:
		return "s-curve"
	}
	return "unknown"
}

// Direction of a fade.
type Direction int

const (
	FadeIn Direction = iota
	FadeOut
)

// CurveValue maps linear progress p in [0,1] onto the curve shape.
func CurveValue(c Curve, p float32) float32 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	switch c {
	case CurveLinear:
		return p
	case CurveExponential:
		return p * p
	case CurveLogarithmic:
		return float32(math.Sin(float64(p) * (math.Pi / 2)))
	}
	// s-curve (smoothstep)
	return p * p * (3 - 2*p)
}

// Envelope produces one volume multiplier per frame, interpolating start to
// target over a fixed number of frames along a Curve. It counts frames instead
// of wall-clock time, which keeps fades sample-accurate regardless of chunk
// cadence. The final fade frame yields target exactly, avoiding float drift.
type Envelope struct {
	curve  Curve
	dir    Direction
	start  float32
	target float32
	pos    int
	total  int
}

// NewEnvelope creates a fade from start to target over totalFrames frames.
// start and target are multipliers in [0,1]; totalFrames below 1 is treated
// as an instant fade of one frame.
func NewEnvelope(curve Curve, dir Direction, start, target float32, totalFrames int) *Envelope {
	if totalFrames < 1 {
		totalFrames = 1
	}
	return &Envelope{
		curve:  curve,
		dir:    dir,
		start:  clampUnit(start),
		target: clampUnit(target),
		total:  totalFrames,
	}
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (e *Envelope) Direction() Direction { return e.dir }
func (e *Envelope) Target() float32      { return e.target }

// Done reports whether the fade has run its full length.
func (e *Envelope) Done() bool { return e.pos >= e.total }

// Value is the multiplier the next frame will receive, without advancing.
// After completion it stays clamped at target. Replacing an active fade uses
// this as the new fade's starting point so the transition has no discontinuity.
func (e *Envelope) Value() float32 { return e.at(e.pos) }

func (e *Envelope) at(frame int) float32 {
	if e.total <= 1 || frame >= e.total-1 {
		return e.target
	}
	p := CurveValue(e.curve, float32(frame)/float32(e.total-1))
	return e.start + (e.target-e.start)*p
}

// Next returns the multiplier for the current frame and advances one frame.
func (e *Envelope) Next() float32 {
	v := e.at(e.pos)
	if e.pos < e.total {
		e.pos++
	}
	return v
}

// Apply multiplies dst (interleaved samples, channels per frame) by gain times
// the per-frame envelope value, advancing the envelope by len(dst)/channels
// frames. Frames past the fade's end receive target exactly.
func (e *Envelope) Apply(dst []float32, channels int, gain float32) {
	if channels < 1 {
		channels = 1
	}
	frames := len(dst) / channels
	for f := range frames {
		m := e.Next() * gain
		base := f * channels
		for c := range channels {
			dst[base+c] *= m
		}
	}
}
