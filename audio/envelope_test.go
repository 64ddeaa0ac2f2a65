// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestCurveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		curve Curve
		p     float32
		want  float32
	}{
		{name: "linear midpoint", curve: CurveLinear, p: 0.5, want: 0.5},
		{name: "linear quarter", curve: CurveLinear, p: 0.25, want: 0.25},
		{name: "exponential midpoint", curve: CurveExponential, p: 0.5, want: 0.25},
		{name: "logarithmic midpoint", curve: CurveLogarithmic, p: 0.5, want: float32(math.Sqrt2 / 2)},
		{name: "s-curve midpoint", curve: CurveSCurve, p: 0.5, want: 0.5},
		{name: "s-curve quarter", curve: CurveSCurve, p: 0.25, want: 0.15625},
		{name: "default is s-curve", curve: CurveDefault, p: 0.25, want: 0.15625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CurveValue(tt.curve, tt.p); !approxEqual(got, tt.want, 1e-6) {
				t.Errorf("CurveValue(%v, %v) = %v, want %v", tt.curve, tt.p, got, tt.want)
			}
		})
	}
}

func TestCurveValueEndpoints(t *testing.T) {
	t.Parallel()

	for _, c := range []Curve{CurveDefault, CurveLinear, CurveExponential, CurveLogarithmic, CurveSCurve} {
		if got := CurveValue(c, 0); got != 0 {
			t.Errorf("CurveValue(%v, 0) = %v, want 0", c, got)
		}
		if got := CurveValue(c, 1); got != 1 {
			t.Errorf("CurveValue(%v, 1) = %v, want 1", c, got)
		}
		if got := CurveValue(c, -0.5); got != 0 {
			t.Errorf("CurveValue(%v, -0.5) = %v, want 0", c, got)
		}
		if got := CurveValue(c, 1.5); got != 1 {
			t.Errorf("CurveValue(%v, 1.5) = %v, want 1", c, got)
		}
	}
}

func TestEnvelopeReachesTargetExactly(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveLinear, FadeIn, 0, 1, 10)

	var last float32
	for range 10 {
		last = e.Next()
	}
	if last != 1 {
		t.Errorf("final fade frame = %v, want exactly 1", last)
	}
	if !e.Done() {
		t.Error("envelope not done after total frames")
	}
	// Past the end the multiplier holds at target.
	if got := e.Next(); got != 1 {
		t.Errorf("post-completion frame = %v, want 1", got)
	}
}

func TestEnvelopeFadeOut(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveLinear, FadeOut, 1, 0, 5)

	first := e.Next()
	if first != 1 {
		t.Errorf("first fade-out frame = %v, want 1", first)
	}
	var last float32
	for !e.Done() {
		last = e.Next()
	}
	if last != 0 {
		t.Errorf("final fade-out frame = %v, want exactly 0", last)
	}
	if e.Direction() != FadeOut || e.Target() != 0 {
		t.Errorf("direction/target = %v/%v, want FadeOut/0", e.Direction(), e.Target())
	}
}

func TestEnvelopeMonotonicity(t *testing.T) {
	t.Parallel()

	for _, c := range []Curve{CurveLinear, CurveExponential, CurveLogarithmic, CurveSCurve} {
		e := NewEnvelope(c, FadeIn, 0, 1, 100)
		prev := float32(-1)
		for !e.Done() {
			v := e.Next()
			if v < prev {
				t.Errorf("curve %v: fade-in not monotonic: %v after %v", c, v, prev)
				break
			}
			prev = v
		}
	}
}

func TestEnvelopeValueForReplacement(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveLinear, FadeIn, 0, 1, 11)
	for range 5 {
		e.Next()
	}
	// Halfway through an 11-frame linear fade the multiplier is 0.5; a
	// replacing fade starts there.
	if got := e.Value(); !approxEqual(got, 0.5, 1e-6) {
		t.Errorf("Value() mid-fade = %v, want 0.5", got)
	}

	replacement := NewEnvelope(CurveLinear, FadeOut, e.Value(), 0, 10)
	if got := replacement.Next(); !approxEqual(got, 0.5, 1e-6) {
		t.Errorf("replacement starts at %v, want 0.5", got)
	}
}

func TestEnvelopeInstant(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveSCurve, FadeOut, 1, 0, 0)
	if got := e.Next(); got != 0 {
		t.Errorf("instant fade first frame = %v, want 0", got)
	}
	if !e.Done() {
		t.Error("instant fade not done after one frame")
	}
}

func TestEnvelopeApplyInterleaved(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveLinear, FadeIn, 0, 1, 3)
	dst := []float32{1, 1, 1, 1, 1, 1} // 3 stereo frames
	e.Apply(dst, 2, 1)

	// Frames get multipliers 0, 0.5, 1; both channels of a frame match.
	want := []float32{0, 0, 0.5, 0.5, 1, 1}
	for i := range want {
		if !approxEqual(dst[i], want[i], 1e-6) {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestEnvelopeApplyGain(t *testing.T) {
	t.Parallel()

	e := NewEnvelope(CurveLinear, FadeIn, 1, 1, 1)
	dst := []float32{1, -1, 0.5, -0.5}
	e.Apply(dst, 2, 0.5)

	want := []float32{0.5, -0.5, 0.25, -0.25}
	for i := range want {
		if !approxEqual(dst[i], want[i], 1e-6) {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestEnvelopeSpansChunks(t *testing.T) {
	t.Parallel()

	// The same 10-frame fade applied in two 5-frame chunks must equal one
	// 10-frame application; envelopes count frames, not calls.
	whole := NewEnvelope(CurveSCurve, FadeIn, 0, 1, 10)
	split := NewEnvelope(CurveSCurve, FadeIn, 0, 1, 10)

	a := make([]float32, 10)
	b := make([]float32, 10)
	for i := range a {
		a[i] = 1
		b[i] = 1
	}

	whole.Apply(a, 1, 1)
	split.Apply(b[:5], 1, 1)
	split.Apply(b[5:], 1, 1)

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("frame %d: whole %v != split %v", i, a[i], b[i])
		}
	}
}
