// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// ChannelConverter adapts a Source to a different channel count: mono is
// duplicated across output channels, multi-channel input is averaged down to
// mono. It sits on the source side of the engine so that files whose channel
// layout differs from the mix Config can still be enqueued.
type ChannelConverter struct {
	src Source
	out int
	tmp []float32
}

// NewChannelConverter wraps src so it reads as channels-channel audio.
func NewChannelConverter(src Source, channels int) *ChannelConverter {
	if channels < 1 {
		channels = 1
	}
	return &ChannelConverter{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

func (c *ChannelConverter) SampleRate() int { return c.src.SampleRate() }
func (c *ChannelConverter) Channels() int   { return c.out }

func (c *ChannelConverter) Seek(pos time.Duration) error {
	if err := c.src.Seek(pos); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (c *ChannelConverter) Close() error {
	if err := c.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (c *ChannelConverter) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%c.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := c.src.Channels()
	if in == c.out {
		return c.src.ReadSamples(dst)
	}

	frames := len(dst) / c.out
	needed := frames * in

	// Grow tmp if needed, never shrink to avoid thrashing.
	if cap(c.tmp) < needed {
		newCap := needed
		if newCap < 8192 {
			newCap = 8192
		}
		c.tmp = make([]float32, newCap)
	}
	c.tmp = c.tmp[:needed]

	n, err := c.src.ReadSamples(c.tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case in == 1:
		// Duplicate mono across all output channels.
		for f := range frames {
			v := c.tmp[f]
			base := f * c.out
			for ch := range c.out {
				dst[base+ch] = v
			}
		}
	case c.out == 1 && in == 2:
		// Stereo downmix, the common case.
		for f := range frames {
			idx := f << 1
			dst[f] = (c.tmp[idx] + c.tmp[idx+1]) * 0.5
		}
	case c.out == 1:
		inv := float32(1.0) / float32(in)
		for f := range frames {
			sum := float32(0)
			base := f * in
			for ch := range in {
				sum += c.tmp[base+ch]
			}
			dst[f] = sum * inv
		}
	default:
		// Map each output channel to the matching input channel, repeating
		// the last input channel when the output is wider.
		for f := range frames {
			srcBase := f * in
			dstBase := f * c.out
			for ch := range c.out {
				s := ch
				if s >= in {
					s = in - 1
				}
				dst[dstBase+ch] = c.tmp[srcBase+s]
			}
		}
	}

	return frames * c.out, err
}
