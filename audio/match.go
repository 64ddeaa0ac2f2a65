// SPDX-License-Identifier: EPL-2.0

package audio

// MatchConfig wraps src with whatever adapters are needed so it reads at the
// Config's sample rate and channel count. Sources that already match are
// returned untouched. The mix core never converts; adapting at the boundary
// keeps the "one format per Player" invariant cheap to hold.
func MatchConfig(src Source, cfg Config) Source {
	if src.SampleRate() != cfg.SampleRate {
		src = NewResampler(src, cfg.SampleRate)
	}
	if src.Channels() != cfg.Channels {
		src = NewChannelConverter(src, cfg.Channels)
	}
	return src
}
