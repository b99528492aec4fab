// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Conform builds a pipeline that delivers src at sampleRate with the given
// number of channels, so any decoded stream can be handed to an output that
// has a fixed format.
//
// The pipeline is built from the existing stages:
//  1. Multi-channel sources going to mono are mixed down first (MonoMixer)
//  2. Sources at a different rate are resampled (Resampler)
//  3. Mono sources going to N channels are duplicated last (ChannelDuplicator)
//
// A source that already matches is returned unchanged. Down-mixing to
// anything but mono, and up-mixing from anything but mono, are rejected with
// ErrUnsupportedLayout.
//
// Closing the returned Source closes src.
func Conform(src Source, sampleRate, channels int) (Source, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}

	out := src
	srcChannels := src.Channels()

	switch {
	case srcChannels == channels:
	case channels == 1:
		out = NewMonoMixer(out)
	case srcChannels == 1:
		// duplicated after resampling
	default:
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrUnsupportedLayout, srcChannels, channels)
	}

	if out.SampleRate() != sampleRate {
		out = NewResampler(out, sampleRate)
	}

	if out.Channels() != channels {
		out = NewChannelDuplicator(out, channels)
	}

	return out, nil
}
