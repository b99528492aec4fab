// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelDuplicator copies every sample of a mono source into each of
// channels output channels.
type ChannelDuplicator struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelDuplicator(src Source, channels int) *ChannelDuplicator {
	return &ChannelDuplicator{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

func (d *ChannelDuplicator) SampleRate() int { return d.src.SampleRate() }
func (d *ChannelDuplicator) Channels() int   { return d.channels }
func (d *ChannelDuplicator) BufSize() int    { return d.src.BufSize() * d.channels }
func (d *ChannelDuplicator) Close() error {
	err := d.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (d *ChannelDuplicator) ReadSamples(dst []float32) (int, error) {
	if len(dst)%d.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := len(dst) / d.channels
	if frames == 0 {
		return 0, nil
	}

	if cap(d.tmp) < frames {
		d.tmp = make([]float32, frames)
	}

	n, err := d.src.ReadSamples(d.tmp[:frames])
	if n == 0 {
		return 0, err
	}

	for f := range n {
		v := d.tmp[f]
		base := f * d.channels
		for c := range d.channels {
			dst[base+c] = v
		}
	}

	return n * d.channels, err
}
