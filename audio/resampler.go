// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/mp3play/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves the channel
// count. A one-pole low-pass filter is applied to incoming frames when
// downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window holds four consecutive source frames: t-1, t0, t+1, t+2.
	// Output frames are interpolated between window[1] and window[2].
	window [4][]float32
	valid  [4]bool
	pos    float64
	primed bool
	eof    bool

	frame []float32

	lowPass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		frame:    make([]float32, channels),
		lowPass:  step > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads exactly one source frame into dst.
// It reports false when the source produced no complete frame.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	n, err := r.src.ReadSamples(r.frame)
	if errors.Is(err, io.EOF) {
		r.eof = true
		err = nil
	}
	if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		return false, nil
	}

	copy(dst, r.frame)
	return true, nil
}

// prime fills the window before the first output frame. Slots the source
// cannot fill repeat the last frame read.
func (r *Resampler) prime() error {
	got := 0
	for range r.window {
		if r.eof {
			break
		}

		ok, err := r.readFrame(r.window[got])
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if got == 0 && r.lowPass {
			copy(r.state, r.window[0])
		}
		r.valid[got] = true
		got++
	}

	if got == 0 {
		return io.EOF
	}

	for i := got; i < len(r.window); i++ {
		copy(r.window[i], r.window[got-1])
		r.valid[i] = true
	}

	r.primed = true
	return nil
}

// advance slides the window forward by one source frame.
// It returns io.EOF once there is nothing left to interpolate.
func (r *Resampler) advance() error {
	w := r.window
	r.window = [4][]float32{w[1], w[2], w[3], w[0]}
	r.valid = [4]bool{r.valid[1], r.valid[2], r.valid[3], false}

	if !r.eof {
		ok, err := r.readFrame(r.window[3])
		if err != nil {
			return err
		}
		if ok {
			r.filter(r.window[3])
			r.valid[3] = true
		}
	}

	if !r.valid[1] || !r.valid[2] {
		return io.EOF
	}

	return nil
}

// filter applies y[n] = alpha*x[n] + (1-alpha)*y[n-1] in place.
func (r *Resampler) filter(frame []float32) {
	if !r.lowPass {
		return
	}

	for c := range r.channels {
		frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.state[c]
		r.state[c] = frame[c]
	}
}

func (r *Resampler) interpolate(dst []float32, x float32) {
	for c := range r.channels {
		y1 := r.window[1][c]
		y2 := r.window[2][c]

		y0 := y1
		if r.valid[0] {
			y0 = r.window[0][c]
		}

		y3 := y2
		if r.valid[3] {
			y3 = r.window[3][c]
		}

		dst[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
	}
}

// ReadSamples produces samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] || !r.valid[2] {
			return written * r.channels, io.EOF
		}

		off := written * r.channels
		r.interpolate(dst[off:off+r.channels], float32(r.pos))

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
