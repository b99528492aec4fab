// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and decoders for tests.
// Its types satisfy audio.Source and audio.Decoder structurally; the package
// does not import audio so that audio's own tests can use it.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// MockSource generates totalFrames frames of a waveform.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame int, channel int) float32

	// FailAfter makes ReadSamples return Err once that many frames were
	// produced. Zero disables the failure.
	FailAfter int
	Err       error

	Closed bool
}

// NewMockSource creates a source of totalFrames frames produced by waveform.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

// NewSineSource creates a sine tone at frequency Hz on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a source where every sample equals value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailAfter > 0 && m.generated >= m.FailAfter {
		return 0, m.Err
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	limit := m.totalFrames
	if m.FailAfter > 0 {
		limit = min(limit, m.FailAfter)
	}
	frames := min(len(dst)/m.channels, limit-m.generated)

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// ErrCorrupt is returned by Decoder for content it treats as invalid.
var ErrCorrupt = errors.New("audiotest: corrupt stream")

// Decoder decodes a tiny text format used by tests in place of real MP3
// bytes:
//
//	"ok"       a 100 ms stereo tone at SampleRate
//	"truncate" a stream that fails with ErrCorrupt after 10 ms
//	anything else fails to decode with ErrCorrupt
//
// Every source handed out is kept in Sources. Wrap Open in a type with an
// audio.Decoder signature to register it.
type Decoder struct {
	SampleRate int
	Sources    []*MockSource
}

func (d *Decoder) Open(r io.Reader) (*MockSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rate := d.SampleRate
	if rate == 0 {
		rate = 44100
	}

	var src *MockSource
	switch string(data) {
	case "ok":
		src = NewSineSource(rate, 2, rate/10, 440)
	case "truncate":
		src = NewSineSource(rate, 2, rate/10, 440)
		src.FailAfter = rate / 100
		src.Err = ErrCorrupt
	default:
		return nil, ErrCorrupt
	}

	d.Sources = append(d.Sources, src)
	return src, nil
}
