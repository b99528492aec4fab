// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/mp3play/audio"
)

// Session is a process-wide connection to an audio output with a fixed
// sample rate and channel count. Sources given to Play must already be in
// that format (see audio.Conform).
//
// A Session is used by one goroutine at a time.
type Session interface {
	SampleRate() int
	Channels() int
	// Play blocks until every sample of src has been played.
	// Failures reading src wrap ErrSource, failures of the output wrap
	// ErrDevice.
	Play(src audio.Source) error
	Close() error
}

// Format describes the fixed output format of a session.
type Format struct {
	SampleRate int
	Channels   int
}

// DefaultFormat is 44.1kHz stereo, the rate most MP3 files are encoded at.
var DefaultFormat = Format{SampleRate: 44100, Channels: 2}

func (f Format) validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("%w: invalid format %d Hz, %d channels", ErrDevice, f.SampleRate, f.Channels)
	}
	if f.Channels > 2 {
		return fmt.Errorf("%w: %d channels not supported", ErrDevice, f.Channels)
	}

	return nil
}

func checkSource(f Format, src audio.Source) error {
	if src.SampleRate() != f.SampleRate || src.Channels() != f.Channels {
		return fmt.Errorf("%w: source is %d Hz/%d ch, session is %d Hz/%d ch",
			ErrDevice, src.SampleRate(), src.Channels(), f.SampleRate, f.Channels)
	}

	return nil
}

// readBuffer returns buf, grown when src asks for larger reads, holding a
// whole number of frames.
func readBuffer(buf []float32, src audio.Source, channels int) []float32 {
	size := max(src.BufSize(), cap(buf), channels)
	size -= size % channels

	if cap(buf) < size {
		return make([]float32, size)
	}

	return buf[:size]
}

// readFrames fills buf with whole frames from src. It returns io.EOF at the
// end of the stream and wraps every other error in ErrSource.
func readFrames(src audio.Source, buf []float32, channels int) (int, error) {
	buf = buf[:len(buf)-len(buf)%channels]
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := src.ReadSamples(buf)
	if err == nil || errors.Is(err, io.EOF) {
		return n, err
	}

	return n, fmt.Errorf("%w: %w", ErrSource, err)
}
