// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/mp3play/audio"
	"github.com/ik5/mp3play/internal/logging"
	"github.com/ik5/mp3play/utils"
)

const wavBitDepth = 16

// WAVSession writes everything it plays, back to back, into one 16-bit PCM
// WAV stream. It stands in for a sound card on headless machines and in
// tests.
type WAVSession struct {
	enc    *wav.Encoder
	format Format
	file   *os.File // set when the session owns the output file
	frames int
	closed bool

	samples []float32
	buf     *goaudio.IntBuffer
}

// NewWAVSession writes to w. The caller keeps ownership of w.
func NewWAVSession(w io.WriteSeeker, f Format) (*WAVSession, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	const bufFrames = 4096

	return &WAVSession{
		enc:     wav.NewEncoder(w, f.SampleRate, wavBitDepth, f.Channels, 1),
		format:  f,
		samples: make([]float32, bufFrames*f.Channels),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			Data:           make([]int, 0, bufFrames*f.Channels),
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// CreateWAVSession creates (or truncates) path and writes to it. The file is
// closed by Close.
func CreateWAVSession(path string, f Format) (*WAVSession, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDevice, err)
	}

	s, err := NewWAVSession(file, f)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	s.file = file

	logging.Debug("writing audio to %s", path)

	return s, nil
}

func (s *WAVSession) SampleRate() int { return s.format.SampleRate }
func (s *WAVSession) Channels() int   { return s.format.Channels }

// Frames returns the number of frames written so far.
func (s *WAVSession) Frames() int { return s.frames }

func (s *WAVSession) Play(src audio.Source) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkSource(s.format, src); err != nil {
		return err
	}

	s.samples = readBuffer(s.samples, src, s.format.Channels)

	for {
		n, err := readFrames(src, s.samples, s.format.Channels)
		if n > 0 {
			if werr := s.write(s.samples[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *WAVSession) write(samples []float32) error {
	s.buf.Data = s.buf.Data[:0]
	for _, v := range samples {
		s.buf.Data = append(s.buf.Data, int(utils.Float32ToInt16(v)))
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	s.frames += len(samples) / s.format.Channels

	return nil
}

// Close finalizes the WAV header. A session that never played anything
// still produces a valid, empty file.
func (s *WAVSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error

	if s.frames == 0 {
		// the encoder writes its header on the first Write
		s.buf.Data = s.buf.Data[:0]
		if err := s.enc.Write(s.buf); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.enc.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	return nil
}
