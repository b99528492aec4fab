// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/mp3play/audio"
	"github.com/ik5/mp3play/utils"
)

// go-mp3 always produces 16-bit little-endian stereo, even for mono files.
const (
	channels      = 2
	bytesPerFrame = channels * 2
)

// mp3Reader is the part of gomp3.Decoder the source uses; tests fake it.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // samples, not bytes

// Duration is the decoded length of the stream, or 0 when the input was not
// seekable and the length is unknown.
func (s *source) Duration() time.Duration {
	length := s.dec.Length()
	if length <= 0 || s.sampleRate <= 0 {
		return 0
	}

	frames := length / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(s.sampleRate)
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	n, err := s.dec.Read(s.buf[:need])
	samples := utils.PCM16LEToFloat32(dst, s.buf[:n])

	if err != nil && !errors.Is(err, io.EOF) {
		return samples, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}

	return samples, err
}

// Decoder decodes MP3 streams with github.com/hajimehoshi/go-mp3.
type Decoder struct{}

// Decode reads the stream header and first frame. Input that does not start
// a valid MP3 stream fails with ErrInvalidStream. When r is an io.Seeker the
// returned source also reports its Duration.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return newSource(dec), nil
}
