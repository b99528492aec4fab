// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/mp3play/audio"
	"github.com/ik5/mp3play/internal/logging"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

const (
	// streamLatency bounds the server-side buffer, and with it the silence
	// appended to sources shorter than one buffer.
	streamLatency = 0.1 // seconds

	closedPollInterval = 100 * time.Millisecond
)

// PulseSession plays through the default sink of the PulseAudio (or
// PipeWire-pulse) server. The client connection lives as long as the
// session; each Play opens and drains its own playback stream.
type PulseSession struct {
	client *pulse.Client
	format Format
}

// NewPulseSession connects to the sound server as the application name.
func NewPulseSession(name string, f Format) (*PulseSession, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to sound server: %w", ErrDevice, err)
	}

	logging.Debug("connected to sound server, output %d Hz, %d channel(s)", f.SampleRate, f.Channels)

	return &PulseSession{client: client, format: f}, nil
}

func (s *PulseSession) SampleRate() int { return s.format.SampleRate }
func (s *PulseSession) Channels() int   { return s.format.Channels }

// sourceFailure records the first error the stream callback saw. The
// callback runs on the client's goroutine.
type sourceFailure struct {
	mtx sync.Mutex
	err error
}

func (f *sourceFailure) set(err error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.err == nil {
		f.err = err
	}
}

func (f *sourceFailure) get() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.err
}

// feeder adapts a Source to the playback stream callback.
//
// pulse only returns from Start once the server reports the stream as
// started, which needs a full prebuffer and a stream that was not ended
// yet. Until markStarted is called the end of the source is therefore
// padded with silence, and the stream is ended on the first callback after.
type feeder struct {
	src      audio.Source
	channels int

	started atomic.Bool
	ended   bool // stream goroutine only
	done    chan struct{}
	once    sync.Once
	failure sourceFailure
}

func newFeeder(src audio.Source, channels int) *feeder {
	return &feeder{
		src:      src,
		channels: channels,
		done:     make(chan struct{}),
	}
}

func (f *feeder) markStarted() { f.started.Store(true) }

func (f *feeder) read(buf []float32) (int, error) {
	n := 0
	if !f.ended {
		var err error
		n, err = readFrames(f.src, buf, f.channels)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, io.EOF) {
			f.failure.set(err)
		}
		f.ended = true
	}

	if !f.started.Load() {
		clear(buf[n:])
		return len(buf), nil
	}

	f.once.Do(func() { close(f.done) })
	return n, pulse.EndOfData
}

// wait blocks until the stream was ended or closed reports true.
func (f *feeder) wait(closed func() bool) error {
	ticker := time.NewTicker(closedPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return nil
		case <-ticker.C:
			if closed() {
				return fmt.Errorf("%w: %w", ErrDevice, pulse.ErrConnectionClosed)
			}
		}
	}
}

func (s *PulseSession) Play(src audio.Source) error {
	if s.client == nil {
		return ErrClosed
	}
	if err := checkSource(s.format, src); err != nil {
		return err
	}

	feed := newFeeder(src, s.format.Channels)

	layout := pulse.PlaybackStereo
	if s.format.Channels == 1 {
		layout = pulse.PlaybackMono
	}

	// latency must come after the rate and channel options
	stream, err := s.client.NewPlayback(pulse.Float32Reader(feed.read),
		pulse.PlaybackSampleRate(s.format.SampleRate),
		layout,
		pulse.PlaybackLatency(streamLatency),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	defer stream.Close()

	stream.Start()
	feed.markStarted()

	if err := feed.wait(stream.Closed); err != nil {
		return err
	}

	// PlaybackStream.Drain is a no-op once the callback ended the stream,
	// so the drain is requested directly.
	err = s.client.RawRequest(&proto.DrainPlaybackStream{StreamIndex: stream.StreamIndex()}, nil)
	if err != nil {
		return fmt.Errorf("%w: draining: %w", ErrDevice, err)
	}
	if stream.Underflow() {
		logging.Debug("playback stream underflowed")
	}

	if err := feed.failure.get(); err != nil {
		return err
	}
	if err := stream.Error(); err != nil && !errors.Is(err, pulse.EndOfData) {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	return nil
}

func (s *PulseSession) Close() error {
	if s.client == nil {
		return nil
	}

	s.client.Close()
	s.client = nil

	return nil
}
