// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/mp3play/audio"
	"github.com/ik5/mp3play/internal/logging"
	"github.com/ik5/mp3play/output"
)

// DefaultPause separates consecutive files so the device is not reopened
// mid-buffer.
const DefaultPause = 100 * time.Millisecond

// Result counts the outcome of a Run.
type Result struct {
	Played int
	Failed int
}

// Driver plays a list of files one after another on a single session.
type Driver struct {
	session  output.Session
	registry *audio.Registry
	fallback string
	pause    time.Duration

	stdout io.Writer
	stderr io.Writer
}

type Option func(*Driver)

// WithOutput redirects progress (stdout) and per-file errors (stderr).
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Driver) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithFallbackFormat sets the format used for files whose extension has no
// registered decoder. An empty format disables the fallback.
func WithFallbackFormat(format string) Option {
	return func(d *Driver) {
		d.fallback = format
	}
}

// New creates a driver for session. The session stays owned by the caller.
func New(session output.Session, registry *audio.Registry, opts ...Option) *Driver {
	d := &Driver{
		session:  session,
		registry: registry,
		fallback: "mp3",
		pause:    DefaultPause,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Announce prints how many files were found and reports whether there is
// anything to play. Callers use it before opening a session, so an empty
// result never touches the output.
func Announce(w io.Writer, count int) bool {
	if count == 0 {
		fmt.Fprintln(w, "No MP3 files found in the specified path.")
		return false
	}

	fmt.Fprintf(w, "Found %d MP3 file(s)\n", count)
	return true
}

// Run plays files in order. A file that fails is reported on stderr and
// skipped; Run itself never fails. An empty list plays nothing.
func (d *Driver) Run(files []string) Result {
	var res Result

	for i, path := range files {
		fmt.Fprintf(d.stdout, "Playing [%d/%d]: %s\n", i+1, len(files), path)

		start := time.Now()
		if err := d.play(path); err != nil {
			fmt.Fprintf(d.stderr, "Error playing %s: %v\n", path, err)
			res.Failed++
			continue
		}
		logging.Debug("finished %s in %s", path, time.Since(start).Round(time.Millisecond))
		res.Played++

		if d.pause > 0 {
			time.Sleep(d.pause)
		}
	}

	logging.Info("played %d of %d file(s), %d failed", res.Played, len(files), res.Failed)

	return res
}

func (d *Driver) play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	dec, err := d.decoderFor(path)
	if err != nil {
		return err
	}

	src, err := dec.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if v, ok := src.(interface{ Duration() time.Duration }); ok && logging.IsDebugEnabled() {
		logging.Debug("%s: %s, %d Hz, %d channel(s)", path, v.Duration().Round(time.Millisecond), src.SampleRate(), src.Channels())
	}

	conformed, err := audio.Conform(src, d.session.SampleRate(), d.session.Channels())
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() {
		if err := conformed.Close(); err != nil {
			logging.Warn("closing %s: %v", path, err)
		}
	}()

	if err := d.session.Play(conformed); err != nil {
		if errors.Is(err, output.ErrSource) {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if errors.Is(err, ErrDevice) {
			return err
		}

		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	return nil
}

func (d *Driver) decoderFor(path string) (audio.Decoder, error) {
	if dec, ok := d.registry.ForPath(path); ok {
		return dec, nil
	}

	if d.fallback != "" {
		if dec, ok := d.registry.Get(d.fallback); ok {
			return dec, nil
		}
	}

	return nil, fmt.Errorf("%w: no decoder for %q", ErrDecode, path)
}
