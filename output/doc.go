// SPDX-License-Identifier: EPL-2.0

// Package output plays sample streams on an audio output.
//
// A Session is opened once per process with a fixed Format and reused for
// every file. Two implementations exist:
//
//   - PulseSession, the default sink of a PulseAudio or PipeWire server
//   - WAVSession, a 16-bit PCM WAV file receiving everything played
//
// Play blocks until the source is exhausted. Errors wrap ErrSource when the
// source failed mid-stream and ErrDevice when the output did; in both cases
// the session stays usable for the next source.
package output
