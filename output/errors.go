// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	// ErrDevice reports that the output could not be opened or refused audio.
	ErrDevice = errors.New("audio device error")
	// ErrSource reports that reading samples from the played source failed.
	ErrSource = errors.New("audio source error")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("session closed")
)
