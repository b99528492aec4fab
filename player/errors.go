// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"

	"github.com/ik5/mp3play/output"
)

var (
	// ErrOpen reports that a file could not be opened for reading.
	ErrOpen = errors.New("cannot open file")
	// ErrDecode reports that a file is not a decodable stream, or that its
	// stream broke while playing.
	ErrDecode = errors.New("cannot decode file")
	// ErrDevice reports that the output refused or failed during playback.
	ErrDevice = output.ErrDevice
)
