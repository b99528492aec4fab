// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	ErrInvalidStream = errors.New("not a decodable MP3 stream")
	ErrCorruptStream = errors.New("corrupt MP3 stream")
)
