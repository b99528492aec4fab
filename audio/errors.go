// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat     = errors.New("sample rate and channels must be positive")
	ErrUnsupportedLayout = errors.New("unsupported channel conversion")
)
