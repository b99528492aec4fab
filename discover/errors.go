// SPDX-License-Identifier: EPL-2.0

package discover

import "errors"

var (
	ErrNotFound = errors.New("path not found")
	ErrIO       = errors.New("cannot read directory")
)
