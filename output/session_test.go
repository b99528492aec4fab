// SPDX-License-Identifier: EPL-2.0

package output

import (
	"testing"

	"github.com/ik5/mp3play/internal/audiotest"
)

// sized reports a custom BufSize.
type sized struct {
	*audiotest.MockSource
	size int
}

func (s sized) BufSize() int { return s.size }

func TestReadBuffer(t *testing.T) {
	t.Parallel()

	mock := audiotest.NewSilentSource(44100, 2, 10)

	tests := []struct {
		name     string
		bufCap   int
		bufSize  int
		channels int
		want     int
	}{
		{"grows to the source size", 100, 4096, 2, 4096},
		{"keeps a larger buffer", 8192, 4096, 2, 8192},
		{"whole frames", 0, 4096, 3, 4095},
		{"at least one frame", 0, 0, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := readBuffer(make([]float32, 0, tt.bufCap), sized{mock, tt.bufSize}, tt.channels)
			if len(buf) != tt.want {
				t.Errorf("len(readBuffer()) = %d, want %d", len(buf), tt.want)
			}
		})
	}
}
