// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams into audio.Source values.
//
// Decoding is done by github.com/hajimehoshi/go-mp3. The resulting source
// always has two channels (go-mp3 decodes mono files to stereo) and the
// sample rate of the file, with samples normalized to [-1.0, 1.0].
//
//	f, _ := os.Open("track.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if errors.Is(err, mp3.ErrInvalidStream) {
//	    // not an MP3 file
//	}
//
// Corruption found after the header, while reading samples, is reported by
// ReadSamples as ErrCorruptStream.
//
// When the reader given to Decode is an io.Seeker (an *os.File, for
// example) go-mp3 scans the whole stream up front, and the source exposes
// its length through a Duration() time.Duration method.
package mp3
