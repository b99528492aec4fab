// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample pipeline between a decoder and an
// output session.
//
// The building blocks are:
//   - Source, a stream of interleaved float32 samples in [-1.0, 1.0]
//   - Decoder and Registry, mapping a file extension to its decoder
//   - Resampler, cubic interpolation to a new sample rate
//   - MonoMixer and ChannelDuplicator, channel count conversion
//   - Conform, which chains the above to reach a fixed output format
//
// # Conforming to an Output
//
// An output session plays at one sample rate and channel count for its
// whole lifetime, while every decoded file brings its own. Conform bridges
// the two:
//
//	src, _ := registry.ForPath("song.mp3")
//	out, err := audio.Conform(src, 44100, 2)
//	if err != nil {
//	    return err
//	}
//	defer out.Close()
//
// A source already in the requested format is returned as-is.
//
// # Registry
//
// Keys are extensions without the dot and are matched case-insensitively:
//
//	registry := audio.NewRegistry()
//	registry.Register("mp3", mp3.Decoder{})
//	dec, ok := registry.ForPath("/music/TRACK.MP3") // ok == true
//
// # Reading
//
// ReadSamples returns io.EOF when the stream is finished; it may return the
// last samples together with io.EOF. Any other error means the stream is
// broken (for a decoder, usually corrupt input):
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    consume(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// Resampler and ChannelDuplicator require len(dst) to be a multiple of the
// channel count and return ErrInvalidDstSize otherwise.
package audio
