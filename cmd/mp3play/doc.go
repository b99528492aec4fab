// SPDX-License-Identifier: EPL-2.0

// Command mp3play plays the MP3 files found at a path, one after another.
//
// Usage:
//
//	mp3play [flags] <path>
//
// <path> is a single file or a directory. Directories are scanned for files
// ending in .mp3 (any case), only at the top level unless -r is given.
// Files are played in lexical order through the default PulseAudio sink,
// or written into one WAV file with --wav.
//
// The flags are:
//
//	-r, --recursive      descend into subdirectories
//	    --any-file       play a file named directly whatever its extension
//	    --wav file       write the batch to a WAV file
//	    --rate hz        output sample rate (default 44100)
//	    --mono           play in mono
//	-v, --verbose        debug logging on stderr
//	    --log-level l    debug, info, warn (default) or error
//	    --version        print version and exit
//	-h, --help           print help and exit
//
// A file that cannot be opened or decoded is reported on stderr and skipped.
// The exit status is 1 when the path does not exist or the output cannot be
// opened, 2 for usage errors, and 0 otherwise.
package main
