// SPDX-License-Identifier: EPL-2.0

// Package player drives sequential playback of a list of files.
//
// Each file is opened, decoded with the registry's decoder for its
// extension, conformed to the session's format and played to the end before
// the next one starts. Progress goes to stdout as
//
//	Playing [2/7]: /music/track02.mp3
//
// and a file that cannot be played produces one line on stderr
//
//	Error playing /music/track03.mp3: cannot decode file: ...
//
// after which the run continues with the following file.
package player
