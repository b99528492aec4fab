// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun_NotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir")

	code, stdout, stderr := runCLI(t, "-r", missing)

	if code != exitFatal {
		t.Errorf("exit code = %d, want %d", code, exitFatal)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing before the failure", stdout)
	}
	if !strings.HasPrefix(stderr, appName+": ") || !strings.Contains(stderr, missing) {
		t.Errorf("stderr = %q, want an error naming %s", stderr, missing)
	}
}

func TestRun_NoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"notes.txt": "x", "sub/deep.mp3": "x"})
	wavPath := filepath.Join(t.TempDir(), "out.wav")

	code, stdout, stderr := runCLI(t, "--wav", wavPath, dir)

	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if stdout != "No MP3 files found in the specified path.\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Error("an output session was opened for an empty result")
	}
}

func TestRun_BadFilesDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.mp3":     "this is not mpeg audio",
		"B.MP3":     "neither is this",
		"c.txt":     "ignored",
		"sub/d.mp3": "only with -r",
	})
	wavPath := filepath.Join(t.TempDir(), "out.wav")

	code, stdout, stderr := runCLI(t, "-r", "--wav", wavPath, dir)

	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}

	wantOut := strings.Join([]string{
		"Found 3 MP3 file(s)",
		"Playing [1/3]: " + filepath.Join(dir, "B.MP3"),
		"Playing [2/3]: " + filepath.Join(dir, "a.mp3"),
		"Playing [3/3]: " + filepath.Join(dir, "sub", "d.mp3"),
	}, "\n") + "\n"
	if stdout != wantOut {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, wantOut)
	}

	errLines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
	if len(errLines) != 3 {
		t.Fatalf("stderr = %q, want 3 lines", stderr)
	}
	for _, line := range errLines {
		if !strings.HasPrefix(line, "Error playing "+dir) {
			t.Errorf("stderr line = %q, want an Error playing line", line)
		}
	}

	f, err := os.Open(wavPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !wav.NewDecoder(f).IsValidFile() {
		t.Error("session output is not a valid WAV file")
	}
}

func TestRun_ValidCorruptValid(t *testing.T) {
	clip, err := os.ReadFile(filepath.Join("..", "..", "formats", "mp3", "testdata", "clip.mp3"))
	if err != nil {
		t.Fatal(err)
	}

	// the clip decodes to 23040 frames at 22050 Hz
	tests := []struct {
		name      string
		args      []string
		rate      int
		channels  int
		minFrames int
		maxFrames int
	}{
		{"resampled stereo", nil, 44100, 2, 2 * 45900, 2 * 46200},
		{"native rate mono", []string{"--rate", "22050", "--mono"}, 22050, 1, 2 * 23040, 2 * 23040},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{
				"1.mp3": string(clip),
				"2.mp3": "not mpeg audio at all",
				"3.mp3": string(clip),
			})
			wavPath := filepath.Join(t.TempDir(), "out.wav")

			args := append(append([]string{}, tt.args...), "--wav", wavPath, dir)
			code, stdout, stderr := runCLI(t, args...)

			if code != exitOK {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, exitOK, stderr)
			}
			if got := strings.Count(stdout, "Playing ["); got != 3 {
				t.Errorf("stdout = %q, want 3 announcements", stdout)
			}
			errLines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
			if len(errLines) != 1 || !strings.HasPrefix(errLines[0], "Error playing "+filepath.Join(dir, "2.mp3")+": ") {
				t.Fatalf("stderr = %q, want one failure for 2.mp3", stderr)
			}

			f, err := os.Open(wavPath)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			dec := wav.NewDecoder(f)
			if !dec.IsValidFile() {
				t.Fatal("output is not a valid WAV file")
			}
			if int(dec.SampleRate) != tt.rate || int(dec.NumChans) != tt.channels {
				t.Errorf("WAV format = %d Hz/%d ch, want %d/%d", dec.SampleRate, dec.NumChans, tt.rate, tt.channels)
			}

			buf, err := dec.FullPCMBuffer()
			if err != nil {
				t.Fatal(err)
			}
			if frames := buf.NumFrames(); frames < tt.minFrames || frames > tt.maxFrames {
				t.Errorf("WAV holds %d frames, want %d..%d (two plays)", frames, tt.minFrames, tt.maxFrames)
			}
		})
	}
}

func TestRun_Repeatable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"1.mp3": "x", "2.mp3": "y", "a/3.mp3": "z"})

	args := []string{"-r", "--wav", filepath.Join(t.TempDir(), "out.wav"), dir}
	_, first, _ := runCLI(t, args...)
	_, second, _ := runCLI(t, args...)

	if first != second {
		t.Errorf("runs differ:\n%s\nvs\n%s", first, second)
	}
}

func TestRun_FileRoot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"track.bin": "x"})
	path := filepath.Join(dir, "track.bin")
	wavPath := filepath.Join(dir, "out.wav")

	_, stdout, _ := runCLI(t, "--wav", wavPath, path)
	if stdout != "No MP3 files found in the specified path.\n" {
		t.Errorf("stdout = %q, want no files without --any-file", stdout)
	}

	code, stdout, stderr := runCLI(t, "--any-file", "--wav", wavPath, path)
	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if !strings.HasPrefix(stdout, "Found 1 MP3 file(s)\nPlaying [1/1]: "+path) {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.HasPrefix(stderr, "Error playing "+path+": ") {
		t.Errorf("stderr = %q, want a decode failure for %s", stderr, path)
	}
}

func TestRun_Usage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no path", nil, exitUsage},
		{"two paths", []string{dir, dir}, exitUsage},
		{"unknown flag", []string{"--shuffle", dir}, exitUsage},
		{"bad rate", []string{"--rate", "0", dir}, exitUsage},
		{"bad log level", []string{"--log-level", "loud", dir}, exitUsage},
		{"help", []string{"-h"}, exitOK},
		{"version", []string{"--version"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, tt.args...)
			if code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
		})
	}
}

func TestRun_SessionFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.mp3": "x"})

	code, _, stderr := runCLI(t, "--wav", filepath.Join(dir, "missing", "out.wav"), dir)

	if code != exitFatal {
		t.Errorf("exit code = %d, want %d", code, exitFatal)
	}
	if !strings.HasPrefix(stderr, appName+": ") {
		t.Errorf("stderr = %q", stderr)
	}
}
