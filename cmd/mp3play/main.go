// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/mp3play/audio"
	"github.com/ik5/mp3play/discover"
	"github.com/ik5/mp3play/formats/mp3"
	"github.com/ik5/mp3play/internal/logging"
	"github.com/ik5/mp3play/output"
	"github.com/ik5/mp3play/player"
	flag "github.com/spf13/pflag"
)

const appName = "mp3play"

var version = "dev"

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

type config struct {
	root      string
	recursive bool
	anyFile   bool
	wavPath   string
	rate      int
	mono      bool
	verbose   bool
	logLevel  string
}

func parseFlags(args []string, stderr io.Writer) (*config, int, bool) {
	cfg := &config{}
	var showHelp, showVersion bool

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <path>\n\n", appName)
		fmt.Fprintln(stderr, "Plays the MP3 files at <path>, a file or a directory, one after another.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.BoolVarP(&cfg.recursive, "recursive", "r", false, "descend into subdirectories")
	fs.BoolVar(&cfg.anyFile, "any-file", false, "play a file named directly regardless of its extension")
	fs.StringVar(&cfg.wavPath, "wav", "", "write the batch to a WAV `file` instead of the audio device")
	fs.IntVar(&cfg.rate, "rate", output.DefaultFormat.SampleRate, "output sample rate in Hz")
	fs.BoolVar(&cfg.mono, "mono", false, "play in mono")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging, same as --log-level=debug")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "diagnostic `level`: debug, info, warn or error")
	fs.BoolVarP(&showHelp, "help", "h", false, "print help and exit")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK, true
		}
		return nil, exitUsage, true
	}

	switch {
	case showHelp:
		fs.Usage()
		return nil, exitOK, true
	case showVersion:
		fmt.Fprintf(stderr, "%s %s\n", appName, version)
		return nil, exitOK, true
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one path\n", appName)
		fs.Usage()
		return nil, exitUsage, true
	}
	if _, err := logging.ParseLevel(cfg.logLevel); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return nil, exitUsage, true
	}
	if cfg.rate <= 0 {
		fmt.Fprintf(stderr, "%s: invalid --rate %d\n", appName, cfg.rate)
		return nil, exitUsage, true
	}

	cfg.root = fs.Arg(0)

	return cfg, exitOK, false
}

func (c *config) format() output.Format {
	f := output.Format{SampleRate: c.rate, Channels: 2}
	if c.mono {
		f.Channels = 1
	}

	return f
}

func openSession(cfg *config) (output.Session, error) {
	if cfg.wavPath != "" {
		return output.CreateWAVSession(cfg.wavPath, cfg.format())
	}

	return output.NewPulseSession(appName, cfg.format())
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, code, done := parseFlags(args, stderr)
	if done {
		return code
	}

	level, _ := logging.ParseLevel(cfg.logLevel)
	if cfg.verbose {
		level = logging.LevelDebug
	}
	logging.SetOutput(stderr)
	logging.SetLevel(level)
	logging.Debug("log level %s", level.String())

	registry := audio.NewRegistry()
	registry.Register("mp3", mp3.Decoder{})

	policy := discover.PolicyExtension
	if cfg.anyFile {
		policy = discover.PolicyAnyFile
	}

	files, err := discover.Resolve(cfg.root, discover.Options{
		Recursive:  cfg.recursive,
		Policy:     policy,
		Extensions: registry.Formats(),
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitFatal
	}

	if !player.Announce(stdout, len(files)) {
		return exitOK
	}

	session, err := openSession(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitFatal
	}
	defer func() {
		if err := session.Close(); err != nil {
			logging.Error("closing output: %v", err)
		}
	}()

	drv := player.New(session, registry, player.WithOutput(stdout, stderr))
	res := drv.Run(files)
	logging.Debug("done: %d played, %d failed", res.Played, res.Failed)

	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
