// SPDX-License-Identifier: EPL-2.0

package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/mp3play/internal/logging"
)

// FilePolicy decides whether a root path that names a file must pass the
// extension test.
type FilePolicy int

const (
	// PolicyExtension applies the extension test to a file root, the same
	// way it is applied to directory entries.
	PolicyExtension FilePolicy = iota
	// PolicyAnyFile accepts a file root whatever its extension.
	PolicyAnyFile
)

// DefaultExtensions is used when Options.Extensions is empty.
var DefaultExtensions = []string{"mp3"}

type Options struct {
	Recursive  bool
	Policy     FilePolicy
	Extensions []string // without the dot, matched case-insensitively
}

// Resolve lists the qualifying files under root.
//
// A file root yields itself (subject to Policy). A directory root yields its
// qualifying regular files in lexical order; with Recursive the whole tree
// is walked depth-first and subdirectories that cannot be read are skipped.
// Symbolic links to files are followed, links to directories are not.
//
// A missing root fails with ErrNotFound. A root that cannot be stat'ed or
// listed fails with ErrIO.
func Resolve(root string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, root, err)
	}

	switch {
	case info.Mode().IsRegular():
		if opts.Policy == PolicyAnyFile || HasExtension(root, exts...) {
			return []string{root}, nil
		}
		logging.Debug("%s does not have a playable extension", root)
		return []string{}, nil

	case info.IsDir():
		if opts.Recursive {
			return walk(root, exts)
		}
		return list(root, exts)

	default:
		return nil, fmt.Errorf("%w: %s is neither a file nor a directory", ErrNotFound, root)
	}
}

// HasExtension reports whether the last path element of name ends in a dot
// followed by one of exts, ignoring case. Names without an extension never
// match.
func HasExtension(name string, exts ...string) bool {
	ext := filepath.Ext(name)
	if len(ext) < 2 {
		return false
	}
	ext = ext[1:]

	for _, e := range exts {
		if strings.EqualFold(ext, strings.TrimPrefix(e, ".")) {
			return true
		}
	}

	return false
}

func list(root string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, root, err)
	}

	files := []string{}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if HasExtension(entry.Name(), exts...) && isRegular(path, entry) {
			files = append(files, path)
		}
	}

	return files, nil
}

func walk(root string, exts []string) ([]string, error) {
	files := []string{}

	// os.DirFS resolves root itself, so a root that is a symlink to a
	// directory is still walked.
	err := fs.WalkDir(os.DirFS(root), ".", func(rel string, d fs.DirEntry, err error) error {
		path := filepath.Join(root, filepath.FromSlash(rel))

		if err != nil {
			if rel == "." {
				return fmt.Errorf("%w: %s: %w", ErrIO, root, err)
			}

			logging.Debug("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if HasExtension(d.Name(), exts...) && isRegular(path, d) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		logging.Debug("skipping %s: %v", path, err)
		return false
	}

	return info.Mode().IsRegular()
}
