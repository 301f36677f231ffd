/*
Package library exposes the configured media roots: virtual path
resolution, the recursive directory tree, per-directory listings and the
byte-safe name encoding used on the wire.

Paths are handled as raw byte sequences throughout; file names that are
not valid UTF-8 survive the round trip through the API via the encoding
in ospath.go.
*/
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath covers every way a virtual path can fail to resolve:
// unknown root, escape attempt, malformed encoding. Callers surface it
// as 404.
var ErrInvalidPath = errors.New("invalid path")

// Root is one configured directory, exposed under its basename.
type Root struct {
	Name string
	Path string
}

// Library is the immutable registry of media roots.
type Library struct {
	roots  []Root
	byName map[string]Root
}

// New builds a library from the configured root directories. Roots are
// addressed by basename, so two roots with the same basename cannot be
// told apart and are rejected.
func New(dirs []string) (*Library, error) {
	lib := &Library{byName: map[string]Root{}}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("Not a directory: %s", dir)
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("Not a directory: %s", dir)
		}
		name := filepath.Base(resolved)
		if _, ok := lib.byName[name]; ok {
			return nil, fmt.Errorf("Duplicate directory names not allowed: %s", name)
		}
		root := Root{Name: name, Path: resolved}
		lib.roots = append(lib.roots, root)
		lib.byName[name] = root
	}
	return lib, nil
}

// Roots returns the configured roots in registration order.
func (l *Library) Roots() []Root {
	return l.roots
}

// Resolve maps a virtual path of the form <root>/<rest> to an absolute
// path. The result is canonicalized and verified to be contained in the
// root, so neither ".." components nor symlinks can escape it.
func (l *Library) Resolve(virtual string) (string, error) {
	decoded, err := DecodePath(virtual)
	if err != nil {
		return "", ErrInvalidPath
	}
	name, rest, _ := strings.Cut(decoded, "/")
	root, ok := l.byName[name]
	if !ok {
		return "", ErrInvalidPath
	}
	if rest == "" {
		return root.Path, nil
	}
	resolved, err := canonicalize(filepath.Join(root.Path, rest))
	if err != nil {
		return "", ErrInvalidPath
	}
	if resolved != root.Path && !strings.HasPrefix(resolved, root.Path+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return resolved, nil
}

// canonicalize resolves symlinks through the deepest existing ancestor.
// A path whose leaf does not exist still canonicalizes, which the list
// endpoint relies on to report missing directories as data rather than
// as errors.
func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return "", err
	}
	resolvedParent, err := canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
