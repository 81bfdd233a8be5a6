// Package filematch compiles glob sets used to exclude files from directory walks.
package filematch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
)

// Set matches a path when any of its patterns does.
// Patterns follow globset rules: `*` may cross directory separators and a leading `**/` also matches at the root.
type Set struct {
	patterns []string
	globs    []glob.Glob
	fs       fileSystem
}

// Compile builds a set from patterns. An empty set matches nothing.
func Compile(patterns ...string) (*Set, error) {
	s := &Set{fs: newDefaultFileSystem()}
	for _, pattern := range patterns {
		if err := s.add(pattern); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) add(pattern string) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: Could not parse glob pattern `%s`: %v", errUtils.ErrUnsupportedValue, pattern, err)
	}
	s.patterns = append(s.patterns, pattern)
	s.globs = append(s.globs, g)

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
		root, err := glob.Compile(rest)
		if err != nil {
			return fmt.Errorf("%w: Could not parse glob pattern `%s`: %v", errUtils.ErrUnsupportedValue, pattern, err)
		}
		s.globs = append(s.globs, root)
	}
	return nil
}

// Patterns returns the source patterns in the order they were added.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.patterns...)
}

// Match reports whether path, relative to the walked root, matches any pattern.
func (s *Set) Match(path string) bool {
	if s == nil {
		return false
	}
	path = filepath.ToSlash(path)
	for _, g := range s.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Files lists the regular files under root that the set does not match, relative to root with forward
// slashes, in lexical order.
func (s *Set) Files(root string) ([]string, error) {
	fsys := newDefaultFileSystem()
	if s != nil && s.fs != nil {
		fsys = s.fs
	}

	var files []string
	err := fsys.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if s.Match(rel) {
			log.Trace("Excluded file", "path", rel)
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errUtils.NewReadError(root, err)
	}
	return files, nil
}
