package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// IsDirectory checks if the path is a directory.
func IsDirectory(path string) (bool, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fileInfo.IsDir(), nil
}

// FileExists checks if a file exists and is not a directory.
func FileExists(filename string) bool {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !fileInfo.IsDir()
}

// PathExists reports whether anything exists at path.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// EnsureDir creates path and its parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return errUtils.NewDirCreationError(path, err)
	}
	return nil
}

// Absolute returns the cleaned absolute form of path.
func Absolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errUtils.NewPathCanonicalizationError(path, err)
	}
	return abs, nil
}

// JoinAbsolutePathWithPath returns providedPath when it is absolute, otherwise basePath joined with it.
func JoinAbsolutePathWithPath(basePath string, providedPath string) string {
	if filepath.IsAbs(providedPath) {
		return filepath.Clean(providedPath)
	}
	return filepath.Join(basePath, providedPath)
}

// RelativePath returns target relative to base, using forward slashes.
func RelativePath(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", errUtils.NewPathCanonicalizationError(target, err)
	}
	return filepath.ToSlash(rel), nil
}

// FileNameWithoutExtension strips the last extension from the base name of path.
func FileNameWithoutExtension(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OpenForWrite applies the overwrite policy: truncate-or-create when overwrite is true,
// create-exclusive otherwise. Parent directories are created first.
func OpenForWrite(path string, overwrite bool) (*os.File, error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, errUtils.NewFileExistsError(path)
		}
		return nil, errUtils.NewWriteError(path, err)
	}
	return f, nil
}

// WriteFile writes data to path through the overwrite policy.
func WriteFile(path string, data []byte, overwrite bool) error {
	f, err := OpenForWrite(path, overwrite)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errUtils.NewWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		return errUtils.NewWriteError(path, err)
	}
	log.Debug("Wrote file", "path", path, "bytes", len(data))
	return nil
}

// FindUp looks for name in start and each of its parents, returning the first match.
func FindUp(start, name string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, name)
		if FileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
