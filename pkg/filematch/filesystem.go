package filematch

import (
	"io/fs"
	"path/filepath"
)

// fileSystem is the part of the OS the matcher touches. Tests swap it for a fake tree.
type fileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
}

type defaultFileSystem struct{}

func newDefaultFileSystem() fileSystem {
	return &defaultFileSystem{}
}

func (fs *defaultFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}
