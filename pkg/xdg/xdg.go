// Package xdg resolves the XDG base directories sketch reads its configuration from.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"

	adrg "github.com/adrg/xdg"

	errUtils "github.com/cloudposse/sketch/errors"
)

// AppName is the directory sketch owns under every XDG base directory.
const AppName = "sketch"

type baseDir struct {
	env      string
	fallback []string
}

var (
	configBase = baseDir{env: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	dataBase   = baseDir{env: "XDG_DATA_HOME", fallback: []string{".local", "share"}}
	cacheBase  = baseDir{env: "XDG_CACHE_HOME", fallback: []string{".cache"}}
	stateBase  = baseDir{env: "XDG_STATE_HOME", fallback: []string{".local", "state"}}
)

// SKETCH_XDG_* overrides win over the standard variables, which win over the $HOME fallbacks.
func (b baseDir) path() string {
	if dir := os.Getenv("SKETCH_" + b.env); dir != "" {
		return dir
	}
	if dir := os.Getenv(b.env); dir != "" {
		return dir
	}
	return filepath.Join(append([]string{Home()}, b.fallback...)...)
}

// Home is $HOME, or the platform home directory when it is unset.
func Home() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return adrg.Home
}

func ConfigHome() string { return configBase.path() }
func DataHome() string   { return dataBase.path() }
func CacheHome() string  { return cacheBase.path() }
func StateHome() string  { return stateBase.path() }

// ConfigDir is the sketch directory inside the config home. It is not created.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// GetXDGConfigDir returns <config home>/sketch/<subpath>, creating it with perm.
func GetXDGConfigDir(subpath string, perm os.FileMode) (string, error) {
	return getXDGDir(configBase, subpath, perm)
}

// GetXDGCacheDir returns <cache home>/sketch/<subpath>, creating it with perm.
func GetXDGCacheDir(subpath string, perm os.FileMode) (string, error) {
	return getXDGDir(cacheBase, subpath, perm)
}

func getXDGDir(base baseDir, subpath string, perm os.FileMode) (string, error) {
	dir := filepath.Join(base.path(), AppName, subpath)
	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("%w: %w", errUtils.ErrDirCreation, err)
	}
	return dir, nil
}
