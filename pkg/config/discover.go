package config

import (
	"os"
	"path/filepath"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/utils"
	"github.com/cloudposse/sketch/pkg/xdg"
)

// FileNames are the config files discovered automatically, in priority order.
var FileNames = []string{"sketch.yaml", "sketch.toml", "sketch.json"}

// Discover returns the config file to load. An explicit path always wins. Otherwise, unless ignore is
// set, the current directory and then the sketch XDG config directory are searched.
func Discover(explicit string, ignore bool) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if ignore {
		return "", false
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, xdg.ConfigDir())

	for _, dir := range dirs {
		if path, ok := SearchConfigFile(dir); ok {
			log.Debug("Found config file", "path", path)
			return path, true
		}
	}
	return "", false
}

// SearchConfigFile returns the first of FileNames present in dir.
func SearchConfigFile(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if utils.FileExists(path) {
			return path, true
		}
	}
	return "", false
}
