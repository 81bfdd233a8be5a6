// Package config loads sketch configuration files and the chains of files they extend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/schema"
	"github.com/cloudposse/sketch/pkg/utils"
)

const defaultDownloadTimeout = 30 * time.Second

// ConfigLoader reads a configuration file and merges in, depth first, the files listed in its `extends`.
type ConfigLoader struct {
	// DownloadDir receives remote configs. A temporary directory is created, and removed after loading, when empty.
	DownloadDir string
	// Timeout bounds each remote download.
	Timeout time.Duration

	downloads string
	visited   *orderedmap.Set[string]
}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{Timeout: defaultDownloadTimeout}
}

// Load reads the configuration at path with everything it extends.
func Load(path string) (schema.Configuration, error) {
	return NewConfigLoader().Load(path)
}

// Load returns the merged configuration. Its Extends lists every processed file except the root one,
// in the order they were visited.
func (cl *ConfigLoader) Load(path string) (schema.Configuration, error) {
	root, err := canonicalize(path)
	if err != nil {
		return schema.Configuration{}, err
	}

	cl.visited = orderedmap.NewSet[string]()
	defer cl.cleanup()

	cfg, err := cl.load(root)
	if err != nil {
		return schema.Configuration{}, err
	}

	processed := cl.visited.Clone()
	processed.Remove(root)
	cfg.Extends = processed
	cfg.ConfigFile = root
	return cfg, nil
}

func (cl *ConfigLoader) load(source string) (schema.Configuration, error) {
	if !cl.visited.Add(source) {
		chain := append(cl.visited.Items(), source)
		return schema.Configuration{}, errUtils.NewCircularDependencyError(fmt.Sprintf(
			"Found circular dependency to the config file `%s`. The full processed path is: %s",
			source, strings.Join(chain, " -> ")))
	}

	path := source
	if isRemote(source) {
		downloaded, err := cl.download(source)
		if err != nil {
			return schema.Configuration{}, err
		}
		path = downloaded
	}

	cfg, err := readFile(path)
	if err != nil {
		return schema.Configuration{}, err
	}
	if cfg.Extends.Len() == 0 {
		return cfg, nil
	}

	log.Debug("Loading extended configs", "config", source, "extends", cfg.Extends.Items())

	dir := filepath.Dir(path)
	var merged schema.Configuration
	for entry := range cfg.Extends.All() {
		target := entry
		if !isRemote(entry) {
			target, err = canonicalize(utils.JoinAbsolutePathWithPath(dir, entry))
			if err != nil {
				return schema.Configuration{}, err
			}
		}
		parent, err := cl.load(target)
		if err != nil {
			return schema.Configuration{}, err
		}
		merged = merged.Merge(parent)
	}

	cfg.Extends = nil
	return merged.Merge(cfg), nil
}

// readFile decodes a single file and makes its templates_dir absolute, creating the directory when missing.
func readFile(path string) (schema.Configuration, error) {
	var cfg schema.Configuration
	if err := filetype.DecodeFile(path, &cfg); err != nil {
		return schema.Configuration{}, err
	}
	log.Trace("Read config file", "path", path)

	if cfg.TemplatesDir != "" {
		dir := utils.JoinAbsolutePathWithPath(filepath.Dir(path), cfg.TemplatesDir)
		if err := utils.EnsureDir(dir); err != nil {
			return schema.Configuration{}, err
		}
		abs, err := canonicalize(dir)
		if err != nil {
			return schema.Configuration{}, err
		}
		cfg.TemplatesDir = abs
	}
	return cfg, nil
}

// canonicalize returns the absolute path of an existing file with symlinks resolved.
func canonicalize(path string) (string, error) {
	abs, err := utils.Absolute(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errUtils.NewPathCanonicalizationError(path, err)
	}
	return resolved, nil
}

func (cl *ConfigLoader) cleanup() {
	if cl.downloads == "" || cl.downloads == cl.DownloadDir {
		return
	}
	if err := os.RemoveAll(cl.downloads); err != nil {
		log.Debug("Failed to remove downloaded configs", "dir", cl.downloads, "error", err)
	}
	cl.downloads = ""
}
