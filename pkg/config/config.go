package config

import (
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/schema"
	"github.com/cloudposse/sketch/pkg/utils"
)

// InitCliConfig returns the configuration a command runs with: the discovered or explicit config file
// (defaults when there is none), the vars files applied in order, then the command line overrides.
func InitCliConfig(settings schema.CLISettings) (schema.Configuration, error) {
	var cfg schema.Configuration
	if path, ok := Discover(settings.Config, settings.IgnoreConfig); ok {
		loaded, err := Load(path)
		if err != nil {
			return schema.Configuration{}, err
		}
		cfg = loaded
	} else {
		log.Debug("No config file found, using the defaults")
	}

	for _, path := range settings.VarsFiles {
		vars, err := LoadVarsFile(path)
		if err != nil {
			return schema.Configuration{}, err
		}
		cfg.Vars = merge.Map(cfg.Vars, vars)
	}

	return ApplyOverrides(cfg, settings)
}

// ApplyOverrides merges the config flags on top of cfg. The templates directory is made absolute
// against the working directory.
func ApplyOverrides(cfg schema.Configuration, settings schema.CLISettings) (schema.Configuration, error) {
	var overrides schema.Configuration
	if settings.TemplatesDir != "" {
		dir, err := utils.Absolute(settings.TemplatesDir)
		if err != nil {
			return schema.Configuration{}, err
		}
		overrides.TemplatesDir = dir
	}
	if settings.NoOverwrite {
		noOverwrite := true
		overrides.NoOverwrite = &noOverwrite
	}
	overrides.Shell = settings.Shell
	return cfg.Merge(overrides), nil
}
