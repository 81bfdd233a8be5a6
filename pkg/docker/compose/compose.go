// Package compose models Docker Compose files, their presets and the service presets they use.
package compose

import (
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/utils"
)

// FileName is the default output of the docker-compose command.
const FileName = "compose.yaml"

// File is a compose file. Services and top-level elements are written in name order.
type File struct {
	Name     string                          `yaml:"name,omitempty"`
	Include  []any                           `yaml:"include,omitempty"`
	Services map[string]*ServiceRef          `yaml:"services,omitempty"`
	Networks map[string]*orderedmap.Map[any] `yaml:"networks,omitempty"`
	Volumes  map[string]*orderedmap.Map[any] `yaml:"volumes,omitempty"`
	Secrets  map[string]*orderedmap.Map[any] `yaml:"secrets,omitempty"`
	Configs  map[string]*orderedmap.Map[any] `yaml:"configs,omitempty"`
	Extras   *orderedmap.Map[any]            `yaml:"-"`
}

type plainFile File

func (f *File) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainFile)(f))
	if err != nil {
		return err
	}
	f.Extras = extras
	return nil
}

func (f File) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(f, f.Extras), nil
}

// Merge replaces services by name and merges the settings of top-level elements.
func (f File) Merge(right File) File {
	return File{
		Name:     merge.Value(f.Name, right.Name),
		Include:  union(f.Include, right.Include, anyKey),
		Services: merge.SortedMap(f.Services, right.Services),
		Networks: mergeElements(f.Networks, right.Networks),
		Volumes:  mergeElements(f.Volumes, right.Volumes),
		Secrets:  mergeElements(f.Secrets, right.Secrets),
		Configs:  mergeElements(f.Configs, right.Configs),
		Extras:   merge.Map(f.Extras, right.Extras),
	}
}

func mergeElements(left, right map[string]*orderedmap.Map[any]) map[string]*orderedmap.Map[any] {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	out := maps.Clone(left)
	for k, r := range right {
		out[k] = merge.Map(out[k], r)
	}
	return out
}

// AddService references the service preset id under name, or under id itself when name is empty.
func (f *File) AddService(id, name string) {
	if name == "" {
		name = id
	}
	if f.Services == nil {
		f.Services = make(map[string]*ServiceRef)
	}
	f.Services[name] = preset.IDRef[ServicePreset](id)
}

// ResolveServices replaces every service reference with the resolved service.
// Inline services that extend presets are resolved under the `__inlined` id.
func (f File) ResolveServices(store *ServiceStore) (File, error) {
	out := f
	out.Services = make(map[string]*ServiceRef, len(f.Services))
	for _, name := range slices.Sorted(maps.Keys(f.Services)) {
		p, err := preset.ResolveRef(preset.DockerService, f.Services[name], preset.InlinedID, store)
		if err != nil {
			return File{}, err
		}
		out.Services[name] = preset.InlineRef(preset.Of(p.Config))
	}
	return out, nil
}

// Write writes f as YAML through the overwrite policy.
func (f File) Write(path string, overwrite bool) error {
	log.Debug("Writing compose file", "path", path, "services", len(f.Services))
	return utils.WriteToFileAsYAML(path, f, overwrite)
}

// Preset is a compose file preset.
type Preset = preset.Preset[File]

// Store is the compose_presets section of the docker config.
type Store = preset.Store[Preset]

// Config is the docker section of the configuration.
type Config struct {
	ComposePresets *Store        `yaml:"compose_presets,omitempty"`
	ServicePresets *ServiceStore `yaml:"service_presets,omitempty"`
}

func (c Config) Merge(right Config) Config {
	return Config{
		ComposePresets: merge.Map(c.ComposePresets, right.ComposePresets),
		ServicePresets: merge.Map(c.ServicePresets, right.ServicePresets),
	}
}

// ServiceFromCLI is a service added with the --service flag.
type ServiceFromCLI struct {
	ID   string
	Name string
}

// ParseServiceFlag accepts `ID` or `id=ID,name=NAME`.
func ParseServiceFlag(s string) (ServiceFromCLI, error) {
	if !strings.Contains(s, "=") {
		if strings.TrimSpace(s) == "" {
			return ServiceFromCLI{}, errUtils.Errorf(errUtils.ErrInvalidServiceFlag, "empty service")
		}
		return ServiceFromCLI{ID: strings.TrimSpace(s)}, nil
	}

	var out ServiceFromCLI
	for pair := range strings.SplitSeq(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return ServiceFromCLI{}, errUtils.Errorf(errUtils.ErrInvalidServiceFlag, "`%s` is not a key=value pair", pair)
		}
		switch strings.TrimSpace(key) {
		case "id":
			out.ID = strings.TrimSpace(value)
		case "name":
			out.Name = strings.TrimSpace(value)
		default:
			return ServiceFromCLI{}, errUtils.Errorf(errUtils.ErrInvalidServiceFlag, "invalid key `%s`", key)
		}
	}
	if out.ID == "" {
		return ServiceFromCLI{}, errUtils.Errorf(errUtils.ErrInvalidServiceFlag, "missing the preset id in `%s`", s)
	}
	return out, nil
}

// Compose builds the compose file of the docker-compose command: the preset with the given id, or an
// empty file under the `__from_cli` id, plus the services added on the command line.
func (c Config) Compose(id string, services []ServiceFromCLI) (File, error) {
	var p Preset
	resolveID := preset.FromCLIID
	if id != "" {
		stored, ok := c.ComposePresets.Get(id)
		if !ok {
			return File{}, errUtils.NewPresetNotFoundError(string(preset.DockerCompose), id)
		}
		p = stored
		resolveID = id
	}
	p.Config.Services = maps.Clone(p.Config.Services)

	for _, s := range services {
		p.Config.AddService(s.ID, s.Name)
	}

	resolved, err := preset.Resolve(preset.DockerCompose, resolveID, p, c.ComposePresets)
	if err != nil {
		return File{}, err
	}
	return resolved.Config.ResolveServices(c.ServicePresets)
}
