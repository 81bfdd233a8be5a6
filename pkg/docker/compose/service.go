package compose

import (
	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// Service is a service of a compose file.
type Service struct {
	Image         string               `yaml:"image,omitempty"`
	Build         *Build               `yaml:"build,omitempty"`
	ContainerName string               `yaml:"container_name,omitempty"`
	Hostname      string               `yaml:"hostname,omitempty"`
	Platform      string               `yaml:"platform,omitempty"`
	User          string               `yaml:"user,omitempty"`
	WorkingDir    string               `yaml:"working_dir,omitempty"`
	Command       Command              `yaml:"command,omitempty"`
	Entrypoint    Command              `yaml:"entrypoint,omitempty"`
	Environment   Env                  `yaml:"environment,omitempty"`
	EnvFile       StringList           `yaml:"env_file,omitempty"`
	Ports         Entries              `yaml:"ports,omitempty"`
	Expose        StringList           `yaml:"expose,omitempty"`
	Volumes       Entries              `yaml:"volumes,omitempty"`
	Networks      Names                `yaml:"networks,omitempty"`
	DependsOn     Names                `yaml:"depends_on,omitempty"`
	Profiles      []string             `yaml:"profiles,omitempty"`
	Restart       string               `yaml:"restart,omitempty"`
	Healthcheck   *orderedmap.Map[any] `yaml:"healthcheck,omitempty"`
	Labels        Env                  `yaml:"labels,omitempty"`
	Extras        *orderedmap.Map[any] `yaml:"-"`
}

type plainService Service

func (s *Service) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainService)(s))
	if err != nil {
		return err
	}
	s.Extras = extras
	return nil
}

func (s Service) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(s, s.Extras), nil
}

// Merge overrides scalars and commands, merges maps key by key and unites lists.
func (s Service) Merge(right Service) Service {
	return Service{
		Image:         merge.Value(s.Image, right.Image),
		Build:         merge.Nested(s.Build, right.Build),
		ContainerName: merge.Value(s.ContainerName, right.ContainerName),
		Hostname:      merge.Value(s.Hostname, right.Hostname),
		Platform:      merge.Value(s.Platform, right.Platform),
		User:          merge.Value(s.User, right.User),
		WorkingDir:    merge.Value(s.WorkingDir, right.WorkingDir),
		Command:       mergeCommand(s.Command, right.Command),
		Entrypoint:    mergeCommand(s.Entrypoint, right.Entrypoint),
		Environment:   s.Environment.Merge(right.Environment),
		EnvFile:       s.EnvFile.Merge(right.EnvFile),
		Ports:         s.Ports.Merge(right.Ports),
		Expose:        s.Expose.Merge(right.Expose),
		Volumes:       s.Volumes.Merge(right.Volumes),
		Networks:      s.Networks.Merge(right.Networks),
		DependsOn:     s.DependsOn.Merge(right.DependsOn),
		Profiles:      merge.SortedSet(s.Profiles, right.Profiles),
		Restart:       merge.Value(s.Restart, right.Restart),
		Healthcheck:   merge.Map(s.Healthcheck, right.Healthcheck),
		Labels:        s.Labels.Merge(right.Labels),
		Extras:        merge.Map(s.Extras, right.Extras),
	}
}

func mergeCommand(left, right Command) Command {
	if right.IsZero() {
		return left
	}
	return right
}

// Build is the build section of a service. A plain string is the build context.
type Build struct {
	Context    string               `yaml:"context,omitempty"`
	Dockerfile string               `yaml:"dockerfile,omitempty"`
	Target     string               `yaml:"target,omitempty"`
	Args       Env                  `yaml:"args,omitempty"`
	Extras     *orderedmap.Map[any] `yaml:"-"`
}

type plainBuild Build

func (b *Build) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&b.Context)
	}
	extras, err := orderedmap.DecodeStruct(node, (*plainBuild)(b))
	if err != nil {
		return err
	}
	b.Extras = extras
	return nil
}

func (b Build) MarshalYAML() (any, error) {
	if b.Dockerfile == "" && b.Target == "" && b.Args.Len() == 0 && b.Extras.Len() == 0 {
		return b.Context, nil
	}
	return orderedmap.FromStruct(b, b.Extras), nil
}

func (b Build) Merge(right Build) Build {
	return Build{
		Context:    merge.Value(b.Context, right.Context),
		Dockerfile: merge.Value(b.Dockerfile, right.Dockerfile),
		Target:     merge.Value(b.Target, right.Target),
		Args:       b.Args.Merge(right.Args),
		Extras:     merge.Map(b.Extras, right.Extras),
	}
}

// ServicePreset is a service preset.
type ServicePreset = preset.Preset[Service]

// ServiceStore is the service_presets section of the docker config.
type ServiceStore = preset.Store[ServicePreset]

// ServiceRef selects a service preset by id or defines a service inline.
type ServiceRef = preset.Ref[ServicePreset]
