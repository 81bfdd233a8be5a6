// Package workflow models GitHub Actions workflows and the workflow, job and step presets they are built from.
package workflow

import (
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/utils"
)

// Dir is where GitHub looks for workflow files, relative to the repository root.
var Dir = filepath.Join(".github", "workflows")

// Workflow is a GitHub Actions workflow file.
type Workflow struct {
	Name        string                   `yaml:"name,omitempty"`
	RunName     string                   `yaml:"run-name,omitempty"`
	On          Triggers                 `yaml:"on,omitempty"`
	Permissions *Permissions             `yaml:"permissions,omitempty"`
	Env         *orderedmap.Map[any]     `yaml:"env,omitempty"`
	Defaults    *orderedmap.Map[any]     `yaml:"defaults,omitempty"`
	Concurrency *Concurrency             `yaml:"concurrency,omitempty"`
	Jobs        *orderedmap.Map[*JobRef] `yaml:"jobs,omitempty"`
	Extras      *orderedmap.Map[any]     `yaml:"-"`
}

type plainWorkflow Workflow

func (w *Workflow) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainWorkflow)(w))
	if err != nil {
		return err
	}
	w.Extras = extras
	return nil
}

func (w Workflow) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(w, w.Extras), nil
}

// Merge overrides scalars, merges maps key by key and replaces jobs by id.
func (w Workflow) Merge(right Workflow) Workflow {
	return Workflow{
		Name:        merge.Value(w.Name, right.Name),
		RunName:     merge.Value(w.RunName, right.RunName),
		On:          w.On.Merge(right.On),
		Permissions: merge.Nested(w.Permissions, right.Permissions),
		Env:         merge.Map(w.Env, right.Env),
		Defaults:    merge.Map(w.Defaults, right.Defaults),
		Concurrency: merge.Scalar(w.Concurrency, right.Concurrency),
		Jobs:        merge.Map(w.Jobs, right.Jobs),
		Extras:      merge.Map(w.Extras, right.Extras),
	}
}

// Job is a job that runs steps, or one that calls a reusable workflow with `uses`.
type Job struct {
	Name            string                  `yaml:"name,omitempty"`
	RunsOn          any                     `yaml:"runs-on,omitempty"`
	Needs           Needs                   `yaml:"needs,omitempty"`
	If              string                  `yaml:"if,omitempty"`
	Permissions     *Permissions            `yaml:"permissions,omitempty"`
	Environment     any                     `yaml:"environment,omitempty"`
	Concurrency     *Concurrency            `yaml:"concurrency,omitempty"`
	Outputs         *orderedmap.Map[string] `yaml:"outputs,omitempty"`
	Env             *orderedmap.Map[any]    `yaml:"env,omitempty"`
	Defaults        *orderedmap.Map[any]    `yaml:"defaults,omitempty"`
	TimeoutMinutes  any                     `yaml:"timeout-minutes,omitempty"`
	ContinueOnError any                     `yaml:"continue-on-error,omitempty"`
	Container       any                     `yaml:"container,omitempty"`
	Services        *orderedmap.Map[any]    `yaml:"services,omitempty"`
	Strategy        *orderedmap.Map[any]    `yaml:"strategy,omitempty"`
	Uses            string                  `yaml:"uses,omitempty"`
	With            *orderedmap.Map[any]    `yaml:"with,omitempty"`
	Secrets         any                     `yaml:"secrets,omitempty"`
	Steps           []*StepRef              `yaml:"steps,omitempty"`
	Extras          *orderedmap.Map[any]    `yaml:"-"`
}

type plainJob Job

func (j *Job) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainJob)(j))
	if err != nil {
		return err
	}
	j.Extras = extras
	return nil
}

func (j Job) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(j, j.Extras), nil
}

// Merge overrides scalars, merges maps key by key and appends the steps of right.
func (j Job) Merge(right Job) Job {
	return Job{
		Name:            merge.Value(j.Name, right.Name),
		RunsOn:          mergeAny(j.RunsOn, right.RunsOn),
		Needs:           j.Needs.Merge(right.Needs),
		If:              merge.Value(j.If, right.If),
		Permissions:     merge.Nested(j.Permissions, right.Permissions),
		Environment:     mergeAny(j.Environment, right.Environment),
		Concurrency:     merge.Scalar(j.Concurrency, right.Concurrency),
		Outputs:         merge.Map(j.Outputs, right.Outputs),
		Env:             merge.Map(j.Env, right.Env),
		Defaults:        merge.Map(j.Defaults, right.Defaults),
		TimeoutMinutes:  mergeAny(j.TimeoutMinutes, right.TimeoutMinutes),
		ContinueOnError: mergeAny(j.ContinueOnError, right.ContinueOnError),
		Container:       mergeAny(j.Container, right.Container),
		Services:        merge.Map(j.Services, right.Services),
		Strategy:        merge.Map(j.Strategy, right.Strategy),
		Uses:            merge.Value(j.Uses, right.Uses),
		With:            merge.Map(j.With, right.With),
		Secrets:         mergeAny(j.Secrets, right.Secrets),
		Steps:           slices.Concat(j.Steps, right.Steps),
		Extras:          merge.Map(j.Extras, right.Extras),
	}
}

// Step is a step of a job.
type Step struct {
	Name             string               `yaml:"name,omitempty"`
	ID               string               `yaml:"id,omitempty"`
	If               string               `yaml:"if,omitempty"`
	Uses             string               `yaml:"uses,omitempty"`
	With             *orderedmap.Map[any] `yaml:"with,omitempty"`
	Run              string               `yaml:"run,omitempty"`
	Shell            string               `yaml:"shell,omitempty"`
	WorkingDirectory string               `yaml:"working-directory,omitempty"`
	Env              *orderedmap.Map[any] `yaml:"env,omitempty"`
	ContinueOnError  any                  `yaml:"continue-on-error,omitempty"`
	TimeoutMinutes   any                  `yaml:"timeout-minutes,omitempty"`
	Extras           *orderedmap.Map[any] `yaml:"-"`
}

type plainStep Step

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainStep)(s))
	if err != nil {
		return err
	}
	s.Extras = extras
	return nil
}

func (s Step) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(s, s.Extras), nil
}

func (s Step) Merge(right Step) Step {
	return Step{
		Name:             merge.Value(s.Name, right.Name),
		ID:               merge.Value(s.ID, right.ID),
		If:               merge.Value(s.If, right.If),
		Uses:             merge.Value(s.Uses, right.Uses),
		With:             merge.Map(s.With, right.With),
		Run:              merge.Value(s.Run, right.Run),
		Shell:            merge.Value(s.Shell, right.Shell),
		WorkingDirectory: merge.Value(s.WorkingDirectory, right.WorkingDirectory),
		Env:              merge.Map(s.Env, right.Env),
		ContinueOnError:  mergeAny(s.ContinueOnError, right.ContinueOnError),
		TimeoutMinutes:   mergeAny(s.TimeoutMinutes, right.TimeoutMinutes),
		Extras:           merge.Map(s.Extras, right.Extras),
	}
}

func mergeAny(left, right any) any {
	if right != nil {
		return right
	}
	return left
}

// Preset is a workflow preset.
type Preset = preset.Preset[Workflow]

// Store is the workflow_presets section of the github config.
type Store = preset.Store[Preset]

// Ref selects a workflow preset by id or defines a workflow inline.
type Ref = preset.Ref[Preset]

// JobPreset is a job preset.
type JobPreset = preset.Preset[Job]

// JobStore is the workflow_job_presets section of the github config.
type JobStore = preset.Store[JobPreset]

// JobRef selects a job preset by id or defines a job inline.
type JobRef = preset.Ref[JobPreset]

// StepPreset is a step preset.
type StepPreset = preset.Preset[Step]

// StepStore is the steps_presets section of the github config.
type StepStore = preset.Store[StepPreset]

// StepRef selects a step preset by id or defines a step inline.
type StepRef = preset.Ref[StepPreset]

// Config is the github section of the configuration.
type Config struct {
	WorkflowPresets *Store     `yaml:"workflow_presets,omitempty"`
	JobPresets      *JobStore  `yaml:"workflow_job_presets,omitempty"`
	StepPresets     *StepStore `yaml:"steps_presets,omitempty"`
}

func (c Config) Merge(right Config) Config {
	return Config{
		WorkflowPresets: merge.Map(c.WorkflowPresets, right.WorkflowPresets),
		JobPresets:      merge.Map(c.JobPresets, right.JobPresets),
		StepPresets:     merge.Map(c.StepPresets, right.StepPresets),
	}
}

// Lookup returns the workflow preset with the given id with its jobs and steps resolved.
func (c Config) Lookup(id string) (Workflow, error) {
	p, err := preset.Lookup(preset.GithubWorkflow, id, c.WorkflowPresets)
	if err != nil {
		return Workflow{}, err
	}
	return c.ResolveJobs(p.Config)
}

// ResolveRef resolves a workflow reference and then its jobs. Inline workflows are resolved under the
// `__inlined` id.
func (c Config) ResolveRef(ref *Ref) (Workflow, error) {
	p, err := preset.ResolveRef(preset.GithubWorkflow, ref, preset.InlinedID, c.WorkflowPresets)
	if err != nil {
		return Workflow{}, err
	}
	return c.ResolveJobs(p.Config)
}

// ResolveJobs replaces job and step references with their resolved definitions.
// Inline jobs and steps are resolved under the `__inlined` id.
func (c Config) ResolveJobs(w Workflow) (Workflow, error) {
	out := w
	out.Jobs = orderedmap.New[*JobRef]()
	for id, ref := range w.Jobs.All() {
		job, err := preset.ResolveRef(preset.GithubWorkflowJob, ref, preset.InlinedID, c.JobPresets)
		if err != nil {
			return Workflow{}, err
		}
		steps := make([]*StepRef, 0, len(job.Config.Steps))
		for _, stepRef := range job.Config.Steps {
			step, err := preset.ResolveRef(preset.GithubWorkflowStep, stepRef, preset.InlinedID, c.StepPresets)
			if err != nil {
				return Workflow{}, err
			}
			steps = append(steps, preset.InlineRef(preset.Of(step.Config)))
		}
		resolved := job.Config
		resolved.Steps = steps
		out.Jobs.Set(id, preset.InlineRef(preset.Of(resolved)))
	}
	return out, nil
}

// Write writes w as YAML through the overwrite policy.
func (w Workflow) Write(path string, overwrite bool) error {
	log.Debug("Writing github workflow", "path", path, "jobs", w.Jobs.Len())
	return utils.WriteToFileAsYAML(path, w, overwrite)
}
