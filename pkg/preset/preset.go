// Package preset resolves presets that inherit from other presets of the same kind.
package preset

import (
	"fmt"
	"strings"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Kind tags a preset store in diagnostics.
type Kind string

const (
	PackageJSON        Kind = "PackageJson"
	TSPackage          Kind = "TsPackage"
	TSConfig           Kind = "TsConfig"
	Templates          Kind = "Templates"
	Oxlint             Kind = "Oxlint"
	PreCommit          Kind = "PreCommit"
	Repo               Kind = "Repo"
	Gitignore          Kind = "Gitignore"
	PnpmWorkspace      Kind = "PnpmWorkspace"
	Vitest             Kind = "Vitest"
	DockerCompose      Kind = "DockerCompose"
	DockerService      Kind = "DockerService"
	CargoToml          Kind = "CargoToml"
	GithubWorkflow     Kind = "GithubWorkflow"
	GithubWorkflowJob  Kind = "GithubWorkflowJob"
	GithubWorkflowStep Kind = "GithubWorkflowStep"
	RustCrate          Kind = "RustCrate"
)

// Synthetic ids used for presets that do not live in a store.
const (
	InlinedID           = "__inlined"
	InlinedDefinitionID = "__inlined_definition"
	FromCLIID           = "__from_cli"
)

// Extensible is a preset that can name parents of its own kind.
type Extensible[T any] interface {
	ExtendsPresets() *orderedmap.Set[string]
	Merge(right T) T
}

// Store holds the presets of one kind by id.
type Store[T any] = orderedmap.Map[T]

// Resolve merges the parents named by p, left to right, and then p itself on top.
// A preset without parents is returned unchanged.
func Resolve[T Extensible[T]](kind Kind, id string, p T, store *Store[T]) (T, error) {
	return resolve(kind, id, p, store, orderedmap.NewSet[string]())
}

func resolve[T Extensible[T]](kind Kind, id string, p T, store *Store[T], visited *orderedmap.Set[string]) (T, error) {
	var zero T
	if !visited.Add(id) {
		chain := append(visited.Items(), id)
		return zero, errUtils.NewCircularDependencyError(fmt.Sprintf(
			"Found circular %s dependency for '%s'. The full processed chain is: %s",
			kind, id, strings.Join(chain, " -> ")))
	}

	parents := p.ExtendsPresets()
	if parents.Len() == 0 {
		return p, nil
	}

	log.Trace("Resolving preset", "kind", kind, "id", id, "extends", parents.Items())

	var aggregate *T
	for parentID := range parents.All() {
		parent, ok := store.Get(parentID)
		if !ok {
			return zero, errUtils.NewPresetNotFoundError(string(kind), parentID)
		}
		resolved, err := resolve(kind, parentID, parent, store, visited)
		if err != nil {
			return zero, err
		}
		if aggregate == nil {
			aggregate = &resolved
			continue
		}
		merged := (*aggregate).Merge(resolved)
		aggregate = &merged
	}

	return (*aggregate).Merge(p), nil
}

// Lookup fetches id from store and resolves it.
func Lookup[T Extensible[T]](kind Kind, id string, store *Store[T]) (T, error) {
	p, ok := store.Get(id)
	if !ok {
		var zero T
		return zero, errUtils.NewPresetNotFoundError(string(kind), id)
	}
	return Resolve(kind, id, p, store)
}
