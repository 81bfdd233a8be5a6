package orderedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type manifest struct {
	Name    *string      `yaml:"name"`
	Private *bool        `yaml:"private,omitempty"`
	Files   []string     `yaml:"files"`
	Scripts *Map[string] `yaml:"scripts"`
	Skipped string       `yaml:"-"`
	Extras  *Map[any]    `yaml:"-"`
}

type plainManifest manifest

func TestDecodeStruct_CollectsUnknownKeys(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
name: app
zeta: 1
scripts: {test: vitest}
alpha: {nested: true}
`), &node))

	var m manifest
	extras, err := DecodeStruct(&node, (*plainManifest)(&m))

	require.NoError(t, err)
	assert.Equal(t, "app", *m.Name)
	assert.Equal(t, []string{"zeta", "alpha"}, extras.Keys())
	alpha, _ := extras.Get("alpha")
	assert.IsType(t, &Map[any]{}, alpha)
}

func TestDecodeStruct_NullNode(t *testing.T) {
	var m manifest
	extras, err := DecodeStruct(nil, (*plainManifest)(&m))

	require.NoError(t, err)
	assert.Nil(t, extras)
}

func TestFromStruct_SkipsZeroFieldsAndAppendsExtras(t *testing.T) {
	name := "app"
	m := manifest{
		Name:    &name,
		Scripts: New[string](),
		Skipped: "hidden",
		Extras:  FromPairs[any](P[any]("name", "ignored"), P[any]("custom", 1)),
	}

	out := FromStruct(m, m.Extras)

	assert.Equal(t, []string{"name", "custom"}, out.Keys())
	got, _ := out.Get("name")
	assert.Equal(t, &name, got)
}

func TestRenameKeys(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("dev_dependencies: {a: '1'}\nname: x\npeer_dependencies: {}\npeerDependencies: {b: '2'}\n"), &node))

	out := RenameKeys(&node, map[string]string{
		"dev_dependencies":  "devDependencies",
		"peer_dependencies": "peerDependencies",
	})

	var keys []string
	for i := 0; i < len(out.Content); i += 2 {
		keys = append(keys, out.Content[i].Value)
	}
	assert.Equal(t, []string{"devDependencies", "name", "peerDependencies"}, keys)
	assert.Equal(t, "dev_dependencies", node.Content[0].Content[0].Value)
}
