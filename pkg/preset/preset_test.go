package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

type testPreset struct {
	Extends *orderedmap.Set[string] `yaml:"extends_presets"`
	Name    *string                 `yaml:"name"`
	Labels  *orderedmap.Map[string] `yaml:"labels"`
	Child   *Ref[testPreset]        `yaml:"child"`
	Flag    *Toggle[testPreset]     `yaml:"flag"`
}

func (p testPreset) ExtendsPresets() *orderedmap.Set[string] { return p.Extends }

func (p testPreset) Merge(right testPreset) testPreset {
	return testPreset{
		Extends: merge.Set(p.Extends, right.Extends),
		Name:    merge.Scalar(p.Name, right.Name),
		Labels:  merge.Map(p.Labels, right.Labels),
		Child:   merge.Scalar(p.Child, right.Child),
		Flag:    merge.Scalar(p.Flag, right.Flag),
	}
}

func loadStore(t *testing.T, src string) *Store[testPreset] {
	t.Helper()
	store := orderedmap.New[testPreset]()
	require.NoError(t, yaml.Unmarshal([]byte(src), store))
	return store
}

func TestResolve_NoParentsReturnsPresetUnchanged(t *testing.T) {
	name := "solo"
	p := testPreset{Name: &name, Labels: orderedmap.FromPairs(orderedmap.P("a", "1"))}

	out, err := Resolve(TSPackage, InlinedID, p, orderedmap.New[testPreset]())

	require.NoError(t, err)
	assert.Same(t, p.Name, out.Name)
	assert.Same(t, p.Labels, out.Labels)
}

func TestResolve_MergesParentsLeftToRightThenSelf(t *testing.T) {
	store := loadStore(t, `
base:
  name: base
  labels: {a: base, b: base}
middle:
  extends_presets: [base]
  labels: {b: middle, c: middle}
other:
  name: other
  labels: {d: other}
`)
	p := testPreset{
		Extends: orderedmap.NewSet("middle", "other"),
		Labels:  orderedmap.FromPairs(orderedmap.P("a", "self")),
	}

	out, err := Resolve(TSPackage, InlinedID, p, store)

	require.NoError(t, err)
	assert.Equal(t, "other", *out.Name)
	assert.Equal(t, []string{"a", "b", "c", "d"}, out.Labels.Keys())
	a, _ := out.Labels.Get("a")
	b, _ := out.Labels.Get("b")
	assert.Equal(t, "self", a)
	assert.Equal(t, "middle", b)
}

func TestResolve_CircularDependency(t *testing.T) {
	store := loadStore(t, `
x:
  extends_presets: [y]
y:
  extends_presets: [x]
`)

	_, err := Lookup(Templates, "x", store)

	require.ErrorIs(t, err, errUtils.ErrCircularDependency)
	assert.Contains(t, err.Error(), "x -> y -> x")
	assert.Contains(t, err.Error(), "Found circular Templates dependency for 'x'")
}

func TestResolve_SelfReference(t *testing.T) {
	store := loadStore(t, `
loop:
  extends_presets: [loop]
`)

	_, err := Lookup(Gitignore, "loop", store)

	assert.ErrorIs(t, err, errUtils.ErrCircularDependency)
	assert.Contains(t, err.Error(), "loop -> loop")
}

func TestResolve_MissingParent(t *testing.T) {
	p := testPreset{Extends: orderedmap.NewSet("ghost")}

	_, err := Resolve(DockerService, InlinedID, p, orderedmap.New[testPreset]())

	assert.ErrorIs(t, err, errUtils.ErrPresetNotFound)
	assert.EqualError(t, err, "DockerService preset `ghost` not found")
}

func TestLookup_Missing(t *testing.T) {
	_, err := Lookup(CargoToml, "nope", orderedmap.New[testPreset]())

	assert.EqualError(t, err, "CargoToml preset `nope` not found")
}

func TestRef_DecodeAndResolve(t *testing.T) {
	store := loadStore(t, `
base:
  name: base
with_id:
  child: base
with_inline:
  child:
    extends_presets: [base]
    labels: {k: v}
with_flags:
  flag: false
with_true:
  flag: true
`)

	withID, _ := store.Get("with_id")
	assert.True(t, withID.Child.IsID())
	resolved, err := ResolveRef(TSPackage, withID.Child, InlinedID, store)
	require.NoError(t, err)
	assert.Equal(t, "base", *resolved.Name)

	withInline, _ := store.Get("with_inline")
	assert.False(t, withInline.Child.IsID())
	resolved, err = ResolveRef(TSPackage, withInline.Child, InlinedID, store)
	require.NoError(t, err)
	assert.Equal(t, "base", *resolved.Name)
	assert.Equal(t, 1, resolved.Labels.Len())

	withFlags, _ := store.Get("with_flags")
	assert.True(t, withFlags.Flag.IsDisabled())
	withTrue, _ := store.Get("with_true")
	assert.True(t, withTrue.Flag.IsDefault())

	def := "default"
	resolved, err = ResolveToggle(Oxlint, withTrue.Flag, InlinedID, store, func() testPreset {
		return testPreset{Name: &def}
	})
	require.NoError(t, err)
	assert.Equal(t, "default", *resolved.Name)
}

func TestToggle_NilIsDisabled(t *testing.T) {
	var toggle *Toggle[testPreset]

	assert.True(t, toggle.IsDisabled())
	assert.False(t, toggle.IsDefault())
}
