package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

type labels struct {
	Owner  *string                 `yaml:"owner,omitempty"`
	Values *orderedmap.Map[string] `yaml:"values,omitempty"`
}

func (l labels) Merge(right labels) labels {
	return labels{
		Owner:  merge.Scalar(l.Owner, right.Owner),
		Values: merge.Map(l.Values, right.Values),
	}
}

func TestPreset_SplitsExtendsFromRecord(t *testing.T) {
	var p Preset[labels]
	require.NoError(t, yaml.Unmarshal([]byte(`
extends_presets: [base, other]
owner: me
values: {b: "2", a: "1"}
`), &p))

	assert.Equal(t, []string{"base", "other"}, p.Extends.Items())
	assert.Equal(t, "me", *p.Config.Owner)
	assert.Equal(t, []string{"b", "a"}, p.Config.Values.Keys())
}

func TestPreset_ResolvesThroughStore(t *testing.T) {
	store := orderedmap.New[Preset[labels]]()
	require.NoError(t, yaml.Unmarshal([]byte(`
base:
  owner: base
  values: {a: base}
child:
  extends_presets: [base]
  values: {b: child}
`), store))

	out, err := Lookup(Repo, "child", store)

	require.NoError(t, err)
	assert.Equal(t, "base", *out.Config.Owner)
	assert.Equal(t, []string{"a", "b"}, out.Config.Values.Keys())
}

func TestPreset_Encoding(t *testing.T) {
	owner := "me"
	p := Preset[labels]{
		Extends: orderedmap.NewSet("base"),
		Config:  labels{Owner: &owner},
	}

	t.Run("yaml", func(t *testing.T) {
		out, err := yaml.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, "extends_presets:\n    - base\nowner: me\n", string(out))
	})

	t.Run("json without parents is the record", func(t *testing.T) {
		out, err := Of(labels{Owner: &owner}).MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"Owner":"me","Values":null}`, string(out))
	})
}
