package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

func TestParseSetValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		value any
		err   error
	}{
		{name: "number", input: "port=8080", key: "port", value: 8080},
		{name: "float", input: "ratio=1.5", key: "ratio", value: 1.5},
		{name: "negative number", input: "offset=-3", key: "offset", value: -3},
		{name: "null", input: "owner=null", key: "owner", value: nil},
		{name: "string", input: `name="app"`, key: "name", value: "app"},
		{name: "bool", input: "private = true", key: "private", value: true},
		{name: "array", input: `tags=["a","b"]`, key: "tags", value: []any{"a", "b"}},
		{name: "value with equals", input: `expr="a=b"`, key: "expr", value: "a=b"},
		{name: "unquoted string", input: "name=app", err: errUtils.ErrInvalidSetValue},
		{name: "missing separator", input: "name", err: errUtils.ErrInvalidSetValue},
		{name: "empty key", input: "=1", err: errUtils.ErrInvalidSetValue},
		{name: "empty value", input: "name=", err: errUtils.ErrInvalidSetValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := ParseSetValue(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParseSetValue_Object(t *testing.T) {
	_, value, err := ParseSetValue(`owner={"name":"Ada","email":"ada@example.com"}`)
	require.NoError(t, err)

	owner, ok := value.(*orderedmap.Map[any])
	require.True(t, ok)
	assert.Equal(t, []string{"name", "email"}, owner.Keys())
}

func TestParseSetValues_LastWins(t *testing.T) {
	vars, err := ParseSetValues([]string{"a=1", "b=2", "a=3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vars.Keys())
	assert.Equal(t, map[string]any{"a": 3, "b": 2}, vars.Plain())
}

func TestLoadVarsFile(t *testing.T) {
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "vars.yaml")
	jsonFile := filepath.Join(dir, "vars.json")
	emptyFile := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("zeta: 1\nalpha: two\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"zeta": [1], "alpha": {"x": null}}`), 0o644))
	require.NoError(t, os.WriteFile(emptyFile, nil, 0o644))

	vars, err := LoadVarsFile(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, vars.Keys())

	vars, err = LoadVarsFile(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, vars.Keys())
	assert.Equal(t, map[string]any{"zeta": []any{1}, "alpha": map[string]any{"x": nil}}, vars.Plain())

	vars, err = LoadVarsFile(emptyFile)
	require.NoError(t, err)
	assert.Zero(t, vars.Len())

	_, err = LoadVarsFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, errUtils.ErrRead)
}

func TestLoadVarsFile_NotAMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

	_, err := LoadVarsFile(path)
	assert.ErrorIs(t, err, errUtils.ErrDeserialization)
}
