package template

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/sketch/pkg/orderedmap"
)

func TestContext_Precedence(t *testing.T) {
	global := map[string]any{"a": "global", "b": "global", "c": "global"}
	cli := map[string]any{"a": "cli"}
	c := NewContext(global, cli)

	assert.Equal(t, CliOverridesOnly, c.State())

	vars := c.ApplyLocal(map[string]any{"a": "local", "b": "local"})

	assert.Equal(t, Dirty, c.State())
	assert.Equal(t, "cli", vars["a"])
	assert.Equal(t, "local", vars["b"])
	assert.Equal(t, "global", vars["c"])

	vars = c.ApplyLocal(nil)

	assert.Equal(t, CliOverridesOnly, c.State())
	assert.Equal(t, "cli", vars["a"])
	assert.Equal(t, "global", vars["b"])
}

func TestContext_NoOverridesSharesGlobal(t *testing.T) {
	global := map[string]any{"a": 1}
	c := NewContext(global, nil)

	assert.Equal(t, NoCliOverrides, c.State())
	c.Vars()["probe"] = true
	assert.Equal(t, true, global["probe"])

	c.ApplyLocal(map[string]any{"b": 2})
	assert.Equal(t, Dirty, c.State())
	assert.NotContains(t, global, "b")

	c.ApplyLocal(map[string]any{})
	assert.Equal(t, NoCliOverrides, c.State())
	assert.Equal(t, "NoCliOverrides", c.State().String())
}

func TestDefaultContext(t *testing.T) {
	t.Setenv("USER", "frodo")
	t.Setenv("HOSTNAME", "shire")

	vars := DefaultContext()

	assert.Equal(t, runtime.GOOS, vars["sketch_os"])
	assert.Equal(t, runtime.GOARCH, vars["sketch_arch"])
	assert.Equal(t, "frodo", vars["sketch_user"])
	assert.Equal(t, "shire", vars["sketch_hostname"])
	for _, key := range []string{"sketch_cwd", "sketch_home", "sketch_tmp_dir", "sketch_xdg_config", "sketch_is_wsl"} {
		assert.Contains(t, vars, key)
	}
}

func TestGlobalVars_ConfigVarsWin(t *testing.T) {
	vars := GlobalVars(orderedmap.FromPairs[any](
		orderedmap.P[any]("sketch_os", "custom"),
		orderedmap.P[any]("nested", orderedmap.FromPairs[any](orderedmap.P[any]("k", "v"))),
	))

	assert.Equal(t, "custom", vars["sketch_os"])
	assert.Equal(t, map[string]any{"k": "v"}, vars["nested"])
}
