package exec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudposse/sketch/pkg/ts/barrel"
)

func TestExecuteBarrelCmd(t *testing.T) {
	dir := tempDir(t)
	for _, f := range []string{"utils.ts", "nested/math.ts"} {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	e, _ := newTestEnv(t, "")

	require.NoError(t, e.ExecuteBarrelCmd(barrel.Options{Dir: dir, JSExt: true}))
	assert.Equal(t, "export * from \"nested/math.js\";\nexport * from \"utils.js\";\n", readFile(t, filepath.Join(dir, barrel.DefaultFile)))
}
