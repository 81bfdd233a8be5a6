package exec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/ts"
	"github.com/cloudposse/sketch/pkg/ts/vitest"
)

func readWorkspace(t *testing.T, path string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, path)), &out))
	return out
}

func TestExecuteTSMonorepoCmd_WithCatalog(t *testing.T) {
	root := tempDir(t)
	e, _ := newTestEnv(t, "typescript:\n  catalog: true\n")
	ctx := context.Background()

	require.NoError(t, e.ExecuteTSMonorepoCmd(ctx, TSMonorepoOptions{Dir: root}))

	pkg := readJSON(t, filepath.Join(root, "package.json"))
	assert.Equal(t, "root", pkg["name"])
	assert.Equal(t, "pnpm", pkg["packageManager"])
	assert.Equal(t, map[string]any{"oxlint": "catalog:", "typescript": "catalog:"}, pkg["devDependencies"])

	workspace := readWorkspace(t, filepath.Join(root, "pnpm-workspace.yaml"))
	assert.Equal(t, []any{"packages/*"}, workspace["packages"])
	assert.Equal(t, map[string]any{"oxlint": "^1.14.0", "typescript": "^5.9.2"}, workspace["catalog"])

	assert.DirExists(t, filepath.Join(root, "packages"))
	assert.FileExists(t, filepath.Join(root, "tsconfig.json"))
	assert.FileExists(t, filepath.Join(root, "tsconfig.options.json"))
	assert.FileExists(t, filepath.Join(root, ".oxlintrc.json"))
	assert.NoDirExists(t, filepath.Join(root, "src"))

	pkgDir := filepath.Join(root, "packages", "utils")
	require.NoError(t, e.ExecuteTSPackageCmd(ctx, TSPackageOptions{
		Dir:            pkgDir,
		Overrides:      ts.PackageConfig{Vitest: preset.EnabledToggle[vitest.Preset](true)},
		UpdateTSConfig: []string{filepath.Join(root, "tsconfig.json")},
	}))

	pkg = readJSON(t, filepath.Join(pkgDir, "package.json"))
	assert.Equal(t, "utils", pkg["name"])
	assert.Equal(t, "catalog:", pkg["devDependencies"].(map[string]any)["vitest"])

	workspace = readWorkspace(t, filepath.Join(root, "pnpm-workspace.yaml"))
	assert.Equal(t, "^3.2.4", workspace["catalog"].(map[string]any)["vitest"])

	rootTSConfig := readJSON(t, filepath.Join(root, "tsconfig.json"))
	assert.Equal(t, []any{map[string]any{"path": "packages/utils/tsconfig.json"}}, rootTSConfig["references"])

	assert.DirExists(t, filepath.Join(pkgDir, "src"))
	assert.FileExists(t, filepath.Join(pkgDir, "tsconfig.json"))
	assert.FileExists(t, filepath.Join(pkgDir, "tests", "vitest.config.ts"))
	assert.FileExists(t, filepath.Join(pkgDir, "tests", "setup", "tests_setup.ts"))
}

func TestExecuteTSPackageCmd_NamedCatalog(t *testing.T) {
	root := tempDir(t)
	e, _ := newTestEnv(t, `
typescript:
  catalog: true
  package_json_presets:
    ui:
      dependencies:
        svelte: "catalog:svelte"
  package_presets:
    ui:
      package_json: ui
`)
	ctx := context.Background()
	require.NoError(t, e.ExecuteTSMonorepoCmd(ctx, TSMonorepoOptions{Dir: root}))

	pkgDir := filepath.Join(root, "packages", "ui")
	require.NoError(t, e.ExecuteTSPackageCmd(ctx, TSPackageOptions{Dir: pkgDir, Preset: "ui"}))

	pkg := readJSON(t, filepath.Join(pkgDir, "package.json"))
	assert.Equal(t, map[string]any{"svelte": "catalog:svelte"}, pkg["dependencies"])

	workspace := readWorkspace(t, filepath.Join(root, "pnpm-workspace.yaml"))
	assert.Equal(t, map[string]any{"svelte": map[string]any{"svelte": "^5.0.0"}}, workspace["catalogs"])
	assert.NotContains(t, workspace["catalog"], "svelte")
}

func TestExecuteTSPackageCmd_Standalone(t *testing.T) {
	dir := filepath.Join(tempDir(t), "lib")
	e, _ := newTestEnv(t, `
typescript:
  package_json_presets:
    lib:
      dependencies:
        zod: latest
  package_presets:
    lib:
      package_json: lib
      license: MIT
`)

	require.NoError(t, e.ExecuteTSPackageCmd(context.Background(), TSPackageOptions{Dir: dir, Preset: "lib", Oxlint: true}))

	pkg := readJSON(t, filepath.Join(dir, "package.json"))
	assert.Equal(t, "lib", pkg["name"])
	assert.Equal(t, map[string]any{"zod": "^4.1.5"}, pkg["dependencies"])
	assert.Equal(t, map[string]any{"oxlint": "^1.14.0", "typescript": "^5.9.2"}, pkg["devDependencies"])
	assert.FileExists(t, filepath.Join(dir, LicenseFile))
	assert.FileExists(t, filepath.Join(dir, ".oxlintrc.json"))
	assert.NoFileExists(t, filepath.Join(dir, "tests", "vitest.config.ts"))
}

func TestExecuteTSPackageCmd_CatalogWithoutWorkspace(t *testing.T) {
	dir := filepath.Join(tempDir(t), "lib")
	e, _ := newTestEnv(t, "typescript:\n  catalog: true\n")

	err := e.ExecuteTSPackageCmd(context.Background(), TSPackageOptions{Dir: dir})
	assert.ErrorIs(t, err, errUtils.ErrWorkspaceNotFound)
}
