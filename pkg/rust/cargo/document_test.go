package cargo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeManifest(t *testing.T, doc string) Manifest {
	t.Helper()
	var m Manifest
	require.NoError(t, yaml.Unmarshal([]byte(doc), &m))
	return m
}

func TestManifest_Encode(t *testing.T) {
	m := decodeManifest(t, `
features:
  default: [std]
  std: []
dependencies:
  serde: {version: "1", features: [derive]}
  anyhow: "1"
  shared: {workspace: true}
lints:
  clippy:
    unwrap_used: deny
    pedantic: {level: warn, priority: -1}
bin:
  - name: demo
    path: src/main.rs
profile:
  release:
    lto: true
    codegen-units: 1
lib:
  path: src/lib.rs
  doctest: false
package:
  name: demo
  version: 0.1.0
  edition: "2024"
  keywords: [cli, scaffold]
  license: {workspace: true}
`)

	expected := `[package]
name = "demo"
version = "0.1.0"
edition = "2024"
license = { workspace = true }
keywords = ["cli", "scaffold"]

[lib]
path = "src/lib.rs"
doctest = false

[profile.release]
lto = true
codegen-units = 1

[[bin]]
path = "src/main.rs"
name = "demo"

[lints.clippy]
pedantic = { level = "warn", priority = -1 }
unwrap_used = "deny"

[dependencies]
anyhow = "1"
serde = { version = "1", features = ["derive"] }
shared = { workspace = true }

[features]
default = ["std"]
std = []
`
	assert.Equal(t, expected, m.Encode())
}

func TestManifest_EncodeInheritedLintsAndExtras(t *testing.T) {
	m := decodeManifest(t, `
package:
  name: demo
lints:
  workspace: true
badges:
  maintenance: {status: experimental}
`)

	expected := `[package]
name = "demo"

[lints]
workspace = true

[badges]
maintenance = { status = "experimental" }
`
	assert.Equal(t, expected, m.Encode())
}

func TestDependency_Value(t *testing.T) {
	no := false
	yes := true
	tests := []struct {
		name     string
		dep      Dependency
		expected string
	}{
		{
			name:     "version only",
			dep:      Dependency{Version: "1.0"},
			expected: `"1.0"`,
		},
		{
			name:     "git source",
			dep:      Dependency{Git: "https://github.com/org/repo", Branch: "main"},
			expected: `{ git = "https://github.com/org/repo", branch = "main" }`,
		},
		{
			name:     "flags",
			dep:      Dependency{Version: "1", Optional: &yes, DefaultFeatures: &no, Features: []string{"a"}},
			expected: `{ version = "1", optional = true, default-features = false, features = ["a"] }`,
		},
		{
			name:     "workspace",
			dep:      Dependency{Workspace: true, Features: []string{"x"}},
			expected: `{ workspace = true, features = ["x"] }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.dep.value()))
		})
	}
}

func TestDependency_Merge(t *testing.T) {
	left := Dependency{Git: "https://example.com/repo", Branch: "dev", Features: []string{"b"}}
	right := Dependency{Version: "2", Features: []string{"a"}}

	merged := left.Merge(right)
	assert.Equal(t, "2", merged.Version)
	assert.Empty(t, merged.Git)
	assert.Empty(t, merged.Branch)
	assert.Equal(t, []string{"a", "b"}, merged.Features)

	kept := left.Merge(Dependency{Features: []string{"c"}})
	assert.Equal(t, "https://example.com/repo", kept.Git)
	assert.Equal(t, []string{"b", "c"}, kept.Features)
}

func TestDependency_DecodeAliases(t *testing.T) {
	var deps Dependencies
	require.NoError(t, yaml.Unmarshal([]byte(`
tokio: {version: "1", default_features: false}
rand: "0.8"
`), &deps))

	require.NotNil(t, deps["tokio"].DefaultFeatures)
	assert.False(t, *deps["tokio"].DefaultFeatures)
	assert.True(t, deps["rand"].IsSimple())
}

func TestManifest_Merge(t *testing.T) {
	left := decodeManifest(t, `
package: {name: base, edition: "2021"}
dependencies: {serde: "1"}
features: {default: [a]}
`)
	right := decodeManifest(t, `
package: {edition: "2024"}
dependencies: {anyhow: "1"}
features: {default: [b]}
`)

	merged := left.Merge(right)
	assert.Equal(t, "base", merged.Package.Name)
	assert.Equal(t, "2024", merged.Package.Edition.Value)
	assert.Len(t, merged.Dependencies, 2)
	assert.Equal(t, []string{"a", "b"}, merged.Features["default"])
}

func TestManifest_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := Manifest{Package: &Package{Name: "demo"}}

	require.NoError(t, m.Write(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[package]\nname = \"demo\"\n", string(data))
}
