package filematch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/sketch/errors"
)

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, file := range []string{
		"index.ts",
		"nested/file1.ts",
		"nested/nested2/file2.ts",
		"nested/readme.md",
	} {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

func TestSet_Match(t *testing.T) {
	set, err := Compile("index.ts", "**/nested2/*", "**/*.md")
	require.NoError(t, err)

	tests := []struct {
		path     string
		expected bool
	}{
		{"index.ts", true},
		{"nested/index.ts", false},
		{"nested/nested2/file2.ts", true},
		{"nested/file1.ts", false},
		{"readme.md", true},
		{"nested/readme.md", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, set.Match(tt.path))
		})
	}
}

func TestSet_StarCrossesSeparators(t *testing.T) {
	set, err := Compile("nested/*")
	require.NoError(t, err)

	assert.True(t, set.Match("nested/nested2/file2.ts"))
}

func TestSet_Files(t *testing.T) {
	root := setupTree(t)

	t.Run("no patterns lists everything sorted", func(t *testing.T) {
		set, err := Compile()
		require.NoError(t, err)

		files, err := set.Files(root)

		require.NoError(t, err)
		assert.Equal(t, []string{"index.ts", "nested/file1.ts", "nested/nested2/file2.ts", "nested/readme.md"}, files)
	})

	t.Run("excluded files are skipped", func(t *testing.T) {
		set, err := Compile("index.ts", "**/nested2/*")
		require.NoError(t, err)

		files, err := set.Files(root)

		require.NoError(t, err)
		assert.Equal(t, []string{"nested/file1.ts", "nested/readme.md"}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		set, err := Compile()
		require.NoError(t, err)

		_, err = set.Files(filepath.Join(root, "missing"))

		assert.ErrorIs(t, err, errUtils.ErrRead)
	})
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile("[")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not parse glob pattern `[`")
}

func TestNilSet(t *testing.T) {
	var set *Set

	assert.False(t, set.Match("anything"))
	assert.Nil(t, set.Patterns())
}
