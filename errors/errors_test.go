package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindErrors_DisplayText(t *testing.T) {
	cause := fs.ErrPermission

	tests := []struct {
		name     string
		err      error
		kind     error
		expected string
	}{
		{
			name:     "dir creation",
			err:      NewDirCreationError("/tmp/out", cause),
			kind:     ErrDirCreation,
			expected: "Could not create the dir `/tmp/out`: permission denied",
		},
		{
			name:     "write",
			err:      NewWriteError("/tmp/out/a.txt", cause),
			kind:     ErrWrite,
			expected: "Failed to create or write to the file `/tmp/out/a.txt`: permission denied",
		},
		{
			name:     "read",
			err:      NewReadError("sketch.yaml", cause),
			kind:     ErrRead,
			expected: "Could not read the contents of `sketch.yaml`: permission denied",
		},
		{
			name:     "preset not found",
			err:      NewPresetNotFoundError("Templating", "readme"),
			kind:     ErrPresetNotFound,
			expected: "Templating preset `readme` not found",
		},
		{
			name:     "circular dependency",
			err:      NewCircularDependencyError("a -> b -> a"),
			kind:     ErrCircularDependency,
			expected: "a -> b -> a",
		},
		{
			name:     "deserialization",
			err:      NewDeserializationError("sketch.yaml", "bad indent"),
			kind:     ErrDeserialization,
			expected: "Error while deserializing the contents of `sketch.yaml`: bad indent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.kind)
		})
	}
}

func TestKindErrors_KeepCause(t *testing.T) {
	err := NewWriteError("x", fs.ErrPermission)

	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrRead)
}

func TestNewFileExistsError(t *testing.T) {
	err := NewFileExistsError("out/foo.txt")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileExists)
	assert.Contains(t, err.Error(), "already exists")
	assert.Contains(t, err.Error(), "`out/foo.txt`")
}

func TestBuild(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Build(nil).WithHint("ignored").Err())
	})

	t.Run("sentinel survives enrichment", func(t *testing.T) {
		err := Build(ErrTemplatesDirNotSet).
			WithHint("Set templates_dir in the config file").
			WithContext("preset", "docs").
			Err()

		assert.ErrorIs(t, err, ErrTemplatesDirNotSet)
		assert.Equal(t, ErrTemplatesDirNotSet.Error(), err.Error())
	})

	t.Run("explicit sentinel", func(t *testing.T) {
		err := Build(fmt.Errorf("boom")).WithSentinel(ErrShellCommandFailed).Err()

		assert.True(t, cerrors.Is(err, ErrShellCommandFailed))
	})
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: 0},
		{name: "plain", err: errors.New("x"), expected: 1},
		{name: "explicit", err: WithExitCode(errors.New("x"), 3), expected: 3},
		{name: "builder", err: Build(errors.New("x")).WithExitCode(4).Err(), expected: 4},
		{name: "exit code error", err: fmt.Errorf("%w: hook", ExitCodeError{Code: 7}), expected: 7},
		{name: "exec exit error", err: &exec.ExitError{}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestExit(t *testing.T) {
	var code int
	original := OsExit
	OsExit = func(c int) { code = c }
	t.Cleanup(func() { OsExit = original })

	PrintAndExit(WithExitCode(errors.New("failed"), 5))

	assert.Equal(t, 5, code)
}
