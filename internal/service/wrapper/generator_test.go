package wrapper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/snap-meta/internal/repository/files"
)

// TestGenerator_WritesWrapper checks the exact launcher content written below the package root.
func TestGenerator_WritesWrapper(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "snap")
	require.NoError(t, os.Mkdir(root, 0o755))

	generator := NewGenerator(files.NewOSStore(0o755), root)

	relativeWrapperPath, err := generator.Wrap(context.Background(), "test_relexepath")
	require.NoError(t, err)
	require.Equal(t, "test_relexepath.wrapper", relativeWrapperPath)

	contents, err := os.ReadFile(filepath.Join(root, relativeWrapperPath))
	require.NoError(t, err)

	expected := "#!/bin/sh\n" +
		"\n" +
		"exec \"$SNAP_APP_PATH/test_relexepath\" $*\n"
	require.Equal(t, expected, string(contents))

	info, err := os.Stat(filepath.Join(root, relativeWrapperPath))
	require.NoError(t, err)
	require.Equal(t, DefaultFileMode, info.Mode().Perm())
}

// TestGenerator_Idempotent wraps the same path twice and expects identical results.
func TestGenerator_Idempotent(t *testing.T) {
	t.Parallel()

	store := files.NewStore(afero.NewMemMapFs(), 0o755)
	generator := NewGenerator(store, "snap")

	first, err := generator.Wrap(context.Background(), "bin/tool")
	require.NoError(t, err)

	firstContents, err := afero.ReadFile(store.Fs(), filepath.Join("snap", first))
	require.NoError(t, err)

	second, err := generator.Wrap(context.Background(), "bin/tool")
	require.NoError(t, err)

	secondContents, err := afero.ReadFile(store.Fs(), filepath.Join("snap", second))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, firstContents, secondContents)
	require.Equal(t, []string{"bin/tool.wrapper"}, generator.Wrapped())

	executable, ok := generator.Executable("bin/tool.wrapper")
	require.True(t, ok)
	require.Equal(t, "bin/tool", executable)
}

// TestGenerator_DistinctPaths ensures distinct executables get distinct wrappers.
func TestGenerator_DistinctPaths(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(files.NewStore(afero.NewMemMapFs(), 0o755), "snap")

	a, err := generator.Wrap(context.Background(), "binary1")
	require.NoError(t, err)

	b, err := generator.Wrap(context.Background(), "bin/binary1")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Equal(t, []string{"binary1.wrapper", "bin/binary1.wrapper"}, generator.Wrapped())
}

// TestGenerator_RejectsInvalidPaths covers paths no launcher can be derived from.
func TestGenerator_RejectsInvalidPaths(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(files.NewStore(afero.NewMemMapFs(), 0o755), "snap")

	for _, relExecPath := range []string{"", "/usr/bin/env", "..", "../outside", ".", `say"hi`, "$HOME/bin", "a\nb"} {
		_, err := generator.Wrap(context.Background(), relExecPath)
		require.ErrorIs(t, err, ErrInvalidExecPath, relExecPath)
	}

	require.Empty(t, generator.Wrapped())
}

// TestGenerator_Collision rejects wrappers that would clobber an executable of the same run.
func TestGenerator_Collision(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(files.NewStore(afero.NewMemMapFs(), 0o755), "snap")

	_, err := generator.Wrap(context.Background(), "tool")
	require.NoError(t, err)

	_, err = generator.Wrap(context.Background(), "tool.wrapper")
	require.ErrorIs(t, err, ErrWrapperCollision)

	reversed := NewGenerator(files.NewStore(afero.NewMemMapFs(), 0o755), "snap")

	_, err = reversed.Wrap(context.Background(), "tool.wrapper")
	require.NoError(t, err)

	_, err = reversed.Wrap(context.Background(), "tool")
	require.ErrorIs(t, err, ErrWrapperCollision)
}

type failingWriter struct{}

func (failingWriter) WriteFile(string, []byte, os.FileMode) error {
	return os.ErrPermission
}

// TestGenerator_PropagatesWriteError returns the filesystem error and records nothing.
func TestGenerator_PropagatesWriteError(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(failingWriter{}, "snap", WithFileMode(0o700))

	_, err := generator.Wrap(context.Background(), "tool")
	require.True(t, errors.Is(err, os.ErrPermission))
	require.Empty(t, generator.Wrapped())
}

// TestGenerator_MissingRoot fails when the package root has not been created.
func TestGenerator_MissingRoot(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(files.NewOSStore(0o755), filepath.Join(t.TempDir(), "absent"))

	_, err := generator.Wrap(context.Background(), "tool")
	require.ErrorIs(t, err, os.ErrNotExist)
}
