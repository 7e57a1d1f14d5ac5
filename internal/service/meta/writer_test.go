package meta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/snap-meta/internal/config"
	"github.com/oshokin/snap-meta/internal/repository/files"
)

func newMemWriter(t *testing.T) (*Writer, *files.Store) {
	t.Helper()

	store := files.NewStore(afero.NewMemMapFs(), config.DefaultDirPermissions)
	require.NoError(t, store.WriteFile("project/my-icon.png", []byte("icon"), config.DefaultFilePermissions))

	writer, err := NewWriter(store, Options{
		ProjectDir:  "project",
		PackageRoot: "project/snap",
	})
	require.NoError(t, err)

	return writer, store
}

func readString(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)

	return string(data)
}

// TestWriter_CreateMeta writes the manifest, readme and relocated icon.
func TestWriter_CreateMeta(t *testing.T) {
	t.Parallel()

	writer, store := newMemWriter(t)

	project := &config.Project{
		Name:        "my-package",
		Version:     "1.0",
		Vendor:      "Sergio Schvezov <sergio.schvezov@canonical.com>",
		Description: "my description",
		Summary:     "my summary",
		Icon:        "my-icon.png",
	}

	result, err := writer.Create(context.Background(), project, []string{"amd64"})
	require.NoError(t, err)

	metaDir := filepath.Join("project", "snap", "meta")
	require.Equal(t, filepath.Join(metaDir, ManifestFilename), result.ManifestPath)
	require.Equal(t, filepath.Join(metaDir, ReadmeFilename), result.ReadmePath)
	require.Equal(t, filepath.Join(metaDir, "my-icon.png"), result.IconPath)
	require.Empty(t, result.Wrappers)

	expected := "architectures:\n" +
		"  - amd64\n" +
		"icon: meta/my-icon.png\n" +
		"name: my-package\n" +
		"vendor: Sergio Schvezov <sergio.schvezov@canonical.com>\n" +
		"version: '1.0'\n"
	require.Equal(t, expected, readString(t, store.Fs(), result.ManifestPath))
	require.Equal(t, "my summary\nmy description\n", readString(t, store.Fs(), result.ReadmePath))
	require.Equal(t, "icon", readString(t, store.Fs(), result.IconPath))

	// The input project is left untouched.
	require.Equal(t, "my-icon.png", project.Icon)
}

// TestWriter_CreateWritesWrappers substitutes wrapper paths and writes their launchers.
func TestWriter_CreateWritesWrappers(t *testing.T) {
	t.Parallel()

	writer, store := newMemWriter(t)

	exec := "bin/binary1.sh go"
	stop := "binary2 --stop"
	project := &config.Project{
		Name:     "my-package",
		Version:  "1.0",
		Vendor:   "V",
		Icon:     "my-icon.png",
		Binaries: []config.Binary{{Name: "binary1", Exec: &exec}},
		Services: []config.Service{{Name: "binary2", Stop: &stop}},
	}

	result, err := writer.Create(context.Background(), project, nil)
	require.NoError(t, err)

	require.Equal(t, "bin/binary1.sh.wrapper go", result.Manifest.Binaries[0].Exec)
	require.Equal(t, "binary2.wrapper", result.Manifest.Services[0].Start)
	require.Equal(t, "binary2.wrapper --stop", *result.Manifest.Services[0].Stop)

	require.Equal(t, []Wrapped{
		{Wrapper: "bin/binary1.sh.wrapper", Executable: "bin/binary1.sh"},
		{Wrapper: "binary2.wrapper", Executable: "binary2"},
	}, result.Wrappers)

	launcher := readString(t, store.Fs(), filepath.Join("project", "snap", "bin", "binary1.sh.wrapper"))
	require.Equal(t, "#!/bin/sh\n\nexec \"$SNAP_APP_PATH/bin/binary1.sh\" $*\n", launcher)

	manifest := readString(t, store.Fs(), result.ManifestPath)
	require.Contains(t, manifest, "exec: bin/binary1.sh.wrapper go\n")
	require.NotContains(t, manifest, "architectures")
}

// TestWriter_CreateIsRepeatable regenerates identical files on a second run.
func TestWriter_CreateIsRepeatable(t *testing.T) {
	t.Parallel()

	writer, store := newMemWriter(t)
	project := &config.Project{Name: "p", Version: "1.0", Vendor: "V", Icon: "my-icon.png", Summary: "S"}

	first, err := writer.Create(context.Background(), project, []string{"amd64"})
	require.NoError(t, err)

	firstManifest := readString(t, store.Fs(), first.ManifestPath)

	second, err := writer.Create(context.Background(), project, []string{"amd64"})
	require.NoError(t, err)
	require.Equal(t, firstManifest, readString(t, store.Fs(), second.ManifestPath))
}

// TestWriter_CreateErrors aborts on invalid configuration and a missing icon.
func TestWriter_CreateErrors(t *testing.T) {
	t.Parallel()

	writer, store := newMemWriter(t)

	_, err := writer.Create(context.Background(), &config.Project{Name: "p", Version: "1", Vendor: "V"}, nil)
	require.ErrorIs(t, err, config.ErrMissingField)

	_, err = writer.Create(context.Background(), &config.Project{Name: "p", Version: "1", Vendor: "V", Icon: "absent.png"}, nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	exists, err := afero.Exists(store.Fs(), filepath.Join("project", "snap", "meta", ManifestFilename))
	require.NoError(t, err)
	require.False(t, exists)
}

// TestNewWriter validates and defaults the directory options.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	store := files.NewStore(afero.NewMemMapFs(), config.DefaultDirPermissions)

	_, err := NewWriter(store, Options{})
	require.Error(t, err)

	_, err = NewWriter(store, Options{PackageRoot: "snap", MetadataDir: "elsewhere"})
	require.Error(t, err)

	_, err = NewWriter(store, Options{PackageRoot: "snap", MetadataDir: "snap"})
	require.Error(t, err)

	writer, err := NewWriter(store, Options{PackageRoot: "snap", MetadataDir: "snap/data/meta"})
	require.NoError(t, err)
	require.Equal(t, "data/meta", writer.iconDir)

	writer, err = NewWriter(store, Options{PackageRoot: "snap/"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("snap", "meta"), writer.opts.MetadataDir)
	require.Equal(t, "meta", writer.iconDir)
}

// TestWriter_CreateIconAlreadyInMetadataDir keeps an icon that already sits at its destination.
func TestWriter_CreateIconAlreadyInMetadataDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	icon := filepath.Join(dir, "snap", "meta", "icon.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(icon), 0o755))
	require.NoError(t, os.WriteFile(icon, []byte("PNGDATA"), 0o644))

	writer, err := NewWriter(files.NewOSStore(config.DefaultDirPermissions), Options{
		ProjectDir:  dir,
		PackageRoot: filepath.Join(dir, "snap"),
	})
	require.NoError(t, err)

	project := &config.Project{Name: "p", Version: "1.0", Vendor: "V", Icon: "snap/meta/icon.png"}

	result, err := writer.Create(context.Background(), project, nil)
	require.NoError(t, err)
	require.Equal(t, "meta/icon.png", result.Manifest.Icon)

	data, err := os.ReadFile(icon)
	require.NoError(t, err)
	require.Equal(t, "PNGDATA", string(data))
}
