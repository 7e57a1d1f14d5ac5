package meta

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/oshokin/snap-meta/internal/config"
	"github.com/oshokin/snap-meta/internal/domain/manifest"
	"github.com/oshokin/snap-meta/internal/logger"
	"github.com/oshokin/snap-meta/internal/repository/files"
	"github.com/oshokin/snap-meta/internal/service/wrapper"
)

const (
	// DefaultPackageRoot is the package root relative to the project directory.
	DefaultPackageRoot = "snap"

	// MetadataDirName is the metadata directory name below the package root.
	MetadataDirName = "meta"

	// ManifestFilename is the manifest written to the metadata directory.
	ManifestFilename = "package.yaml"

	// ReadmeFilename is the readme written to the metadata directory.
	ReadmeFilename = "readme.md"
)

var (
	// errPackageRootRequired is returned when no package root is configured.
	errPackageRootRequired = errors.New("package root must be provided")
	// errMetadataDirOutsideRoot is returned when the metadata directory is not below the package root.
	errMetadataDirOutsideRoot = errors.New("metadata directory must be inside the package root")
)

// Options locates the inputs and outputs of a Writer.
type Options struct {
	// ProjectDir is the directory relative project paths, such as the icon, are resolved against.
	ProjectDir string
	// PackageRoot is the package tree wrappers are written to.
	PackageRoot string
	// MetadataDir receives the manifest, readme and icon. Defaults to PackageRoot/meta.
	MetadataDir string
}

// Wrapped describes one wrapper written during Create.
type Wrapped struct {
	// Wrapper is the wrapper path relative to the package root.
	Wrapper string
	// Executable is the executable path the wrapper launches.
	Executable string
}

// Result reports what Create wrote.
type Result struct {
	Manifest     *manifest.Manifest
	ManifestPath string
	ReadmePath   string
	IconPath     string
	Wrappers     []Wrapped
}

// Writer lays out the metadata directory of a package.
type Writer struct {
	store files.Repository
	opts  Options
	// iconDir is the metadata directory relative to the package root, slash-separated.
	iconDir string
}

// NewWriter creates a writer operating through store.
func NewWriter(store files.Repository, opts Options) (*Writer, error) {
	if opts.PackageRoot == "" {
		return nil, errPackageRootRequired
	}

	opts.PackageRoot = filepath.Clean(opts.PackageRoot)

	if opts.MetadataDir == "" {
		opts.MetadataDir = filepath.Join(opts.PackageRoot, MetadataDirName)
	}

	opts.MetadataDir = filepath.Clean(opts.MetadataDir)

	rel, err := filepath.Rel(opts.PackageRoot, opts.MetadataDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", errMetadataDirOutsideRoot, opts.MetadataDir)
	}

	return &Writer{
		store:   store,
		opts:    opts,
		iconDir: filepath.ToSlash(rel),
	}, nil
}

// Create writes the wrappers, icon, manifest and readme for project.
// Any error aborts the run; files written before it are left in place.
func (w *Writer) Create(ctx context.Context, project *config.Project, architectures []string) (*Result, error) {
	if err := config.Validate(project); err != nil {
		return nil, err
	}

	ctx = logger.WithKV(ctx, "package", project.Name)

	if err := w.store.MkdirAll(w.opts.MetadataDir); err != nil {
		return nil, err
	}

	iconName := path.Base(filepath.ToSlash(project.Icon))
	iconPath := filepath.Join(w.opts.MetadataDir, iconName)

	if err := w.store.CopyFile(w.iconSource(project.Icon), iconPath); err != nil {
		if !errors.Is(err, files.ErrSameFile) {
			return nil, fmt.Errorf("copy icon: %w", err)
		}

		logger.DebugKV(ctx, "Icon is already in the metadata directory", "icon", iconPath)
	}

	generator := wrapper.NewGenerator(w.store, w.opts.PackageRoot)

	m, err := NewComposer(generator).Compose(ctx, project, architectures)
	if err != nil {
		return nil, fmt.Errorf("compose manifest: %w", err)
	}

	m.Icon = path.Join(w.iconDir, iconName)

	contents, err := manifest.Marshal(m)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(w.opts.MetadataDir, ManifestFilename)
	if err = w.store.WriteFile(manifestPath, contents, config.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	readmePath := filepath.Join(w.opts.MetadataDir, ReadmeFilename)
	if err = w.store.WriteFile(readmePath, []byte(ComposeReadme(project)), config.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("save readme: %w", err)
	}

	result := &Result{
		Manifest:     m,
		ManifestPath: manifestPath,
		ReadmePath:   readmePath,
		IconPath:     iconPath,
	}

	for _, wrapperPath := range generator.Wrapped() {
		executable, _ := generator.Executable(wrapperPath)
		result.Wrappers = append(result.Wrappers, Wrapped{Wrapper: wrapperPath, Executable: executable})
	}

	logger.InfoKV(ctx, "Package metadata written",
		"manifest", manifestPath,
		"readme", readmePath,
		"wrappers", len(result.Wrappers),
	)

	return result, nil
}

func (w *Writer) iconSource(icon string) string {
	if filepath.IsAbs(icon) {
		return icon
	}

	return filepath.Join(w.opts.ProjectDir, icon)
}
