package meta

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/snap-meta/internal/config"
	"github.com/oshokin/snap-meta/internal/logger"
	"github.com/oshokin/snap-meta/internal/repository/files"
)

// RunOptions contains inputs for the metadata entry point.
type RunOptions struct {
	// ProjectFile is the project configuration path (defaults to snapcraft.yaml).
	ProjectFile string
	// PackageRoot is the package tree; relative roots are resolved against the project file's directory.
	PackageRoot string
	// Architectures lists the target architectures; empty omits the field.
	Architectures []string
}

// Run loads the project file and writes its package metadata through store.
func Run(ctx context.Context, store *files.Store, opts *RunOptions) (*Result, error) {
	ctx = logger.WithName(ctx, "snap-meta")

	projectFile := opts.ProjectFile
	if projectFile == "" {
		projectFile = config.DefaultProjectFilename
	}

	project, err := config.Load(store.Fs(), projectFile)
	if err != nil {
		return nil, err
	}

	projectDir := filepath.Dir(projectFile)

	packageRoot := opts.PackageRoot
	if packageRoot == "" {
		packageRoot = DefaultPackageRoot
	}

	if !filepath.IsAbs(packageRoot) {
		packageRoot = filepath.Join(projectDir, packageRoot)
	}

	logger.InfoKV(ctx, "Creating package metadata",
		"project", projectFile,
		"package_root", packageRoot,
		"architectures", opts.Architectures,
	)

	writer, err := NewWriter(store, Options{
		ProjectDir:  projectDir,
		PackageRoot: packageRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize writer: %w", err)
	}

	result, err := writer.Create(ctx, project, opts.Architectures)
	if err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}

	return result, nil
}
