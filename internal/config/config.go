package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Project is the validated project configuration the metadata is composed from.
// Pointer and slice fields are nil when the key is absent from the source document,
// which lets the composer tell "absent" apart from "present but empty".
type Project struct {
	// Name is the package name.
	Name string `yaml:"name"`
	// Version is the package version; it is always emitted as a quoted string.
	Version string `yaml:"version"`
	// Vendor identifies the package maintainer.
	Vendor string `yaml:"vendor"`
	// Icon is the icon path relative to the project directory.
	Icon string `yaml:"icon"`
	// Summary is the single-line package summary used as the readme headline.
	Summary string `yaml:"summary"`
	// Description is the free-form, possibly multi-line package description.
	Description string `yaml:"description"`
	// Frameworks lists the capability tags the package depends on.
	Frameworks []string `yaml:"frameworks"`
	// Binaries lists the commands exposed by the package.
	Binaries []Binary `yaml:"binaries"`
	// Services lists the long-running commands managed by the runtime.
	Services []Service `yaml:"services"`
}

// Binary declares an executable the package exposes.
type Binary struct {
	// Name is the unique binary identifier.
	Name string `yaml:"name"`
	// Exec is the command string; nil means Name is the executable.
	Exec *string `yaml:"exec"`
}

// Service declares a daemon with its start and optional stop commands.
type Service struct {
	// Name is the unique service identifier.
	Name string `yaml:"name"`
	// Start is the start command string; nil means Name is the executable.
	Start *string `yaml:"start"`
	// Stop is the stop command string; nil means the service has no stop command.
	Stop *string `yaml:"stop"`
}

const (
	// DefaultProjectFilename is the project file looked up when no path is given.
	DefaultProjectFilename = "snapcraft.yaml"

	// DefaultFilePermissions is used for generated metadata files.
	DefaultFilePermissions = 0o644

	// DefaultDirPermissions is used for generated directories.
	DefaultDirPermissions = 0o755
)

var (
	// ErrMissingField is returned when a required scalar is absent or empty.
	ErrMissingField = errors.New("required field is missing")

	// errProjectIsNotSet is returned when a nil project is validated.
	errProjectIsNotSet = errors.New("project configuration is not set")
)

// Load reads the project file at path from fsys and validates its required fields.
func Load(fsys afero.Fs, path string) (*Project, error) {
	if path == "" {
		path = DefaultProjectFilename
	}

	contents, err := afero.ReadFile(fsys, filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var project Project
	if err = yaml.Unmarshal(contents, &project); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}

	if err = Validate(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

// Validate checks that the scalars every manifest needs are present.
// Everything else is assumed to have been validated upstream.
func Validate(project *Project) error {
	if project == nil {
		return errProjectIsNotSet
	}

	required := []struct {
		key   string
		value string
	}{
		{"name", project.Name},
		{"version", project.Version},
		{"vendor", project.Vendor},
		{"icon", project.Icon},
	}

	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.key)
		}
	}

	return nil
}
