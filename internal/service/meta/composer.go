package meta

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/snap-meta/internal/config"
	"github.com/oshokin/snap-meta/internal/domain/manifest"
	"github.com/oshokin/snap-meta/internal/logger"
)

// Wrapper replaces an executable path with the path of a launcher for it.
type Wrapper interface {
	Wrap(ctx context.Context, relExecPath string) (string, error)
}

// WrapperFunc adapts a function to the Wrapper interface.
type WrapperFunc func(ctx context.Context, relExecPath string) (string, error)

// Wrap calls f.
func (f WrapperFunc) Wrap(ctx context.Context, relExecPath string) (string, error) {
	return f(ctx, relExecPath)
}

// ErrEmptyCommand is returned when a declared command string has no executable.
var ErrEmptyCommand = errors.New("command is empty")

// Composer builds manifests. Its only side effects are the Wrapper calls.
type Composer struct {
	wrapper Wrapper
}

// NewComposer creates a composer substituting commands through wrapper.
func NewComposer(wrapper Wrapper) *Composer {
	return &Composer{wrapper: wrapper}
}

// Compose builds the manifest for project. An empty architectures list omits the field.
// Keys the manifest does not know about are dropped.
func (c *Composer) Compose(ctx context.Context, project *config.Project, architectures []string) (*manifest.Manifest, error) {
	if err := config.Validate(project); err != nil {
		return nil, err
	}

	m := &manifest.Manifest{
		Name:       project.Name,
		Version:    project.Version,
		Vendor:     project.Vendor,
		Icon:       project.Icon,
		Frameworks: cloneStrings(project.Frameworks),
	}

	if len(architectures) > 0 {
		m.Architectures = cloneStrings(architectures)
	}

	if project.Binaries != nil {
		m.Binaries = make([]manifest.Binary, 0, len(project.Binaries))

		for _, binary := range project.Binaries {
			exec, err := c.wrapCommand(ctx, commandOrName(binary.Exec, binary.Name))
			if err != nil {
				return nil, fmt.Errorf("binary %s: %w", binary.Name, err)
			}

			m.Binaries = append(m.Binaries, manifest.Binary{Name: binary.Name, Exec: exec})
		}
	}

	if project.Services != nil {
		m.Services = make([]manifest.Service, 0, len(project.Services))

		for _, service := range project.Services {
			entry, err := c.composeService(ctx, service)
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", service.Name, err)
			}

			m.Services = append(m.Services, entry)
		}
	}

	logger.DebugKV(ctx, "Composed manifest",
		"name", m.Name,
		"binaries", len(m.Binaries),
		"services", len(m.Services),
	)

	return m, nil
}

func (c *Composer) composeService(ctx context.Context, service config.Service) (manifest.Service, error) {
	start, err := c.wrapCommand(ctx, commandOrName(service.Start, service.Name))
	if err != nil {
		return manifest.Service{}, fmt.Errorf("start: %w", err)
	}

	entry := manifest.Service{Name: service.Name, Start: start}

	if service.Stop != nil {
		stop, err := c.wrapCommand(ctx, *service.Stop)
		if err != nil {
			return manifest.Service{}, fmt.Errorf("stop: %w", err)
		}

		entry.Stop = &stop
	}

	return entry, nil
}

// wrapCommand swaps the executable of command for its wrapper and keeps the argument tail.
func (c *Composer) wrapCommand(ctx context.Context, command string) (string, error) {
	executable, tail := manifest.SplitCommand(command)
	if executable == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyCommand, command)
	}

	wrapped, err := c.wrapper.Wrap(ctx, executable)
	if err != nil {
		return "", err
	}

	return manifest.JoinCommand(wrapped, tail), nil
}

func commandOrName(command *string, name string) string {
	if command == nil {
		return name
	}

	return *command
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}

	return append(make([]string, 0, len(values)), values...)
}
