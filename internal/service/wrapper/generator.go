package wrapper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/oshokin/snap-meta/internal/logger"
)

// DefaultFileMode makes generated wrappers executable.
const DefaultFileMode os.FileMode = 0o755

// ErrWrapperCollision is returned when a wrapper would overwrite another executable or wrapper of the same run.
var ErrWrapperCollision = errors.New("wrapper path collision")

// FileWriter is the filesystem primitive the generator needs.
type FileWriter interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// Generator writes wrappers below a package root and remembers what it wrote during one run.
type Generator struct {
	// writer performs the whole-file writes.
	writer FileWriter
	// root is the package root all paths are relative to.
	root string
	// mode is the permission of written wrappers.
	mode os.FileMode

	// wrappers maps each written wrapper path to its executable path.
	wrappers map[string]string
	// order lists written wrapper paths in first-write order.
	order []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithFileMode overrides the permission of written wrappers.
func WithFileMode(mode os.FileMode) Option {
	return func(g *Generator) {
		if mode != 0 {
			g.mode = mode
		}
	}
}

// NewGenerator creates a generator writing below root. The root must already exist.
func NewGenerator(writer FileWriter, root string, opts ...Option) *Generator {
	g := &Generator{
		writer:   writer,
		root:     root,
		mode:     DefaultFileMode,
		wrappers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Wrap writes the launcher for relExecPath and returns the wrapper path relative to the root.
// Wrapping the same path again rewrites identical content and returns the same path.
func (g *Generator) Wrap(ctx context.Context, relExecPath string) (string, error) {
	wrapperPath, err := PathFor(relExecPath)
	if err != nil {
		return "", err
	}

	executable := path.Clean(relExecPath)
	if err = g.checkCollision(executable, wrapperPath); err != nil {
		return "", err
	}

	script := Render(relExecPath)
	if err = validate(wrapperPath, script); err != nil {
		return "", err
	}

	target := filepath.Join(g.root, filepath.FromSlash(wrapperPath))
	if err = g.writer.WriteFile(target, []byte(script), g.mode); err != nil {
		return "", fmt.Errorf("write wrapper %s: %w", wrapperPath, err)
	}

	if _, seen := g.wrappers[wrapperPath]; !seen {
		g.wrappers[wrapperPath] = executable
		g.order = append(g.order, wrapperPath)
	}

	logger.DebugKV(ctx, "Wrote exec wrapper", "executable", relExecPath, "wrapper", wrapperPath)

	return wrapperPath, nil
}

// Wrapped returns the wrapper paths written so far, in first-write order.
func (g *Generator) Wrapped() []string {
	return append([]string(nil), g.order...)
}

// Executable returns the executable path a written wrapper launches.
func (g *Generator) Executable(wrapperPath string) (string, bool) {
	executable, ok := g.wrappers[wrapperPath]

	return executable, ok
}

func (g *Generator) checkCollision(executable, wrapperPath string) error {
	if owner, ok := g.wrappers[wrapperPath]; ok && owner != executable {
		return fmt.Errorf("%w: %s is already the wrapper of %s", ErrWrapperCollision, wrapperPath, owner)
	}

	if _, ok := g.wrappers[executable]; ok {
		return fmt.Errorf("%w: %s is a generated wrapper", ErrWrapperCollision, executable)
	}

	for written, owner := range g.wrappers {
		if owner == wrapperPath {
			return fmt.Errorf("%w: %s would overwrite the executable wrapped by %s", ErrWrapperCollision, wrapperPath, written)
		}
	}

	return nil
}
