package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Repository defines the filesystem operations used to lay out package metadata.
type Repository interface {
	MkdirAll(path string) error
	CopyFile(src, dst string) error
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// ErrSameFile is returned by CopyFile when source and destination are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

// Store performs whole-file operations on an afero filesystem.
type Store struct {
	// fs is the filesystem every operation is applied to.
	fs afero.Fs
	// dirPerm is the permission used for created directories.
	dirPerm os.FileMode
}

// NewStore creates a store over fsys creating directories with dirPerm.
func NewStore(fsys afero.Fs, dirPerm os.FileMode) *Store {
	return &Store{
		fs:      fsys,
		dirPerm: dirPerm,
	}
}

// NewOSStore creates a store over the host filesystem.
func NewOSStore(dirPerm os.FileMode) *Store {
	return NewStore(afero.NewOsFs(), dirPerm)
}

// Fs returns the underlying filesystem.
//
//nolint:ireturn // Callers need the afero interface to read back what the store wrote.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// MkdirAll creates path and any missing parents. An existing directory is not an error.
func (s *Store) MkdirAll(path string) error {
	if err := s.fs.MkdirAll(filepath.Clean(path), s.dirPerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return nil
}

// WriteFile replaces the contents of path with data.
func (s *Store) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := afero.WriteFile(s.fs, filepath.Clean(path), data, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// CopyFile copies src to dst, truncating dst if it exists. The source mode is kept.
// It fails with ErrSameFile, leaving the file untouched, when both name the same file.
func (s *Store) CopyFile(src, dst string) (err error) {
	if err = s.checkSameFile(src, dst); err != nil {
		return err
	}

	in, err := s.fs.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open copy source: %w", err)
	}

	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat copy source: %w", err)
	}

	out, err := s.fs.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("open copy destination: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close copy destination: %w", closeErr)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return nil
}

// checkSameFile compares the cleaned absolute paths and, when both exist, the file identities.
func (s *Store) checkSameFile(src, dst string) error {
	srcAbs, srcErr := filepath.Abs(src)
	dstAbs, dstErr := filepath.Abs(dst)

	if srcErr == nil && dstErr == nil && srcAbs == dstAbs {
		return fmt.Errorf("copy %s: %w", src, ErrSameFile)
	}

	srcInfo, err := s.fs.Stat(filepath.Clean(src))
	if err != nil {
		// Open reports the missing source.
		return nil
	}

	dstInfo, err := s.fs.Stat(filepath.Clean(dst))
	if err != nil {
		return nil
	}

	if os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("copy %s to %s: %w", src, dst, ErrSameFile)
	}

	return nil
}
