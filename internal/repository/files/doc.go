// Package files implements the filesystem primitives metadata generation relies on.
//
// The Store wraps an afero.Fs so services can run against the real disk in
// production and an in-memory filesystem in tests.
package files
