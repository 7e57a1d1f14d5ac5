// Package meta composes package metadata from a project configuration and
// lays it out on disk.
//
// The Composer turns the project into a manifest, delegating every command's
// executable to an injected Wrapper. The Writer creates the metadata
// directory, relocates the icon and writes package.yaml and readme.md.
package meta
