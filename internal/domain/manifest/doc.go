// Package manifest contains the package manifest model and its YAML encoding.
//
// A Manifest is rendered through an explicit yaml.Node tree so that keys are
// sorted at every level regardless of field or map order, and the version is
// always single-quoted.
package manifest
