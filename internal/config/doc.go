// Package config defines the project configuration that package metadata is
// composed from, and loads it from a YAML project file.
//
// Only the required scalars (name, version, vendor, icon) are validated here;
// the rest of the schema is trusted as given.
package config
