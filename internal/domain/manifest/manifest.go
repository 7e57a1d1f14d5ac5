package manifest

import "strings"

// Manifest is the normalized package metadata written to package.yaml.
// Nil slices are omitted from the document; non-nil empty slices are kept.
type Manifest struct {
	Name          string
	Version       string
	Vendor        string
	Icon          string
	Architectures []string
	Frameworks    []string
	Binaries      []Binary
	Services      []Service
}

// Binary is a manifest binary entry whose Exec points at a wrapper.
type Binary struct {
	Name string
	Exec string
}

// Service is a manifest service entry whose commands point at wrappers.
type Service struct {
	Name  string
	Start string
	// Stop is nil when the service declares no stop command.
	Stop *string
}

// SplitCommand separates a command string into its executable token and the
// argument tail after the first space. The tail is returned verbatim.
func SplitCommand(command string) (executable, tail string) {
	executable, tail, _ = strings.Cut(command, " ")

	return executable, tail
}

// JoinCommand is the inverse of SplitCommand.
func JoinCommand(executable, tail string) string {
	if tail == "" {
		return executable
	}

	return executable + " " + tail
}
