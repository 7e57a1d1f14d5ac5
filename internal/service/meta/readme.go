package meta

import (
	"strings"

	"github.com/oshokin/snap-meta/internal/config"
)

// ComposeReadme renders the summary line followed by the description lines,
// each terminated by a newline. The description is kept as given, so a trailing
// newline in it yields a trailing blank line. It returns "" when both are empty.
func ComposeReadme(project *config.Project) string {
	if project.Summary == "" && project.Description == "" {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(project.Summary)
	builder.WriteString("\n")

	if project.Description != "" {
		for _, line := range strings.Split(project.Description, "\n") {
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
