package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/oshokin/snap-meta/internal/service/meta"
)

// printSummary lists the written metadata files followed by a table of generated wrappers.
func printSummary(out io.Writer, result *meta.Result) error {
	if _, err := fmt.Fprintf(out, "Manifest: %s\nReadme:   %s\nIcon:     %s\n",
		result.ManifestPath, result.ReadmePath, result.IconPath); err != nil {
		return err
	}

	if len(result.Wrappers) == 0 {
		_, err := fmt.Fprintln(out, "No exec wrappers generated")

		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header("Wrapper", "Executable")

	for _, wrapped := range result.Wrappers {
		if err := table.Append(wrapped.Wrapper, wrapped.Executable); err != nil {
			return fmt.Errorf("render wrappers: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render wrappers: %w", err)
	}

	return nil
}
