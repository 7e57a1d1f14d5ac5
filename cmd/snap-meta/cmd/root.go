package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oshokin/snap-meta/internal/config"
	"github.com/oshokin/snap-meta/internal/logger"
	"github.com/oshokin/snap-meta/internal/repository/files"
	"github.com/oshokin/snap-meta/internal/service/meta"
	"github.com/oshokin/snap-meta/internal/version"
)

// envPrefix namespaces the environment variables bound to the flags, e.g. SNAP_META_ARCH.
const envPrefix = "SNAP_META"

var (
	// settings resolves every flag against its SNAP_META_* environment fallback.
	//nolint:gochecknoglobals // Shared between init and RunE as Cobra requires.
	settings = viper.New()

	// rootCmd writes package.yaml, readme.md and the exec wrappers for a project.
	//nolint:gochecknoglobals // Required by Cobra CLI framework architecture.
	rootCmd = &cobra.Command{
		Use:           "snap-meta",
		Short:         "Compose package metadata and exec wrappers for a snap project",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(settings.GetString("log-level")); ok {
				logger.SetLevel(level)
			} else {
				logger.WarnKV(ctx, "Unknown log level, using info", "level", settings.GetString("log-level"))
			}

			options := &meta.RunOptions{
				ProjectFile:   settings.GetString("project"),
				PackageRoot:   settings.GetString("root"),
				Architectures: architectures(settings.GetStringSlice("arch")),
			}

			result, err := meta.Run(ctx, files.NewOSStore(config.DefaultDirPermissions), options)
			if err != nil {
				return err
			}

			return printSummary(cmd.OutOrStdout(), result)
		},
	}
)

// Execute runs the snap-meta CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "snap-meta failed", "error", err)
		os.Exit(1)
	}
}

// architectures drops blanks left by comma-separated environment values.
func architectures(values []string) []string {
	result := make([]string, 0, len(values))

	for _, value := range values {
		for _, arch := range strings.Split(value, ",") {
			if arch = strings.TrimSpace(arch); arch != "" {
				result = append(result, arch)
			}
		}
	}

	return result
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringP("project", "p", config.DefaultProjectFilename, "path to the project file")
	flags.StringP("root", "r", meta.DefaultPackageRoot, "package root, relative to the project file directory")
	flags.StringSliceP("arch", "a", nil, "target architecture (repeatable); omitted from the manifest when empty")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	if err := settings.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}
}
