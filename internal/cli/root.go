package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gbrlpzz/star-hash/pkg/buildinfo"
)

// Execute runs the starhash CLI with the given root context and returns
// an error if any command fails.
//
// The logger is configured from the --verbose flag in PersistentPreRun
// and attached to the command context, where subcommands retrieve it via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "starhash",
		Short:        "starhash renders the sky above you as a stamp",
		Long:         `starhash composes the visible sky for an observer location and instant (bright stars, planets, Sun, Moon, ecliptic) and renders it as a deterministic SVG stamp.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			logger.Debug(buildinfo.String())
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to starhash.toml")

	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newPreviewCmd(&configPath))
	root.AddCommand(newCatalogCmd())

	return root.ExecuteContext(ctx)
}
