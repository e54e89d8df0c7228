package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gbrlpzz/star-hash/internal/config"
	"github.com/gbrlpzz/star-hash/internal/observability"
	"github.com/gbrlpzz/star-hash/internal/server"
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/pipeline"
)

// newServeCmd creates the serve command, exposing the renderer over HTTP.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sky stamps over HTTP",
		Long:  "Serve starts an HTTP server with GET /stamp.svg?lat=&lon=&t=&size=, plus /healthz and prometheus /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")
	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Serve.Addr = addr
	}

	runner, err := pipeline.New(catalog.Embedded(), ephem.NewMeeusProvider())
	if err != nil {
		return err
	}
	logger.Infof("Catalog loaded: %d stars", runner.Stars())

	srv := server.New(runner, cfg, logger, observability.NewMetrics(), currentClock())
	return srv.ListenAndServe(ctx)
}
