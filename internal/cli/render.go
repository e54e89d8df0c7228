package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gbrlpzz/star-hash/internal/config"
	"github.com/gbrlpzz/star-hash/pkg/astro"
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/errors"
	"github.com/gbrlpzz/star-hash/pkg/pipeline"
	"github.com/gbrlpzz/star-hash/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	lat         float64 // observer latitude in degrees
	lon         float64 // observer longitude in degrees
	timeStr     string  // RFC3339 instant; empty means now
	size        int     // canvas edge in pixels
	output      string  // output SVG path
	catalogPath string  // optional catalog CSV override
	debug       bool    // print Sun/Moon projection details
}

// newRenderCmd creates the render command, the main entry point of the
// CLI. Missing coordinates fall back to IP geolocation, missing time to
// the current clock.
func newRenderCmd(configPath *string) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sky stamp as an SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagsSet := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			return runRender(cmd.Context(), *configPath, &opts, flagsSet)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "observer latitude in degrees (default: IP geolocation)")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "observer longitude in degrees (default: IP geolocation)")
	cmd.Flags().StringVar(&opts.timeStr, "time", "", "observation instant, RFC3339 (default: now)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "canvas edge in pixels (default: from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "stamp.svg", "output file path")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "star catalog CSV (default: embedded)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "print Sun and Moon projection details")

	return cmd
}

func runRender(ctx context.Context, configPath string, opts *renderOpts, flagsSet bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if opts.size == 0 {
		opts.size = cfg.Size
	}

	instant, err := resolveInstant(opts.timeStr)
	if err != nil {
		return err
	}
	lat, lon, source := resolveLocation(ctx, cfg, opts.lat, opts.lon, flagsSet)

	provider := ephem.NewMeeusProvider()
	runner, err := pipeline.New(catalogSource(opts.catalogPath), provider)
	if err != nil {
		return err
	}
	logger.Debugf("Catalog loaded: %d stars", runner.Stars())

	q := scene.Query{LatDeg: lat, LonDeg: lon, Time: instant, SizePx: opts.size}

	prog := newProgress(logger)
	res, err := runner.Render(q)
	if err != nil {
		printError("Could not compose the sky: %s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Composed %d stars, %d bodies", res.VisibleStars, res.VisibleBodies))

	for _, warn := range res.Warnings {
		printWarning("%s", warn)
	}

	if err := os.WriteFile(opts.output, res.SVG, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", opts.output)
	}

	printSuccess("Stamp for %.4f, %.4f (%s) at %s",
		lat, lon, source, instant.Format(time.RFC3339))
	printFile(opts.output)

	if opts.debug {
		printBodyDebug(provider, q)
	}
	return nil
}

// resolveInstant parses --time, or reads the clock when the flag is
// empty. All rendering happens in UTC.
func resolveInstant(s string) (time.Time, error) {
	if s == "" {
		return currentClock().Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidTime, err, "parsing --time %q", s)
	}
	return t.UTC(), nil
}

func catalogSource(path string) catalog.Source {
	if path == "" {
		return catalog.Embedded()
	}
	return catalog.FileSource{Path: path}
}

// printBodyDebug reports where the Sun and Moon land on the disc,
// including below-horizon positions used only for crescent orientation.
func printBodyDebug(provider ephem.Provider, q scene.Query) {
	lst, err := astro.LocalSiderealTime(q.Time, q.LonDeg)
	if err != nil {
		return
	}
	for _, kind := range []ephem.BodyKind{ephem.Sun, ephem.Moon} {
		body, err := provider.Position(kind, q.Time)
		if err != nil {
			printWarning("%s: %v", kind, err)
			continue
		}
		pos := astro.ToHorizontal(body.RADeg, body.DecDeg, lst, q.LatDeg)
		p := astro.Project(pos)
		printKeyValue(kind.String(), fmt.Sprintf(
			"alt %.2f° az %.2f° → (%.4f, %.4f) visible=%t illum=%.2f",
			pos.AltDeg, pos.AzDeg, p.X, p.Y, p.Visible, body.Illum))
	}
}
