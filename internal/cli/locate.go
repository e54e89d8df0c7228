package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gbrlpzz/star-hash/internal/config"
	"github.com/gbrlpzz/star-hash/internal/geoip"
	"github.com/gbrlpzz/star-hash/pkg/cache"
)

// resolveLocation picks the observer position: explicit flags win, then IP
// geolocation when enabled, then the configured default location. The
// returned label names the source for user-facing summaries.
func resolveLocation(ctx context.Context, cfg config.Config, lat, lon float64, flagsSet bool) (float64, float64, string) {
	if flagsSet {
		return lat, lon, "flags"
	}

	if cfg.GeoIP.Enabled {
		logger := loggerFromContext(ctx)

		sp := newSpinner(ctx, "Locating observer...")
		sp.Start()
		loc, err := geoip.New(cfg.GeoIP.Endpoint, geoipCache()).Lookup(ctx)
		sp.Stop()

		if err == nil {
			logger.Debugf("Geolocation: %s (%.4f, %.4f)", loc.City, loc.Lat, loc.Lon)
			return loc.Lat, loc.Lon, loc.City
		}
		logger.Warnf("Geolocation failed, using %s: %v", cfg.DefaultCity, err)
	}

	return cfg.DefaultLat, cfg.DefaultLon, cfg.DefaultCity
}

// geoipCache opens the per-user lookup cache. Failure to create it only
// disables caching.
func geoipCache() cache.Cache {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "starhash"))
	if err != nil {
		return nil
	}
	return fc
}
