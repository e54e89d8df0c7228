// Package config loads the optional starhash.toml configuration file.
//
// Every value has a working default; a missing file is not an error. Flags
// always override file values, which override defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gbrlpzz/star-hash/pkg/errors"
)

// DefaultFileName is looked up in the working directory and under the
// user config dir when no explicit path is given.
const DefaultFileName = "starhash.toml"

// Config holds the effective application settings.
type Config struct {
	// DefaultLat/DefaultLon locate the stamp when neither flags nor IP
	// geolocation produce an observer position.
	DefaultLat  float64 `toml:"default_lat"`
	DefaultLon  float64 `toml:"default_lon"`
	DefaultCity string  `toml:"default_city"`

	// Size is the canvas edge in pixels.
	Size int `toml:"size"`

	GeoIP GeoIP `toml:"geoip"`
	Serve Serve `toml:"serve"`
}

// GeoIP configures the IP geolocation client.
type GeoIP struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the baseline configuration: Rome, reference canvas size,
// geolocation on.
func Default() Config {
	return Config{
		DefaultLat:  41.9028,
		DefaultLon:  12.4964,
		DefaultCity: "Rome",
		Size:        456,
		GeoIP: GeoIP{
			Enabled:  true,
			Endpoint: "http://ip-api.com/json",
		},
		Serve: Serve{
			Addr: ":8470",
		},
	}
}

// Load reads the config file at path, or the default locations when path
// is empty. A missing file yields the defaults; a malformed or invalid
// file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findDefault()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err,
				"config file %s does not exist", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err,
			"parsing %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.DefaultLat < -90 || c.DefaultLat > 90:
		return errors.New(errors.ErrCodeInvalidInput,
			"default_lat %v out of range [-90, 90]", c.DefaultLat)
	case c.DefaultLon <= -180 || c.DefaultLon > 180:
		return errors.New(errors.ErrCodeInvalidInput,
			"default_lon %v out of range (-180, 180]", c.DefaultLon)
	case c.Size < 16:
		return errors.New(errors.ErrCodeInvalidInput,
			"size %d too small (minimum 16)", c.Size)
	case c.GeoIP.Enabled && c.GeoIP.Endpoint == "":
		return errors.New(errors.ErrCodeInvalidInput,
			"geoip.endpoint must be set when geoip is enabled")
	case c.Serve.Addr == "":
		return errors.New(errors.ErrCodeInvalidInput, "serve.addr must not be empty")
	}
	return nil
}

// findDefault checks the working directory, then the user config dir.
func findDefault() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "starhash", DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
