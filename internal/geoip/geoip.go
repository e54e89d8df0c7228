// Package geoip resolves the caller's approximate location from their
// public IP address, for stamps rendered without explicit coordinates.
//
// Lookups go through ip-api.com with retry on transient failures and a
// 24 hour cache, so repeated renders from the same machine stay offline.
// Callers fall back to a configured default location when the lookup
// fails; a stamp is always renderable.
package geoip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gbrlpzz/star-hash/pkg/cache"
	"github.com/gbrlpzz/star-hash/pkg/errors"
	"github.com/gbrlpzz/star-hash/pkg/httputil"
)

// cacheTTL bounds how long a resolved location is reused. IP assignments
// move, but not within a day.
const cacheTTL = 24 * time.Hour

const cacheNamespace = "geoip"

// Location is a resolved observer position.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city"`
}

// Client looks up the caller's location.
type Client struct {
	endpoint string
	http     *http.Client
	cache    cache.Cache
}

// New builds a client against the given ip-api.com compatible endpoint.
// A nil cache disables caching.
func New(endpoint string, c cache.Cache) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    c,
	}
}

// apiResponse is the subset of the ip-api.com JSON payload we consume.
type apiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

// Lookup resolves the caller's location, consulting the cache first.
// Transient transport failures and 5xx responses are retried with
// exponential backoff; definitive failures return NETWORK_ERROR.
func (c *Client) Lookup(ctx context.Context) (Location, error) {
	key := cache.Key(cacheNamespace, c.endpoint)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var loc Location
		if json.Unmarshal(data, &loc) == nil {
			return loc, nil
		}
		// Corrupt entry: drop it and fall through to a fresh lookup.
		_ = c.cache.Delete(ctx, key)
	}

	var loc Location
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		loc, ferr = c.fetch(ctx)
		return ferr
	})
	if err != nil {
		if ctx.Err() != nil {
			return Location{}, errors.Wrap(errors.ErrCodeTimeout, err, "geolocation lookup cancelled")
		}
		return Location{}, err
	}

	if data, merr := json.Marshal(loc); merr == nil {
		_ = c.cache.Set(ctx, key, data, cacheTTL)
	}
	return loc, nil
}

func (c *Client) fetch(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Location{}, errors.Wrap(errors.ErrCodeNetwork, err, "building geolocation request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, httputil.Retryable(
			errors.Wrap(errors.ErrCodeNetwork, err, "querying %s", c.endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Location{}, httputil.Retryable(
			errors.New(errors.ErrCodeNetwork, "geolocation service returned %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, errors.New(errors.ErrCodeNetwork,
			"geolocation service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Location{}, httputil.Retryable(
			errors.Wrap(errors.ErrCodeNetwork, err, "reading geolocation response"))
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return Location{}, errors.Wrap(errors.ErrCodeNetwork, err, "decoding geolocation response")
	}
	if api.Status != "success" {
		return Location{}, errors.New(errors.ErrCodeNetwork,
			"geolocation failed: %s", api.Message)
	}
	if api.Lat < -90 || api.Lat > 90 || api.Lon <= -180 || api.Lon > 180 {
		return Location{}, errors.New(errors.ErrCodeNetwork,
			"geolocation returned out-of-range coordinates (%v, %v)", api.Lat, api.Lon)
	}

	return Location{Lat: api.Lat, Lon: api.Lon, City: api.City}, nil
}
