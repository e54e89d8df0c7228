// Package catalog loads the static bright-star catalog used for every stamp.
//
// The bundled data is derived from the Yale Bright Star Catalogue (BSC5),
// filtered to naked-eye stars (visual magnitude <= 4.0) with J2000.0
// coordinates in degrees. The catalog is loaded once per process and treated
// as immutable afterward; the pipeline threads it through explicitly rather
// than reading any package-level state.
package catalog

import (
	_ "embed"

	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gbrlpzz/star-hash/pkg/errors"
)

//go:embed data/bright_stars.csv
var embedded []byte

// Star is one immutable catalog entry. Coordinates are J2000.0 degrees.
type Star struct {
	ID     string  // catalog identifier (proper name or HR number)
	RADeg  float64 // right ascension, [0,360)
	DecDeg float64 // declination, [-90,90]
	Mag    float64 // apparent visual magnitude (lower = brighter)
}

// Source loads a star catalog. Implementations fail with CATALOG_UNREADABLE
// when the backing data is missing or malformed.
type Source interface {
	Load() ([]Star, error)
}

// Embedded returns the bundled BSC5-derived catalog source.
func Embedded() Source { return embeddedSource{} }

type embeddedSource struct{}

func (embeddedSource) Load() ([]Star, error) {
	return parse(bytes.NewReader(embedded), "embedded catalog")
}

// FileSource loads a catalog from a CSV file with the same column layout as
// the bundled data: Name,RA_Degrees,Dec_Degrees,Magnitude.
type FileSource struct {
	Path string
}

func (s FileSource) Load() ([]Star, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogUnreadable, err, "opening catalog %s", s.Path)
	}
	defer f.Close()
	return parse(f, s.Path)
}

func parse(r io.Reader, origin string) ([]Star, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogUnreadable, err, "reading catalog header from %s", origin)
	}
	if header[0] != "Name" {
		return nil, errors.New(errors.ErrCodeCatalogUnreadable, "unexpected catalog header %q in %s", header[0], origin)
	}

	var stars []Star
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogUnreadable, err, "reading catalog row from %s", origin)
		}
		star, err := parseRow(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogUnreadable, err, "catalog row %q in %s", rec[0], origin)
		}
		stars = append(stars, star)
	}

	if len(stars) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogUnreadable, "catalog %s contains no stars", origin)
	}
	return stars, nil
}

func parseRow(rec []string) (Star, error) {
	ra, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return Star{}, err
	}
	dec, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return Star{}, err
	}
	mag, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return Star{}, err
	}
	star := Star{ID: rec[0], RADeg: ra, DecDeg: dec, Mag: mag}
	if err := validate(star); err != nil {
		return Star{}, err
	}
	return star, nil
}

func validate(s Star) error {
	for _, v := range []float64{s.RADeg, s.DecDeg, s.Mag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeCatalogUnreadable, "non-finite value for %s", s.ID)
		}
	}
	if s.RADeg < 0 || s.RADeg >= 360 {
		return errors.New(errors.ErrCodeCatalogUnreadable, "RA %v out of range for %s", s.RADeg, s.ID)
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return errors.New(errors.ErrCodeCatalogUnreadable, "Dec %v out of range for %s", s.DecDeg, s.ID)
	}
	return nil
}
