package ephem

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/gbrlpzz/star-hash/pkg/astro"
	"github.com/gbrlpzz/star-hash/pkg/errors"
)

// auKm is the astronomical unit in kilometers, used to relate the Moon's
// distance (km) to the Sun's (~1 AU) in the phase-angle geometry.
const auKm = 149597870.7

// MeeusProvider computes positions analytically: apparent solar
// coordinates, a truncated lunar series, and mean orbital elements plus a
// Kepler solve for the planets. Accuracy is a small fraction of a degree
// near the present epoch, far below a stamp pixel.
type MeeusProvider struct{}

// NewMeeusProvider returns the default analytic ephemeris provider.
func NewMeeusProvider() MeeusProvider { return MeeusProvider{} }

// Position implements Provider.
func (p MeeusProvider) Position(kind BodyKind, t time.Time) (Body, error) {
	jd, err := astro.JulianDay(t)
	if err != nil {
		return Body{}, errors.Wrap(errors.ErrCodeEphemerisUnavailable, err, "%s at %v", kind, t)
	}

	var body Body
	switch kind {
	case Sun:
		body = sunBody(jd)
	case Moon:
		body = moonBody(jd)
	case Mercury, Venus, Mars, Jupiter, Saturn:
		body, err = planetBody(kind, jd)
		if err != nil {
			return Body{}, err
		}
	default:
		return Body{}, errors.New(errors.ErrCodeUnsupported, "no ephemeris for body kind %d", kind)
	}

	if err := checkFinite(body); err != nil {
		return Body{}, err
	}
	return body, nil
}

func sunBody(jd float64) Body {
	ra, dec := solar.ApparentEquatorial(jd)
	return Body{
		Kind:   Sun,
		RADeg:  raDeg(ra),
		DecDeg: dec.Deg(),
		Mag:    nominalMag[Sun],
		Illum:  1,
	}
}

func moonBody(jd float64) Body {
	lon, lat, distKm := moonposition.Position(jd)
	ra, dec := eclToEq(lon, lat, jd)

	sunRA, sunDec := solar.ApparentEquatorial(jd)
	illum := illuminatedFraction(ra, dec, distKm, sunRA, sunDec)

	return Body{
		Kind:   Moon,
		RADeg:  raDeg(ra),
		DecDeg: dec.Deg(),
		Mag:    nominalMag[Moon],
		Illum:  illum,
	}
}

// illuminatedFraction derives the Moon's illuminated fraction from the
// geocentric elongation and the Sun/Moon distances (Meeus ch. 48):
// tan i = R sin psi / (delta - R cos psi), k = (1 + cos i)/2.
func illuminatedFraction(ra unit.RA, dec unit.Angle, distKm float64, sunRA unit.RA, sunDec unit.Angle) float64 {
	sinD, cosD := math.Sincos(dec.Rad())
	sinD0, cosD0 := math.Sincos(sunDec.Rad())
	cosPsi := sinD0*sinD + cosD0*cosD*math.Cos(sunRA.Rad()-ra.Rad())
	if cosPsi > 1 {
		cosPsi = 1
	} else if cosPsi < -1 {
		cosPsi = -1
	}
	psi := math.Acos(cosPsi)

	// The Sun's distance is taken as 1 AU; orbit eccentricity shifts the
	// fraction by well under a percent.
	i := math.Atan2(auKm*math.Sin(psi), distKm-auKm*math.Cos(psi))
	return base.Illuminated(unit.Angle(i))
}

// eclToEq converts ecliptic coordinates of date to equatorial using the
// mean obliquity at jd.
func eclToEq(lon, lat unit.Angle, jd float64) (unit.RA, unit.Angle) {
	obl := coord.NewObliquity(nutation.MeanObliquity(jd))
	ecl := &coord.Ecliptic{Lon: lon, Lat: lat}
	eq := new(coord.Equatorial).EclToEq(ecl, obl)
	return eq.RA, eq.Dec
}

func raDeg(ra unit.RA) float64 {
	d := math.Mod(ra.Deg(), 360)
	if d < 0 {
		d += 360
	}
	return d
}

func checkFinite(b Body) error {
	for _, v := range []float64{b.RADeg, b.DecDeg, b.Mag, b.Illum} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeEphemerisUnavailable, "non-finite position for %s", b.Kind)
		}
	}
	return nil
}
