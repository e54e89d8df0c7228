package ephem

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/gbrlpzz/star-hash/pkg/errors"
)

var planetIndex = map[BodyKind]int{
	Mercury: planetelements.Mercury,
	Venus:   planetelements.Venus,
	Mars:    planetelements.Mars,
	Jupiter: planetelements.Jupiter,
	Saturn:  planetelements.Saturn,
}

// planetBody computes a planet's geocentric equatorial position of date
// from mean orbital elements: heliocentric positions of the planet and the
// Earth in the ecliptic of date, differenced and rotated to the equator.
// Aberration and perturbations are ignored; mean-element accuracy is on
// the order of an arcminute for the naked-eye planets.
func planetBody(kind BodyKind, jd float64) (Body, error) {
	idx, ok := planetIndex[kind]
	if !ok {
		return Body{}, errors.New(errors.ErrCodeUnsupported, "no orbital elements for %s", kind)
	}

	px, py, pz, err := heliocentric(idx, jd)
	if err != nil {
		return Body{}, errors.Wrap(errors.ErrCodeEphemerisUnavailable, err, "%s heliocentric position", kind)
	}
	ex, ey, ez := earthHeliocentric(jd)

	gx, gy, gz := px-ex, py-ey, pz-ez
	lon := unit.Angle(math.Atan2(gy, gx))
	lat := unit.Angle(math.Atan2(gz, math.Hypot(gx, gy)))

	ra, dec := eclToEq(lon, lat, jd)
	return Body{
		Kind:   kind,
		RADeg:  raDeg(ra),
		DecDeg: dec.Deg(),
		Mag:    nominalMag[kind],
		Illum:  1,
	}, nil
}

// earthHeliocentric returns Earth's rectangular ecliptic-of-date
// coordinates in AU. The mean-element table has no node or inclination
// row for Earth (its orbit defines the ecliptic), so the position comes
// from the solar theory instead: Earth sits opposite the Sun's true
// geometric longitude at the Sun-Earth radius vector, with zero
// ecliptic latitude.
func earthHeliocentric(jd float64) (x, y, z float64) {
	T := base.J2000Century(jd)
	s, _ := solar.True(T)
	r := solar.Radius(T)
	lon := s.Rad() + math.Pi
	return r * math.Cos(lon), r * math.Sin(lon), 0
}

// heliocentric returns rectangular ecliptic-of-date coordinates in AU for
// the planet with the given planetelements index.
func heliocentric(idx int, jd float64) (x, y, z float64, err error) {
	var e planetelements.Elements
	planetelements.Mean(idx, jd, &e)

	// Mean, then eccentric, then true anomaly.
	m := math.Mod(e.Lon.Rad()-e.Peri.Rad(), 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	ecc := e.Ecc
	E, err := solveKepler(m, ecc)
	if err != nil {
		return 0, 0, 0, err
	}
	nu := 2 * math.Atan2(
		math.Sqrt(1+ecc)*math.Sin(E/2),
		math.Sqrt(1-ecc)*math.Cos(E/2),
	)
	r := e.Axis * (1 - ecc*math.Cos(E))

	// Argument of latitude and orbital orientation.
	u := e.Peri.Rad() - e.Node.Rad() + nu
	sinU, cosU := math.Sincos(u)
	sinNode, cosNode := math.Sincos(e.Node.Rad())
	sinInc, cosInc := math.Sincos(e.Inc.Rad())

	x = r * (cosNode*cosU - sinNode*sinU*cosInc)
	y = r * (sinNode*cosU + cosNode*sinU*cosInc)
	z = r * sinU * sinInc
	return x, y, z, nil
}

// solveKepler finds the eccentric anomaly E with Newton iteration on
// E - e sin E = M. Planetary eccentricities are small (< 0.21), so a few
// iterations from E0 = M converge far past float64 precision.
func solveKepler(m, ecc float64) (float64, error) {
	if ecc < 0 || ecc >= 1 {
		return 0, errors.New(errors.ErrCodeEphemerisUnavailable, "eccentricity %v outside elliptic range", ecc)
	}
	e := m
	for range 12 {
		delta := (e - ecc*math.Sin(e) - m) / (1 - ecc*math.Cos(e))
		e -= delta
		if math.Abs(delta) < 1e-14 {
			break
		}
	}
	if math.IsNaN(e) {
		return 0, errors.New(errors.ErrCodeEphemerisUnavailable, "kepler iteration diverged (M=%v, e=%v)", m, ecc)
	}
	return e, nil
}
