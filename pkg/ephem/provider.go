// Package ephem supplies geocentric equatorial positions of the Sun, Moon
// and naked-eye planets for the stamp composer.
//
// The composer only depends on the Provider interface; the default
// implementation is an analytic one built on the meeus library, but any
// conforming source (table lookup, numerical integrator) is substitutable
// without touching the pipeline.
package ephem

import (
	"time"
)

// BodyKind identifies a solar-system body drawn on the stamp.
type BodyKind int

const (
	Sun BodyKind = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
)

var kindNames = map[BodyKind]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
}

// String returns the body name.
func (k BodyKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// AllKinds lists every body the composer requests, in draw order within
// the planet layer.
func AllKinds() []BodyKind {
	return []BodyKind{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}
}

// Body is a geocentric position at a single instant, referred to the mean
// equator and equinox of date (matching the precessed star coordinates).
type Body struct {
	Kind   BodyKind
	RADeg  float64 // right ascension of date, [0,360)
	DecDeg float64 // declination of date, [-90,90]
	Mag    float64 // apparent visual magnitude (nominal per body)
	Illum  float64 // illuminated fraction [0,1]; meaningful for the Moon
}

// Provider computes body positions. Implementations fail with
// EPHEMERIS_UNAVAILABLE when a position cannot be produced for the
// requested instant; the composer then omits that body from the scene.
type Provider interface {
	Position(kind BodyKind, t time.Time) (Body, error)
}

// Nominal apparent magnitudes used for disc sizing. The stamp encodes
// identity and position, not photometry; constants match the reference
// renderer.
var nominalMag = map[BodyKind]float64{
	Sun:     -26.7,
	Moon:    -12.0,
	Mercury: -0.5,
	Venus:   -4.0,
	Mars:    -1.0,
	Jupiter: -2.0,
	Saturn:  0.0,
}
