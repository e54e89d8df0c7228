// Package astro implements the geometric pipeline that turns a catalog
// position and an observer frame into a point on the stamp disc:
// precession of J2000 coordinates to the epoch of observation, sidereal
// time, the equatorial-to-horizontal transform, and the zenith-centered
// stereographic projection.
//
// All angles cross package boundaries as float64 degrees (right ascension
// 0-360, declination -90..+90, azimuth 0-360 from North through East) and
// sidereal time as decimal hours. Internally everything is radians.
//
// Every function here is a pure function of its inputs. The only stateful
// dependency is the Julian day computation, delegated to meeus/julian.
package astro

import "math"

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// norm360 reduces an angle in degrees to [0,360) with a nonnegative result
// for any input sign.
func norm360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// clamp1 clamps x to [-1,1] before feeding it to Asin/Acos, absorbing
// floating rounding at the domain edges.
func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
