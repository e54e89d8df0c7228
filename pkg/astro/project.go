package astro

import "math"

// ProjectedPoint is a position on the stamp disc in normalized coordinates:
// the zenith maps to (0,0) and the horizon to the unit circle. X grows
// toward the projected East, Y toward South (screen-space y-down, so North
// renders up). Visible is false for positions below the horizon; such
// points are never rendered, only used as direction references (the Moon
// crescent opens toward the Sun even when the Sun has set).
type ProjectedPoint struct {
	X, Y    float64
	Visible bool
}

// nadirLimit keeps tan(z/2) finite as the zenith distance approaches 180
// degrees. Points that deep below the horizon are invisible anyway; the
// clamped radius only preserves their direction.
const nadirLimit = math.Pi - 1e-5

// Project maps a horizontal position onto the stamp disc with the
// zenith-centered stereographic projection r = tan(z/2), z = 90° - alt.
//
// The projection is conformal and r is strictly increasing in z, so no two
// zenith distances share a radius: altitude 90° lands on the origin and
// altitude 0° exactly on the unit circle.
func Project(pos HorizontalPosition) ProjectedPoint {
	z := degToRad(90 - pos.AltDeg)

	var r float64
	if z >= nadirLimit {
		r = 1000 // far outside the disc, direction only
	} else {
		r = math.Tan(z / 2)
	}

	sinAz, cosAz := math.Sincos(degToRad(pos.AzDeg))
	return ProjectedPoint{
		X:       r * sinAz,
		Y:       -r * cosAz,
		Visible: pos.AltDeg >= 0,
	}
}
