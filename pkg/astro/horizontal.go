package astro

import "math"

// HorizontalPosition is an observer-relative direction.
// Altitude is degrees above the horizon (-90..+90); azimuth is degrees
// from North through East, [0,360).
type HorizontalPosition struct {
	AltDeg float64
	AzDeg  float64
}

// ToHorizontal converts epoch-of-date equatorial coordinates to horizontal
// coordinates for an observer at latDeg given the local sidereal time in
// decimal hours. No refraction correction is applied.
//
// At the poles the hour angle no longer defines a direction; azimuth is
// reported as 0 by convention while altitude remains valid.
func ToHorizontal(raDeg, decDeg, lstHours, latDeg float64) HorizontalPosition {
	ha := degToRad(norm360(lstHours*15 - raDeg))
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)

	sinLat, cosLat := math.Sincos(lat)
	sinDec, cosDec := math.Sincos(dec)
	sinHA, cosHA := math.Sincos(ha)

	alt := math.Asin(clamp1(sinLat*sinDec + cosLat*cosDec*cosHA))

	if math.Abs(latDeg) >= 90 {
		return HorizontalPosition{AltDeg: radToDeg(alt), AzDeg: 0}
	}

	az := math.Atan2(
		-cosDec*sinHA,
		sinDec*cosLat-cosDec*sinLat*cosHA,
	)

	return HorizontalPosition{
		AltDeg: radToDeg(alt),
		AzDeg:  norm360(radToDeg(az)),
	}
}
