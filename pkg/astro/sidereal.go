package astro

import (
	"math"
	"time"
)

// GreenwichMeanSiderealTime returns GMST in decimal hours, [0,24).
//
// Uses the IAU 1982 polynomial in Julian centuries since J2000.0. The
// dominant term is evaluated on whole days from the epoch, which keeps
// precision for instants many millennia away from J2000.
func GreenwichMeanSiderealTime(t time.Time) (float64, error) {
	jd, err := JulianDay(t)
	if err != nil {
		return 0, err
	}
	d := jd - 2451545.0
	T := d / 36525.0

	gmstDeg := 280.46061837 +
		360.98564736629*d +
		0.000387933*T*T -
		T*T*T/38710000.0

	return norm360(gmstDeg) / 15, nil
}

// LocalSiderealTime returns LST in decimal hours, [0,24), for an observer
// at the given east-positive longitude in degrees.
func LocalSiderealTime(t time.Time, lonDeg float64) (float64, error) {
	gmst, err := GreenwichMeanSiderealTime(t)
	if err != nil {
		return 0, err
	}
	lst := math.Mod(gmst+lonDeg/15, 24)
	if lst < 0 {
		lst += 24
	}
	return lst, nil
}
