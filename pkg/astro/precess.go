package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
)

// Precess rotates J2000.0 equatorial coordinates to the mean equator and
// equinox of the target instant. Inputs and outputs are degrees; right
// ascension is returned in [0,360).
//
// The three precession angles ζ, z, θ are the IAU cubic series in Julian
// centuries T since J2000.0 (Lieske et al., coefficients in arcseconds).
// The rotation is applied in the closed form of Meeus eq. 21.4, equivalent
// to Rz(-z)·Ry(θ)·Rz(-ζ) acting on the J2000 direction vector.
//
// At T = 0 the transform is the identity to floating rounding, and the
// drift grows continuously with |T|: no discontinuity across the epoch.
func Precess(raDeg, decDeg float64, target time.Time) (float64, float64, error) {
	T, err := JulianCenturies(target)
	if err != nil {
		return 0, 0, err
	}

	// Precession angles in arcseconds, cubic in T.
	zeta := T * base.Horner(T, 2306.2181, 0.30188, 0.017998)
	z := T * base.Horner(T, 2306.2181, 1.09468, 0.018203)
	theta := T * base.Horner(T, 2004.3109, -0.42665, -0.041833)

	const asToRad = math.Pi / (180 * 3600)
	zetaR := zeta * asToRad
	zR := z * asToRad
	sinT, cosT := math.Sincos(theta * asToRad)

	ra := degToRad(raDeg)
	dec := degToRad(decDeg)
	sinDec, cosDec := math.Sincos(dec)
	sinRAz, cosRAz := math.Sincos(ra + zetaR)

	a := cosDec * sinRAz
	b := cosT*cosDec*cosRAz - sinT*sinDec
	c := sinT*cosDec*cosRAz + cosT*sinDec

	raOut := norm360(radToDeg(math.Atan2(a, b) + zR))
	decOut := radToDeg(math.Asin(clamp1(c)))
	return raOut, decOut, nil
}
