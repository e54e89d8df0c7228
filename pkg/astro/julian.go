package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/gbrlpzz/star-hash/pkg/errors"
)

// JulianDay returns the Julian day number for t.
// A zero instant is rejected: it is the canonical "malformed time" value
// produced by failed parsing upstream.
func JulianDay(t time.Time) (float64, error) {
	if t.IsZero() {
		return 0, errors.New(errors.ErrCodeInvalidTime, "zero instant")
	}
	jd := julian.TimeToJD(t.UTC())
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return 0, errors.New(errors.ErrCodeInvalidTime, "non-finite julian day for %v", t)
	}
	return jd, nil
}

// JulianCenturies returns T, the number of Julian centuries between t and
// the J2000.0 epoch. Centuries rather than seconds keep the time parameter
// well-conditioned for deep-time instants (year 12025 is T ~ 100).
func JulianCenturies(t time.Time) (float64, error) {
	jd, err := JulianDay(t)
	if err != nil {
		return 0, err
	}
	return base.J2000Century(jd), nil
}
