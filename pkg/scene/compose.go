package scene

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gbrlpzz/star-hash/pkg/astro"
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/errors"
)

// Query identifies one sky stamp: an observer location, an instant, and
// the output canvas size in pixels.
type Query struct {
	LatDeg float64
	LonDeg float64
	Time   time.Time
	SizePx int
}

// Validate rejects queries the pipeline cannot render.
func (q Query) Validate() error {
	switch {
	case math.IsNaN(q.LatDeg) || q.LatDeg < -90 || q.LatDeg > 90:
		return errors.New(errors.ErrCodeInvalidInput,
			"latitude %v out of range [-90, 90]", q.LatDeg)
	case math.IsNaN(q.LonDeg) || q.LonDeg <= -180 || q.LonDeg > 180:
		return errors.New(errors.ErrCodeInvalidInput,
			"longitude %v out of range (-180, 180]", q.LonDeg)
	case q.SizePx < 16:
		return errors.New(errors.ErrCodeInvalidInput,
			"canvas size %d px too small (minimum 16)", q.SizePx)
	case q.Time.IsZero():
		return errors.New(errors.ErrCodeInvalidTime, "query instant is the zero time")
	}
	return nil
}

// Scene is an ordered list of drawing primitives plus composition stats.
// Primitives are already in paint order; a sink renders them front to back
// without reordering.
type Scene struct {
	Size       int
	Primitives []Primitive

	// Warnings records bodies that were skipped because the ephemeris
	// could not place them. A scene with warnings still renders.
	Warnings []string

	VisibleStars  int
	VisibleBodies int
}

// eclipticSamples is the number of ten-day solar positions traced to draw
// the ecliptic across the disc. 36 samples cover just under a year.
const (
	eclipticSamples = 36
	eclipticStepDay = 10
)

// Composer turns queries into scenes using a fixed star catalog and an
// ephemeris provider. Safe for concurrent use; it holds no mutable state.
type Composer struct {
	Stars    []catalog.Star
	Provider ephem.Provider
}

// NewComposer builds a composer over the given catalog and provider.
func NewComposer(stars []catalog.Star, provider ephem.Provider) *Composer {
	return &Composer{Stars: stars, Provider: provider}
}

// Compose renders the sky above (lat, lon) at the query instant into an
// ordered primitive scene. Composition is deterministic: the same query
// against the same catalog and provider yields an identical scene.
//
// Paint order is fixed: horizon rings, reference marks, ecliptic, stars
// faintest first, planets in heliocentric order, Moon, Sun. Bodies the
// provider cannot place are skipped with a warning rather than failing
// the whole stamp.
func (c *Composer) Compose(q Query) (*Scene, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	lst, err := astro.LocalSiderealTime(q.Time, q.LonDeg)
	if err != nil {
		return nil, err
	}

	canvas := NewCanvas(q.SizePx)
	sc := &Scene{Size: q.SizePx}

	sc.Primitives = append(sc.Primitives, canvas.Rings()...)
	sc.Primitives = append(sc.Primitives, canvas.ReferenceMarks()...)
	sc.Primitives = append(sc.Primitives, c.eclipticPrimitives(canvas, q, lst, sc)...)

	stars, err := c.projectStars(q, lst)
	if err != nil {
		return nil, err
	}
	for _, s := range stars {
		sc.Primitives = append(sc.Primitives, canvas.StarPrimitive(s.star.ID, s.point, s.star.Mag))
	}
	sc.VisibleStars = len(stars)

	c.bodyPrimitives(canvas, q, lst, sc)
	return sc, nil
}

type placedStar struct {
	star  catalog.Star
	point astro.ProjectedPoint
}

// projectStars precesses, transforms and projects the whole catalog in
// parallel, then returns the visible stars sorted faintest first so bright
// stars paint on top of dim neighbors.
func (c *Composer) projectStars(q Query, lst float64) ([]placedStar, error) {
	type result struct {
		point astro.ProjectedPoint
		err   error
	}
	results := make([]result, len(c.Stars))

	var wg sync.WaitGroup
	for i, s := range c.Stars {
		wg.Add(1)
		go func(i int, s catalog.Star) {
			defer wg.Done()
			ra, dec, err := astro.Precess(s.RADeg, s.DecDeg, q.Time)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].point = astro.Project(astro.ToHorizontal(ra, dec, lst, q.LatDeg))
		}(i, s)
	}
	wg.Wait()

	visible := make([]placedStar, 0, len(c.Stars)/2)
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.point.Visible {
			visible = append(visible, placedStar{star: c.Stars[i], point: r.point})
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].star.Mag != visible[j].star.Mag {
			return visible[i].star.Mag > visible[j].star.Mag
		}
		return visible[i].star.ID < visible[j].star.ID
	})
	return visible, nil
}

// planetOrder fixes the paint sequence for the naked-eye planets.
var planetOrder = []ephem.BodyKind{
	ephem.Mercury, ephem.Venus, ephem.Mars, ephem.Jupiter, ephem.Saturn,
}

// bodyPrimitives appends the solar-system bodies. The Sun and Moon are
// projected even when set because the crescent rotation needs the Sun's
// screen direction; only positions above the horizon produce primitives.
func (c *Composer) bodyPrimitives(canvas Canvas, q Query, lst float64, sc *Scene) {
	place := func(kind ephem.BodyKind) (ephem.Body, astro.ProjectedPoint, bool) {
		body, err := c.Provider.Position(kind, q.Time)
		if err != nil {
			sc.Warnings = append(sc.Warnings,
				fmt.Sprintf("%s omitted: %s", kind, errors.UserMessage(err)))
			return ephem.Body{}, astro.ProjectedPoint{}, false
		}
		p := astro.Project(astro.ToHorizontal(body.RADeg, body.DecDeg, lst, q.LatDeg))
		return body, p, true
	}

	for _, kind := range planetOrder {
		body, p, ok := place(kind)
		if !ok || !p.Visible {
			continue
		}
		sc.Primitives = append(sc.Primitives,
			canvas.PlanetPrimitive(kind.String(), p, body.Mag))
		sc.VisibleBodies++
	}

	_, sunPoint, sunOK := place(ephem.Sun)

	if moonBody, moonPoint, ok := place(ephem.Moon); ok && moonPoint.Visible {
		ref := sunPoint
		if !sunOK {
			ref = astro.ProjectedPoint{} // open toward the zenith as a fallback
		}
		sc.Primitives = append(sc.Primitives,
			canvas.MoonPrimitive(moonPoint, ref, moonBody.Illum))
		sc.VisibleBodies++
	}

	if sunOK && sunPoint.Visible {
		sc.Primitives = append(sc.Primitives, canvas.SunPrimitive(sunPoint))
		sc.VisibleBodies++
	}
}

// eclipticPrimitives traces the Sun's path over a year of ten-day steps
// and projects every sample at the query's own sidereal time, drawing the
// ecliptic great circle as it crosses the visible sky.
func (c *Composer) eclipticPrimitives(canvas Canvas, q Query, lst float64, sc *Scene) []Primitive {
	samples := make([]astro.ProjectedPoint, 0, eclipticSamples)
	for i := 0; i < eclipticSamples; i++ {
		t := q.Time.AddDate(0, 0, (i-eclipticSamples/2)*eclipticStepDay)
		body, err := c.Provider.Position(ephem.Sun, t)
		if err != nil {
			sc.Warnings = append(sc.Warnings,
				fmt.Sprintf("ecliptic omitted: %s", errors.UserMessage(err)))
			return nil
		}
		pos := astro.ToHorizontal(body.RADeg, body.DecDeg, lst, q.LatDeg)
		samples = append(samples, astro.Project(pos))
	}
	return canvas.EclipticPath(samples)
}
