package scene

import (
	"reflect"
	"testing"
	"time"

	"github.com/gbrlpzz/star-hash/pkg/astro"
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
	"github.com/gbrlpzz/star-hash/pkg/errors"
)

// fakeProvider places bodies at fixed equatorial coordinates so tests can
// steer them above or below the horizon without real ephemeris math.
type fakeProvider struct {
	bodies map[ephem.BodyKind]ephem.Body
	fail   map[ephem.BodyKind]error
}

func (f *fakeProvider) Position(kind ephem.BodyKind, t time.Time) (ephem.Body, error) {
	if err, ok := f.fail[kind]; ok {
		return ephem.Body{}, err
	}
	if b, ok := f.bodies[kind]; ok {
		return b, nil
	}
	return ephem.Body{}, errors.New(errors.ErrCodeEphemerisUnavailable, "no fixture for %s", kind)
}

var testTime = time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)

// zenithRA returns the right ascension currently crossing the observer's
// meridian, so a body at (zenithRA, lat) sits at the zenith.
func zenithRA(t *testing.T, at time.Time, lonDeg float64) float64 {
	t.Helper()
	lst, err := astro.LocalSiderealTime(at, lonDeg)
	if err != nil {
		t.Fatalf("LocalSiderealTime: %v", err)
	}
	return lst * 15
}

func testQuery() Query {
	return Query{LatDeg: 45, LonDeg: 7, Time: testTime, SizePx: 472}
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Query)
		code   errors.Code
	}{
		{"valid", func(q *Query) {}, ""},
		{"latitude high", func(q *Query) { q.LatDeg = 90.5 }, errors.ErrCodeInvalidInput},
		{"latitude low", func(q *Query) { q.LatDeg = -91 }, errors.ErrCodeInvalidInput},
		{"longitude high", func(q *Query) { q.LonDeg = 181 }, errors.ErrCodeInvalidInput},
		{"antimeridian west", func(q *Query) { q.LonDeg = -180 }, errors.ErrCodeInvalidInput},
		{"antimeridian east", func(q *Query) { q.LonDeg = 180 }, ""},
		{"size too small", func(q *Query) { q.SizePx = 8 }, errors.ErrCodeInvalidInput},
		{"zero time", func(q *Query) { q.Time = time.Time{} }, errors.ErrCodeInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := testQuery()
			tt.mutate(&q)
			err := q.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("expected valid query, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestComposeDeterministic(t *testing.T) {
	stars, err := catalog.Embedded().Load()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	q := testQuery()
	ra := zenithRA(t, q.Time, q.LonDeg)
	provider := &fakeProvider{bodies: map[ephem.BodyKind]ephem.Body{
		ephem.Sun:     {Kind: ephem.Sun, RADeg: ra, DecDeg: q.LatDeg - 30, Mag: -26.7},
		ephem.Moon:    {Kind: ephem.Moon, RADeg: ra, DecDeg: q.LatDeg - 10, Mag: -12, Illum: 0.5},
		ephem.Mercury: {Kind: ephem.Mercury, RADeg: ra, DecDeg: q.LatDeg - 20, Mag: -0.5},
		ephem.Venus:   {Kind: ephem.Venus, RADeg: ra, DecDeg: q.LatDeg - 25, Mag: -4},
		ephem.Mars:    {Kind: ephem.Mars, RADeg: ra, DecDeg: q.LatDeg - 15, Mag: -1},
		ephem.Jupiter: {Kind: ephem.Jupiter, RADeg: ra, DecDeg: q.LatDeg - 5, Mag: -2},
		ephem.Saturn:  {Kind: ephem.Saturn, RADeg: ra, DecDeg: q.LatDeg + 5, Mag: 0},
	}}
	c := NewComposer(stars, provider)

	first, err := c.Compose(q)
	if err != nil {
		t.Fatalf("first compose: %v", err)
	}
	second, err := c.Compose(q)
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two composes of the same query differ")
	}
	if first.VisibleStars == 0 {
		t.Fatal("expected visible stars over a mid-latitude site")
	}
}

func TestComposeStarOrderFaintestFirst(t *testing.T) {
	q := testQuery()
	ra := zenithRA(t, q.Time, q.LonDeg)
	stars := []catalog.Star{
		{ID: "Bright", RADeg: ra, DecDeg: q.LatDeg, Mag: 0.5},
		{ID: "Faint", RADeg: ra, DecDeg: q.LatDeg + 10, Mag: 3.5},
		{ID: "Middle", RADeg: ra, DecDeg: q.LatDeg - 10, Mag: 2.0},
	}
	c := NewComposer(stars, &fakeProvider{})

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	var order []string
	for _, p := range sc.Primitives {
		if p.Layer == LayerStars {
			order = append(order, p.ID)
		}
	}
	want := []string{"Faint", "Middle", "Bright"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("star paint order = %v, want %v", order, want)
	}
}

func TestComposeLayerOrder(t *testing.T) {
	q := testQuery()
	ra := zenithRA(t, q.Time, q.LonDeg)
	provider := &fakeProvider{bodies: map[ephem.BodyKind]ephem.Body{
		ephem.Sun:  {Kind: ephem.Sun, RADeg: ra, DecDeg: q.LatDeg - 30, Mag: -26.7},
		ephem.Moon: {Kind: ephem.Moon, RADeg: ra, DecDeg: q.LatDeg - 10, Mag: -12, Illum: 0.3},
		ephem.Mars: {Kind: ephem.Mars, RADeg: ra, DecDeg: q.LatDeg + 10, Mag: -1},
	}}
	stars := []catalog.Star{{ID: "One", RADeg: ra, DecDeg: q.LatDeg, Mag: 1}}
	c := NewComposer(stars, provider)

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	last := LayerHorizon
	for _, p := range sc.Primitives {
		if p.Layer < last {
			t.Fatalf("layer %d painted after layer %d (id %q)", p.Layer, last, p.ID)
		}
		last = p.Layer
	}

	// The Sun fixture is above the horizon, so the final primitive must be
	// the Sun symbol.
	final := sc.Primitives[len(sc.Primitives)-1]
	if final.Kind != KindSun {
		t.Fatalf("expected the Sun painted last, got kind %d id %q", final.Kind, final.ID)
	}
}

func TestComposeMoonBelowHorizonOmitted(t *testing.T) {
	q := testQuery()
	ra := zenithRA(t, q.Time, q.LonDeg)
	provider := &fakeProvider{bodies: map[ephem.BodyKind]ephem.Body{
		ephem.Sun:  {Kind: ephem.Sun, RADeg: ra, DecDeg: q.LatDeg, Mag: -26.7},
		ephem.Moon: {Kind: ephem.Moon, RADeg: ra, DecDeg: -60, Mag: -12, Illum: 0.5},
	}}
	c := NewComposer(nil, provider)

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, p := range sc.Primitives {
		if p.Kind == KindMoon {
			t.Fatal("moon below the horizon must not be painted")
		}
	}
}

func TestComposeCrescentOpensTowardSun(t *testing.T) {
	q := Query{LatDeg: 0, LonDeg: 0, Time: testTime, SizePx: 472}
	ra := zenithRA(t, q.Time, q.LonDeg)

	// Moon at the zenith, Sun 100 degrees west in hour angle and below the
	// horizon: the Sun's projected direction still orients the crescent.
	provider := &fakeProvider{bodies: map[ephem.BodyKind]ephem.Body{
		ephem.Moon: {Kind: ephem.Moon, RADeg: ra, DecDeg: 0, Mag: -12, Illum: 0.2},
		ephem.Sun:  {Kind: ephem.Sun, RADeg: ra - 100, DecDeg: 0, Mag: -26.7},
	}}
	c := NewComposer(nil, provider)

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	var moon *Primitive
	for i := range sc.Primitives {
		if sc.Primitives[i].Kind == KindMoon {
			moon = &sc.Primitives[i]
		}
	}
	if moon == nil {
		t.Fatal("moon at the zenith must be painted")
	}
	if moon.MaskOffset <= 0 {
		t.Fatalf("crescent mask offset = %v, want > 0 for illum 0.2", moon.MaskOffset)
	}
	// Sun is 100 degrees east in hour angle, which projects toward the
	// western half of the disc (negative X). The rotation must point that
	// way rather than default to zero.
	if moon.RotationDeg > -90 && moon.RotationDeg < 90 {
		t.Fatalf("crescent rotation %v deg does not face the setting sun", moon.RotationDeg)
	}
}

func TestComposeProviderFailureWarns(t *testing.T) {
	q := testQuery()
	provider := &fakeProvider{
		fail: map[ephem.BodyKind]error{
			ephem.Sun: errors.New(errors.ErrCodeEphemerisUnavailable, "sun fixture offline"),
		},
	}
	c := NewComposer(nil, provider)

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose must succeed despite body failures: %v", err)
	}
	if len(sc.Warnings) == 0 {
		t.Fatal("expected warnings for failing bodies")
	}
	for _, p := range sc.Primitives {
		if p.Layer >= LayerPlanets {
			t.Fatalf("no body primitives expected, found %q", p.ID)
		}
	}
}

func TestComposeNightSkyOmitsSun(t *testing.T) {
	stars, err := catalog.Embedded().Load()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	// New York in the late evening of the first lunar landing; local time
	// is 22:17 EDT, well after sunset.
	q := Query{
		LatDeg: 40.7128,
		LonDeg: -74.0060,
		Time:   time.Date(1969, 7, 21, 2, 17, 0, 0, time.UTC),
		SizePx: 472,
	}
	c := NewComposer(stars, ephem.NewMeeusProvider())

	sc, err := c.Compose(q)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(sc.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", sc.Warnings)
	}
	var moon *Primitive
	for i, p := range sc.Primitives {
		if p.Kind == KindSun {
			t.Fatal("sun painted during local night")
		}
		if p.Kind == KindMoon {
			moon = &sc.Primitives[i]
		}
	}
	if sc.VisibleStars < 20 {
		t.Fatalf("visible stars = %d, want a populated night sky", sc.VisibleStars)
	}

	// The waxing crescent of 1969-07-20 was above the New York horizon
	// that evening, about a third illuminated.
	if moon == nil {
		t.Fatal("moon missing from the scene")
	}
	body, err := ephem.NewMeeusProvider().Position(ephem.Moon, q.Time)
	if err != nil {
		t.Fatal(err)
	}
	if body.Illum < 0.3 || body.Illum > 0.4 {
		t.Fatalf("moon illuminated fraction = %.3f, want a waxing crescent in [0.3,0.4]", body.Illum)
	}
	if moon.MaskOffset <= 0 {
		t.Fatalf("crescent mask offset = %v, want > 0", moon.MaskOffset)
	}
}

func TestEclipticPathSplitsAtHorizon(t *testing.T) {
	c := NewCanvas(472)
	vis := func(x, y float64) astro.ProjectedPoint {
		return astro.ProjectedPoint{X: x, Y: y, Visible: true}
	}
	hidden := astro.ProjectedPoint{X: 0, Y: 2, Visible: false}

	// Two runs of visible samples separated by a below-horizon dip, plus
	// a stray single visible sample that is too short to draw.
	samples := []astro.ProjectedPoint{
		vis(0.1, 0.2), vis(0.2, 0.2),
		hidden,
		vis(0.4, -0.1), vis(0.5, -0.15), vis(0.6, -0.2),
		hidden,
		vis(0.9, 0),
	}

	prims := c.EclipticPath(samples)
	if len(prims) != 2 {
		t.Fatalf("segments = %d, want 2", len(prims))
	}
	if prims[0].ID != "ecliptic-a" || prims[1].ID != "ecliptic-b" {
		t.Fatalf("segment ids = %q, %q", prims[0].ID, prims[1].ID)
	}
	if len(prims[0].Points) != 2 || len(prims[1].Points) != 3 {
		t.Fatalf("segment points = %d, %d, want 2, 3", len(prims[0].Points), len(prims[1].Points))
	}
	for _, p := range prims {
		if p.Kind != KindPath || p.Layer != LayerEcliptic {
			t.Fatalf("segment %q: kind %v layer %v", p.ID, p.Kind, p.Layer)
		}
	}

	// An unbroken arc keeps the plain id.
	whole := c.EclipticPath(samples[:2])
	if len(whole) != 1 || whole[0].ID != "ecliptic" {
		t.Fatalf("unbroken arc = %+v, want single \"ecliptic\" segment", whole)
	}

	// Entirely below the horizon draws nothing.
	if got := c.EclipticPath([]astro.ProjectedPoint{hidden, hidden}); len(got) != 0 {
		t.Fatalf("hidden arc produced %d segments", len(got))
	}
}

func TestCanvasGeometry(t *testing.T) {
	c := NewCanvas(472)
	if c.Center != 236 {
		t.Fatalf("center = %v, want 236", c.Center)
	}
	wantRadius := 236 - (0.3*300.0/72.0)/2
	if diff := c.Radius - wantRadius; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("radius = %v, want %v", c.Radius, wantRadius)
	}

	// Star radius floors out instead of vanishing for faint stars.
	if r := c.StarRadius(6); r != 0.2*c.Pt {
		t.Fatalf("faint star radius = %v, want floor %v", r, 0.2*c.Pt)
	}
	if c.StarRadius(0) <= c.StarRadius(2) {
		t.Fatal("brighter stars must render larger")
	}
}
