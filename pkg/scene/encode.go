package scene

import (
	"math"

	"github.com/gbrlpzz/star-hash/pkg/astro"
)

// Stamp geometry constants. Stroke weights are given in typographic points
// rendered at 300 DPI and scaled relative to the 472px reference canvas,
// matching the reference stamp exactly.
const (
	onePointPx  = 300.0 / 72.0
	referencePx = 472.0

	weightPrimaryPt   = 0.3  // horizon ring, cardinal ticks
	weightSecondaryPt = 0.15 // hairline: inner ring, meridian, ecliptic

	innerRingFrac = 0.7

	moonRadiusPt  = 1.5
	moonMaskScale = 1.05
	moonMaskSpan  = 2.5 // mask travel, in moon radii, from new to full

	sunOuterPt = 3.2
	sunInnerPt = 1.0
)

// Canvas maps normalized disc coordinates to pixels for a given stamp size.
type Canvas struct {
	Size    float64 // canvas edge in px
	Center  float64 // disc center (Size/2)
	Radius  float64 // horizon radius in px (stroke-centered)
	Pt      float64 // one scaled point in px
	BorderW float64 // horizon ring stroke width in px
	HairW   float64 // hairline stroke width in px
}

// NewCanvas derives the pixel geometry for a square canvas of the given
// edge length.
func NewCanvas(sizePx int) Canvas {
	size := float64(sizePx)
	scale := size / referencePx
	borderW := weightPrimaryPt * onePointPx * scale
	return Canvas{
		Size:    size,
		Center:  size / 2,
		Radius:  size/2 - borderW/2,
		Pt:      onePointPx * scale,
		BorderW: borderW,
		HairW:   weightSecondaryPt * onePointPx * scale,
	}
}

// ToScreen maps a projected unit-disc point to canvas pixels.
func (c Canvas) ToScreen(p astro.ProjectedPoint) (float64, float64) {
	return c.Center + p.X*c.Radius, c.Center + p.Y*c.Radius
}

// ClipRadius is the inner edge of the horizon ring; body geometry is
// clipped against it so nothing bleeds over the border stroke.
func (c Canvas) ClipRadius() float64 {
	return c.Radius - c.BorderW/2
}

// StarRadius converts apparent magnitude to a star disc radius in px.
// Strictly decreasing in magnitude down to a floor that keeps the faintest
// cataloged stars visible.
func (c Canvas) StarRadius(mag float64) float64 {
	return math.Max(0.2, 0.65-mag*0.12) * c.Pt
}

// PlanetRadius converts apparent magnitude to a planet disc radius in px.
// Planets use a larger base size than stars; they read as outlined discs.
func (c Canvas) PlanetRadius(mag float64) float64 {
	return math.Max(0.8, 1.5-mag*0.15) * c.Pt
}

// Rings returns the horizon circle and the 70% reference ring.
func (c Canvas) Rings() []Primitive {
	return []Primitive{
		{
			Kind: KindCircle, Layer: LayerHorizon, ID: "horizon",
			X: c.Center, Y: c.Center, R: c.Radius,
			Style: Style{Fill: "none", Stroke: "black", StrokeWidth: c.BorderW},
		},
		{
			Kind: KindCircle, Layer: LayerHorizon, ID: "ring70",
			X: c.Center, Y: c.Center, R: c.Radius * innerRingFrac,
			Style: Style{Fill: "none", Stroke: "black", StrokeWidth: c.HairW, Opacity: 0.5},
		},
	}
}

// ReferenceMarks returns the zenith crosshair, the dashed local meridian
// and the four cardinal ticks. Pure constants of the canvas, independent of
// any astronomical input.
func (c Canvas) ReferenceMarks() []Primitive {
	marks := make([]Primitive, 0, 7)

	cross := onePointPx * 0.8 * (c.Size / referencePx)
	marks = append(marks,
		Primitive{
			Kind: KindLine, Layer: LayerTicks, ID: "zenith-h",
			X: c.Center - cross, Y: c.Center, X2: c.Center + cross, Y2: c.Center,
			Style: Style{Stroke: "black", StrokeWidth: c.HairW},
		},
		Primitive{
			Kind: KindLine, Layer: LayerTicks, ID: "zenith-v",
			X: c.Center, Y: c.Center - cross, X2: c.Center, Y2: c.Center + cross,
			Style: Style{Stroke: "black", StrokeWidth: c.HairW},
		},
	)

	// Local meridian: North at the top of the disc, South at the bottom.
	dash := onePointPx * (c.Size / referencePx)
	marks = append(marks, Primitive{
		Kind: KindLine, Layer: LayerTicks, ID: "meridian",
		X: c.Center, Y: c.Center - c.Radius, X2: c.Center, Y2: c.Center + c.Radius,
		Style: Style{
			Stroke: "black", StrokeWidth: c.HairW,
			Opacity: 0.4, Dash: [2]float64{dash * 0.5, dash * 2},
		},
	})

	tick := onePointPx * 1.5 * (c.Size / referencePx)
	cardinals := []struct {
		id     string
		dx, dy float64 // outward unit direction
	}{
		{"tick-n", 0, -1},
		{"tick-s", 0, 1},
		{"tick-e", 1, 0},
		{"tick-w", -1, 0},
	}
	for _, cd := range cardinals {
		ox := c.Center + cd.dx*c.Radius
		oy := c.Center + cd.dy*c.Radius
		marks = append(marks, Primitive{
			Kind: KindLine, Layer: LayerTicks, ID: cd.id,
			X: ox, Y: oy, X2: ox - cd.dx*tick, Y2: oy - cd.dy*tick,
			Style: Style{Stroke: "black", StrokeWidth: c.BorderW},
		})
	}
	return marks
}

// StarPrimitive encodes one visible star as a filled disc.
func (c Canvas) StarPrimitive(id string, p astro.ProjectedPoint, mag float64) Primitive {
	x, y := c.ToScreen(p)
	return Primitive{
		Kind: KindCircle, Layer: LayerStars, ID: id,
		X: x, Y: y, R: c.StarRadius(mag),
		Style: Style{Fill: "black"},
	}
}

// PlanetPrimitive encodes one visible planet as an outlined white disc.
func (c Canvas) PlanetPrimitive(id string, p astro.ProjectedPoint, mag float64) Primitive {
	x, y := c.ToScreen(p)
	return Primitive{
		Kind: KindCircle, Layer: LayerPlanets, ID: id,
		X: x, Y: y, R: c.PlanetRadius(mag),
		Style: Style{Fill: "white", Stroke: "black", StrokeWidth: c.HairW},
	}
}

// SunPrimitive encodes the Sun as a circled dot.
func (c Canvas) SunPrimitive(p astro.ProjectedPoint) Primitive {
	x, y := c.ToScreen(p)
	return Primitive{
		Kind: KindSun, Layer: LayerSun, ID: "Sun",
		X: x, Y: y,
		R:      sunOuterPt * c.Pt,
		InnerR: sunInnerPt * c.Pt,
		Style:  Style{Fill: "white", Stroke: "black", StrokeWidth: c.BorderW},
	}
}

// MoonPrimitive encodes the crescent. The illuminated fraction sets the
// mask offset (new moon: fully covered; full moon: fully revealed) and the
// crescent opening is rotated toward the Sun's projected direction, even
// when the Sun itself is below the horizon.
func (c Canvas) MoonPrimitive(moon, sun astro.ProjectedPoint, illum float64) Primitive {
	x, y := c.ToScreen(moon)
	r := moonRadiusPt * c.Pt
	return Primitive{
		Kind: KindMoon, Layer: LayerMoon, ID: "Moon",
		X: x, Y: y, R: r,
		RotationDeg: crescentRotation(moon, sun),
		MaskOffset:  illum * moonMaskSpan * r,
		MaskR:       r * moonMaskScale,
		Style:       Style{Fill: "black"},
	}
}

// crescentRotation is the screen-space angle from the Moon toward the Sun
// in degrees. The mask is shifted along the rotated -x axis, so the
// revealed limb faces the Sun.
func crescentRotation(moon, sun astro.ProjectedPoint) float64 {
	return math.Atan2(sun.Y-moon.Y, sun.X-moon.X) * 180 / math.Pi
}

// EclipticPath splits the projected ecliptic samples into contiguous
// visible segments. Samples below the horizon break the polyline rather
// than closing the curve.
func (c Canvas) EclipticPath(samples []astro.ProjectedPoint) []Primitive {
	dash := onePointPx * (c.Size / referencePx)
	style := Style{
		Fill: "none", Stroke: "black", StrokeWidth: c.HairW,
		Opacity: 0.3, Dash: [2]float64{dash, dash * 2},
	}

	var prims []Primitive
	var current []Point
	flush := func() {
		if len(current) >= 2 {
			prims = append(prims, Primitive{
				Kind: KindPath, Layer: LayerEcliptic,
				ID:     "ecliptic",
				Points: current,
				Style:  style,
			})
		}
		current = nil
	}

	for _, s := range samples {
		if !s.Visible {
			flush()
			continue
		}
		x, y := c.ToScreen(s)
		current = append(current, Point{X: x, Y: y})
	}
	flush()

	for i := range prims {
		if len(prims) > 1 {
			prims[i].ID = prims[i].ID + "-" + string(rune('a'+i))
		}
	}
	return prims
}
