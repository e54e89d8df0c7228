// Package scene composes the drawable description of the sky stamp: an
// ordered, back-to-front list of primitives ready for serialization.
//
// The composer runs every catalog star through precession, the horizontal
// transform and the stereographic projection, merges in the solar-system
// bodies from an ephemeris provider, and applies the visual-encoding rules
// (size by magnitude, crescent geometry, draw ordering). The primitive list
// is deterministic: identical inputs produce an identical sequence.
package scene

// Kind discriminates the closed set of drawable primitive shapes.
type Kind int

const (
	// KindCircle is a filled or stroked disc (stars, planets, rings).
	KindCircle Kind = iota
	// KindLine is a straight stroke (meridian, ticks, crosshair).
	KindLine
	// KindPath is a polyline (ecliptic segments).
	KindPath
	// KindMoon is the two-disc crescent construct.
	KindMoon
	// KindSun is the circled-dot symbol.
	KindSun
)

// Layer orders primitives back to front. The ordering is a design
// invariant: bright bodies are never occluded by dim ones, and output is
// byte-stable across runs with identical input.
type Layer int

const (
	LayerHorizon Layer = iota
	LayerTicks
	LayerEcliptic
	LayerStars
	LayerPlanets
	LayerMoon
	LayerSun
)

// Point is a pixel-space coordinate.
type Point struct {
	X, Y float64
}

// Style carries resolved stroke and fill attributes in pixel units.
type Style struct {
	Fill        string     // fill color, "none" for outlines
	Stroke      string     // stroke color, empty for no stroke
	StrokeWidth float64    // px
	Opacity     float64    // 0 means fully opaque (treated as 1)
	Dash        [2]float64 // dash/gap in px; zero value means solid
}

// Primitive is one immutable drawing instruction in canvas pixel space.
// Which geometry fields are meaningful depends on Kind.
type Primitive struct {
	Kind  Kind
	Layer Layer
	ID    string // body or catalog identifier; stable tie-break key

	X, Y   float64 // circle/symbol center, or line start
	X2, Y2 float64 // line end
	R      float64 // circle radius; KindSun outer ring radius

	Points []Point // KindPath vertices

	// Crescent parameters (KindMoon): the disc is overlaid by a mask
	// circle shifted away from the Sun's projected direction.
	RotationDeg float64 // screen angle from Moon toward Sun
	MaskOffset  float64 // px shift of the mask circle
	MaskR       float64 // px mask radius

	InnerR float64 // KindSun center-dot radius

	Style Style
}
