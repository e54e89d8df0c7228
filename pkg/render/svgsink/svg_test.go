package svgsink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gbrlpzz/star-hash/pkg/scene"
)

func sampleScene() *scene.Scene {
	c := scene.NewCanvas(472)
	sc := &scene.Scene{Size: 472}
	sc.Primitives = append(sc.Primitives, c.Rings()...)
	sc.Primitives = append(sc.Primitives, c.ReferenceMarks()...)
	sc.Primitives = append(sc.Primitives, scene.Primitive{
		Kind: scene.KindPath, Layer: scene.LayerEcliptic, ID: "ecliptic",
		Points: []scene.Point{{X: 100, Y: 200}, {X: 150, Y: 180}, {X: 210, Y: 175}},
		Style:  scene.Style{Fill: "none", Stroke: "black", StrokeWidth: 0.5},
	})
	sc.Primitives = append(sc.Primitives, scene.Primitive{
		Kind: scene.KindCircle, Layer: scene.LayerStars, ID: "Vega",
		X: 230, Y: 120, R: 1.4,
		Style: scene.Style{Fill: "black"},
	})
	sc.Primitives = append(sc.Primitives, scene.Primitive{
		Kind: scene.KindMoon, Layer: scene.LayerMoon, ID: "Moon",
		X: 300, Y: 260, R: 6.25, RotationDeg: 135, MaskOffset: 4.7, MaskR: 6.56,
		Style: scene.Style{Fill: "black"},
	})
	sc.Primitives = append(sc.Primitives, scene.Primitive{
		Kind: scene.KindSun, Layer: scene.LayerSun, ID: "Sun",
		X: 180, Y: 330, R: 13.3, InnerR: 4.2,
		Style: scene.Style{Fill: "white", Stroke: "black", StrokeWidth: 1.25},
	})
	return sc
}

func TestRenderStructure(t *testing.T) {
	out := string(Render(sampleScene()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="472" height="472"`,
		`<clipPath id="horizon">`,
		`<g clip-path="url(#horizon)">`,
		`<path d="M100.00 200.00 L150.00 180.00 L210.00 175.00"`,
		`rotate(135.00 300.00 260.00)`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(out, "<text") {
		t.Error("stamp must not contain text elements")
	}
}

func TestRenderDeterministic(t *testing.T) {
	a := Render(sampleScene())
	b := Render(sampleScene())
	if !bytes.Equal(a, b) {
		t.Fatal("two renders of the same scene are not byte-identical")
	}
}

func TestRenderMoonMask(t *testing.T) {
	out := string(Render(sampleScene()))

	// The mask circle is displaced along the rotated -x axis: moon x minus
	// the offset, same y, slightly larger radius, white fill.
	if !strings.Contains(out, `<circle cx="295.30" cy="260.00" r="6.56" fill="white"/>`) {
		t.Errorf("missing crescent mask circle in:\n%s", out)
	}
}

func TestRenderSunSymbol(t *testing.T) {
	out := string(Render(sampleScene()))

	if !strings.Contains(out, `<circle cx="180.00" cy="330.00" r="13.30" fill="white" stroke="black" stroke-width="1.25"/>`) {
		t.Errorf("missing sun outer circle in:\n%s", out)
	}
	if !strings.Contains(out, `<circle cx="180.00" cy="330.00" r="4.20" fill="black"/>`) {
		t.Errorf("missing sun inner dot in:\n%s", out)
	}
}

func TestRenderClipScope(t *testing.T) {
	out := string(Render(sampleScene()))

	// The horizon ring paints before the clipped group opens; sky geometry
	// paints after.
	clipAt := strings.Index(out, `<g clip-path=`)
	horizonAt := strings.Index(out, `r="235.38"`)
	starAt := strings.Index(out, `cx="230.00"`)
	if clipAt < 0 || horizonAt < 0 || starAt < 0 {
		t.Fatalf("markers missing in:\n%s", out)
	}
	if horizonAt > clipAt {
		t.Error("horizon ring must render outside the clipped group")
	}
	if starAt < clipAt {
		t.Error("star must render inside the clipped group")
	}
}
