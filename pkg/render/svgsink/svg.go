// Package svgsink serializes an ordered primitive scene into a standalone
// SVG document.
//
// The sink is a pure serializer: it never reorders, filters or measures
// primitives. All numbers are written with fixed precision so the same
// scene always produces byte-identical output.
package svgsink

import (
	"bytes"
	"fmt"

	"github.com/gbrlpzz/star-hash/pkg/scene"
)

// horizonClipID names the clip path that confines sky geometry to the
// inside of the horizon ring.
const horizonClipID = "horizon"

// Render serializes the scene into an SVG document. Primitives below the
// ecliptic layer (the rings and reference ticks) draw unclipped; everything
// above is clipped to the horizon disc so projected geometry never bleeds
// over the border.
func Render(sc *scene.Scene) []byte {
	var buf bytes.Buffer

	size := sc.Size
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		size, size, size, size)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`+"\n", size, size)

	canvas := scene.NewCanvas(size)
	fmt.Fprintf(&buf, `<defs><clipPath id="%s"><circle cx="%s" cy="%s" r="%s"/></clipPath></defs>`+"\n",
		horizonClipID, num(canvas.Center), num(canvas.Center), num(canvas.ClipRadius()))

	clipped := false
	for _, p := range sc.Primitives {
		if !clipped && p.Layer >= scene.LayerEcliptic {
			fmt.Fprintf(&buf, `<g clip-path="url(#%s)">`+"\n", horizonClipID)
			clipped = true
		}
		writePrimitive(&buf, p)
	}
	if clipped {
		buf.WriteString("</g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePrimitive(buf *bytes.Buffer, p scene.Primitive) {
	switch p.Kind {
	case scene.KindCircle:
		fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.R), styleAttrs(p.Style))
	case scene.KindLine:
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.X2), num(p.Y2), styleAttrs(p.Style))
	case scene.KindPath:
		writePath(buf, p)
	case scene.KindMoon:
		writeMoon(buf, p)
	case scene.KindSun:
		writeSun(buf, p)
	}
}

func writePath(buf *bytes.Buffer, p scene.Primitive) {
	if len(p.Points) < 2 {
		return
	}
	buf.WriteString(`<path d="`)
	for i, pt := range p.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(buf, "%s%s %s", cmd, num(pt.X), num(pt.Y))
		if i < len(p.Points)-1 {
			buf.WriteByte(' ')
		}
	}
	fmt.Fprintf(buf, `"%s/>`+"\n", styleAttrs(p.Style))
}

// writeMoon draws the crescent: a dark lunar disc masked by a slightly
// larger white circle. The group rotates about the moon center so the
// local +x axis points at the Sun; the mask sits on the -x side, leaving
// the sunward limb exposed. A mask offset of zero (new moon) covers the
// disc entirely.
func writeMoon(buf *bytes.Buffer, p scene.Primitive) {
	fmt.Fprintf(buf, `<g transform="rotate(%s %s %s)">`+"\n",
		num(p.RotationDeg), num(p.X), num(p.Y))
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
		num(p.X), num(p.Y), num(p.R), styleAttrs(p.Style))
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="white"/>`+"\n",
		num(p.X-p.MaskOffset), num(p.Y), num(p.MaskR))
	buf.WriteString("</g>\n")
}

// writeSun draws the circled-dot solar symbol.
func writeSun(buf *bytes.Buffer, p scene.Primitive) {
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
		num(p.X), num(p.Y), num(p.R), styleAttrs(p.Style))
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="black"/>`+"\n",
		num(p.X), num(p.Y), num(p.InnerR))
}

// styleAttrs renders the style as SVG presentation attributes, omitting
// unset fields.
func styleAttrs(s scene.Style) string {
	var b bytes.Buffer
	if s.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, s.Fill)
	}
	if s.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s"`, s.Stroke)
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke-width="%s"`, num(s.StrokeWidth))
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, num(s.Opacity))
	}
	if s.Dash[0] > 0 {
		fmt.Fprintf(&b, ` stroke-dasharray="%s %s"`, num(s.Dash[0]), num(s.Dash[1]))
	}
	return b.String()
}

// num formats coordinates with fixed two-decimal precision. Fixed width
// keeps the output stable byte for byte across runs.
func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
