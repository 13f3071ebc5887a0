package tess

import (
	"math"

	"github.com/gridwire/gridwire"
)

const (
	triFloats  = 3 * VertexFloats
	quadFloats = 6 * VertexFloats

	// circleSegments is the fixed subdivision for circles, ellipses and
	// stroke rings.
	circleSegments = 72

	// minSegmentLength is the degenerate-segment cutoff: segments at or
	// below this length emit no geometry.
	minSegmentLength = 1e-6

	// minViewScale guards the screen-constant stroke division. View
	// scales at or below this (or non-finite) fall back to 1.0.
	minViewScale = 1e-6
)

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// strokeWidthWorld converts a screen-space stroke width in pixels to world
// units at the given view scale. Non-positive widths fall back to a one
// pixel default; invalid view scales fall back to 1.0 so strokes stay
// visible instead of exploding.
func strokeWidthWorld(px, viewScale float32) float32 {
	scale := viewScale
	if !(scale > minViewScale) || math.IsInf(float64(scale), 0) {
		scale = 1
	}
	if !(px > 0) {
		px = 1
	}
	return px / scale
}

func pushVertex(out []float32, x, y float32, c gridwire.RGBA, alpha float32) []float32 {
	return append(out, x, y, 0, c.R, c.G, c.B, alpha)
}

// appendSegmentQuad expands the segment a-b into a width-thick quad of two
// triangles. Degenerate segments and non-positive widths emit nothing.
func appendSegmentQuad(out []float32, a, b gridwire.Point, width float32, c gridwire.RGBA, alpha float32) []float32 {
	d := b.Sub(a)
	if d.Length() <= minSegmentLength || width <= 0 {
		return out
	}
	n := d.Normalize().Perp().Mul(width / 2)
	p0 := a.Add(n)
	p1 := a.Sub(n)
	p2 := b.Sub(n)
	p3 := b.Add(n)
	out = pushVertex(out, p0.X, p0.Y, c, alpha)
	out = pushVertex(out, p1.X, p1.Y, c, alpha)
	out = pushVertex(out, p2.X, p2.Y, c, alpha)
	out = pushVertex(out, p0.X, p0.Y, c, alpha)
	out = pushVertex(out, p2.X, p2.Y, c, alpha)
	out = pushVertex(out, p3.X, p3.Y, c, alpha)
	return out
}

// ellipseFrame carries the precomputed per-circle transform so boundary
// points can be evaluated cheaply per segment.
type ellipseFrame struct {
	center   gridwire.Point
	rx, ry   float32
	cos, sin float32
}

func newEllipseFrame(center gridwire.Point, rx, ry, rotation, sx, sy float32) ellipseFrame {
	s, c := math.Sincos(float64(rotation))
	return ellipseFrame{
		center: center,
		rx:     rx * sx,
		ry:     ry * sy,
		cos:    float32(c),
		sin:    float32(s),
	}
}

// at returns the transformed boundary point at the given parameter angle:
// per-axis radius scaling, then rotation, then translation to the center.
func (f ellipseFrame) at(angle float64) gridwire.Point {
	s, c := math.Sincos(angle)
	dx := float32(c) * f.rx
	dy := float32(s) * f.ry
	return gridwire.Pt(
		f.center.X+dx*f.cos-dy*f.sin,
		f.center.Y+dx*f.sin+dy*f.cos,
	)
}

// polygonVertices returns the regular polygon's boundary under the same
// transform as circles, first vertex pointing up.
func polygonVertices(center gridwire.Point, rx, ry, rotation, sx, sy float32, sides uint32) []gridwire.Point {
	f := newEllipseFrame(center, rx, ry, rotation, sx, sy)
	pts := make([]gridwire.Point, sides)
	for i := uint32(0); i < sides; i++ {
		// First vertex points up: start at -90 degrees.
		angle := float64(i)/float64(sides)*2*math.Pi - math.Pi/2
		pts[i] = f.at(angle)
	}
	return pts
}
