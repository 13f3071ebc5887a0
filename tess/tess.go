// Package tess rebuilds flat vertex buffers from a scene store. A rebuild
// regenerates the full scene from scratch in a deterministic order; there
// is no incremental retessellation.
package tess

import (
	"math"

	"github.com/gridwire/gridwire"
	"github.com/gridwire/gridwire/store"
)

// ResolveNodeFunc maps a node id to its current world position. Conduit
// tessellation calls it once per endpoint per rebuild; a false return
// skips the conduit for that frame without touching the store.
type ResolveNodeFunc func(nodeID uint32) (gridwire.Point, bool)

// Rebuild clears out's buffers and regenerates them from every live
// renderable entity in s. Entities are visited in the stored draw order
// (dead and duplicate ids dropped), followed by any remaining renderables
// in ascending id order, so identical stores always produce identical
// buffers.
//
// resolve supplies conduit endpoint positions; nil falls back to
// s.ResolveNodePosition.
func Rebuild(s *store.Store, viewScale float32, resolve ResolveNodeFunc, out *VertexBuffers) {
	out.reset()
	if resolve == nil {
		resolve = s.ResolveNodePosition
	}

	order := renderOrder(s)

	if budget := triangleBudget(s, order); budget > cap(out.Triangles) {
		gridwire.Logger().Debug("growing triangle buffer",
			"floats", budget, "entities", len(order))
		out.Triangles = make([]float32, 0, budget)
	}

	for _, id := range order {
		ref, ok := s.Lookup(id)
		if !ok {
			continue
		}
		switch ref.Kind {
		case store.KindRect:
			out.Triangles = appendRect(out.Triangles, s.Rects()[ref.Index], viewScale)
		case store.KindLine:
			out.Triangles = appendLine(out.Triangles, s.Lines()[ref.Index], viewScale)
		case store.KindPolyline:
			out.Triangles = appendPolyline(out.Triangles, s.Polylines()[ref.Index], s.Points(), viewScale)
		case store.KindCircle:
			out.Triangles = appendCircle(out.Triangles, s.Circles()[ref.Index], viewScale)
		case store.KindPolygon:
			out.Triangles = appendPolygon(out.Triangles, s.Polygons()[ref.Index], viewScale)
		case store.KindArrow:
			out.Triangles = appendArrow(out.Triangles, s.Arrows()[ref.Index], viewScale)
		case store.KindConduit:
			out.Triangles = appendConduit(out.Triangles, s.Conduits()[ref.Index], resolve, viewScale)
		}
	}
}

// renderOrder returns the deterministic tessellation order: the stored
// draw order with dead and non-renderable ids dropped and duplicates
// keeping their first occurrence, then every live renderable not in the
// draw order, ascending.
func renderOrder(s *store.Store) []uint32 {
	draw := s.DrawOrder()
	order := make([]uint32, 0, len(draw))
	seen := make(map[uint32]struct{}, len(draw))
	for _, id := range draw {
		if _, dup := seen[id]; dup {
			continue
		}
		ref, ok := s.Lookup(id)
		if !ok || !ref.Kind.Renderable() {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	for _, id := range s.RenderableIDs() {
		if _, dup := seen[id]; !dup {
			order = append(order, id)
		}
	}
	return order
}

// triangleBudget sums the worst-case float count for the entities in
// order, applying the same visibility predicates as generation. Conduits
// are counted even though endpoint resolution may later skip them, so the
// budget is an upper bound, never an undercount.
func triangleBudget(s *store.Store, order []uint32) int {
	budget := 0
	for _, id := range order {
		ref, ok := s.Lookup(id)
		if !ok {
			continue
		}
		switch ref.Kind {
		case store.KindRect:
			r := s.Rects()[ref.Index]
			if r.Fill.A > 0 {
				budget += 2 * triFloats
			}
			if r.StrokeOn && clamp01(r.Stroke.A) > 0 {
				budget += 4 * quadFloats
			}
		case store.KindLine:
			l := s.Lines()[ref.Index]
			if l.Enabled && clamp01(l.Color.A) > 0 {
				budget += quadFloats
			}
		case store.KindPolyline:
			p := s.Polylines()[ref.Index]
			if p.Enabled && clamp01(p.Color.A) > 0 && p.Count >= 2 &&
				int(p.Offset)+int(p.Count) <= len(s.Points()) {
				budget += (int(p.Count) - 1) * quadFloats
			}
		case store.KindCircle:
			c := s.Circles()[ref.Index]
			if c.Fill.A > 0 {
				budget += circleSegments * triFloats
			}
			if c.StrokeOn && clamp01(c.Stroke.A) > 0 {
				budget += circleSegments * quadFloats
			}
		case store.KindPolygon:
			p := s.Polygons()[ref.Index]
			sides := int(clampSides(p.Sides))
			if p.Fill.A > 0 {
				budget += sides * triFloats
			}
			if p.StrokeOn && clamp01(p.Stroke.A) > 0 {
				budget += sides * quadFloats
			}
		case store.KindArrow:
			a := s.Arrows()[ref.Index]
			if a.StrokeOn && clamp01(a.Stroke.A) > 0 {
				budget += quadFloats + triFloats
			}
		case store.KindConduit:
			c := s.Conduits()[ref.Index]
			if c.Enabled && clamp01(c.Color.A) > 0 {
				budget += quadFloats
			}
		}
	}
	return budget
}

func clampSides(sides uint32) uint32 {
	if sides < 3 {
		return 3
	}
	return sides
}

func appendRect(out []float32, r store.Rect, viewScale float32) []float32 {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	if a := r.Fill.A; a > 0 {
		out = pushVertex(out, x0, y0, r.Fill, a)
		out = pushVertex(out, x1, y0, r.Fill, a)
		out = pushVertex(out, x1, y1, r.Fill, a)
		out = pushVertex(out, x0, y0, r.Fill, a)
		out = pushVertex(out, x1, y1, r.Fill, a)
		out = pushVertex(out, x0, y1, r.Fill, a)
	}
	if a := clamp01(r.Stroke.A); r.StrokeOn && a > 0 {
		w := strokeWidthWorld(r.StrokeWidth, viewScale)
		edges := [4][2]gridwire.Point{
			{gridwire.Pt(x0, y0), gridwire.Pt(x1, y0)},
			{gridwire.Pt(x1, y0), gridwire.Pt(x1, y1)},
			{gridwire.Pt(x1, y1), gridwire.Pt(x0, y1)},
			{gridwire.Pt(x0, y1), gridwire.Pt(x0, y0)},
		}
		for _, e := range edges {
			out = appendSegmentQuad(out, e[0], e[1], w, r.Stroke, a)
		}
	}
	return out
}

func appendLine(out []float32, l store.Line, viewScale float32) []float32 {
	a := clamp01(l.Color.A)
	if !l.Enabled || a <= 0 {
		return out
	}
	w := strokeWidthWorld(l.StrokeWidth, viewScale)
	return appendSegmentQuad(out, l.A, l.B, w, l.Color, a)
}

func appendPolyline(out []float32, p store.Polyline, pool []gridwire.Point, viewScale float32) []float32 {
	a := clamp01(p.Color.A)
	if !p.Enabled || a <= 0 || p.Count < 2 {
		return out
	}
	start, end := int(p.Offset), int(p.Offset)+int(p.Count)
	if end > len(pool) || end < start {
		// Stale range after an external pool edit; skip until the next
		// upsert or compaction repairs it.
		return out
	}
	w := strokeWidthWorld(p.StrokeWidth, viewScale)
	pts := pool[start:end]
	for i := 0; i+1 < len(pts); i++ {
		out = appendSegmentQuad(out, pts[i], pts[i+1], w, p.Color, a)
	}
	return out
}

func appendCircle(out []float32, c store.Circle, viewScale float32) []float32 {
	const step = 2 * math.Pi / circleSegments
	if a := c.Fill.A; a > 0 {
		f := newEllipseFrame(c.Center, c.RX, c.RY, c.Rotation, c.SX, c.SY)
		for i := 0; i < circleSegments; i++ {
			p0 := f.at(float64(i) * step)
			p1 := f.at(float64(i+1) * step)
			out = pushVertex(out, c.Center.X, c.Center.Y, c.Fill, a)
			out = pushVertex(out, p0.X, p0.Y, c.Fill, a)
			out = pushVertex(out, p1.X, p1.Y, c.Fill, a)
		}
	}
	if a := clamp01(c.Stroke.A); c.StrokeOn && a > 0 {
		w := strokeWidthWorld(c.StrokeWidth, viewScale)
		half := w / 2
		inRX, inRY := c.RX-half, c.RY-half
		if inRX < 0 {
			inRX = 0
		}
		if inRY < 0 {
			inRY = 0
		}
		outer := newEllipseFrame(c.Center, c.RX+half, c.RY+half, c.Rotation, c.SX, c.SY)
		inner := newEllipseFrame(c.Center, inRX, inRY, c.Rotation, c.SX, c.SY)
		for i := 0; i < circleSegments; i++ {
			t0 := float64(i) * step
			t1 := float64(i+1) * step
			o0, o1 := outer.at(t0), outer.at(t1)
			i0, i1 := inner.at(t0), inner.at(t1)
			out = pushVertex(out, o0.X, o0.Y, c.Stroke, a)
			out = pushVertex(out, i0.X, i0.Y, c.Stroke, a)
			out = pushVertex(out, o1.X, o1.Y, c.Stroke, a)
			out = pushVertex(out, i0.X, i0.Y, c.Stroke, a)
			out = pushVertex(out, i1.X, i1.Y, c.Stroke, a)
			out = pushVertex(out, o1.X, o1.Y, c.Stroke, a)
		}
	}
	return out
}

func appendPolygon(out []float32, p store.Polygon, viewScale float32) []float32 {
	sides := clampSides(p.Sides)
	var pts []gridwire.Point
	if a := p.Fill.A; a > 0 {
		pts = polygonVertices(p.Center, p.RX, p.RY, p.Rotation, p.SX, p.SY, sides)
		for i := range pts {
			p0 := pts[i]
			p1 := pts[(i+1)%len(pts)]
			out = pushVertex(out, p.Center.X, p.Center.Y, p.Fill, a)
			out = pushVertex(out, p0.X, p0.Y, p.Fill, a)
			out = pushVertex(out, p1.X, p1.Y, p.Fill, a)
		}
	}
	if a := clamp01(p.Stroke.A); p.StrokeOn && a > 0 {
		if pts == nil {
			pts = polygonVertices(p.Center, p.RX, p.RY, p.Rotation, p.SX, p.SY, sides)
		}
		w := strokeWidthWorld(p.StrokeWidth, viewScale)
		for i := range pts {
			out = appendSegmentQuad(out, pts[i], pts[(i+1)%len(pts)], w, p.Stroke, a)
		}
	}
	return out
}

func appendArrow(out []float32, ar store.Arrow, viewScale float32) []float32 {
	a := clamp01(ar.Stroke.A)
	if !ar.StrokeOn || a <= 0 {
		return out
	}
	d := ar.B.Sub(ar.A)
	length := d.Length()
	if length <= minSegmentLength {
		return out
	}
	dir := d.Mul(1 / length)
	headLen := ar.HeadLength
	if maxHead := 0.45 * length; headLen > maxHead {
		headLen = maxHead
	}
	if headLen < 0 {
		headLen = 0
	}
	base := ar.B.Sub(dir.Mul(headLen))

	w := strokeWidthWorld(ar.StrokeWidth, viewScale)
	out = appendSegmentQuad(out, ar.A, base, w, ar.Stroke, a)

	halfW := 0.6 * headLen / 2
	n := dir.Perp().Mul(halfW)
	left := base.Add(n)
	right := base.Sub(n)
	out = pushVertex(out, ar.B.X, ar.B.Y, ar.Stroke, a)
	out = pushVertex(out, left.X, left.Y, ar.Stroke, a)
	out = pushVertex(out, right.X, right.Y, ar.Stroke, a)
	return out
}

func appendConduit(out []float32, c store.Conduit, resolve ResolveNodeFunc, viewScale float32) []float32 {
	a := clamp01(c.Color.A)
	if !c.Enabled || a <= 0 {
		return out
	}
	from, ok := resolve(c.From)
	if !ok {
		return out
	}
	to, ok := resolve(c.To)
	if !ok {
		return out
	}
	w := strokeWidthWorld(c.StrokeWidth, viewScale)
	return appendSegmentQuad(out, from, to, w, c.Color, a)
}
