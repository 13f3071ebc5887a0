package tess

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gridwire/gridwire"
	"github.com/gridwire/gridwire/store"
)

var (
	red  = gridwire.RGBA{R: 1, A: 1}
	blue = gridwire.RGBA{B: 1, A: 1}
)

// vertexAt returns the position of vertex i in the triangle buffer.
func vertexAt(t *testing.T, b *VertexBuffers, i int) gridwire.Point {
	t.Helper()
	if (i+1)*VertexFloats > len(b.Triangles) {
		t.Fatalf("vertex %d out of range (%d vertices)", i, b.TriangleVertexCount())
	}
	return gridwire.Pt(b.Triangles[i*VertexFloats], b.Triangles[i*VertexFloats+1])
}

// quadWidth measures the thickness of a segment quad from its first two
// vertices, which straddle the segment start.
func quadWidth(t *testing.T, b *VertexBuffers) float32 {
	t.Helper()
	return vertexAt(t, b, 0).Distance(vertexAt(t, b, 1))
}

func TestRebuildDeterministic(t *testing.T) {
	s := store.New()
	s.UpsertRect(1, store.Rect{X: 0, Y: 0, W: 10, H: 5, Fill: red, StrokeOn: true, Stroke: blue, StrokeWidth: 2})
	s.UpsertCircle(2, store.Circle{Center: gridwire.Pt(3, 3), RX: 2, RY: 1, Rotation: 0.5, SX: 1, SY: 1, Fill: blue})
	s.UpsertPolygon(3, store.Polygon{Center: gridwire.Pt(-4, 0), RX: 2, RY: 2, SX: 1, SY: 1, Sides: 6, Fill: red, StrokeOn: true, Stroke: blue, StrokeWidth: 1})
	s.UpsertLine(4, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(5, 5), Color: red, Enabled: true, StrokeWidth: 1.5})
	s.UpsertArrow(5, store.Arrow{A: gridwire.Pt(1, 1), B: gridwire.Pt(9, 1), HeadLength: 2, StrokeOn: true, Stroke: red, StrokeWidth: 1})
	s.UpsertPolylinePoints(6, store.Polyline{Color: blue, Enabled: true, StrokeWidth: 1},
		[]gridwire.Point{gridwire.Pt(0, 0), gridwire.Pt(1, 0), gridwire.Pt(1, 1)})

	var a, b VertexBuffers
	Rebuild(s, 1, nil, &a)
	Rebuild(s, 1, nil, &b)
	if diff := cmp.Diff(a.Triangles, b.Triangles); diff != "" {
		t.Errorf("rebuilds differ (-first +second):\n%s", diff)
	}
	if a.TriangleVertexCount() == 0 {
		t.Error("expected non-empty scene")
	}
	if got := a.LineVertexCount(); got != 0 {
		t.Errorf("line buffer vertices = %d, want 0", got)
	}
}

func TestRectFillVertices(t *testing.T) {
	s := store.New()
	s.UpsertRect(1, store.Rect{X: 1, Y: 2, W: 3, H: 4, Fill: red})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)

	if got := b.TriangleVertexCount(); got != 6 {
		t.Fatalf("vertex count = %d, want 6", got)
	}
	want := []gridwire.Point{
		gridwire.Pt(1, 2), gridwire.Pt(4, 2), gridwire.Pt(4, 6),
		gridwire.Pt(1, 2), gridwire.Pt(4, 6), gridwire.Pt(1, 6),
	}
	for i, w := range want {
		if got := vertexAt(t, &b, i); got != w {
			t.Errorf("vertex %d = %v, want %v", i, got, w)
		}
	}
	// x, y, z, r, g, b, a for the first vertex.
	first := b.Triangles[:VertexFloats]
	if first[2] != 0 || first[3] != 1 || first[4] != 0 || first[5] != 0 || first[6] != 1 {
		t.Errorf("first vertex attributes = %v, want z=0 rgba=(1,0,0,1)", first)
	}
}

func TestScreenConstantStroke(t *testing.T) {
	s := store.New()
	s.UpsertLine(1, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(10, 0), Color: red, Enabled: true, StrokeWidth: 2})

	var at1, at2 VertexBuffers
	Rebuild(s, 1, nil, &at1)
	Rebuild(s, 2, nil, &at2)

	w1 := quadWidth(t, &at1)
	w2 := quadWidth(t, &at2)
	if math.Abs(float64(w1-2)) > 1e-5 {
		t.Errorf("width at scale 1 = %g, want 2", w1)
	}
	if math.Abs(float64(w2-1)) > 1e-5 {
		t.Errorf("width at scale 2 = %g, want 1", w2)
	}
}

func TestStrokeWidthFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		px, scale float32
		want      float32
	}{
		{"zero width defaults to one pixel", 0, 1, 1},
		{"negative width defaults to one pixel", -3, 1, 1},
		{"zero scale falls back to one", 2, 0, 2},
		{"negative scale falls back to one", 2, -1, 2},
		{"infinite scale falls back to one", 2, float32(math.Inf(1)), 2},
		{"nan scale falls back to one", 2, float32(math.NaN()), 2},
		{"plain division", 3, 2, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strokeWidthWorld(tt.px, tt.scale); got != tt.want {
				t.Errorf("strokeWidthWorld(%g, %g) = %g, want %g", tt.px, tt.scale, got, tt.want)
			}
		})
	}
}

func TestVisibilityGating(t *testing.T) {
	s := store.New()
	s.UpsertLine(1, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(1, 0), Color: red, Enabled: false, StrokeWidth: 1})
	s.UpsertLine(2, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(1, 0), Color: gridwire.RGBA{R: 1}, Enabled: true, StrokeWidth: 1})
	s.UpsertRect(3, store.Rect{W: 2, H: 2, Fill: gridwire.RGBA{R: 1}})
	s.UpsertArrow(4, store.Arrow{A: gridwire.Pt(0, 0), B: gridwire.Pt(5, 0), HeadLength: 1, StrokeOn: false, Stroke: red, StrokeWidth: 1})
	s.UpsertCircle(5, store.Circle{Center: gridwire.Pt(0, 0), RX: 1, RY: 1, SX: 1, SY: 1, Stroke: red, StrokeOn: false, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count = %d, want 0 for fully gated scene", got)
	}
}

func TestDrawOrderRespected(t *testing.T) {
	s := store.New()
	s.UpsertLine(7, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(1, 0), Color: blue, Enabled: true, StrokeWidth: 1})
	s.UpsertLine(3, store.Line{A: gridwire.Pt(0, 1), B: gridwire.Pt(1, 1), Color: red, Enabled: true, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 12 {
		t.Fatalf("vertex count = %d, want 12", got)
	}
	// Id 7 was inserted first, so its blue quad comes first despite the
	// higher id.
	if b.Triangles[5] != 1 {
		t.Errorf("first quad blue channel = %g, want 1 (insertion order wins)", b.Triangles[5])
	}
	second := b.Triangles[quadFloats:]
	if second[3] != 1 {
		t.Errorf("second quad red channel = %g, want 1", second[3])
	}
}

func TestConduitSkippedOnUnresolvedEndpoint(t *testing.T) {
	s := store.New()
	s.UpsertNode(10, store.Node{Kind: store.NodeFree, Pos: gridwire.Pt(0, 0)})
	s.UpsertNode(11, store.Node{Kind: store.NodeAnchored, Anchor: 999})
	s.UpsertConduit(1, store.Conduit{From: 10, To: 11, Color: red, Enabled: true, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count = %d, want 0 when an endpoint fails to resolve", got)
	}

	// A custom resolver can supply both endpoints.
	resolve := func(id uint32) (gridwire.Point, bool) {
		return gridwire.Pt(float32(id), 0), true
	}
	Rebuild(s, 1, resolve, &b)
	if got := b.TriangleVertexCount(); got != 6 {
		t.Errorf("vertex count = %d, want 6 with a resolver", got)
	}
}

func TestPolylineStaleRangeSkipped(t *testing.T) {
	s := store.New()
	s.UpsertPolyline(1, store.Polyline{Offset: 100, Count: 5, Color: red, Enabled: true, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count = %d, want 0 for an out-of-range point window", got)
	}
}

func TestPolylineSegments(t *testing.T) {
	s := store.New()
	s.UpsertPolylinePoints(1, store.Polyline{Color: red, Enabled: true, StrokeWidth: 1},
		[]gridwire.Point{gridwire.Pt(0, 0), gridwire.Pt(2, 0), gridwire.Pt(2, 2), gridwire.Pt(4, 2)})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 18 {
		t.Errorf("vertex count = %d, want 18 (three segment quads)", got)
	}
}

func TestPolygonSideClamp(t *testing.T) {
	s := store.New()
	s.UpsertPolygon(1, store.Polygon{Center: gridwire.Pt(0, 0), RX: 1, RY: 1, SX: 1, SY: 1, Sides: 0, Fill: red})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 9 {
		t.Errorf("vertex count = %d, want 9 (sides clamped to 3)", got)
	}
	// First boundary vertex points up from the center.
	top := vertexAt(t, &b, 1)
	if math.Abs(float64(top.X)) > 1e-5 || math.Abs(float64(top.Y+1)) > 1e-5 {
		t.Errorf("first boundary vertex = %v, want (0,-1)", top)
	}
}

func TestCircleVertexCounts(t *testing.T) {
	s := store.New()
	s.UpsertCircle(1, store.Circle{Center: gridwire.Pt(0, 0), RX: 2, RY: 2, SX: 1, SY: 1, Fill: red})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != circleSegments*3 {
		t.Errorf("fill vertex count = %d, want %d", got, circleSegments*3)
	}

	s.UpsertCircle(1, store.Circle{Center: gridwire.Pt(0, 0), RX: 2, RY: 2, SX: 1, SY: 1, StrokeOn: true, Stroke: red, StrokeWidth: 2})
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != circleSegments*6 {
		t.Errorf("stroke vertex count = %d, want %d", got, circleSegments*6)
	}
}

func TestCircleStrokeRingFloorsInnerRadius(t *testing.T) {
	s := store.New()
	// Stroke wider than the diameter: the inner ring collapses to the
	// center instead of crossing it.
	s.UpsertCircle(1, store.Circle{Center: gridwire.Pt(5, 5), RX: 0.5, RY: 0.5, SX: 1, SY: 1, StrokeOn: true, Stroke: red, StrokeWidth: 4})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	// Vertex 1 of the first ring quad lies on the inner boundary.
	inner := vertexAt(t, &b, 1)
	if got := inner.Distance(gridwire.Pt(5, 5)); got > 1e-5 {
		t.Errorf("inner ring radius = %g, want 0", got)
	}
}

func TestArrowHeadCapped(t *testing.T) {
	s := store.New()
	s.UpsertArrow(1, store.Arrow{A: gridwire.Pt(0, 0), B: gridwire.Pt(10, 0), HeadLength: 100, StrokeOn: true, Stroke: red, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 9 {
		t.Fatalf("vertex count = %d, want 9 (shaft quad + head triangle)", got)
	}
	// Head length caps at 45% of the arrow, so the shaft ends at x=5.5.
	shaftEnd := vertexAt(t, &b, 2)
	if math.Abs(float64(shaftEnd.X-5.5)) > 1e-4 {
		t.Errorf("shaft end x = %g, want 5.5", shaftEnd.X)
	}
	tip := vertexAt(t, &b, 6)
	if tip != gridwire.Pt(10, 0) {
		t.Errorf("head tip = %v, want (10,0)", tip)
	}
}

func TestDegenerateSegmentsSkipped(t *testing.T) {
	s := store.New()
	s.UpsertLine(1, store.Line{A: gridwire.Pt(3, 3), B: gridwire.Pt(3, 3), Color: red, Enabled: true, StrokeWidth: 1})
	s.UpsertArrow(2, store.Arrow{A: gridwire.Pt(1, 1), B: gridwire.Pt(1, 1), HeadLength: 2, StrokeOn: true, Stroke: red, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count = %d, want 0 for zero-length segments", got)
	}
}

func TestDeleteThenRebuild(t *testing.T) {
	s := store.New()
	s.UpsertRect(1, store.Rect{W: 4, H: 4, Fill: red})
	s.UpsertLine(2, store.Line{A: gridwire.Pt(0, 0), B: gridwire.Pt(1, 1), Color: red, Enabled: true, StrokeWidth: 1})

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if b.TriangleVertexCount() == 0 {
		t.Fatal("expected geometry before delete")
	}

	s.Delete(1)
	s.Delete(2)
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count after deletes = %d, want 0", got)
	}
}

func TestNonRenderableKindsEmitNothing(t *testing.T) {
	s := store.New()
	s.UpsertSymbol(1, store.Symbol{Key: 3, X: 0, Y: 0, W: 4, H: 2, SX: 1, SY: 1})
	s.UpsertNode(2, store.Node{Kind: store.NodeFree, Pos: gridwire.Pt(1, 1)})
	s.RegisterText(3)

	var b VertexBuffers
	Rebuild(s, 1, nil, &b)
	if got := b.TriangleVertexCount(); got != 0 {
		t.Errorf("vertex count = %d, want 0 for symbols, nodes and text", got)
	}
}
