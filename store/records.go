package store

import "github.com/gridwire/gridwire"

// Kind identifies the shape category a stable id belongs to.
// An id holds exactly one kind at a time.
type Kind uint8

// Entity kinds. Text carries no geometry in this store: registering a text
// id only claims the id so an external text store can own the content.
const (
	KindRect Kind = iota + 1
	KindLine
	KindPolyline
	KindCircle
	KindPolygon
	KindArrow
	KindSymbol
	KindNode
	KindConduit
	KindText
)

// Renderable reports whether entities of this kind participate in the
// draw-order list and produce tessellated output. Symbols and nodes are
// topology, text is external.
func (k Kind) Renderable() bool {
	switch k {
	case KindRect, KindLine, KindPolyline, KindCircle, KindPolygon, KindArrow, KindConduit:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindPolyline:
		return "polyline"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindArrow:
		return "arrow"
	case KindSymbol:
		return "symbol"
	case KindNode:
		return "node"
	case KindConduit:
		return "conduit"
	case KindText:
		return "text"
	}
	return "unknown"
}

// EntityRef locates an entity: which kind it is and its index into that
// kind's dense array. The id -> EntityRef map is the single source of truth
// for "does this id exist, and as what".
type EntityRef struct {
	Kind  Kind
	Index uint32
}

// Rect is an axis-aligned rectangle with optional fill and stroke.
type Rect struct {
	ID          uint32
	X, Y, W, H  float32
	Fill        gridwire.RGBA
	Stroke      gridwire.RGBA
	StrokeOn    bool
	StrokeWidth float32 // pixels
}

// Line is a single stroked segment.
type Line struct {
	ID          uint32
	A, B        gridwire.Point
	Color       gridwire.RGBA
	Enabled     bool
	StrokeWidth float32 // pixels
}

// Polyline references a contiguous range [Offset, Offset+Count) in the
// store's shared point pool. Fill and stroke share one color.
type Polyline struct {
	ID          uint32
	Offset      uint32
	Count       uint32
	Color       gridwire.RGBA
	Enabled     bool
	StrokeWidth float32 // pixels
}

// Circle is an ellipse with independent per-axis radius and scale plus a
// rotation about its center.
type Circle struct {
	ID          uint32
	Center      gridwire.Point
	RX, RY      float32
	Rotation    float32
	SX, SY      float32
	Fill        gridwire.RGBA
	Stroke      gridwire.RGBA
	StrokeOn    bool
	StrokeWidth float32 // pixels
}

// Polygon is a regular N-gon sharing the circle's transform fields.
// Sides below 3 are clamped to 3 at tessellation time, not on storage.
type Polygon struct {
	ID          uint32
	Center      gridwire.Point
	RX, RY      float32
	Rotation    float32
	SX, SY      float32
	Sides       uint32
	Fill        gridwire.RGBA
	Stroke      gridwire.RGBA
	StrokeOn    bool
	StrokeWidth float32 // pixels
}

// Arrow is a stroked segment from A to B with a triangular head at B.
type Arrow struct {
	ID          uint32
	A, B        gridwire.Point
	HeadLength  float32
	Stroke      gridwire.RGBA
	StrokeOn    bool
	StrokeWidth float32 // pixels
}

// Symbol is a placed instance of an externally defined symbol. Key indexes
// the external symbol-definition table. ConnX/ConnY is the local connection
// point in unit coordinates (0.5, 0.5 = center) used by node anchoring.
type Symbol struct {
	ID           uint32
	Key          uint32
	X, Y, W, H   float32
	Rotation     float32
	SX, SY       float32
	ConnX, ConnY float32
}

// NodeKind distinguishes free-standing nodes from symbol-anchored ones.
type NodeKind uint8

const (
	NodeFree NodeKind = iota
	NodeAnchored
)

// Node is a connection point. Pos is meaningful only for free nodes;
// anchored nodes derive their position from the anchor symbol.
type Node struct {
	ID     uint32
	Kind   NodeKind
	Anchor uint32 // symbol id, 0 when unanchored
	Pos    gridwire.Point
}

// Conduit links two nodes. It stores no geometry of its own: endpoints are
// resolved from the referenced nodes on every tessellation pass.
type Conduit struct {
	ID          uint32
	From, To    uint32
	Color       gridwire.RGBA
	Enabled     bool
	StrokeWidth float32 // pixels
}
