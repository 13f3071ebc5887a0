package store

import (
	"math"
	"sort"

	"github.com/gridwire/gridwire"
)

// AnchorResolver resolves an anchor symbol id to a world-space connection
// point. The symbol/anchor subsystem injects its own resolver when symbol
// transforms involve state this store does not hold (nested groups, device
// overrides); without one, the built-in connection-point math applies.
//
// Resolvers must be deterministic for a fixed scene and side-effect-free.
type AnchorResolver func(symbolID uint32) (gridwire.Point, bool)

// SetAnchorResolver installs the anchor resolution collaborator.
// Passing nil restores the built-in symbol connection-point math.
func (s *Store) SetAnchorResolver(fn AnchorResolver) {
	s.resolver = fn
}

// ConnectionPoint returns the world-space connection point of a symbol:
// the local offset ((ConnX-0.5)*W, (ConnY-0.5)*H) scaled by the per-axis
// scale, rotated by the symbol's rotation, and translated to its center.
func ConnectionPoint(sym Symbol) gridwire.Point {
	cx := sym.X + sym.W*0.5
	cy := sym.Y + sym.H*0.5
	px := (sym.ConnX - 0.5) * sym.W * sym.SX
	py := (sym.ConnY - 0.5) * sym.H * sym.SY
	sin, cos := math.Sincos(float64(sym.Rotation))
	c, si := float32(cos), float32(sin)
	return gridwire.Point{
		X: cx + px*c - py*si,
		Y: cy + px*si + py*c,
	}
}

// ResolveNodePosition returns the world-space position of a node.
//
// Free nodes report their stored position. Anchored nodes resolve through
// the installed AnchorResolver, or the built-in ConnectionPoint math when
// none is set. Resolution fails (false) for unknown node ids and for
// anchored nodes whose anchor symbol cannot be resolved; conduits touching
// such a node are simply not drawn that frame.
func (s *Store) ResolveNodePosition(id uint32) (gridwire.Point, bool) {
	n, ok := s.Node(id)
	if !ok {
		return gridwire.Point{}, false
	}
	if n.Kind == NodeFree {
		return n.Pos, true
	}
	if n.Anchor == 0 {
		return gridwire.Point{}, false
	}
	if s.resolver != nil {
		return s.resolver(n.Anchor)
	}
	sym, ok := s.Symbol(n.Anchor)
	if !ok {
		return gridwire.Point{}, false
	}
	return ConnectionPoint(sym), true
}

// SnapKind says what a snap query matched.
type SnapKind uint8

const (
	// SnapNode matched an explicit connection node.
	SnapNode SnapKind = iota + 1
	// SnapConnection matched a symbol's raw connection point.
	SnapConnection
)

// SnapResult is the nearest connection target within tolerance.
type SnapResult struct {
	Kind SnapKind
	ID   uint32 // node id or symbol id
	Pos  gridwire.Point
}

// Snap finds the connection target nearest to (x, y) within tolerance.
//
// Nodes are preferred over raw symbol connection points: explicit topology
// wins when a symbol already carries an anchored node at the same spot.
// Candidates are ranked by squared distance with the lower id breaking
// ties, so results do not depend on array order.
func (s *Store) Snap(x, y, tolerance float32) (SnapResult, bool) {
	q := gridwire.Point{X: x, Y: y}
	tol2 := tolerance * tolerance

	best := SnapResult{}
	bestD2 := tol2
	found := false

	consider := func(kind SnapKind, id uint32, p gridwire.Point) {
		d2 := p.Sub(q).LengthSquared()
		if d2 > tol2 {
			return
		}
		if found {
			if d2 > bestD2 {
				return
			}
			if d2 == bestD2 && (kind > best.Kind || (kind == best.Kind && id >= best.ID)) {
				return
			}
		}
		best = SnapResult{Kind: kind, ID: id, Pos: p}
		bestD2 = d2
		found = true
	}

	for i := range s.nodes {
		n := &s.nodes[i]
		p, ok := s.ResolveNodePosition(n.ID)
		if !ok {
			continue
		}
		consider(SnapNode, n.ID, p)
	}

	// Symbol connection points only displace a node hit when strictly
	// closer; a symbol with an anchored node yields the same point and the
	// node keeps the tie.
	for i := range s.symbols {
		sym := &s.symbols[i]
		consider(SnapConnection, sym.ID, ConnectionPoint(*sym))
	}
	return best, found
}

// RenderableIDs returns every renderable id currently stored, ascending.
// The result is freshly allocated and deterministic regardless of map
// iteration order: ids are gathered from the dense per-kind arrays.
func (s *Store) RenderableIDs() []uint32 {
	ids := make([]uint32, 0,
		len(s.rects)+len(s.lines)+len(s.polylines)+len(s.circles)+
			len(s.polygons)+len(s.arrows)+len(s.conduits))
	for i := range s.rects {
		ids = append(ids, s.rects[i].ID)
	}
	for i := range s.lines {
		ids = append(ids, s.lines[i].ID)
	}
	for i := range s.polylines {
		ids = append(ids, s.polylines[i].ID)
	}
	for i := range s.circles {
		ids = append(ids, s.circles[i].ID)
	}
	for i := range s.polygons {
		ids = append(ids, s.polygons[i].ID)
	}
	for i := range s.arrows {
		ids = append(ids, s.arrows[i].ID)
	}
	for i := range s.conduits {
		ids = append(ids, s.conduits[i].ID)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
