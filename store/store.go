// Package store keeps the schematic scene: a heterogeneous set of shape
// records keyed by stable integer ids.
//
// Storage is index-stable and dense. Each kind owns one compact slice;
// an id -> EntityRef map provides O(1) lookup across kinds; deletion
// swap-removes, relocating the moved record's ref, so slices never carry
// dead slots. A separate draw-order list records the caller's requested
// paint order for renderable kinds.
//
// The store is single-threaded by contract: callers must not mutate it
// concurrently with a tessellation pass.
package store

import "github.com/gridwire/gridwire"

// Store owns the scene. The zero value is not usable; call New.
type Store struct {
	rects     []Rect
	lines     []Line
	polylines []Polyline
	circles   []Circle
	polygons  []Polygon
	arrows    []Arrow
	symbols   []Symbol
	nodes     []Node
	conduits  []Conduit

	points []gridwire.Point

	entities  map[uint32]EntityRef
	drawOrder []uint32

	resolver   AnchorResolver
	generation uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{entities: make(map[uint32]EntityRef)}
}

// ReserveHint pre-sizes the per-kind arrays. It is purely a performance
// hint and has no observable semantic effect.
type ReserveHint struct {
	Rects, Lines, Polylines, Points    int
	Circles, Polygons, Arrows          int
	Symbols, Nodes, Conduits, Entities int
}

// Reserve grows capacities toward the hinted maximum counts.
func (s *Store) Reserve(h ReserveHint) {
	s.rects = grow(s.rects, h.Rects)
	s.lines = grow(s.lines, h.Lines)
	s.polylines = grow(s.polylines, h.Polylines)
	s.points = grow(s.points, h.Points)
	s.circles = grow(s.circles, h.Circles)
	s.polygons = grow(s.polygons, h.Polygons)
	s.arrows = grow(s.arrows, h.Arrows)
	s.symbols = grow(s.symbols, h.Symbols)
	s.nodes = grow(s.nodes, h.Nodes)
	s.conduits = grow(s.conduits, h.Conduits)
}

func grow[T any](arr []T, hint int) []T {
	if hint <= cap(arr) {
		return arr
	}
	next := make([]T, len(arr), hint)
	copy(next, arr)
	return next
}

// Clear resets the scene to empty without touching the anchor resolver.
func (s *Store) Clear() {
	s.rects = s.rects[:0]
	s.lines = s.lines[:0]
	s.polylines = s.polylines[:0]
	s.circles = s.circles[:0]
	s.polygons = s.polygons[:0]
	s.arrows = s.arrows[:0]
	s.symbols = s.symbols[:0]
	s.nodes = s.nodes[:0]
	s.conduits = s.conduits[:0]
	s.points = s.points[:0]
	clear(s.entities)
	s.drawOrder = s.drawOrder[:0]
	s.generation++
}

// Generation returns a counter incremented on every mutation. Consumers
// holding derived data (vertex buffers, uploads) use it to detect staleness.
func (s *Store) Generation() uint64 { return s.generation }

// Lookup returns the kind and dense-array index an id currently holds.
func (s *Store) Lookup(id uint32) (EntityRef, bool) {
	ref, ok := s.entities[id]
	return ref, ok
}

// Len returns the number of stored entities, text ids included.
func (s *Store) Len() int { return len(s.entities) }

// upsert runs the shared upsert protocol for one kind's array: migrate the
// id away from a different kind, overwrite in place on a same-kind hit, or
// append and register the new record. Returns true on fresh insert.
func upsert[T any](s *Store, kind Kind, id uint32, rec T, arr *[]T) bool {
	if ref, ok := s.entities[id]; ok && ref.Kind != kind {
		s.Delete(id)
	}
	s.generation++
	if ref, ok := s.entities[id]; ok {
		(*arr)[ref.Index] = rec
		return false
	}
	*arr = append(*arr, rec)
	s.entities[id] = EntityRef{Kind: kind, Index: uint32(len(*arr) - 1)}
	if kind.Renderable() {
		s.drawOrder = append(s.drawOrder, id)
	}
	return true
}

// UpsertRect inserts or overwrites a rectangle. r.ID is taken from id.
func (s *Store) UpsertRect(id uint32, r Rect) {
	r.ID = id
	upsert(s, KindRect, id, r, &s.rects)
}

// UpsertLine inserts or overwrites a line.
func (s *Store) UpsertLine(id uint32, l Line) {
	l.ID = id
	upsert(s, KindLine, id, l, &s.lines)
}

// UpsertPolyline inserts or overwrites a polyline record. The caller is
// responsible for the validity of the referenced point range; the
// tessellator skips out-of-bounds ranges and CompactPoints resets them.
func (s *Store) UpsertPolyline(id uint32, p Polyline) {
	p.ID = id
	upsert(s, KindPolyline, id, p, &s.polylines)
}

// UpsertPolylinePoints appends pts to the shared point pool and upserts the
// polyline to reference the fresh range, overriding p.Offset and p.Count.
// A previously referenced range becomes garbage until CompactPoints runs.
func (s *Store) UpsertPolylinePoints(id uint32, p Polyline, pts []gridwire.Point) {
	p.Offset = uint32(len(s.points))
	p.Count = uint32(len(pts))
	s.points = append(s.points, pts...)
	s.UpsertPolyline(id, p)
}

// UpsertCircle inserts or overwrites a circle.
func (s *Store) UpsertCircle(id uint32, c Circle) {
	c.ID = id
	upsert(s, KindCircle, id, c, &s.circles)
}

// UpsertPolygon inserts or overwrites a regular polygon.
func (s *Store) UpsertPolygon(id uint32, p Polygon) {
	p.ID = id
	upsert(s, KindPolygon, id, p, &s.polygons)
}

// UpsertArrow inserts or overwrites an arrow.
func (s *Store) UpsertArrow(id uint32, a Arrow) {
	a.ID = id
	upsert(s, KindArrow, id, a, &s.arrows)
}

// UpsertSymbol inserts or overwrites a symbol placement. Symbols never
// enter the draw-order list; their visual representation is external.
func (s *Store) UpsertSymbol(id uint32, sym Symbol) {
	sym.ID = id
	upsert(s, KindSymbol, id, sym, &s.symbols)
}

// UpsertNode inserts or overwrites a connection node.
func (s *Store) UpsertNode(id uint32, n Node) {
	n.ID = id
	upsert(s, KindNode, id, n, &s.nodes)
}

// UpsertConduit inserts or overwrites a conduit.
func (s *Store) UpsertConduit(id uint32, c Conduit) {
	c.ID = id
	upsert(s, KindConduit, id, c, &s.conduits)
}

// RegisterText claims id for an external text entity. By convention the
// ref's index equals the id itself; content, layout, and geometry live in
// the external text store. Text ids never join the draw-order list.
func (s *Store) RegisterText(id uint32) {
	if ref, ok := s.entities[id]; ok {
		if ref.Kind == KindText {
			return
		}
		s.Delete(id)
	}
	s.entities[id] = EntityRef{Kind: KindText, Index: id}
	s.generation++
}

// Delete removes id from the store. Unknown ids are a silent no-op.
//
// The owning kind's array is kept dense by moving its last record into the
// freed slot and updating the moved record's ref. For text ids only the
// map entry is removed; external payload cleanup is the caller's concern.
func (s *Store) Delete(id uint32) {
	ref, ok := s.entities[id]
	if !ok {
		return
	}
	delete(s.entities, id)
	s.generation++

	for i, oid := range s.drawOrder {
		if oid == id {
			s.drawOrder = append(s.drawOrder[:i], s.drawOrder[i+1:]...)
			break
		}
	}

	switch ref.Kind {
	case KindRect:
		s.rects = swapRemove(s, s.rects, ref, func(r Rect) uint32 { return r.ID })
	case KindLine:
		s.lines = swapRemove(s, s.lines, ref, func(l Line) uint32 { return l.ID })
	case KindPolyline:
		s.polylines = swapRemove(s, s.polylines, ref, func(p Polyline) uint32 { return p.ID })
	case KindCircle:
		s.circles = swapRemove(s, s.circles, ref, func(c Circle) uint32 { return c.ID })
	case KindPolygon:
		s.polygons = swapRemove(s, s.polygons, ref, func(p Polygon) uint32 { return p.ID })
	case KindArrow:
		s.arrows = swapRemove(s, s.arrows, ref, func(a Arrow) uint32 { return a.ID })
	case KindSymbol:
		s.symbols = swapRemove(s, s.symbols, ref, func(sym Symbol) uint32 { return sym.ID })
	case KindNode:
		s.nodes = swapRemove(s, s.nodes, ref, func(n Node) uint32 { return n.ID })
	case KindConduit:
		s.conduits = swapRemove(s, s.conduits, ref, func(c Conduit) uint32 { return c.ID })
	case KindText:
		// Map entry removal above is the whole cleanup.
	}
}

func swapRemove[T any](s *Store, arr []T, ref EntityRef, idOf func(T) uint32) []T {
	last := uint32(len(arr) - 1)
	if ref.Index != last {
		arr[ref.Index] = arr[last]
		s.entities[idOf(arr[ref.Index])] = EntityRef{Kind: ref.Kind, Index: ref.Index}
	}
	return arr[:last]
}

// find returns a copy of the record id holds under kind, if any.
func find[T any](s *Store, kind Kind, id uint32, arr []T) (T, bool) {
	var zero T
	ref, ok := s.entities[id]
	if !ok || ref.Kind != kind {
		return zero, false
	}
	return arr[ref.Index], true
}

// Rect returns the rectangle stored under id.
func (s *Store) Rect(id uint32) (Rect, bool) { return find(s, KindRect, id, s.rects) }

// Line returns the line stored under id.
func (s *Store) Line(id uint32) (Line, bool) { return find(s, KindLine, id, s.lines) }

// Polyline returns the polyline stored under id.
func (s *Store) Polyline(id uint32) (Polyline, bool) { return find(s, KindPolyline, id, s.polylines) }

// Circle returns the circle stored under id.
func (s *Store) Circle(id uint32) (Circle, bool) { return find(s, KindCircle, id, s.circles) }

// Polygon returns the polygon stored under id.
func (s *Store) Polygon(id uint32) (Polygon, bool) { return find(s, KindPolygon, id, s.polygons) }

// Arrow returns the arrow stored under id.
func (s *Store) Arrow(id uint32) (Arrow, bool) { return find(s, KindArrow, id, s.arrows) }

// Symbol returns the symbol stored under id.
func (s *Store) Symbol(id uint32) (Symbol, bool) { return find(s, KindSymbol, id, s.symbols) }

// Node returns the node stored under id.
func (s *Store) Node(id uint32) (Node, bool) { return find(s, KindNode, id, s.nodes) }

// Conduit returns the conduit stored under id.
func (s *Store) Conduit(id uint32) (Conduit, bool) { return find(s, KindConduit, id, s.conduits) }

// Dense-array accessors. The returned slices are the store's own backing
// storage: callers must treat them as read-only and must not retain them
// across mutations.

// Rects returns the dense rectangle array.
func (s *Store) Rects() []Rect { return s.rects }

// Lines returns the dense line array.
func (s *Store) Lines() []Line { return s.lines }

// Polylines returns the dense polyline array.
func (s *Store) Polylines() []Polyline { return s.polylines }

// Circles returns the dense circle array.
func (s *Store) Circles() []Circle { return s.circles }

// Polygons returns the dense polygon array.
func (s *Store) Polygons() []Polygon { return s.polygons }

// Arrows returns the dense arrow array.
func (s *Store) Arrows() []Arrow { return s.arrows }

// Symbols returns the dense symbol array.
func (s *Store) Symbols() []Symbol { return s.symbols }

// Nodes returns the dense node array.
func (s *Store) Nodes() []Node { return s.nodes }

// Conduits returns the dense conduit array.
func (s *Store) Conduits() []Conduit { return s.conduits }

// Points returns the shared polyline point pool.
func (s *Store) Points() []gridwire.Point { return s.points }

// DrawOrder returns the requested paint order: ids of renderable entities
// in first-creation order, as edited by deletions.
func (s *Store) DrawOrder() []uint32 { return s.drawOrder }

// Stats summarizes store occupancy.
type Stats struct {
	Rects, Lines, Polylines, Circles int
	Polygons, Arrows                 int
	Symbols, Nodes, Conduits         int
	Points                           int
	Entities                         int
	Generation                       uint64
}

// Stats returns current per-kind counts.
func (s *Store) Stats() Stats {
	return Stats{
		Rects:      len(s.rects),
		Lines:      len(s.lines),
		Polylines:  len(s.polylines),
		Circles:    len(s.circles),
		Polygons:   len(s.polygons),
		Arrows:     len(s.arrows),
		Symbols:    len(s.symbols),
		Nodes:      len(s.nodes),
		Conduits:   len(s.conduits),
		Points:     len(s.points),
		Entities:   len(s.entities),
		Generation: s.generation,
	}
}
