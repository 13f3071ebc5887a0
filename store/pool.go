package store

import "github.com/gridwire/gridwire"

// CompactPoints rebuilds the shared point pool, dropping ranges no longer
// referenced by any polyline. Polylines are visited in array order (not id
// order); each one's valid range is copied to the front of a fresh pool and
// its offset rewritten. A polyline whose stored range extends past the
// current pool is reset to an empty range at the new pool's end instead of
// reading out of bounds.
//
// Compaction is explicit and caller-triggered, never automatic, so the
// cost of point mutation stays predictable. It runs in O(total points) and
// invalidates no ids: only pool offsets change.
func (s *Store) CompactPoints() {
	total := 0
	for i := range s.polylines {
		total += int(s.polylines[i].Count)
	}
	next := make([]gridwire.Point, 0, total)

	for i := range s.polylines {
		pl := &s.polylines[i]
		start, end := pl.Offset, pl.Offset+pl.Count
		if int(end) > len(s.points) || end < start {
			pl.Offset = uint32(len(next))
			pl.Count = 0
			continue
		}
		pl.Offset = uint32(len(next))
		next = append(next, s.points[start:end]...)
	}

	s.points = next
	s.generation++
}
