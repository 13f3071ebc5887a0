// Package gridwire is the core of a schematic/diagram editor: it stores a
// heterogeneous scene of drawable entities keyed by stable integer ids, and
// tessellates that scene into flat GPU-ready vertex buffers on demand.
//
// # Overview
//
// The engine is split into two tightly coupled pieces:
//
//   - store: a dense, index-stable entity store. One compact array per shape
//     kind, an id -> (kind, index) map as the single source of truth, and an
//     explicit draw-order list. Deletion swap-removes so arrays never carry
//     dead slots.
//   - tess: a full-rebuild tessellator. Every call walks the scene in a
//     deterministic order and emits triangle geometry (fills, thick strokes
//     as quads, circle and polygon fans, arrowheads) with screen-constant
//     stroke widths.
//
// Electrical topology is first class: connection nodes can anchor to a
// symbol's local connection point, and conduits render as segments between
// two nodes' resolved positions, recomputed on every rebuild.
//
// # Quick Start
//
//	st := store.New()
//	st.UpsertRect(1, store.Rect{X: 0, Y: 0, W: 10, H: 10, Fill: gridwire.RGBA{R: 1, A: 1}})
//
//	var out tess.VertexBuffers
//	tess.Rebuild(st, 1.0, st.ResolveNodePosition, &out)
//	// out.Triangles holds interleaved x,y,z,r,g,b,a vertices.
//
// # Collaborators
//
// The rasterizer, text content/layout, and UI interaction live outside this
// module. The render package offers the thin GPU-facing surface (vertex
// upload, shader source, CPU preview) that those collaborators build on.
//
// # Logging
//
// gridwire produces no log output by default. Call [SetLogger] to enable it.
package gridwire
