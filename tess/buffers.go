package tess

// VertexBuffers holds the tessellated scene as flat GPU-ready float
// sequences. Each vertex is 7 interleaved floats (x, y, z, r, g, b, a),
// three vertices per triangle, no index buffer; duplicate vertices are
// acceptable and not deduplicated.
//
// Lines is reserved for a future kind rendered as true line primitives.
// Every current kind triangulates its strokes into Triangles, so Lines is
// cleared on each rebuild but never populated.
type VertexBuffers struct {
	Triangles []float32
	Lines     []float32
}

// VertexFloats is the interleaved per-vertex layout width: x, y, z, r, g, b, a.
const VertexFloats = 7

// TriangleVertexCount returns the number of vertices in the triangle buffer.
func (b *VertexBuffers) TriangleVertexCount() int {
	return len(b.Triangles) / VertexFloats
}

// LineVertexCount returns the number of vertices in the line buffer.
func (b *VertexBuffers) LineVertexCount() int {
	return len(b.Lines) / VertexFloats
}

// reset clears both buffers, keeping their capacity for the next rebuild.
func (b *VertexBuffers) reset() {
	b.Triangles = b.Triangles[:0]
	b.Lines = b.Lines[:0]
}
