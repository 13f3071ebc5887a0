// Copyright 2026 The gridwire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/gridwire/gridwire/tess"
)

// View maps world coordinates to target pixels for the software preview.
type View struct {
	// OffsetX, OffsetY translate world space before scaling.
	OffsetX, OffsetY float32

	// Scale is pixels per world unit. Non-positive scales draw nothing.
	Scale float32
}

// Apply transforms a world coordinate to pixel space.
func (v View) Apply(x, y float32) (float32, float32) {
	return (x + v.OffsetX) * v.Scale, (y + v.OffsetY) * v.Scale
}

// RasterizeTriangles draws a tessellated triangle buffer onto a CPU
// target with antialiasing. Each triangle fills with its first vertex's
// color; the flat-shaded quads and fans the tessellator emits carry one
// color per primitive, so no interpolation is lost.
//
// This is the software preview path for tests, thumbnails and headless
// exports. The GPU path consumes the same buffer via VertexUploader.
func RasterizeTriangles(target *PixmapTarget, b *tess.VertexBuffers, view View) {
	if view.Scale <= 0 {
		return
	}
	w, h := target.Width(), target.Height()
	if w <= 0 || h <= 0 {
		return
	}
	img := target.Image()

	const triStride = 3 * tess.VertexFloats
	tris := b.Triangles
	for base := 0; base+triStride <= len(tris); base += triStride {
		src := image.NewUniform(vertexColor(tris[base:]))

		r := vector.NewRasterizer(w, h)
		r.DrawOp = draw.Over
		x0, y0 := view.Apply(tris[base], tris[base+1])
		x1, y1 := view.Apply(tris[base+tess.VertexFloats], tris[base+tess.VertexFloats+1])
		x2, y2 := view.Apply(tris[base+2*tess.VertexFloats], tris[base+2*tess.VertexFloats+1])
		r.MoveTo(x0, y0)
		r.LineTo(x1, y1)
		r.LineTo(x2, y2)
		r.ClosePath()
		r.Draw(img, img.Bounds(), src, image.Point{})
	}
}

// vertexColor reads the rgba channels of the vertex at the head of v.
func vertexColor(v []float32) color.NRGBA {
	return color.NRGBA{
		R: channelByte(v[3]),
		G: channelByte(v[4]),
		B: channelByte(v[5]),
		A: channelByte(v[6]),
	}
}

func channelByte(f float32) uint8 {
	if f != f || f < 0 {
		return 0
	}
	if f > 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}
