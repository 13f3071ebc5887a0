// Copyright 2026 The gridwire Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render moves tessellated scenes to their output surface.
//
// Two paths consume the same tess.VertexBuffers:
//
//   - GPU: VertexUploader packs the triangle stream into a HAL vertex
//     buffer on a device lent by the host through DeviceHandle, and
//     TriangleShaderWGSL draws it. Pipeline and pass setup stay with the
//     host, which owns swapchain and frame timing.
//   - CPU: RasterizeTriangles draws antialiased triangles onto a
//     PixmapTarget for previews, thumbnails and headless tests.
package render
