// Copyright 2026 The gridwire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gridwire/gridwire"
	"github.com/gridwire/gridwire/tess"
)

// BufferDevice is the slice of hal.Device the uploader needs. hal.Device
// satisfies it; tests substitute mocks.
type BufferDevice interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buffer hal.Buffer)
}

// BufferQueue is the slice of hal.Queue the uploader needs.
type BufferQueue interface {
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte)
}

// VertexUploader owns one GPU vertex buffer and keeps it in sync with a
// tessellated scene. The buffer grows by recreation when a rebuild
// outgrows it and is reused across frames otherwise.
type VertexUploader struct {
	device BufferDevice
	queue  BufferQueue
	label  string

	buf      hal.Buffer
	capacity uint64

	generation uint64
	scratch    []byte
}

// NewVertexUploader creates an uploader writing through the given device
// and queue. label names the GPU buffer in captures and debuggers.
func NewVertexUploader(device BufferDevice, queue BufferQueue, label string) *VertexUploader {
	return &VertexUploader{device: device, queue: queue, label: label}
}

// Buffer returns the current GPU buffer, nil before the first upload.
func (u *VertexUploader) Buffer() hal.Buffer { return u.buf }

// VertexCount returns the number of vertices in the last upload.
func (u *VertexUploader) VertexCount() int {
	return len(u.scratch) / (4 * tess.VertexFloats)
}

// Upload pushes the triangle buffer to the GPU if generation differs from
// the previous upload. It returns the vertex count to draw. The
// generation gate means callers can invoke it every frame and pay only
// when the store actually changed.
func (u *VertexUploader) Upload(b *tess.VertexBuffers, generation uint64) (int, error) {
	if u.buf != nil && generation == u.generation {
		return u.VertexCount(), nil
	}

	u.scratch = packFloats(u.scratch[:0], b.Triangles)
	size := uint64(len(u.scratch))
	if size == 0 {
		u.generation = generation
		return 0, nil
	}

	if u.buf == nil || size > u.capacity {
		if u.buf != nil {
			u.device.DestroyBuffer(u.buf)
			u.buf = nil
		}
		buf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
			Label: u.label,
			Size:  size,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return 0, fmt.Errorf("create vertex buffer (%d bytes): %w", size, err)
		}
		u.buf = buf
		u.capacity = size
		gridwire.Logger().Debug("vertex buffer recreated",
			"label", u.label, "bytes", size)
	}

	u.queue.WriteBuffer(u.buf, 0, u.scratch)
	u.generation = generation
	return u.VertexCount(), nil
}

// Destroy releases the GPU buffer. The uploader is reusable afterwards.
func (u *VertexUploader) Destroy() {
	if u.buf != nil {
		u.device.DestroyBuffer(u.buf)
		u.buf = nil
		u.capacity = 0
	}
}

// packFloats appends the little-endian IEEE-754 encoding of src to dst, the
// layout vertex buffers use on every WebGPU backend.
func packFloats(dst []byte, src []float32) []byte {
	for _, f := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
