package renderer

import (
	"fmt"

	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// Mesh owns one vertex buffer and one 16-bit index buffer.
type Mesh struct {
	Name        string
	vertices    *ResidentBuffer
	indices     *ResidentBuffer
	vertexCount int
	indexCount  int32
}

func newMesh(device Device, config *metadata.GeometryConfig) *Mesh {
	m := &Mesh{
		Name:     config.Name,
		vertices: NewResidentBuffer(device, BufferUsageStatic),
		indices:  NewResidentBuffer(device, BufferUsageStatic),
	}
	m.Update(config)
	return m
}

// Update re-uploads both buffers. Cached addresses are invalidated.
func (m *Mesh) Update(config *metadata.GeometryConfig) {
	m.vertices.Upload(metadata.PackVertices(config.Vertices))
	m.indices.Upload(metadata.PackIndices(config.Indices))
	m.vertexCount = len(config.Vertices)
	m.indexCount = int32(len(config.Indices))
}

func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

func (m *Mesh) IndexCount() int32 {
	return m.indexCount
}

func (m *Mesh) VertexBuffer() *ResidentBuffer {
	return m.vertices
}

func (m *Mesh) IndexBuffer() *ResidentBuffer {
	return m.indices
}

// MakeResident pins both buffers and caches their addresses.
func (m *Mesh) MakeResident() error {
	if err := m.vertices.MakeResident(); err != nil {
		return fmt.Errorf("mesh %q vertices: %w", m.Name, err)
	}
	if err := m.indices.MakeResident(); err != nil {
		return fmt.Errorf("mesh %q indices: %w", m.Name, err)
	}
	return nil
}

func (m *Mesh) IsResident() bool {
	return m.vertices.IsResident() && m.indices.IsResident()
}

// Release drops residency; the mesh can still be drawn through bound buffers.
func (m *Mesh) Release() {
	m.vertices.Release()
	m.indices.Release()
}

func (m *Mesh) Destroy() {
	m.vertices.Destroy()
	m.indices.Destroy()
}

// Render points the vertex puller at the mesh and issues drawCalls
// identical draws. unified selects raw addresses over bound buffers.
func (m *Mesh) Render(device Device, layout *metadata.VertexLayout, unified bool, drawCalls int) (int, error) {
	if unified {
		if err := m.MakeResident(); err != nil {
			return 0, err
		}
		// Both ranges were checked by MakeResident.
		vertices, _ := m.vertices.Address()
		indices, _ := m.indices.Address()
		device.BindVertexAddresses(layout, vertices, indices)
	} else {
		device.BindVertexBuffers(layout, m.vertices.ID(), m.indices.ID())
	}
	for i := 0; i < drawCalls; i++ {
		device.DrawIndexed(m.indexCount)
	}
	return drawCalls, nil
}
