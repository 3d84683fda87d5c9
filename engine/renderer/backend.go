package renderer

import (
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// Capability is an optional driver feature the bindless paths depend on.
type Capability uint8

const (
	// GL_NV_vertex_buffer_unified_memory: vertex/index fetch from raw addresses.
	CapabilityUnifiedVertexMemory Capability = iota
	// GL_NV_shader_buffer_load: buffer GPU addresses, residency and shader pointers.
	CapabilityShaderBufferLoad
	// GL_EXT_direct_state_access: named buffer updates.
	CapabilityDirectStateAccess
	// GL_ARB_bindless_texture: texture handles and bindless samplers.
	CapabilityBindlessTexture
)

func (c Capability) String() string {
	switch c {
	case CapabilityUnifiedVertexMemory:
		return "GL_NV_vertex_buffer_unified_memory"
	case CapabilityShaderBufferLoad:
		return "GL_NV_shader_buffer_load"
	case CapabilityDirectStateAccess:
		return "GL_EXT_direct_state_access"
	case CapabilityBindlessTexture:
		return "GL_ARB_bindless_texture"
	default:
		return "unknown capability"
	}
}

// RequiredCapabilities lists everything the demo needs. There is no
// fallback renderer: a device missing any of them cannot run it.
var RequiredCapabilities = []Capability{
	CapabilityUnifiedVertexMemory,
	CapabilityShaderBufferLoad,
	CapabilityDirectStateAccess,
	CapabilityBindlessTexture,
}

type BufferUsage uint8

const (
	BufferUsageStatic BufferUsage = iota
	BufferUsageStream
)

// AddressRange is a raw GPU address plus the number of bytes valid behind it.
type AddressRange struct {
	Address uint64
	Size    int
}

// Offset returns the sub-range starting offset bytes in.
func (a AddressRange) Offset(offset int) AddressRange {
	return AddressRange{Address: a.Address + uint64(offset), Size: a.Size - offset}
}

// Device is the set of GPU operations the renderer issues. The OpenGL
// implementation lives in the opengl package. All methods must be called
// from the thread owning the context.
type Device interface {
	Describe() (renderer string, version string)
	Supports(c Capability) bool

	CreateBuffer() uint32
	DeleteBuffer(buffer uint32)
	// BufferData (re)allocates the buffer store. Any GPU address previously
	// queried for the buffer becomes invalid.
	BufferData(buffer uint32, data []byte, usage BufferUsage)
	BufferSubData(buffer uint32, offset int, data []byte)
	BufferAddress(buffer uint32) AddressRange
	MakeBufferResident(buffer uint32)
	MakeBufferNonResident(buffer uint32)
	BindUniformBuffer(binding uint32, buffer uint32)

	BeginVertexFormat(layout *metadata.VertexLayout, unified bool)
	EndVertexFormat(layout *metadata.VertexLayout, unified bool)
	BindVertexBuffers(layout *metadata.VertexLayout, vertexBuffer, indexBuffer uint32)
	BindVertexAddresses(layout *metadata.VertexLayout, vertices, indices AddressRange)
	DrawIndexed(indexCount int32)
	SetAttributeI2(location uint32, x, y int32)

	CreateTexture(image *metadata.TextureImage) (uint32, error)
	DeleteTexture(texture uint32)
	BindTexture(unit uint32, texture uint32)
	TextureHandle(texture uint32) uint64
	MakeTextureHandleResident(handle uint64)
	MakeTextureHandleNonResident(handle uint64)

	CreateProgram(sources metadata.ShaderSources) (Program, error)
	BeginFrame(width, height int32)
}

// Program is a linked shader program.
type Program interface {
	Use()
	AttribLocation(name string) (uint32, bool)
	SetInt(name string, value int32)
	SetTextureHandles(name string, handles []uint64)
	Delete()
}

// MissingCapabilities returns the required capabilities d lacks.
func MissingCapabilities(d Device) []Capability {
	var missing []Capability
	for _, c := range RequiredCapabilities {
		if !d.Supports(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
