package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-compatibility/gl"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

var _ renderer.Device = (*OpenGLDevice)(nil)

// OpenGLDevice issues every GL call of the demo. It must be created and
// used on the thread that owns the current context.
type OpenGLDevice struct {
	extensions map[string]bool
	clearColor [4]float32
}

type Options struct {
	// Debug installs a KHR_debug callback forwarding driver messages to the log.
	Debug      bool
	ClearColor [4]float32
}

// New loads the GL entry points for the current context and records the
// extensions the driver exposes.
func New(opts Options) (*OpenGLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	d := &OpenGLDevice{
		extensions: enumerateExtensions(),
		clearColor: opts.ClearColor,
	}
	core.LogDebug("%d OpenGL extensions available", len(d.extensions))

	if opts.Debug && d.HasExtension("GL_KHR_debug") {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.DebugMessageCallback(debugCallback, nil)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return d, nil
}

func enumerateExtensions() map[string]bool {
	var count int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)
	exts := make(map[string]bool, count)
	for i := int32(0); i < count; i++ {
		exts[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}
	return exts
}

func debugCallback(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		core.LogError("GL: %s", message)
	case gl.DEBUG_SEVERITY_MEDIUM:
		core.LogWarn("GL: %s", message)
	default:
		core.LogDebug("GL: %s", message)
	}
}

func (d *OpenGLDevice) Describe() (string, string) {
	return gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *OpenGLDevice) HasExtension(name string) bool {
	return d.extensions[name]
}

// Supports reports whether the extension backing c is exposed. Texture
// handles go through the ARB entry points, so GL_NV_bindless_texture alone
// does not satisfy CapabilityBindlessTexture.
func (d *OpenGLDevice) Supports(c renderer.Capability) bool {
	return d.HasExtension(c.String())
}

func (d *OpenGLDevice) BeginFrame(width, height int32) {
	gl.Viewport(0, 0, width, height)
	gl.ClearColor(d.clearColor[0], d.clearColor[1], d.clearColor[2], d.clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// CheckError drains the GL error queue and reports the first error found.
func (d *OpenGLDevice) CheckError(where string) error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first != gl.NO_ERROR {
		return fmt.Errorf("%s: %s: %w", where, ErrorString(first, true), core.ErrUnknown)
	}
	return nil
}

func (d *OpenGLDevice) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (d *OpenGLDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func usageEnum(u renderer.BufferUsage) uint32 {
	if u == renderer.BufferUsageStream {
		return gl.STREAM_DRAW
	}
	return gl.STATIC_DRAW
}

func (d *OpenGLDevice) BufferData(buffer uint32, data []byte, usage renderer.BufferUsage) {
	gl.NamedBufferDataEXT(buffer, len(data), dataPtr(data), usageEnum(usage))
}

func (d *OpenGLDevice) BufferSubData(buffer uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.NamedBufferSubDataEXT(buffer, offset, len(data), gl.Ptr(data))
}

func (d *OpenGLDevice) BufferAddress(buffer uint32) renderer.AddressRange {
	var address uint64
	var size int32
	gl.GetNamedBufferParameterui64vNV(buffer, gl.BUFFER_GPU_ADDRESS_NV, &address)
	gl.GetNamedBufferParameterivEXT(buffer, gl.BUFFER_SIZE, &size)
	return renderer.AddressRange{Address: address, Size: int(size)}
}

func (d *OpenGLDevice) MakeBufferResident(buffer uint32) {
	gl.MakeNamedBufferResidentNV(buffer, gl.READ_ONLY)
}

func (d *OpenGLDevice) MakeBufferNonResident(buffer uint32) {
	gl.MakeNamedBufferNonResidentNV(buffer)
}

func (d *OpenGLDevice) BindUniformBuffer(binding uint32, buffer uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buffer)
}

// BeginVertexFormat enables the layout's attribute arrays. In unified mode
// the formats are set here and the addresses per mesh.
func (d *OpenGLDevice) BeginVertexFormat(layout *metadata.VertexLayout, unified bool) {
	if unified {
		gl.EnableClientState(gl.VERTEX_ATTRIB_ARRAY_UNIFIED_NV)
		gl.EnableClientState(gl.ELEMENT_ARRAY_UNIFIED_NV)
	}
	for _, a := range layout.Attributes {
		if unified {
			gl.VertexAttribFormatNV(a.Location, a.Components, gl.FLOAT, false, layout.Stride)
		}
		gl.EnableVertexAttribArray(a.Location)
	}
}

func (d *OpenGLDevice) EndVertexFormat(layout *metadata.VertexLayout, unified bool) {
	for _, a := range layout.Attributes {
		gl.DisableVertexAttribArray(a.Location)
	}
	if unified {
		gl.DisableClientState(gl.VERTEX_ATTRIB_ARRAY_UNIFIED_NV)
		gl.DisableClientState(gl.ELEMENT_ARRAY_UNIFIED_NV)
	} else {
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	}
}

func (d *OpenGLDevice) BindVertexBuffers(layout *metadata.VertexLayout, vertexBuffer, indexBuffer uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vertexBuffer)
	for _, a := range layout.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, layout.Stride, uintptr(a.Offset))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indexBuffer)
}

func (d *OpenGLDevice) BindVertexAddresses(layout *metadata.VertexLayout, vertices, indices renderer.AddressRange) {
	for _, a := range layout.Attributes {
		r := vertices.Offset(int(a.Offset))
		gl.BufferAddressRangeNV(gl.VERTEX_ATTRIB_ARRAY_ADDRESS_NV, a.Location, r.Address, r.Size)
	}
	gl.BufferAddressRangeNV(gl.ELEMENT_ARRAY_ADDRESS_NV, 0, indices.Address, indices.Size)
}

func (d *OpenGLDevice) DrawIndexed(indexCount int32) {
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_SHORT, nil)
}

func (d *OpenGLDevice) SetAttributeI2(location uint32, x, y int32) {
	gl.VertexAttribI2i(location, x, y)
}

func dataPtr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
