package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-compatibility/gl"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

/**
 * @brief A linked GLSL program and its cached uniform locations.
 */
type OpenGLProgram struct {
	Name     string
	handle   uint32
	uniforms map[string]int32
}

func (d *OpenGLDevice) CreateProgram(sources metadata.ShaderSources) (renderer.Program, error) {
	vs, err := compileShader(sources.Name+".vert", sources.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(sources.Name+".frag", sources.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)

		return nil, fmt.Errorf("program %q: %w: %s", sources.Name, core.ErrShaderLink, strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)

	core.LogDebug("program %q linked (handle %d)", sources.Name, prog)
	return &OpenGLProgram{
		Name:     sources.Name,
		handle:   prog,
		uniforms: make(map[string]int32),
	}, nil
}

func compileShader(name, source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%s: %w: %s", name, core.ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (p *OpenGLProgram) Use() {
	gl.UseProgram(p.handle)
}

func (p *OpenGLProgram) AttribLocation(name string) (uint32, bool) {
	loc := gl.GetAttribLocation(p.handle, gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, false
	}
	return uint32(loc), true
}

// uniformLocation caches lookups, including misses (-1).
func (p *OpenGLProgram) uniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	if loc < 0 {
		core.LogDebug("uniform %q not active in program %q", name, p.Name)
	}
	p.uniforms[name] = loc
	return loc
}

func (p *OpenGLProgram) SetInt(name string, value int32) {
	if loc := p.uniformLocation(name); loc >= 0 {
		gl.Uniform1i(loc, value)
	}
}

func (p *OpenGLProgram) SetTextureHandles(name string, handles []uint64) {
	if len(handles) == 0 {
		return
	}
	if loc := p.uniformLocation(name); loc >= 0 {
		gl.UniformHandleui64vARB(loc, int32(len(handles)), &handles[0])
	}
}

func (p *OpenGLProgram) Delete() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}
