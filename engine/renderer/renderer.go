package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// PerMeshPointerAttribute is the ivec2 vertex attribute carrying the
// per-mesh uniform address into the vertex shader.
const PerMeshPointerAttribute = "bindlessPerMeshUniformsPtr"

// Renderer draws the mesh set once per frame, switching between bound and
// bindless access for vertices, uniforms and textures as the frame's
// FrameConfig asks.
type Renderer struct {
	device   Device
	gridSize int

	program       Program
	perMeshAttrib uint32
	hasPerMesh    bool

	meshes     []*Mesh
	uniforms   *UniformDistributor
	textures   *TextureResidencySet
	transforms TransformUniforms

	clock   AnimationClock
	stepper *UniformStepper
}

// New prepares a renderer for the ground plus a gridSize×gridSize city.
// Nothing is sent to the device until Initialize.
func New(device Device, gridSize int) *Renderer {
	return &Renderer{
		device:   device,
		gridSize: gridSize,
		stepper:  NewUniformStepper(),
	}
}

// Initialize checks the device, builds the shader program and uploads the
// uniform buffers for t = 0.
func (r *Renderer) Initialize(sources metadata.ShaderSources, config FrameConfig) error {
	name, version := r.device.Describe()
	core.LogInfo("GL_RENDERER: %s", name)
	core.LogInfo("GL_VERSION: %s", version)

	if missing := MissingCapabilities(r.device); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, c := range missing {
			names[i] = c.String()
		}
		return fmt.Errorf("%s: %w", strings.Join(names, ", "), core.ErrExtensionMissing)
	}

	if err := r.setProgram(sources); err != nil {
		return err
	}

	r.uniforms = NewUniformDistributor(r.device, r.gridSize)
	r.textures = NewTextureResidencySet(r.device)
	config = config.Normalized()
	return r.uniforms.Update(0, config.UniformMode(), config.BindlessUniforms)
}

func (r *Renderer) setProgram(sources metadata.ShaderSources) error {
	program, err := r.device.CreateProgram(sources)
	if err != nil {
		return fmt.Errorf("program %q: %w", sources.Name, err)
	}
	if r.program != nil {
		r.program.Delete()
	}
	r.program = program
	r.perMeshAttrib, r.hasPerMesh = program.AttribLocation(PerMeshPointerAttribute)
	if r.hasPerMesh {
		core.LogInfo("%s attribute location: %d", PerMeshPointerAttribute, r.perMeshAttrib)
	} else {
		core.LogWarn("%s not found in program %q", PerMeshPointerAttribute, sources.Name)
	}
	return nil
}

// ReloadProgram swaps in a program built from new sources. On failure the
// current program stays in use.
func (r *Renderer) ReloadProgram(sources metadata.ShaderSources) error {
	return r.setProgram(sources)
}

// UploadMesh creates the GPU buffers for one mesh. Meshes are drawn in
// upload order and mesh k reads per-mesh uniform entry k.
func (r *Renderer) UploadMesh(config *metadata.GeometryConfig) (*Mesh, error) {
	if r.uniforms == nil {
		return nil, fmt.Errorf("mesh %q uploaded before initialization: %w", config.Name, core.ErrUnknown)
	}
	if len(r.meshes) >= r.uniforms.Len() {
		return nil, fmt.Errorf("mesh %q is number %d of %d: %w", config.Name, len(r.meshes)+1, r.uniforms.Len(), core.ErrMeshCapacity)
	}
	m := newMesh(r.device, config)
	r.meshes = append(r.meshes, m)
	return m, nil
}

// LoadTextures fills the bindless texture set with count frames.
func (r *Renderer) LoadTextures(count int, load TextureLoadFunc) error {
	return r.textures.Load(count, load)
}

func (r *Renderer) Meshes() []*Mesh {
	return r.meshes
}

func (r *Renderer) Uniforms() *UniformDistributor {
	return r.uniforms
}

func (r *Renderer) Textures() *TextureResidencySet {
	return r.textures
}

// Transforms is the transform block written by the last frame.
func (r *Renderer) Transforms() TransformUniforms {
	return r.transforms
}

func (r *Renderer) Clock() *AnimationClock {
	return &r.clock
}

// DrawFrame renders every mesh once with the configuration in in.
func (r *Renderer) DrawFrame(in FrameInput) (FrameStats, error) {
	cfg := in.Config.Normalized()
	layout := cfg.Layout()
	stats := FrameStats{Meshes: len(r.meshes)}

	stats.TextureFrame = r.clock.Advance(in.DeltaTime)

	r.device.BeginFrame(in.Width, in.Height)
	r.program.Use()
	r.applyTextures(cfg, stats.TextureFrame)

	r.transforms = TransformUniforms{
		ModelView:           in.View,
		ModelViewProjection: in.Projection.Mul4(in.View),
		UseBindlessUniforms: cfg.BindlessUniforms,
	}
	if err := r.uniforms.SetTransforms(r.transforms); err != nil {
		return stats, err
	}

	if cfg.UpdateEveryFrame {
		t := r.stepper.Step(float32(in.DeltaTime), cfg.DrawCallsPerMesh)
		if err := r.uniforms.Update(t, cfg.UniformMode(), cfg.BindlessUniforms); err != nil {
			return stats, err
		}
	} else if cfg.BindlessUniforms {
		if err := r.uniforms.EnsureResident(); err != nil {
			return stats, err
		}
	}
	stats.UniformTime = r.uniforms.Time()

	// Meshes without their own entry read entry 0.
	if err := r.selectPerMesh(cfg, 0); err != nil {
		return stats, err
	}

	if !cfg.VertexFormatPerDraw {
		r.device.BeginVertexFormat(layout, cfg.BindlessVertices)
	}
	for i, m := range r.meshes {
		if cfg.PerMeshUniforms {
			if err := r.selectPerMesh(cfg, i); err != nil {
				return stats, err
			}
		}
		if cfg.VertexFormatPerDraw {
			r.device.BeginVertexFormat(layout, cfg.BindlessVertices)
		}
		n, err := m.Render(r.device, layout, cfg.BindlessVertices, cfg.DrawCallsPerMesh)
		stats.DrawCalls += n
		if cfg.VertexFormatPerDraw {
			r.device.EndVertexFormat(layout, cfg.BindlessVertices)
		}
		if err != nil {
			return stats, err
		}
	}
	if !cfg.VertexFormatPerDraw {
		r.device.EndVertexFormat(layout, cfg.BindlessVertices)
	}

	// The bound path overwrote the head of the buffer with each mesh in turn.
	if cfg.PerMeshUniforms && !cfg.BindlessUniforms && len(r.meshes) > 1 {
		if err := r.uniforms.BindElement(0); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *Renderer) selectPerMesh(cfg FrameConfig, index int) error {
	if !cfg.BindlessUniforms {
		return r.uniforms.BindElement(index)
	}
	address, err := r.uniforms.MeshAddress(index)
	if err != nil {
		return err
	}
	if r.hasPerMesh {
		lo, hi := SplitAddress(address)
		r.device.SetAttributeI2(r.perMeshAttrib, lo, hi)
	}
	return nil
}

func (r *Renderer) applyTextures(cfg FrameConfig, frame int) {
	bindless := cfg.BindlessTextures && r.textures.IsResident() && r.textures.Len() > 0
	if bindless {
		r.program.SetTextureHandles("samplers", r.textures.Handles())
	} else if r.textures.Len() > 0 {
		r.device.BindTexture(0, r.textures.Texture(frame))
		r.program.SetInt("boundSampler", 0)
	}
	if n := r.textures.Len(); n > 0 {
		frame %= n
	}
	r.program.SetInt("useBindless", boolToInt(bindless))
	r.program.SetInt("currentFrame", int32(frame))
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Shutdown releases every GPU object, texture handles before textures.
func (r *Renderer) Shutdown() {
	if r.textures != nil {
		r.textures.Destroy()
	}
	for _, m := range r.meshes {
		m.Destroy()
	}
	r.meshes = nil
	if r.uniforms != nil {
		r.uniforms.Destroy()
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
