package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

const (
	MinDrawCallsPerMesh = 1
	MaxDrawCallsPerMesh = 20
)

// FrameConfig is the set of rendering switches for one frame. It is built
// once before the frame and never changed while drawing it.
type FrameConfig struct {
	BindlessVertices    bool
	BindlessUniforms    bool
	PerMeshUniforms     bool
	UpdateEveryFrame    bool
	VertexFormatPerDraw bool
	HeavyVertexFormat   bool
	BindlessTextures    bool
	DrawCallsPerMesh    int
}

// DefaultFrameConfig has every bindless buffer path on and bindless
// textures off.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		BindlessVertices: true,
		BindlessUniforms: true,
		PerMeshUniforms:  true,
		UpdateEveryFrame: true,
		DrawCallsPerMesh: 1,
	}
}

// Normalized returns a copy with DrawCallsPerMesh clamped to its range.
func (c FrameConfig) Normalized() FrameConfig {
	c.DrawCallsPerMesh = Clamp(c.DrawCallsPerMesh, MinDrawCallsPerMesh, MaxDrawCallsPerMesh)
	return c
}

func (c FrameConfig) Layout() *metadata.VertexLayout {
	if c.HeavyVertexFormat {
		return &metadata.VertexLayoutHeavy
	}
	return &metadata.VertexLayoutStandard
}

func (c FrameConfig) UniformMode() UniformMode {
	if c.PerMeshUniforms {
		return UniformModePerMesh
	}
	return UniformModeShared
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FrameInput is everything DrawFrame reads besides its own state.
type FrameInput struct {
	Config FrameConfig
	// DeltaTime is the wall time since the previous frame, in seconds.
	DeltaTime  float64
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Width      int32
	Height     int32
}

// FrameStats describes what a frame submitted.
type FrameStats struct {
	Meshes       int
	DrawCalls    int
	TextureFrame int
	UniformTime  float32
}
