package controls

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer"
)

// Toggles is the user-facing state of every rendering switch. The renderer
// only ever sees it through Snapshot.
type Toggles struct {
	BindlessVertices    bool
	BindlessUniforms    bool
	PerMeshUniforms     bool
	UpdateEveryFrame    bool
	VertexFormatPerDraw bool
	HeavyVertexFormat   bool
	BindlessTextures    bool
	DrawCallsPerMesh    int
}

func NewToggles(initial renderer.FrameConfig) *Toggles {
	initial = initial.Normalized()
	return &Toggles{
		BindlessVertices:    initial.BindlessVertices,
		BindlessUniforms:    initial.BindlessUniforms,
		PerMeshUniforms:     initial.PerMeshUniforms,
		UpdateEveryFrame:    initial.UpdateEveryFrame,
		VertexFormatPerDraw: initial.VertexFormatPerDraw,
		HeavyVertexFormat:   initial.HeavyVertexFormat,
		BindlessTextures:    initial.BindlessTextures,
		DrawCallsPerMesh:    initial.DrawCallsPerMesh,
	}
}

// Snapshot is the configuration for the next frame.
func (t *Toggles) Snapshot() renderer.FrameConfig {
	return renderer.FrameConfig{
		BindlessVertices:    t.BindlessVertices,
		BindlessUniforms:    t.BindlessUniforms,
		PerMeshUniforms:     t.PerMeshUniforms,
		UpdateEveryFrame:    t.UpdateEveryFrame,
		VertexFormatPerDraw: t.VertexFormatPerDraw,
		HeavyVertexFormat:   t.HeavyVertexFormat,
		BindlessTextures:    t.BindlessTextures,
		DrawCallsPerMesh:    t.DrawCallsPerMesh,
	}.Normalized()
}

// Action is what a key press asked for.
type Action uint8

const (
	ActionNone Action = iota
	ActionToggled
	ActionQuit
)

// HandleKey applies the binding for key, if any.
func (t *Toggles) HandleKey(key core.KeyCode) Action {
	var name string
	var value bool
	switch key {
	case core.KEY_1:
		t.BindlessVertices = !t.BindlessVertices
		name, value = "bindless vertices", t.BindlessVertices
	case core.KEY_2:
		t.BindlessUniforms = !t.BindlessUniforms
		name, value = "bindless uniforms", t.BindlessUniforms
	case core.KEY_3:
		t.PerMeshUniforms = !t.PerMeshUniforms
		name, value = "per-mesh uniforms", t.PerMeshUniforms
	case core.KEY_4:
		t.UpdateEveryFrame = !t.UpdateEveryFrame
		name, value = "update uniforms every frame", t.UpdateEveryFrame
	case core.KEY_5:
		t.VertexFormatPerDraw = !t.VertexFormatPerDraw
		name, value = "vertex format per draw call", t.VertexFormatPerDraw
	case core.KEY_6:
		t.HeavyVertexFormat = !t.HeavyVertexFormat
		name, value = "heavy vertex format", t.HeavyVertexFormat
	case core.KEY_7:
		t.BindlessTextures = !t.BindlessTextures
		name, value = "bindless textures", t.BindlessTextures
	case core.KEY_PLUS, core.KEY_ADD:
		t.DrawCallsPerMesh = renderer.Clamp(t.DrawCallsPerMesh+1, renderer.MinDrawCallsPerMesh, renderer.MaxDrawCallsPerMesh)
		core.LogInfo("draw calls per mesh: %d", t.DrawCallsPerMesh)
		return ActionToggled
	case core.KEY_MINUS, core.KEY_SUBTRACT:
		t.DrawCallsPerMesh = renderer.Clamp(t.DrawCallsPerMesh-1, renderer.MinDrawCallsPerMesh, renderer.MaxDrawCallsPerMesh)
		core.LogInfo("draw calls per mesh: %d", t.DrawCallsPerMesh)
		return ActionToggled
	case core.KEY_ESCAPE:
		return ActionQuit
	default:
		return ActionNone
	}
	core.LogInfo("%s: %s", name, onOff(value))
	return ActionToggled
}

// Help lists the key bindings with their current state.
func (t *Toggles) Help() string {
	var sb strings.Builder
	lines := []struct {
		key   string
		label string
		value bool
	}{
		{"1", "bindless vertices", t.BindlessVertices},
		{"2", "bindless uniforms", t.BindlessUniforms},
		{"3", "per-mesh uniforms", t.PerMeshUniforms},
		{"4", "update uniforms every frame", t.UpdateEveryFrame},
		{"5", "vertex format per draw call", t.VertexFormatPerDraw},
		{"6", "heavy vertex format", t.HeavyVertexFormat},
		{"7", "bindless textures", t.BindlessTextures},
	}
	for _, l := range lines {
		fmt.Fprintf(&sb, "[%s] %-28s %s\n", l.key, l.label, onOff(l.value))
	}
	fmt.Fprintf(&sb, "[+/-] draw calls per mesh       %d\n", t.DrawCallsPerMesh)
	sb.WriteString("[Esc] quit")
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
