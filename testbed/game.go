package testbed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/bindless/engine"
	"github.com/spaghettifunk/bindless/engine/assets"
	"github.com/spaghettifunk/bindless/engine/config"
	"github.com/spaghettifunk/bindless/engine/controls"
	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/geometry"
	"github.com/spaghettifunk/bindless/engine/renderer"
	"github.com/spaghettifunk/bindless/engine/renderer/components"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// titleInterval is how often, in seconds, the window title is refreshed.
const titleInterval = 0.5

type TestGame struct {
	*engine.Game
}

type gameState struct {
	config *config.Config

	renderer    *renderer.Renderer
	WorldCamera *components.Camera
	toggles     *controls.Toggles
	telemetry   *controls.Telemetry

	width  uint32
	height uint32

	sinceTitle float64
	// Last cursor position, for drag deltas.
	mouseX int32
	mouseY int32
}

// NewTestGame builds the bindless city demo from cfg.
func NewTestGame(cfg *config.Config) *TestGame {
	camera := components.NewCamera(
		mgl32.Vec3(cfg.Camera.Eye), mgl32.Vec3(cfg.Camera.Target),
		cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: engine.NewApplicationConfig(cfg),
			State: &gameState{
				config:      cfg,
				WorldCamera: camera,
				toggles:     controls.NewToggles(cfg.FrameConfig()),
				telemetry:   controls.NewTelemetry(cfg.Controls.TelemetryInterval),
				width:       uint32(cfg.Window.Width),
				height:      uint32(cfg.Window.Height),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.Device == nil || g.Assets == nil {
		return fmt.Errorf("the engine is not yet initialized with a device and an asset manager")
	}
	state := g.state()
	cfg := state.config

	sources, err := g.Assets.LoadShaderSources(cfg.Assets.Shader)
	if err != nil {
		return fmt.Errorf("shader %q: %w", cfg.Assets.Shader, err)
	}

	state.renderer = renderer.New(g.Device, cfg.Scene.GridSize)
	if err := state.renderer.Initialize(sources, state.toggles.Snapshot()); err != nil {
		return err
	}

	if err := g.buildCity(); err != nil {
		return err
	}
	if err := g.loadTextures(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)
	core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, g, g.onMouseMoved)
	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, g, g.onMouseWheel)
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, g, g.onAssetChanged)

	core.LogInfo("controls:\n%s", state.toggles.Help())
	return nil
}

func (g *TestGame) buildCity() error {
	state := g.state()
	rng := rand.New(rand.NewSource(state.config.Scene.Seed))
	configs := geometry.City(state.config.Scene.GridSize, rng)
	for _, c := range configs {
		if _, err := state.renderer.UploadMesh(c); err != nil {
			return err
		}
	}
	core.LogInfo("uploaded %d meshes", len(configs))
	return nil
}

func (g *TestGame) loadTextures() error {
	state := g.state()
	frames := state.config.Assets.TextureFrames
	prefix := state.config.Assets.TexturePrefix

	bar := progressbar.Default(int64(frames), "loading textures")
	defer bar.Close()

	return state.renderer.LoadTextures(frames, func(i int) (*metadata.TextureImage, error) {
		img, err := g.Assets.LoadTextureFrame(prefix, i)
		if err != nil {
			return nil, err
		}
		_ = bar.Add(1)
		return img, nil
	})
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	meshes := len(state.renderer.Meshes())
	draws := state.toggles.DrawCallsPerMesh
	state.telemetry.Update(deltaTime, meshes, draws)

	state.sinceTitle += deltaTime
	if state.sinceTitle >= titleInterval {
		state.sinceTitle = 0
		g.Platform.SetTitle(state.telemetry.Title(state.config.Window.Title, meshes, draws))
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.state()
	_, err := state.renderer.DrawFrame(renderer.FrameInput{
		Config:     state.toggles.Snapshot(),
		DeltaTime:  deltaTime,
		View:       state.WorldCamera.GetView(),
		Projection: state.WorldCamera.GetProjection(),
		Width:      int32(state.width),
		Height:     int32(state.height),
	})
	return err
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	state.WorldCamera.SetViewport(width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, g)
	core.EventUnregister(core.EVENT_CODE_MOUSE_MOVED, g)
	core.EventUnregister(core.EVENT_CODE_MOUSE_WHEEL, g)
	core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, g)

	state := g.state()
	if state.renderer != nil {
		state.renderer.Shutdown()
	}
	return nil
}

func (g *TestGame) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	switch g.state().toggles.HandleKey(ke.KeyCode) {
	case controls.ActionQuit:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	case controls.ActionToggled:
		return true
	}
	return false
}

func (g *TestGame) onMouseMoved(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	state := g.state()
	dx, dy := me.PosX-state.mouseX, me.PosY-state.mouseY
	state.mouseX, state.mouseY = me.PosX, me.PosY
	if !core.InputIsButtonDown(core.BUTTON_LEFT) {
		return false
	}
	state.WorldCamera.Rotate(float32(dx), float32(dy))
	return true
}

func (g *TestGame) onMouseWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	g.state().WorldCamera.Zoom(float32(me.Scroll))
	return true
}

// onAssetChanged rebuilds the shader program when one of its stages is
// saved. A program that fails to build is logged and the old one kept.
func (g *TestGame) onAssetChanged(context core.EventContext) bool {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok {
		return false
	}
	state := g.state()
	if !assets.IsShaderOf(ae.Path, state.config.Assets.Shader) {
		return false
	}
	sources, err := g.Assets.LoadShaderSources(state.config.Assets.Shader)
	if err == nil {
		err = state.renderer.ReloadProgram(sources)
	}
	if err != nil {
		core.LogError("shader reload: %s", err)
		return true
	}
	core.LogInfo("shader %q reloaded", state.config.Assets.Shader)
	return true
}
