package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/bindless/engine/assets"
	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/platform"
	"github.com/spaghettifunk/bindless/engine/renderer/opengl"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// suspendedWait bounds, in seconds, how long a minimized engine sleeps
// before checking for a stop request.
const suspendedWait = 0.25

type Engine struct {
	currentStage Stage
	gameInstance *Game
	// stopRequested is set from the signal handler goroutine.
	stopRequested atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game without application config: %w", core.ErrInvalidConfig)
	}
	if !core.SetLogLevel(g.ApplicationConfig.LogLevel) {
		core.LogWarn("unknown log level %q, keeping the default", g.ApplicationConfig.LogLevel)
	}

	am, err := assets.NewAssetManager(g.ApplicationConfig.AssetRoot)
	if err != nil {
		return nil, err
	}
	am.ImageParams.MaxDimension = g.ApplicationConfig.MaxTextureSize

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     platform.New(),
		assetManager: am,
		width:        uint32(g.ApplicationConfig.StartWidth),
		height:       uint32(g.ApplicationConfig.StartHeight),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	core.LogInfo("starting %s (run %s)", e.gameInstance.ApplicationConfig.Name, core.RunID())

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	config := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(platform.Options{
		Title:  config.Name,
		PosX:   config.StartPosX,
		PosY:   config.StartPosY,
		Width:  config.StartWidth,
		Height: config.StartHeight,
		VSync:  config.VSync,
		Debug:  config.Debug,
	}); err != nil {
		return err
	}

	device, err := opengl.New(opengl.Options{
		Debug:      config.Debug,
		ClearColor: config.ClearColor,
	})
	if err != nil {
		return err
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(); err != nil {
		return err
	}

	e.gameInstance.Platform = e.platform
	e.gameInstance.Assets = e.assetManager
	e.gameInstance.Device = device

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	w, h := e.platform.FramebufferSize()
	e.width, e.height = uint32(w), uint32(h)
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for !e.stopRequested.Load() {
		if e.isSuspended {
			if !e.platform.WaitMessages(suspendedWait) {
				break
			}
		} else if !e.platform.PumpMessages() {
			break
		}
		if e.gameInstance.ApplicationConfig.HotReload {
			e.dispatchAssetChanges()
		}

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return fmt.Errorf("game update failed: %w", err)
		}

		// Call the game's render routine.
		if err := e.gameInstance.FnRender(delta); err != nil {
			return fmt.Errorf("game render failed: %w", err)
		}
		e.platform.SwapBuffers()

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		core.InputUpdate(delta)

		// Update last time
		e.lastTime = currentTime
	}
	return nil
}

// Stop ends the loop after the current frame. Safe from any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

// Shutdown must be called from the goroutine that ran Initialize, after
// Run has returned.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err)
		}
	}
	e.assetManager.Shutdown()
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// dispatchAssetChanges turns the watcher's notifications into events on the
// render thread.
func (e *Engine) dispatchAssetChanges() {
	for {
		select {
		case path, ok := <-e.assetManager.Changes():
			if !ok {
				return
			}
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_CHANGED,
				Data: &core.AssetEvent{Path: path},
			})
		default:
			return
		}
	}
}

// resume leaves the suspended state. The time spent minimized is not
// reported as frame time.
func (e *Engine) resume() {
	e.isSuspended = false
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.stopRequested.Store(true)
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.resume()
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError("resize: %s", err)
	}
	// Other listeners may care about the new size too.
	return false
}
