package engine

import (
	"github.com/spaghettifunk/bindless/engine/assets"
	"github.com/spaghettifunk/bindless/engine/platform"
	"github.com/spaghettifunk/bindless/engine/renderer"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by the engine before FnInitialize is called.
	Platform *platform.Platform
	Assets   *assets.AssetManager
	Device   renderer.Device

	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
