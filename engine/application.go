package engine

import (
	"github.com/spaghettifunk/bindless/engine/config"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX int
	// Window starting position y axis, if applicable.
	StartPosY int
	// Window starting width, if applicable.
	StartWidth int
	// Window starting height, if applicable.
	StartHeight int
	// The application name used in windowing, if applicable.
	Name  string
	VSync bool
	// Debug forwards driver debug messages to the log.
	Debug      bool
	ClearColor [4]float32
	LogLevel   string
	// AssetRoot is the directory indexed by the asset manager.
	AssetRoot string
	// HotReload forwards asset changes as EVENT_CODE_ASSET_CHANGED.
	HotReload bool
	// MaxTextureSize downscales decoded image frames. 0 keeps them as is.
	MaxTextureSize int
}

func NewApplicationConfig(cfg *config.Config) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:      cfg.Window.PosX,
		StartPosY:      cfg.Window.PosY,
		StartWidth:     cfg.Window.Width,
		StartHeight:    cfg.Window.Height,
		Name:           cfg.Window.Title,
		VSync:          cfg.Window.VSync,
		Debug:          cfg.Renderer.Debug,
		ClearColor:     cfg.Renderer.ClearColor,
		LogLevel:       cfg.Log.Level,
		AssetRoot:      cfg.Assets.Root,
		HotReload:      cfg.Assets.HotReload,
		MaxTextureSize: cfg.Assets.MaxTextureSize,
	}
}
