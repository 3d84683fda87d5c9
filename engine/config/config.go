package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer"
)

const (
	DefaultPath = "config.toml"

	MaxGridSize = 400
)

type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Scene    SceneConfig    `toml:"scene" yaml:"scene"`
	Assets   AssetsConfig   `toml:"assets" yaml:"assets"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Controls ControlsConfig `toml:"controls" yaml:"controls"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	PosX   int    `toml:"pos_x" yaml:"pos_x"`
	PosY   int    `toml:"pos_y" yaml:"pos_y"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

type SceneConfig struct {
	// GridSize is the number of buildings along each side of the city.
	GridSize int    `toml:"grid_size" yaml:"grid_size"`
	Seed     uint64 `toml:"seed" yaml:"seed"`
}

type AssetsConfig struct {
	Root          string `toml:"root" yaml:"root"`
	Shader        string `toml:"shader" yaml:"shader"`
	TexturePrefix string `toml:"texture_prefix" yaml:"texture_prefix"`
	TextureFrames int    `toml:"texture_frames" yaml:"texture_frames"`
	// MaxTextureSize downscales decoded (non DDS) frames. 0 keeps them as is.
	MaxTextureSize int  `toml:"max_texture_size" yaml:"max_texture_size"`
	HotReload      bool `toml:"hot_reload" yaml:"hot_reload"`
}

type CameraConfig struct {
	Eye    [3]float32 `toml:"eye" yaml:"eye"`
	Target [3]float32 `toml:"target" yaml:"target"`
	FOV    float32    `toml:"fov" yaml:"fov"`
	Near   float32    `toml:"near" yaml:"near"`
	Far    float32    `toml:"far" yaml:"far"`
}

// ControlsConfig holds the toggles the demo starts with.
type ControlsConfig struct {
	BindlessVertices    bool `toml:"bindless_vertices" yaml:"bindless_vertices"`
	BindlessUniforms    bool `toml:"bindless_uniforms" yaml:"bindless_uniforms"`
	PerMeshUniforms     bool `toml:"per_mesh_uniforms" yaml:"per_mesh_uniforms"`
	UpdateEveryFrame    bool `toml:"update_every_frame" yaml:"update_every_frame"`
	VertexFormatPerDraw bool `toml:"vertex_format_per_draw" yaml:"vertex_format_per_draw"`
	HeavyVertexFormat   bool `toml:"heavy_vertex_format" yaml:"heavy_vertex_format"`
	BindlessTextures    bool `toml:"bindless_textures" yaml:"bindless_textures"`
	DrawCallsPerMesh    int  `toml:"draw_calls_per_mesh" yaml:"draw_calls_per_mesh"`
	// TelemetryInterval is the number of seconds between telemetry log lines.
	TelemetryInterval float64 `toml:"telemetry_interval" yaml:"telemetry_interval"`
}

type RendererConfig struct {
	Debug      bool       `toml:"debug" yaml:"debug"`
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

func Default() *Config {
	frame := renderer.DefaultFrameConfig()
	return &Config{
		Window: WindowConfig{
			Title:  "Bindless Graphics",
			PosX:   100,
			PosY:   100,
			Width:  1280,
			Height: 720,
		},
		Scene: SceneConfig{
			GridSize: 100,
			Seed:     1,
		},
		Assets: AssetsConfig{
			Root:          "assets",
			Shader:        "simple",
			TexturePrefix: "NV",
			TextureFrames: renderer.TextureFrameCount,
			HotReload:     true,
		},
		Camera: CameraConfig{
			Eye:    [3]float32{-2.221, 2, 15.859},
			Target: [3]float32{0, 2, 0},
			FOV:    45,
			Near:   0.01,
			Far:    100,
		},
		Controls: ControlsConfig{
			BindlessVertices:    frame.BindlessVertices,
			BindlessUniforms:    frame.BindlessUniforms,
			PerMeshUniforms:     frame.PerMeshUniforms,
			UpdateEveryFrame:    frame.UpdateEveryFrame,
			VertexFormatPerDraw: frame.VertexFormatPerDraw,
			HeavyVertexFormat:   frame.HeavyVertexFormat,
			BindlessTextures:    frame.BindlessTextures,
			DrawCallsPerMesh:    frame.DrawCallsPerMesh,
			TelemetryInterval:   2,
		},
		Renderer: RendererConfig{
			ClearColor: [4]float32{0.25, 0.25, 0.25, 1},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as they are.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogWarn("config %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := Decode(cfg, filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	core.LogInfo("configuration loaded from %s", path)
	return cfg, nil
}

// Decode fills cfg from data. The format is chosen by ext: .toml, .yaml or
// .yml. Keys that do not map to a field are rejected.
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
		}
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", core.ErrInvalidConfig, ext)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{core.ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Scene.GridSize > 0 && c.Scene.GridSize <= MaxGridSize, "grid_size %d not in [1, %d]", c.Scene.GridSize, MaxGridSize)
	check(c.Assets.Root != "", "assets.root is empty")
	check(c.Assets.Shader != "", "assets.shader is empty")
	check(c.Assets.TextureFrames > 0 && c.Assets.TextureFrames <= renderer.TextureFrameCount,
		"texture_frames %d not in [1, %d]", c.Assets.TextureFrames, renderer.TextureFrameCount)
	check(c.Assets.MaxTextureSize >= 0, "max_texture_size %d", c.Assets.MaxTextureSize)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera fov %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near %g far %g", c.Camera.Near, c.Camera.Far)
	check(mgl32.Vec3(c.Camera.Eye) != mgl32.Vec3(c.Camera.Target), "camera eye equals target")
	check(c.Controls.DrawCallsPerMesh >= renderer.MinDrawCallsPerMesh && c.Controls.DrawCallsPerMesh <= renderer.MaxDrawCallsPerMesh,
		"draw_calls_per_mesh %d not in [%d, %d]", c.Controls.DrawCallsPerMesh, renderer.MinDrawCallsPerMesh, renderer.MaxDrawCallsPerMesh)
	check(c.Controls.TelemetryInterval > 0, "telemetry_interval %g", c.Controls.TelemetryInterval)
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		check(false, "log level %q", c.Log.Level)
	}
	return errors.Join(errs...)
}

// FrameConfig is the starting renderer configuration.
func (c *Config) FrameConfig() renderer.FrameConfig {
	return renderer.FrameConfig{
		BindlessVertices:    c.Controls.BindlessVertices,
		BindlessUniforms:    c.Controls.BindlessUniforms,
		PerMeshUniforms:     c.Controls.PerMeshUniforms,
		UpdateEveryFrame:    c.Controls.UpdateEveryFrame,
		VertexFormatPerDraw: c.Controls.VertexFormatPerDraw,
		HeavyVertexFormat:   c.Controls.HeavyVertexFormat,
		BindlessTextures:    c.Controls.BindlessTextures,
		DrawCallsPerMesh:    c.Controls.DrawCallsPerMesh,
	}
}
