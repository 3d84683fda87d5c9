package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/bindless/engine/core"
)

func init() {
	// GLFW event handling and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

type Options struct {
	Title  string
	PosX   int
	PosY   int
	Width  int
	Height int
	VSync  bool
	// Debug requests a debug context so KHR_debug messages are delivered.
	Debug bool
}

type Platform struct {
	Window *glfw.Window
}

func New() *Platform {
	return &Platform{
		Window: nil,
	}
}

// Startup opens the window and makes an OpenGL 4.6 compatibility context
// current. The unified memory vertex paths rely on client state, which
// only exists in the compatibility profile.
func (p *Platform) Startup(opts Options) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	glfw.WindowHint(glfw.DepthBits, 24)
	if opts.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	p.Window = window
	p.SetVSync(opts.VSync)

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetMouseButtonCallback(mouseButtonCallback)
	p.Window.SetCursorPosCallback(cursorPosCallback)
	p.Window.SetScrollCallback(scrollCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.SetPos(opts.PosX, opts.PosY)
	p.Window.Show()

	core.LogDebug("window %dx%d created, vsync=%t", opts.Width, opts.Height, opts.VSync)
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// WaitMessages blocks until a window event arrives or timeout seconds pass.
func (p *Platform) WaitMessages(timeout float64) bool {
	glfw.WaitEventsTimeout(timeout)
	return !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) SetTitle(title string) {
	p.Window.SetTitle(title)
}

func (p *Platform) SetVSync(enabled bool) {
	if enabled {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (p *Platform) FramebufferSize() (int32, int32) {
	w, h := p.Window.GetFramebufferSize()
	return int32(w), int32(h)
}

// GetAbsoluteTime is the time in seconds since glfw was initialized.
func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	core.InputProcessKey(code, action != glfw.Release)
}

func mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	core.InputProcessButton(b, action == glfw.Press)
}

func cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	core.InputProcessMouseMove(int32(xpos), int32(ypos))
}

func scrollCallback(w *glfw.Window, xoff, yoff float64) {
	switch {
	case yoff > 0:
		core.InputProcessMouseWheel(1)
	case yoff < 0:
		core.InputProcessMouseWheel(-1)
	}
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{
			WindowWidth:  uint32(width),
			WindowHeight: uint32(height),
		},
	})
}

// translateKey maps glfw keys to engine key codes. Digits and letters share
// their ASCII values in both.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return core.KEY_0 + core.KeyCode(key-glfw.Key0), true
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KEY_A + core.KeyCode(key-glfw.KeyA), true
	}
	switch key {
	case glfw.KeyEscape:
		return core.KEY_ESCAPE, true
	case glfw.KeySpace:
		return core.KEY_SPACE, true
	case glfw.KeyEnter:
		return core.KEY_ENTER, true
	case glfw.KeyTab:
		return core.KEY_TAB, true
	case glfw.KeyBackspace:
		return core.KEY_BACKSPACE, true
	case glfw.KeyF1:
		return core.KEY_F1, true
	case glfw.KeyEqual:
		return core.KEY_PLUS, true
	case glfw.KeyMinus:
		return core.KEY_MINUS, true
	case glfw.KeyKPAdd:
		return core.KEY_ADD, true
	case glfw.KeyKPSubtract:
		return core.KEY_SUBTRACT, true
	}
	return 0, false
}
