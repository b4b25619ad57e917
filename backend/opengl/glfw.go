package opengl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/render"
)

// GLFW implements render.Platform with one GLFW window. GLFW must run on
// the main thread; call runtime.LockOSThread from an init function.
type GLFW struct {
	handler render.EventHandler
	surface *surface
	redraw  bool
	inited  bool

	hidden       bool
	escapeCloses bool
}

// GLFWOption configures the GLFW platform.
type GLFWOption func(*GLFW)

// WithHiddenWindow creates the window invisible. Rendering still works,
// which suits offscreen capture.
func WithHiddenWindow() GLFWOption {
	return func(g *GLFW) { g.hidden = true }
}

// WithEscapeToClose closes the window when Escape is pressed.
func WithEscapeToClose() GLFWOption {
	return func(g *GLFW) { g.escapeCloses = true }
}

// NewGLFW creates the GLFW platform. GLFW itself is initialized on Open.
func NewGLFW(opts ...GLFWOption) *GLFW {
	g := &GLFW{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ render.Platform = (*GLFW)(nil)

func robustnessHint(r render.Robustness) int {
	switch r {
	case render.RobustnessNoResetNotification:
		return glfw.NoResetNotification
	case render.RobustnessLoseContextOnReset:
		return glfw.LoseContextOnReset
	default:
		return glfw.NoRobustness
	}
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// Open creates the window and makes its context current.
func (g *GLFW) Open(cfg render.Config) (render.Surface, error) {
	if g.surface != nil {
		return nil, errors.New("glfw: window already open")
	}
	if !g.inited {
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("glfw init: %w", err)
		}
		g.inited = true
	}

	wc := cfg.Window
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.Context.VersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.Context.VersionMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextRobustness, robustnessHint(cfg.Context.Robustness))
	glfw.WindowHint(glfw.Decorated, boolHint(wc.Decorated))
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(wc.Translucent))
	glfw.WindowHint(glfw.Floating, boolHint(wc.AlwaysOnTop))
	glfw.WindowHint(glfw.Visible, boolHint(!g.hidden))
	if wc.ClickThrough {
		render.Logger().Warn("click-through windows are not supported by GLFW 3.3, ignoring")
	}

	width, height := wc.Size.Width, wc.Size.Height
	var monitor *glfw.Monitor
	if wc.Fullscreen {
		var mode *glfw.VidMode
		monitor, mode = primaryMode()
		if mode != nil {
			glfw.WindowHint(glfw.RedBits, mode.RedBits)
			glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
			glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
			glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
			width, height = mode.Width, mode.Height
		} else {
			render.Logger().Warn("no monitor available for fullscreen, opening a window instead")
		}
	}

	window, err := glfw.CreateWindow(width, height, wc.Title, monitor, nil)
	if err != nil {
		return nil, contextError(cfg.Context, err)
	}
	window.MakeContextCurrent()

	if monitor == nil {
		window.SetPos(wc.Position.X, wc.Position.Y)
	}
	if wc.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if wc.HideCursor {
		window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}

	window.SetFramebufferSizeCallback(g.framebufferSizeCallback)
	window.SetCloseCallback(g.closeCallback)
	if g.escapeCloses {
		window.SetKeyCallback(g.keyCallback)
	}

	g.surface = &surface{
		platform: g,
		window:   window,
		windowed: [4]int{wc.Position.X, wc.Position.Y, wc.Size.Width, wc.Size.Height},
	}
	return g.surface, nil
}

// primaryMode returns the primary monitor and its current video mode. Both
// are nil when no monitor is connected.
func primaryMode() (*glfw.Monitor, *glfw.VidMode) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return nil, nil
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return nil, nil
	}
	return monitor, mode
}

// contextError maps GLFW context creation failures to *render.ContextError.
func contextError(cc render.ContextConfig, err error) error {
	var gerr *glfw.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case glfw.VersionUnavailable, glfw.APIUnavailable, glfw.FormatUnavailable:
			return &render.ContextError{Major: cc.VersionMajor, Minor: cc.VersionMinor, Err: err}
		}
	}
	return fmt.Errorf("create window: %w", err)
}

// LoadDriver loads the OpenGL functions of the current context.
func (g *GLFW) LoadDriver() (render.Driver, error) {
	return NewDriver()
}

// Run delivers events to h until it stops running, then destroys the
// window and terminates GLFW.
func (g *GLFW) Run(h render.EventHandler) error {
	g.handler = h
	defer g.terminate()

	h.Resumed()
	for h.Running() {
		if g.redraw {
			g.redraw = false
			glfw.PollEvents()
			if !h.Running() {
				break
			}
			h.RedrawRequested()
			continue
		}
		glfw.WaitEvents()
	}
	return nil
}

func (g *GLFW) terminate() {
	if g.surface != nil {
		g.surface.window.Destroy()
		g.surface = nil
	}
	if g.inited {
		glfw.Terminate()
		g.inited = false
	}
	g.handler = nil
}

func (g *GLFW) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if g.handler != nil {
		g.handler.Resized(width, height)
	}
}

func (g *GLFW) closeCallback(_ *glfw.Window) {
	if g.handler != nil {
		g.handler.CloseRequested()
	}
}

func (g *GLFW) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press && g.handler != nil {
		g.handler.CloseRequested()
	}
}

// surface is an open GLFW window.
type surface struct {
	platform *GLFW
	window   *glfw.Window
	closed   bool
	windowed [4]int // x, y, width, height restored when leaving fullscreen
}

func (s *surface) Size() (int, int) {
	return s.window.GetFramebufferSize()
}

func (s *surface) SetTitle(title string) {
	s.window.SetTitle(title)
}

func (s *surface) SetCursorVisible(visible bool) {
	if visible {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		return
	}
	s.window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
}

func (s *surface) SetFullscreen(fullscreen bool) {
	if fullscreen == (s.window.GetMonitor() != nil) {
		return
	}
	if !fullscreen {
		r := s.windowed
		s.window.SetMonitor(nil, r[0], r[1], r[2], r[3], 0)
		return
	}
	monitor, mode := primaryMode()
	if mode == nil {
		render.Logger().Warn("no monitor available for fullscreen")
		return
	}
	x, y := s.window.GetPos()
	w, h := s.window.GetSize()
	s.windowed = [4]int{x, y, w, h}
	s.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

func (s *surface) SetAlwaysOnTop(onTop bool) {
	s.window.SetAttrib(glfw.Floating, boolHint(onTop))
}

func (s *surface) SetDecorated(decorated bool) {
	s.window.SetAttrib(glfw.Decorated, boolHint(decorated))
}

func (s *surface) SetResizable(resizable bool) {
	s.window.SetAttrib(glfw.Resizable, boolHint(resizable))
}

func (s *surface) SetMaximized(maximized bool) {
	if maximized {
		s.window.Maximize()
		return
	}
	s.window.Restore()
}

func (s *surface) SetMinimized(minimized bool) {
	if minimized {
		s.window.Iconify()
		return
	}
	s.window.Restore()
}

func (s *surface) SetPosition(x, y int) {
	s.window.SetPos(x, y)
}

func (s *surface) RequestRedraw() {
	s.platform.redraw = true
	glfw.PostEmptyEvent()
}

func (s *surface) Present() error {
	if s.closed {
		return errors.New("glfw: present on closed window")
	}
	s.window.SwapBuffers()
	return nil
}

func (s *surface) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Close hides the window. It is destroyed when the event loop returns,
// since GLFW forbids destroying a window from inside its callbacks.
func (s *surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.window.SetShouldClose(true)
	s.window.Hide()
}
