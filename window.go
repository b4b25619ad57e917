package render

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// windowState is the lifecycle state of a Window.
type windowState int

const (
	stateUninitialized windowState = iota // No window, surface or context yet
	stateRunning                          // Context live, frames being drawn
	stateClosed                           // Close requested, no more frames
)

// clock abstracts time for frame pacing.
type clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Window drives the frame loop of one platform window.
//
// The native window and its graphics context are created on the first
// Resumed event. Every RedrawRequested event then paces the frame, calls
// the frame function, presents the result and requests the next redraw.
// Window is not safe for concurrent use; all methods must run on the
// thread that owns the platform event loop.
type Window struct {
	platform Platform
	config   Config
	frameFn  FrameFunc
	closeFn  FrameFunc

	surface Surface
	driver  Driver
	frame   Frame

	state          windowState
	running        bool
	closeRequested bool
	frameCount     uint64
	frameTime      time.Duration
	lastFrame      time.Time

	clock  clock
	logger *slog.Logger
	exit   func(code int)
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithLogger sets the logger used for window lifecycle messages.
func WithLogger(l *slog.Logger) WindowOption {
	return func(w *Window) { w.logger = l }
}

// WithExit replaces the function called with status 1 when the graphics
// context cannot be created. The default is os.Exit.
func WithExit(exit func(code int)) WindowOption {
	return func(w *Window) { w.exit = exit }
}

// withClock replaces the frame pacing clock.
func withClock(c clock) WindowOption {
	return func(w *Window) { w.clock = c }
}

// NewWindow creates a window controller. Nothing native is created until
// the platform delivers its first Resumed event.
func NewWindow(p Platform, cfg Config, opts ...WindowOption) *Window {
	w := &Window{
		platform: p,
		config:   cfg,
		running:  true,
		clock:    systemClock{},
		exit:     os.Exit,
	}
	w.frame.w = w
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run creates a window with cfg on p and runs fn every frame until the
// window is closed.
func Run(p Platform, cfg Config, fn FrameFunc) error {
	w := NewWindow(p, cfg)
	w.SetFrameFunc(fn)
	return w.Run()
}

// SetFrameFunc sets the function called every frame.
func (w *Window) SetFrameFunc(fn FrameFunc) {
	w.frameFn = fn
}

// SetCloseFunc sets a function called once when the window is asked to
// close, while the graphics context is still current. Use it to Delete
// meshes and programs.
func (w *Window) SetCloseFunc(fn FrameFunc) {
	w.closeFn = fn
}

// Run starts the platform event loop and returns after the window closes.
func (w *Window) Run() error {
	if err := w.config.Validate(); err != nil {
		return fmt.Errorf("window config: %w", err)
	}
	if err := w.platform.Run(w); err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

func (w *Window) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return Logger()
}

// Config returns the configuration the window was created with.
func (w *Window) Config() Config { return w.config }

// FrameCount returns the number of completed frames.
func (w *Window) FrameCount() uint64 { return w.frameCount }

// Running implements EventHandler.
func (w *Window) Running() bool { return w.running }

// Resumed implements EventHandler. The first call creates the window,
// surface and context, loads the driver and requests the first frame.
// Failing to get a context is fatal.
func (w *Window) Resumed() {
	if w.state != stateUninitialized {
		return
	}

	surface, err := w.platform.Open(w.config)
	if err != nil {
		w.fatal(err)
		return
	}
	driver, err := w.platform.LoadDriver()
	if err != nil {
		surface.Close()
		w.fatal(fmt.Errorf("load graphics functions: %w", err))
		return
	}

	w.surface = surface
	w.driver = driver
	w.state = stateRunning
	w.lastFrame = w.clock.Now()

	width, height := surface.Size()
	w.log().Debug("window opened",
		"title", w.config.Window.Title,
		"width", width,
		"height", height,
		"gl", fmt.Sprintf("%d.%d", w.config.Context.VersionMajor, w.config.Context.VersionMinor),
		"framerate", w.config.Window.Framerate)

	surface.RequestRedraw()
}

// fatal reports an unrecoverable startup error and exits.
func (w *Window) fatal(err error) {
	var ce *ContextError
	if errors.As(err, &ce) {
		w.log().Error(ce.Error())
		w.log().Error("the application cannot continue without an OpenGL context")
	} else {
		w.log().Error("cannot open window", "err", err)
	}
	w.running = false
	w.state = stateClosed
	w.exit(1)
}

// frameBudget returns the minimum frame duration, 0 when uncapped.
func (w *Window) frameBudget() time.Duration {
	if w.config.Window.Framerate <= 0 {
		return 0
	}
	return time.Second / time.Duration(w.config.Window.Framerate)
}

// RedrawRequested implements EventHandler. It draws one frame.
func (w *Window) RedrawRequested() {
	if w.state != stateRunning {
		return
	}

	elapsed := w.clock.Now().Sub(w.lastFrame)
	if budget := w.frameBudget(); budget > 0 && elapsed < budget {
		w.clock.Sleep(budget - elapsed)
		elapsed = budget
	}
	w.frameTime = elapsed
	w.lastFrame = w.clock.Now()

	if w.frameFn != nil {
		w.frameFn(&w.frame)
	}
	if w.closeRequested {
		w.CloseRequested()
		return
	}

	if err := w.surface.Present(); err != nil {
		w.log().Warn("present failed", "frame", w.frameCount, "err", err)
	}

	w.frameCount++
	w.surface.RequestRedraw()
}

// Resized implements EventHandler.
func (w *Window) Resized(width, height int) {
	if w.surface == nil || width <= 0 || height <= 0 {
		return
	}
	w.surface.Resize(width, height)
	w.log().Debug("window resized", "width", width, "height", height)
}

// CloseRequested implements EventHandler. No frame is drawn afterwards.
func (w *Window) CloseRequested() {
	if w.state == stateClosed {
		return
	}
	w.running = false
	w.state = stateClosed
	if w.surface != nil {
		if w.closeFn != nil {
			w.closeFn(&w.frame)
		}
		w.surface.Close()
		w.surface = nil
	}
	w.log().Debug("window closed", "frames", w.frameCount)
}
