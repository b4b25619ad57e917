package render

// Platform is the windowing toolkit a Window runs on.
type Platform interface {
	// Open creates the native window, its drawing surface and a graphics
	// context made current on the calling thread. A context the driver
	// rejects is reported as a *ContextError.
	Open(cfg Config) (Surface, error)

	// LoadDriver resolves graphics entry points for the current context.
	LoadDriver() (Driver, error)

	// Run pumps platform events into h until h stops running.
	// The first event delivered is always Resumed.
	Run(h EventHandler) error
}

// Surface is an open window with a presentable drawing surface.
type Surface interface {
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)
	SetTitle(title string)
	SetCursorVisible(visible bool)
	// SetFullscreen switches between a fullscreen window on the current
	// monitor and the previous windowed placement.
	SetFullscreen(fullscreen bool)
	SetAlwaysOnTop(onTop bool)
	SetDecorated(decorated bool)
	SetResizable(resizable bool)
	SetMaximized(maximized bool)
	SetMinimized(minimized bool)
	// SetPosition moves the window's top-left corner in screen coordinates.
	SetPosition(x, y int)
	// RequestRedraw asks the platform to deliver a RedrawRequested event.
	RequestRedraw()
	// Present swaps the back buffer to the screen.
	Present() error
	// Resize adapts the surface to a new framebuffer size.
	Resize(width, height int)
	// Close destroys the window and its context.
	Close()
}

// EventHandler receives platform events. Window implements it.
type EventHandler interface {
	Resumed()
	RedrawRequested()
	Resized(width, height int)
	CloseRequested()
	Running() bool
}
