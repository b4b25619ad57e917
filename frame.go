package render

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameFunc is called once per frame. The same function serves as setup
// code on the first frame (see Frame.JustInitialized) and as render code
// afterwards.
type FrameFunc func(f *Frame)

// Frame is the view of a Window handed to the frame callback.
// It exposes the frame state read-only plus a small set of window
// requests that take effect immediately.
type Frame struct {
	w *Window
}

// Size returns the framebuffer size in pixels.
func (f *Frame) Size() (width, height int) {
	if f.w.surface == nil {
		return 0, 0
	}
	return f.w.surface.Size()
}

// FrameCount returns the number of frames completed before this one.
func (f *Frame) FrameCount() uint64 { return f.w.frameCount }

// FrameTime returns the duration of the previous frame. With a framerate
// cap it is never below the per-frame budget.
func (f *Frame) FrameTime() time.Duration { return f.w.frameTime }

// JustInitialized reports whether this is the first frame. It is true for
// exactly one frame in a Window's lifetime; use it to create meshes,
// programs and other resources that need a live context.
func (f *Frame) JustInitialized() bool { return f.w.frameCount == 0 }

// Running reports whether the window is still open.
func (f *Frame) Running() bool { return f.w.running }

// Driver returns the graphics driver of the window's context.
func (f *Frame) Driver() Driver { return f.w.driver }

// SetTitle changes the window title.
func (f *Frame) SetTitle(title string) {
	if f.w.surface != nil {
		f.w.surface.SetTitle(title)
	}
}

// SetCursorVisible shows or hides the cursor over the window.
func (f *Frame) SetCursorVisible(visible bool) {
	if f.w.surface != nil {
		f.w.surface.SetCursorVisible(visible)
	}
}

// SetFullscreen switches the window to fullscreen on its monitor, or back
// to its windowed size and position.
func (f *Frame) SetFullscreen(fullscreen bool) {
	if f.w.surface != nil {
		f.w.surface.SetFullscreen(fullscreen)
	}
}

// SetAlwaysOnTop keeps the window above other windows.
func (f *Frame) SetAlwaysOnTop(onTop bool) {
	if f.w.surface != nil {
		f.w.surface.SetAlwaysOnTop(onTop)
	}
}

// SetDecorated shows or hides the window's title bar and borders.
func (f *Frame) SetDecorated(decorated bool) {
	if f.w.surface != nil {
		f.w.surface.SetDecorated(decorated)
	}
}

func (f *Frame) SetResizable(resizable bool) {
	if f.w.surface != nil {
		f.w.surface.SetResizable(resizable)
	}
}

func (f *Frame) SetMaximized(maximized bool) {
	if f.w.surface != nil {
		f.w.surface.SetMaximized(maximized)
	}
}

// SetMinimized iconifies the window, or restores it.
func (f *Frame) SetMinimized(minimized bool) {
	if f.w.surface != nil {
		f.w.surface.SetMinimized(minimized)
	}
}

// SetPosition moves the window to x, y in screen coordinates.
func (f *Frame) SetPosition(x, y int) {
	if f.w.surface != nil {
		f.w.surface.SetPosition(x, y)
	}
}

// RequestRedraw asks for another frame. The window already requests one
// after every frame; this is for callers driving redraws themselves.
func (f *Frame) RequestRedraw() {
	if f.w.surface != nil {
		f.w.surface.RequestRedraw()
	}
}

// RequestClose closes the window once the current frame function returns.
// The frame is not presented and the close function runs as usual.
func (f *Frame) RequestClose() { f.w.closeRequested = true }

// SetViewport maps rendering to a width x height area at the origin.
func (f *Frame) SetViewport(width, height int) {
	f.w.driver.Viewport(0, 0, int32(width), int32(height))
}

// Clear enables depth testing and clears the color and depth buffers to
// color.
func (f *Frame) Clear(color mgl32.Vec4) {
	d := f.w.driver
	d.ClearColor(color)
	d.EnableDepthTest()
	d.Clear(true, true)
}
