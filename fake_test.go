package render

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// call is one recorded driver call.
type call struct {
	name string
	args []any
}

func (c call) String() string { return fmt.Sprint(c.name, c.args) }

// fakeDriver records every call and hands out increasing handles.
type fakeDriver struct {
	calls      []call
	next       uint32
	compileErr map[ShaderStage]string // stage -> log; compile fails for listed stages
	linkErr    string                 // non-empty fails linking
	uniforms   map[string]int32       // unknown names resolve to -1
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{uniforms: make(map[string]int32)}
}

func (d *fakeDriver) record(name string, args ...any) {
	d.calls = append(d.calls, call{name: name, args: args})
}

func (d *fakeDriver) handle() uint32 {
	d.next++
	return d.next
}

// named returns the recorded calls with the given name.
func (d *fakeDriver) named(name string) []call {
	var out []call
	for _, c := range d.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// count returns how many calls with the given name were recorded.
func (d *fakeDriver) count(name string) int { return len(d.named(name)) }

func (d *fakeDriver) reset() { d.calls = nil }

func (d *fakeDriver) GenVertexArray() uint32 {
	h := d.handle()
	d.record("GenVertexArray", h)
	return h
}
func (d *fakeDriver) DeleteVertexArray(vao uint32) { d.record("DeleteVertexArray", vao) }
func (d *fakeDriver) BindVertexArray(vao uint32)   { d.record("BindVertexArray", vao) }

func (d *fakeDriver) GenBuffer() uint32 {
	h := d.handle()
	d.record("GenBuffer", h)
	return h
}
func (d *fakeDriver) DeleteBuffer(buf uint32) { d.record("DeleteBuffer", buf) }
func (d *fakeDriver) BindBuffer(target BufferTarget, buf uint32) {
	d.record("BindBuffer", target, buf)
}
func (d *fakeDriver) BufferFloats(target BufferTarget, data []float32, usage BufferUsage) {
	d.record("BufferFloats", target, append([]float32(nil), data...), usage)
}
func (d *fakeDriver) BufferSubFloats(target BufferTarget, offset int, data []float32) {
	d.record("BufferSubFloats", target, offset, append([]float32(nil), data...))
}
func (d *fakeDriver) BufferIndices(data []uint32, usage BufferUsage) {
	d.record("BufferIndices", append([]uint32(nil), data...), usage)
}

func (d *fakeDriver) EnableVertexAttrib(slot uint32)  { d.record("EnableVertexAttrib", slot) }
func (d *fakeDriver) DisableVertexAttrib(slot uint32) { d.record("DisableVertexAttrib", slot) }
func (d *fakeDriver) VertexAttribPointer(slot uint32, components, stride int32, offset uintptr) {
	d.record("VertexAttribPointer", slot, components, stride, offset)
}
func (d *fakeDriver) VertexAttribDivisor(slot, divisor uint32) {
	d.record("VertexAttribDivisor", slot, divisor)
}

func (d *fakeDriver) DrawArrays(t Topology, first, count int32) {
	d.record("DrawArrays", t, first, count)
}
func (d *fakeDriver) DrawElements(t Topology, count int32) {
	d.record("DrawElements", t, count)
}
func (d *fakeDriver) DrawArraysInstanced(t Topology, first, count, instances int32) {
	d.record("DrawArraysInstanced", t, first, count, instances)
}
func (d *fakeDriver) DrawElementsInstanced(t Topology, count, instances int32) {
	d.record("DrawElementsInstanced", t, count, instances)
}

func (d *fakeDriver) CreateProgram() uint32 {
	h := d.handle()
	d.record("CreateProgram", h)
	return h
}
func (d *fakeDriver) DeleteProgram(program uint32) { d.record("DeleteProgram", program) }
func (d *fakeDriver) UseProgram(program uint32)    { d.record("UseProgram", program) }
func (d *fakeDriver) CreateShader(stage ShaderStage) uint32 {
	h := d.handle()
	d.record("CreateShader", stage, h)
	return h
}
func (d *fakeDriver) DeleteShader(shader uint32) { d.record("DeleteShader", shader) }

// CompileShader fails for stages listed in compileErr. The stage is looked
// up from the CreateShader call that produced the handle.
func (d *fakeDriver) CompileShader(shader uint32, source string) (string, bool) {
	d.record("CompileShader", shader, source)
	for _, c := range d.named("CreateShader") {
		if c.args[1] == shader {
			if log, ok := d.compileErr[c.args[0].(ShaderStage)]; ok {
				return log, false
			}
		}
	}
	return "", true
}
func (d *fakeDriver) AttachShader(program, shader uint32) {
	d.record("AttachShader", program, shader)
}
func (d *fakeDriver) LinkProgram(program uint32) (string, bool) {
	d.record("LinkProgram", program)
	if d.linkErr != "" {
		return d.linkErr, false
	}
	return "", true
}

func (d *fakeDriver) GetUniformLocation(program uint32, name string) int32 {
	d.record("GetUniformLocation", program, name)
	if loc, ok := d.uniforms[name]; ok {
		return loc
	}
	return -1
}
func (d *fakeDriver) Uniform1i(loc int32, v int32)   { d.record("Uniform1i", loc, v) }
func (d *fakeDriver) Uniform1f(loc int32, v float32) { d.record("Uniform1f", loc, v) }
func (d *fakeDriver) Uniform2f(loc int32, x, y float32) {
	d.record("Uniform2f", loc, x, y)
}
func (d *fakeDriver) Uniform3f(loc int32, x, y, z float32) {
	d.record("Uniform3f", loc, x, y, z)
}
func (d *fakeDriver) Uniform4f(loc int32, x, y, z, w float32) {
	d.record("Uniform4f", loc, x, y, z, w)
}
func (d *fakeDriver) UniformMatrix3fv(loc int32, m *[9]float32) {
	d.record("UniformMatrix3fv", loc, *m)
}
func (d *fakeDriver) UniformMatrix4fv(loc int32, m *[16]float32) {
	d.record("UniformMatrix4fv", loc, *m)
}

func (d *fakeDriver) Viewport(x, y, width, height int32) {
	d.record("Viewport", x, y, width, height)
}
func (d *fakeDriver) ClearColor(c mgl32.Vec4) { d.record("ClearColor", c) }
func (d *fakeDriver) EnableDepthTest()        { d.record("EnableDepthTest") }
func (d *fakeDriver) Clear(color, depth bool) { d.record("Clear", color, depth) }

var _ Driver = (*fakeDriver)(nil)

// fakeClock advances only when slept on or stepped.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeSurface records window requests.
type fakeSurface struct {
	width, height int
	titles        []string
	cursorVisible bool
	redraws       int
	presents      int
	resizes       [][2]int
	closed        int
	presentErr    error

	fullscreen, onTop, decorated bool
	resizable, maximized         bool
	minimized                    bool
	positions                    [][2]int
}

func (s *fakeSurface) Size() (int, int)        { return s.width, s.height }
func (s *fakeSurface) SetTitle(title string)   { s.titles = append(s.titles, title) }
func (s *fakeSurface) SetCursorVisible(v bool) { s.cursorVisible = v }
func (s *fakeSurface) RequestRedraw()          { s.redraws++ }
func (s *fakeSurface) SetFullscreen(v bool)    { s.fullscreen = v }
func (s *fakeSurface) SetAlwaysOnTop(v bool)   { s.onTop = v }
func (s *fakeSurface) SetDecorated(v bool)     { s.decorated = v }
func (s *fakeSurface) SetResizable(v bool)     { s.resizable = v }
func (s *fakeSurface) SetMaximized(v bool)     { s.maximized = v }
func (s *fakeSurface) SetMinimized(v bool)     { s.minimized = v }
func (s *fakeSurface) SetPosition(x, y int) {
	s.positions = append(s.positions, [2]int{x, y})
}
func (s *fakeSurface) Present() error {
	s.presents++
	return s.presentErr
}
func (s *fakeSurface) Resize(width, height int) {
	s.width, s.height = width, height
	s.resizes = append(s.resizes, [2]int{width, height})
}
func (s *fakeSurface) Close() { s.closed++ }

// fakePlatform delivers a scripted event sequence. A negative frames
// count keeps redrawing until the handler stops running.
type fakePlatform struct {
	surface   *fakeSurface
	driver    *fakeDriver
	openErr   error
	driverErr error
	opens     int
	frames    int
	handler   EventHandler
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		surface: &fakeSurface{width: 800, height: 600, cursorVisible: true},
		driver:  newFakeDriver(),
	}
}

func (p *fakePlatform) Open(Config) (Surface, error) {
	p.opens++
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.surface, nil
}

func (p *fakePlatform) LoadDriver() (Driver, error) {
	if p.driverErr != nil {
		return nil, p.driverErr
	}
	return p.driver, nil
}

// Run resumes, draws the scripted number of frames and then requests close.
func (p *fakePlatform) Run(h EventHandler) error {
	p.handler = h
	h.Resumed()
	for i := 0; h.Running() && (p.frames < 0 || i < p.frames); i++ {
		h.RedrawRequested()
	}
	if h.Running() {
		h.CloseRequested()
	}
	return nil
}

var (
	_ Platform = (*fakePlatform)(nil)
	_ Surface  = (*fakeSurface)(nil)
)
