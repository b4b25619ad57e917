package render

import "github.com/go-gl/mathgl/mgl32"

// Driver is the subset of the graphics API the runtime consumes.
// All methods must be called on the thread that owns the current context.
// Offsets and strides are in bytes, counts in elements.
type Driver interface {
	// Vertex arrays
	GenVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)

	// Buffers
	GenBuffer() uint32
	DeleteBuffer(buf uint32)
	BindBuffer(target BufferTarget, buf uint32)
	BufferFloats(target BufferTarget, data []float32, usage BufferUsage)
	BufferSubFloats(target BufferTarget, offset int, data []float32)
	BufferIndices(data []uint32, usage BufferUsage)

	// Attributes
	EnableVertexAttrib(slot uint32)
	DisableVertexAttrib(slot uint32)
	VertexAttribPointer(slot uint32, components, stride int32, offset uintptr)
	VertexAttribDivisor(slot, divisor uint32)

	// Draw calls; indexed variants read uint32 indices from offset 0.
	DrawArrays(mode Topology, first, count int32)
	DrawElements(mode Topology, count int32)
	DrawArraysInstanced(mode Topology, first, count, instances int32)
	DrawElementsInstanced(mode Topology, count, instances int32)

	// Programs and shaders
	CreateProgram() uint32
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	CreateShader(stage ShaderStage) uint32
	DeleteShader(shader uint32)
	// CompileShader compiles source and returns the info log on failure.
	CompileShader(shader uint32, source string) (log string, ok bool)
	AttachShader(program, shader uint32)
	// LinkProgram links program and returns the info log on failure.
	LinkProgram(program uint32) (log string, ok bool)

	// Uniforms; location -1 means the uniform does not exist.
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix3fv(loc int32, m *[9]float32)
	UniformMatrix4fv(loc int32, m *[16]float32)

	// Framebuffer state
	Viewport(x, y, width, height int32)
	ClearColor(c mgl32.Vec4)
	EnableDepthTest()
	Clear(color, depth bool)
}
