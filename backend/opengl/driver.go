// Package opengl provides the OpenGL 4.1 core driver and the GLFW platform
// for the render package.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/render"
)

// glComputeShader is GL_COMPUTE_SHADER, which the 4.1 bindings lack.
// Compute stages need a 4.3 context.
const glComputeShader = 0x91B9

// Driver implements render.Driver on the current OpenGL context.
type Driver struct{}

// NewDriver loads the OpenGL entry points of the current context.
// A context must be current on the calling thread.
func NewDriver() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	render.Logger().Debug("opengl loaded",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Driver{}, nil
}

var _ render.Driver = (*Driver)(nil)

func bufferTarget(t render.BufferTarget) uint32 {
	if t == render.ElementBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func usage(u render.BufferUsage) uint32 {
	switch u {
	case render.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case render.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func mode(t render.Topology) uint32 {
	switch t {
	case render.Points:
		return gl.POINTS
	case render.Lines:
		return gl.LINES
	case render.LineStrip:
		return gl.LINE_STRIP
	case render.LineLoop:
		return gl.LINE_LOOP
	case render.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case render.TriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLES
	}
}

func shaderType(s render.ShaderStage) uint32 {
	switch s {
	case render.FragmentStage:
		return gl.FRAGMENT_SHADER
	case render.GeometryStage:
		return gl.GEOMETRY_SHADER
	case render.ComputeStage:
		return glComputeShader
	default:
		return gl.VERTEX_SHADER
	}
}

func (*Driver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*Driver) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }
func (*Driver) BindVertexArray(vao uint32)   { gl.BindVertexArray(vao) }

func (*Driver) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*Driver) DeleteBuffer(buf uint32) { gl.DeleteBuffers(1, &buf) }

func (*Driver) BindBuffer(target render.BufferTarget, buf uint32) {
	gl.BindBuffer(bufferTarget(target), buf)
}

func (*Driver) BufferFloats(target render.BufferTarget, data []float32, u render.BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, usage(u))
		return
	}
	gl.BufferData(bufferTarget(target), len(data)*4, gl.Ptr(data), usage(u))
}

func (*Driver) BufferSubFloats(target render.BufferTarget, offset int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(bufferTarget(target), offset*4, len(data)*4, gl.Ptr(data))
}

func (*Driver) BufferIndices(data []uint32, u render.BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, usage(u))
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage(u))
}

func (*Driver) EnableVertexAttrib(slot uint32)  { gl.EnableVertexAttribArray(slot) }
func (*Driver) DisableVertexAttrib(slot uint32) { gl.DisableVertexAttribArray(slot) }

func (*Driver) VertexAttribPointer(slot uint32, components, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(slot, components, gl.FLOAT, false, stride, offset)
}

func (*Driver) VertexAttribDivisor(slot, divisor uint32) { gl.VertexAttribDivisor(slot, divisor) }

func (*Driver) DrawArrays(t render.Topology, first, count int32) {
	gl.DrawArrays(mode(t), first, count)
}

func (*Driver) DrawElements(t render.Topology, count int32) {
	gl.DrawElements(mode(t), count, gl.UNSIGNED_INT, nil)
}

func (*Driver) DrawArraysInstanced(t render.Topology, first, count, instances int32) {
	gl.DrawArraysInstanced(mode(t), first, count, instances)
}

func (*Driver) DrawElementsInstanced(t render.Topology, count, instances int32) {
	gl.DrawElementsInstanced(mode(t), count, gl.UNSIGNED_INT, nil, instances)
}

func (*Driver) CreateProgram() uint32               { return gl.CreateProgram() }
func (*Driver) DeleteProgram(program uint32)        { gl.DeleteProgram(program) }
func (*Driver) UseProgram(program uint32)           { gl.UseProgram(program) }
func (*Driver) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (*Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*Driver) CreateShader(s render.ShaderStage) uint32 {
	return gl.CreateShader(shaderType(s))
}

func (*Driver) CompileShader(shader uint32, source string) (string, bool) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return "", true
	}

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return "", false
	}
	log := make([]byte, logLength+1)
	gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
	return strings.TrimRight(string(log), "\x00"), false
}

func (*Driver) LinkProgram(program uint32) (string, bool) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status != gl.FALSE {
		return "", true
	}

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return "", false
	}
	log := make([]byte, logLength+1)
	gl.GetProgramInfoLog(program, logLength, nil, &log[0])
	return strings.TrimRight(string(log), "\x00"), false
}

func (*Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Driver) Uniform1i(loc int32, v int32)              { gl.Uniform1i(loc, v) }
func (*Driver) Uniform1f(loc int32, v float32)            { gl.Uniform1f(loc, v) }
func (*Driver) Uniform2f(loc int32, x, y float32)         { gl.Uniform2f(loc, x, y) }
func (*Driver) Uniform3f(loc int32, x, y, z float32)      { gl.Uniform3f(loc, x, y, z) }
func (*Driver) Uniform4f(loc int32, x, y, z, w float32)   { gl.Uniform4f(loc, x, y, z, w) }
func (*Driver) UniformMatrix3fv(loc int32, m *[9]float32) { gl.UniformMatrix3fv(loc, 1, false, &m[0]) }
func (*Driver) UniformMatrix4fv(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (*Driver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Driver) ClearColor(c mgl32.Vec4)            { gl.ClearColor(c[0], c[1], c[2], c[3]) }
func (*Driver) EnableDepthTest()                   { gl.Enable(gl.DEPTH_TEST) }

func (*Driver) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}
