package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Value is a typed shader value used both for uniform uploads and for
// per-instance attribute data. The set of implementations is closed:
// Int, Float, Vec2, Vec3, Vec4, Mat3 and Mat4.
type Value interface {
	// Components returns the number of floats the value occupies.
	Components() int

	// shape returns how the value maps onto vertex attribute slots:
	// cols slots of rows components each.
	shape() (cols, rows int32)

	// appendTo appends the value's floats (matrices column-major).
	appendTo(dst []float32) []float32

	// upload sends the value to the uniform at loc of the bound program.
	upload(d Driver, loc int32)
}

// Int is a 32-bit signed integer value. Instance data stores it as a float.
type Int int32

// Float is a 32-bit float value.
type Float float32

// Vec2 is a two component vector value.
type Vec2 mgl32.Vec2

// Vec3 is a three component vector value.
type Vec3 mgl32.Vec3

// Vec4 is a four component vector value.
type Vec4 mgl32.Vec4

// Mat3 is a column-major 3x3 matrix value.
type Mat3 mgl32.Mat3

// Mat4 is a column-major 4x4 matrix value.
type Mat4 mgl32.Mat4

func (Int) Components() int   { return 1 }
func (Float) Components() int { return 1 }
func (Vec2) Components() int  { return 2 }
func (Vec3) Components() int  { return 3 }
func (Vec4) Components() int  { return 4 }
func (Mat3) Components() int  { return 9 }
func (Mat4) Components() int  { return 16 }

func (Int) shape() (int32, int32)   { return 1, 1 }
func (Float) shape() (int32, int32) { return 1, 1 }
func (Vec2) shape() (int32, int32)  { return 1, 2 }
func (Vec3) shape() (int32, int32)  { return 1, 3 }
func (Vec4) shape() (int32, int32)  { return 1, 4 }
func (Mat3) shape() (int32, int32)  { return 3, 3 }
func (Mat4) shape() (int32, int32)  { return 4, 4 }

func (v Int) appendTo(dst []float32) []float32   { return append(dst, float32(v)) }
func (v Float) appendTo(dst []float32) []float32 { return append(dst, float32(v)) }
func (v Vec2) appendTo(dst []float32) []float32  { return append(dst, v[:]...) }
func (v Vec3) appendTo(dst []float32) []float32  { return append(dst, v[:]...) }
func (v Vec4) appendTo(dst []float32) []float32  { return append(dst, v[:]...) }
func (v Mat3) appendTo(dst []float32) []float32  { return append(dst, v[:]...) }
func (v Mat4) appendTo(dst []float32) []float32  { return append(dst, v[:]...) }

func (v Int) upload(d Driver, loc int32)   { d.Uniform1i(loc, int32(v)) }
func (v Float) upload(d Driver, loc int32) { d.Uniform1f(loc, float32(v)) }
func (v Vec2) upload(d Driver, loc int32)  { d.Uniform2f(loc, v[0], v[1]) }
func (v Vec3) upload(d Driver, loc int32)  { d.Uniform3f(loc, v[0], v[1], v[2]) }
func (v Vec4) upload(d Driver, loc int32)  { d.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (v Mat3) upload(d Driver, loc int32) {
	m := [9]float32(v)
	d.UniformMatrix3fv(loc, &m)
}

func (v Mat4) upload(d Driver, loc int32) {
	m := [16]float32(v)
	d.UniformMatrix4fv(loc, &m)
}

// kindName names a value's variant for error messages.
func kindName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Vec2:
		return "Vec2"
	case Vec3:
		return "Vec3"
	case Vec4:
		return "Vec4"
	case Mat3:
		return "Mat3"
	case Mat4:
		return "Mat4"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// AttributeLayout describes one vertex attribute binding.
// Stride and Offset are measured in float components, not bytes.
type AttributeLayout struct {
	Slot       uint32 // Attribute location in the shader
	Components int32  // 1-4 floats read per vertex
	Stride     int32  // Distance between consecutive vertices (0 = tightly packed)
	Offset     int32  // Position of the first component inside a vertex
}

// Attribute is a shorthand constructor for AttributeLayout.
func Attribute(slot uint32, components, stride, offset int32) AttributeLayout {
	return AttributeLayout{Slot: slot, Components: components, Stride: stride, Offset: offset}
}

// Validate reports whether the layout can be handed to the driver.
func (a AttributeLayout) Validate() error {
	if a.Components < 1 || a.Components > 4 {
		return fmt.Errorf("attribute %d: %w: got %d components", a.Slot, ErrInvalidAttribute, a.Components)
	}
	if a.Stride < 0 || a.Offset < 0 {
		return fmt.Errorf("attribute %d: %w: negative stride or offset", a.Slot, ErrInvalidAttribute)
	}
	if a.Stride > 0 && a.Offset+a.Components > a.Stride {
		return fmt.Errorf("attribute %d: %w: %d components at offset %d overrun stride %d",
			a.Slot, ErrInvalidAttribute, a.Components, a.Offset, a.Stride)
	}
	return nil
}

// vertexStride returns the true per-vertex stride of a set of attributes
// sharing one buffer: the maximum stride, or the tightly packed size when
// every stride is zero.
func vertexStride(attrs []AttributeLayout) int32 {
	var stride, packed int32
	for _, a := range attrs {
		stride = max(stride, a.Stride)
		packed += a.Components
	}
	if stride == 0 {
		return packed
	}
	return stride
}

// BufferUsage is a driver residency hint for buffer storage.
type BufferUsage int

const (
	StaticDraw  BufferUsage = iota // Uploaded once, drawn many times
	DynamicDraw                    // Updated often, drawn many times
	StreamDraw                     // Updated every frame
)

func (u BufferUsage) String() string {
	switch u {
	case StaticDraw:
		return "static"
	case DynamicDraw:
		return "dynamic"
	case StreamDraw:
		return "stream"
	default:
		return fmt.Sprintf("BufferUsage(%d)", int(u))
	}
}

// Topology selects how vertices assemble into primitives.
type Topology int

const (
	Triangles Topology = iota
	TriangleStrip
	TriangleFan
	Points
	Lines
	LineStrip
	LineLoop
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case LineLoop:
		return "line-loop"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// BufferTarget names a buffer binding point.
type BufferTarget int

const (
	ArrayBuffer   BufferTarget = iota // Vertex and instance data
	ElementBuffer                     // Index data
)

// ShaderStage is the kind of a shader stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
	GeometryStage
	ComputeStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	case GeometryStage:
		return "geometry"
	case ComputeStage:
		return "compute"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}
