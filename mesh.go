package render

import (
	"fmt"
	"strconv"
)

// floatSize is the size in bytes of one float32 component.
const floatSize = 4

// MeshConfig describes the vertex data of a mesh.
// The zero value uses static storage and triangle topology.
type MeshConfig struct {
	Vertices   []float32
	Attributes []AttributeLayout
	Indices    []uint32 // nil draws vertices in order
	Usage      BufferUsage
	Topology   Topology
}

// Mesh owns the GPU buffers of one drawable: a vertex array, a vertex
// buffer and optional index and instance buffers.
//
// A Mesh starts empty so it can be declared before a graphics context
// exists, and becomes usable after Init. Call Delete to release the
// buffers; the runtime never frees them implicitly.
type Mesh struct {
	driver Driver

	vao, vbo, ebo uint32
	instanceVBO   uint32
	instanceCap   int // floats allocated in instanceVBO

	// instance attribute slots bound by SetInstanceData, [first, end)
	instanceFirst, instanceEnd uint32

	vertexCount   int32
	indexCount    int32
	instanceCount int32

	topology Topology
	usage    BufferUsage
}

// NewMesh returns an empty mesh. It makes no driver calls.
func NewMesh() *Mesh {
	return &Mesh{}
}

// Initialized reports whether Init has allocated the mesh's buffers.
func (m *Mesh) Initialized() bool { return m.vao != 0 }

// VertexCount returns the number of vertices in the vertex buffer.
func (m *Mesh) VertexCount() int32 { return m.vertexCount }

// IndexCount returns the number of indices, 0 when the mesh is not indexed.
func (m *Mesh) IndexCount() int32 { return m.indexCount }

// InstanceCount returns the number of instances, 0 when the mesh is not instanced.
func (m *Mesh) InstanceCount() int32 { return m.instanceCount }

// Topology returns the primitive topology used by Draw.
func (m *Mesh) Topology() Topology { return m.topology }

// Init allocates the mesh's buffers and uploads cfg's vertex and index data.
//
// Every attribute is bound with the maximum stride across cfg.Attributes,
// which is the real vertex stride, and the vertex count is
// len(cfg.Vertices) / stride. Init may be called only once; use Replace to
// rebuild an initialized mesh.
func (m *Mesh) Init(d Driver, cfg MeshConfig) error {
	if d == nil {
		return ErrNilDriver
	}
	if m.Initialized() {
		return ErrMeshInitialized
	}
	if len(cfg.Attributes) == 0 {
		return ErrNoAttributes
	}
	for _, a := range cfg.Attributes {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	stride := vertexStride(cfg.Attributes)
	for _, a := range cfg.Attributes {
		if a.Offset+a.Components > stride {
			return fmt.Errorf("attribute %d: %w: %d components at offset %d overrun vertex stride %d",
				a.Slot, ErrInvalidAttribute, a.Components, a.Offset, stride)
		}
	}
	strideBytes := stride * floatSize

	m.driver = d
	m.topology = cfg.Topology
	m.usage = cfg.Usage

	m.vao = d.GenVertexArray()
	d.BindVertexArray(m.vao)

	m.vbo = d.GenBuffer()
	d.BindBuffer(ArrayBuffer, m.vbo)
	d.BufferFloats(ArrayBuffer, cfg.Vertices, cfg.Usage)

	for _, a := range cfg.Attributes {
		d.EnableVertexAttrib(a.Slot)
		d.VertexAttribPointer(a.Slot, a.Components, strideBytes, uintptr(a.Offset)*floatSize)
	}

	if cfg.Indices != nil {
		m.ebo = d.GenBuffer()
		// The element binding is recorded in the vertex array.
		d.BindBuffer(ElementBuffer, m.ebo)
		d.BufferIndices(cfg.Indices, cfg.Usage)
	}

	d.BindVertexArray(0)
	d.BindBuffer(ArrayBuffer, 0)

	m.vertexCount = int32(len(cfg.Vertices)) / stride
	m.indexCount = int32(len(cfg.Indices))
	m.instanceCount = 0

	Logger().Debug("mesh initialized",
		"vertices", m.vertexCount,
		"indices", m.indexCount,
		"stride", stride,
		"usage", cfg.Usage,
		"topology", cfg.Topology)
	return nil
}

// Replace releases the mesh's buffers and initializes it again from cfg.
func (m *Mesh) Replace(d Driver, cfg MeshConfig) error {
	m.Delete()
	return m.Init(d, cfg)
}

// InstanceLayout derives the packed attribute layout of one instance.
// Scalars and vectors take one slot each; a Mat3 takes three slots of three
// components and a Mat4 four slots of four, one per column. Slots are
// numbered from startSlot in value order. It returns the layouts and the
// packed stride in components, which every layout also carries.
func InstanceLayout(first []Value, startSlot uint32) ([]AttributeLayout, int32) {
	var (
		attrs  []AttributeLayout
		slot   = startSlot
		offset int32
	)
	for _, v := range first {
		cols, rows := v.shape()
		for c := int32(0); c < cols; c++ {
			attrs = append(attrs, AttributeLayout{Slot: slot, Components: rows, Offset: offset + c*rows})
			slot++
		}
		offset += cols * rows
	}
	for i := range attrs {
		attrs[i].Stride = offset
	}
	return attrs, offset
}

// FlattenInstances packs instance values into one float slice in instance
// order. Matrices are written column-major.
func FlattenInstances(perInstance [][]Value) []float32 {
	var n int
	if len(perInstance) > 0 {
		for _, v := range perInstance[0] {
			n += v.Components()
		}
	}
	out := make([]float32, 0, n*len(perInstance))
	for _, inst := range perInstance {
		for _, v := range inst {
			out = v.appendTo(out)
		}
	}
	return out
}

// checkInstanceShapes verifies every instance has the same value variants
// in the same order as the first one.
func checkInstanceShapes(perInstance [][]Value) error {
	first := perInstance[0]
	for j, v := range first {
		if v == nil {
			return &InstanceShapeError{Instance: 0, Index: j, Want: "a value", Got: "nil"}
		}
	}
	for i, inst := range perInstance[1:] {
		if len(inst) != len(first) {
			return &InstanceShapeError{
				Instance: i + 1,
				Index:    -1,
				Want:     strconv.Itoa(len(first)),
				Got:      strconv.Itoa(len(inst)),
			}
		}
		for j, v := range inst {
			if want, got := kindName(first[j]), kindName(v); want != got {
				return &InstanceShapeError{Instance: i + 1, Index: j, Want: want, Got: got}
			}
		}
	}
	return nil
}

// SetInstanceData uploads per-instance values and binds them as instanced
// attributes starting at startSlot.
//
// The layout is derived from the first instance and every other instance
// must have the same shape. Calling it again replaces the data: the
// existing instance buffer is updated in place when the new data fits,
// and its storage is re-specified otherwise. Slots bound by the previous
// call and not covered by the new layout are disabled.
func (m *Mesh) SetInstanceData(perInstance [][]Value, startSlot uint32) error {
	if !m.Initialized() {
		return ErrMeshNotInitialized
	}
	if len(perInstance) == 0 || len(perInstance[0]) == 0 {
		return ErrNoInstances
	}
	if err := checkInstanceShapes(perInstance); err != nil {
		return fmt.Errorf("set instance data: %w", err)
	}

	attrs, stride := InstanceLayout(perInstance[0], startSlot)
	data := FlattenInstances(perInstance)
	d := m.driver

	d.BindVertexArray(m.vao)
	if m.instanceVBO != 0 && len(data) <= m.instanceCap {
		Logger().Debug("updating instance buffer", "floats", len(data))
		d.BindBuffer(ArrayBuffer, m.instanceVBO)
		d.BufferSubFloats(ArrayBuffer, 0, data)
	} else {
		if m.instanceVBO == 0 {
			m.instanceVBO = d.GenBuffer()
		}
		Logger().Debug("allocating instance buffer", "floats", len(data))
		d.BindBuffer(ArrayBuffer, m.instanceVBO)
		d.BufferFloats(ArrayBuffer, data, m.usage)
		m.instanceCap = len(data)
	}

	first, end := startSlot, startSlot+uint32(len(attrs))
	for s := m.instanceFirst; s < m.instanceEnd; s++ {
		if s < first || s >= end {
			d.VertexAttribDivisor(s, 0)
			d.DisableVertexAttrib(s)
		}
	}
	for _, a := range attrs {
		d.EnableVertexAttrib(a.Slot)
		d.VertexAttribPointer(a.Slot, a.Components, a.Stride*floatSize, uintptr(a.Offset)*floatSize)
		d.VertexAttribDivisor(a.Slot, 1)
	}
	m.instanceFirst, m.instanceEnd = first, end

	d.BindBuffer(ArrayBuffer, 0)
	d.BindVertexArray(0)

	m.instanceCount = int32(len(data)) / stride
	return nil
}

// Draw issues one draw call for the mesh. It does nothing if the mesh is
// not initialized.
func (m *Mesh) Draw() {
	if !m.Initialized() {
		Logger().Debug("skipping draw of uninitialized mesh")
		return
	}
	d := m.driver
	d.BindVertexArray(m.vao)

	switch {
	case m.instanceCount > 0 && m.indexCount > 0:
		d.DrawElementsInstanced(m.topology, m.indexCount, m.instanceCount)
	case m.instanceCount > 0:
		d.DrawArraysInstanced(m.topology, 0, m.vertexCount, m.instanceCount)
	case m.indexCount > 0:
		d.DrawElements(m.topology, m.indexCount)
	default:
		d.DrawArrays(m.topology, 0, m.vertexCount)
	}

	d.BindVertexArray(0)
}

// Delete releases the mesh's buffers. It is safe to call on an empty mesh
// and to call more than once.
func (m *Mesh) Delete() {
	if m.driver == nil {
		return
	}
	d := m.driver
	if m.vao != 0 {
		d.DeleteVertexArray(m.vao)
	}
	if m.vbo != 0 {
		d.DeleteBuffer(m.vbo)
	}
	if m.ebo != 0 {
		d.DeleteBuffer(m.ebo)
	}
	if m.instanceVBO != 0 {
		d.DeleteBuffer(m.instanceVBO)
	}
	*m = Mesh{}
}
