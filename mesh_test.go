package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleConfig() MeshConfig {
	return MeshConfig{
		Vertices: []float32{
			0, 0.5, 0, 1, 0, 0,
			-0.5, -0.5, 0, 0, 1, 0,
			0.5, -0.5, 0, 0, 0, 1,
		},
		Attributes: []AttributeLayout{
			Attribute(0, 3, 6, 0),
			Attribute(1, 3, 6, 3),
		},
	}
}

func TestNewMeshIsEmpty(t *testing.T) {
	m := NewMesh()
	assert.False(t, m.Initialized())

	assert.NotPanics(t, func() {
		m.Delete()
		m.Draw()
	})
	assert.False(t, m.Initialized())
	assert.Equal(t, int32(0), m.VertexCount())
	assert.ErrorIs(t, m.SetInstanceData([][]Value{{Float(1)}}, 1), ErrMeshNotInitialized)
}

func TestMeshInit(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))

	assert.True(t, m.Initialized())
	assert.Equal(t, int32(3), m.VertexCount())
	assert.Equal(t, int32(0), m.IndexCount())
	assert.Equal(t, int32(0), m.InstanceCount())

	// Attributes are bound with the byte stride and byte offset.
	ptrs := d.named("VertexAttribPointer")
	require.Len(t, ptrs, 2)
	assert.Equal(t, []any{uint32(0), int32(3), int32(24), uintptr(0)}, ptrs[0].args)
	assert.Equal(t, []any{uint32(1), int32(3), int32(24), uintptr(12)}, ptrs[1].args)

	assert.Equal(t, 0, d.count("BufferIndices"))
	assert.Equal(t, 0, d.count("VertexAttribDivisor"))

	// Vertex array is unbound at the end.
	binds := d.named("BindVertexArray")
	assert.Equal(t, uint32(0), binds[len(binds)-1].args[0])
}

func TestMeshVertexCountUsesMaxStride(t *testing.T) {
	tests := []struct {
		name     string
		vertices int
		attrs    []AttributeLayout
		want     int32
	}{
		{"interleaved", 18, []AttributeLayout{Attribute(0, 3, 6, 0), Attribute(1, 3, 6, 3)}, 3},
		{"mixed strides", 16, []AttributeLayout{Attribute(0, 2, 0, 0), Attribute(1, 2, 8, 4)}, 2},
		{"packed", 10, []AttributeLayout{Attribute(0, 2, 0, 0), Attribute(1, 3, 0, 2)}, 2},
		{"partial vertex", 7, []AttributeLayout{Attribute(0, 3, 3, 0)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver()
			m := NewMesh()
			require.NoError(t, m.Init(d, MeshConfig{
				Vertices:   make([]float32, tt.vertices),
				Attributes: tt.attrs,
			}))
			assert.Equal(t, tt.want, m.VertexCount())
		})
	}
}

func TestMeshInitIndexed(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	cfg := triangleConfig()
	cfg.Indices = []uint32{0, 1, 2}
	cfg.Usage = DynamicDraw
	require.NoError(t, m.Init(d, cfg))

	assert.Equal(t, int32(3), m.IndexCount())
	idx := d.named("BufferIndices")
	require.Len(t, idx, 1)
	assert.Equal(t, []any{[]uint32{0, 1, 2}, DynamicDraw}, idx[0].args)
}

func TestMeshInitErrors(t *testing.T) {
	d := newFakeDriver()

	assert.ErrorIs(t, NewMesh().Init(nil, triangleConfig()), ErrNilDriver)
	assert.ErrorIs(t, NewMesh().Init(d, MeshConfig{Vertices: []float32{1}}), ErrNoAttributes)
	assert.ErrorIs(t, NewMesh().Init(d, MeshConfig{
		Vertices:   []float32{1, 2},
		Attributes: []AttributeLayout{Attribute(0, 5, 5, 0)},
	}), ErrInvalidAttribute)
	assert.ErrorIs(t, NewMesh().Init(d, MeshConfig{
		Vertices:   make([]float32, 6),
		Attributes: []AttributeLayout{Attribute(0, 3, 3, 2)},
	}), ErrInvalidAttribute, "offset plus components overruns the stride")
	assert.ErrorIs(t, NewMesh().Init(d, MeshConfig{
		Vertices:   make([]float32, 12),
		Attributes: []AttributeLayout{Attribute(0, 3, 4, 0), Attribute(1, 2, 0, 3)},
	}), ErrInvalidAttribute, "packed attribute overruns the vertex stride")
	assert.Empty(t, d.calls, "validation happens before any driver call")

	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))
	assert.ErrorIs(t, m.Init(d, triangleConfig()), ErrMeshInitialized)
}

func TestMeshReplace(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))
	d.reset()

	cfg := triangleConfig()
	cfg.Vertices = cfg.Vertices[:6]
	require.NoError(t, m.Replace(d, cfg))
	assert.Equal(t, int32(1), m.VertexCount())
	assert.Equal(t, 1, d.count("DeleteVertexArray"))
	assert.Equal(t, 1, d.count("GenVertexArray"))
}

func TestInstanceLayout(t *testing.T) {
	first := []Value{Vec3{}, Mat4(mgl32.Ident4()), Float(0)}
	attrs, stride := InstanceLayout(first, 3)

	assert.Equal(t, int32(20), stride)
	require.Len(t, attrs, 6)

	wantSlots := []uint32{3, 4, 5, 6, 7, 8}
	wantComponents := []int32{3, 4, 4, 4, 4, 1}
	wantOffsets := []int32{0, 3, 7, 11, 15, 19}
	for i, a := range attrs {
		assert.Equal(t, wantSlots[i], a.Slot, "slot %d", i)
		assert.Equal(t, wantComponents[i], a.Components, "components %d", i)
		assert.Equal(t, wantOffsets[i], a.Offset, "offset %d", i)
		assert.Equal(t, int32(20), a.Stride, "stride %d", i)
	}
}

func TestConcreteInstanceBuffer(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))
	d.reset()

	inst := []Value{Vec3{1, 2, 3}, Mat4(mgl32.Ident4()), Float(0.5)}
	require.NoError(t, m.SetInstanceData([][]Value{inst, inst}, 1))

	want := []float32{
		1, 2, 3,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
		0.5,
	}
	data := d.named("BufferFloats")[0].args[1].([]float32)
	assert.Equal(t, append(append([]float32(nil), want...), want...), data)

	var slots []uint32
	for _, c := range d.named("EnableVertexAttrib") {
		slots = append(slots, c.args[0].(uint32))
	}
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, slots)
}

func TestInstanceLayoutMat3(t *testing.T) {
	attrs, stride := InstanceLayout([]Value{Mat3(mgl32.Ident3()), Vec2{}}, 0)
	assert.Equal(t, int32(11), stride)
	require.Len(t, attrs, 4)
	assert.Equal(t, []int32{3, 3, 3, 2}, []int32{attrs[0].Components, attrs[1].Components, attrs[2].Components, attrs[3].Components})
	assert.Equal(t, int32(9), attrs[3].Offset)
}

func TestFlattenInstances(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	rows := [][]Value{
		{Vec3{1, 2, 3}, Mat4(m), Float(4)},
		{Vec3{5, 6, 7}, Mat4(mgl32.Ident4()), Int(8)},
	}
	data := FlattenInstances(rows)
	require.Len(t, data, 40)

	assert.Equal(t, []float32{1, 2, 3}, data[:3])
	// Column-major: translation lives in the last column.
	assert.Equal(t, []float32{1, 2, 3, 1}, data[15:19])
	assert.Equal(t, float32(4), data[19])
	assert.Equal(t, []float32{5, 6, 7}, data[20:23])
	assert.Equal(t, float32(8), data[39])
}

func TestSetInstanceData(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))
	d.reset()

	rows := make([][]Value, 4)
	for i := range rows {
		rows[i] = []Value{Vec3{float32(i), 0, 0}, Mat4(mgl32.Ident4()), Float(1)}
	}
	require.NoError(t, m.SetInstanceData(rows, 2))
	assert.Equal(t, int32(4), m.InstanceCount())

	uploads := d.named("BufferFloats")
	require.Len(t, uploads, 1)
	assert.Len(t, uploads[0].args[1], 4*20)

	divisors := d.named("VertexAttribDivisor")
	require.Len(t, divisors, 6)
	for i, c := range divisors {
		assert.Equal(t, []any{uint32(2 + i), uint32(1)}, c.args)
	}
	ptrs := d.named("VertexAttribPointer")
	require.Len(t, ptrs, 6)
	assert.Equal(t, []any{uint32(3), int32(4), int32(80), uintptr(12)}, ptrs[1].args)
}

func TestSetInstanceDataReusesBuffer(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))

	rows := [][]Value{{Vec2{1, 2}}, {Vec2{3, 4}}, {Vec2{5, 6}}}
	require.NoError(t, m.SetInstanceData(rows, 2))
	d.reset()

	// Smaller data fits: updated in place.
	require.NoError(t, m.SetInstanceData(rows[:2], 2))
	assert.Equal(t, 0, d.count("GenBuffer"))
	assert.Equal(t, 0, d.count("BufferFloats"))
	assert.Equal(t, 1, d.count("BufferSubFloats"))
	assert.Equal(t, int32(2), m.InstanceCount())
	d.reset()

	// Larger data: storage re-specified on the same buffer.
	require.NoError(t, m.SetInstanceData(append(rows, []Value{Vec2{7, 8}}), 2))
	assert.Equal(t, 0, d.count("GenBuffer"))
	assert.Equal(t, 1, d.count("BufferFloats"))
	assert.Equal(t, int32(4), m.InstanceCount())
}

func TestSetInstanceDataDisablesUnusedSlots(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))

	require.NoError(t, m.SetInstanceData([][]Value{{Vec3{1, 2, 3}, Float(1)}}, 2))
	d.reset()

	require.NoError(t, m.SetInstanceData([][]Value{{Float(4)}}, 2))
	assert.Equal(t, []any{uint32(3)}, d.named("DisableVertexAttrib")[0].args)
	assert.Equal(t, 1, d.count("DisableVertexAttrib"))
	assert.Equal(t, []any{uint32(3), uint32(0)}, d.named("VertexAttribDivisor")[0].args)
	assert.Equal(t, []any{uint32(2)}, d.named("EnableVertexAttrib")[0].args)
	d.reset()

	// Moving the range disables every old slot it no longer covers.
	require.NoError(t, m.SetInstanceData([][]Value{{Vec2{1, 2}, Float(4)}}, 5))
	assert.Equal(t, []any{uint32(2)}, d.named("DisableVertexAttrib")[0].args)
	d.reset()

	require.NoError(t, m.SetInstanceData([][]Value{{Vec2{1, 2}, Float(4)}}, 5))
	assert.Equal(t, 0, d.count("DisableVertexAttrib"), "same layout keeps every slot")
}

func TestSetInstanceDataRejectsNil(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	require.NoError(t, m.Init(d, triangleConfig()))
	d.reset()

	var shapeErr *InstanceShapeError
	err := m.SetInstanceData([][]Value{{nil}}, 2)
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 0, shapeErr.Instance)
	assert.Equal(t, 0, shapeErr.Index)
	assert.Equal(t, "nil", shapeErr.Got)

	err = m.SetInstanceData([][]Value{{Float(1)}, {nil}}, 2)
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.Instance)
	assert.Equal(t, "Float", shapeErr.Want)
	assert.Equal(t, "nil", shapeErr.Got)

	assert.Empty(t, d.calls)
}

func TestSetInstanceDataErrors(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	assert.ErrorIs(t, m.SetInstanceData([][]Value{{Float(1)}}, 1), ErrMeshNotInitialized)

	require.NoError(t, m.Init(d, triangleConfig()))
	d.reset()
	assert.ErrorIs(t, m.SetInstanceData(nil, 1), ErrNoInstances)
	assert.ErrorIs(t, m.SetInstanceData([][]Value{{}}, 1), ErrNoInstances)

	err := m.SetInstanceData([][]Value{{Vec3{}, Float(1)}, {Vec3{}, Vec2{}}}, 1)
	var shapeErr *InstanceShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.Instance)
	assert.Equal(t, 1, shapeErr.Index)
	assert.Equal(t, "Float", shapeErr.Want)
	assert.Equal(t, "Vec2", shapeErr.Got)

	err = m.SetInstanceData([][]Value{{Vec3{}}, {Vec3{}}, {Vec3{}, Float(2)}}, 1)
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 2, shapeErr.Instance)
	assert.Equal(t, -1, shapeErr.Index)

	assert.Empty(t, d.calls)
	assert.Equal(t, int32(0), m.InstanceCount())
}

func TestMeshDrawSelection(t *testing.T) {
	instances := [][]Value{{Float(1)}, {Float(2)}, {Float(3)}}
	tests := []struct {
		name      string
		indexed   bool
		instanced bool
		want      string
		args      []any
	}{
		{"arrays", false, false, "DrawArrays", []any{Triangles, int32(0), int32(3)}},
		{"elements", true, false, "DrawElements", []any{Triangles, int32(6)}},
		{"arrays instanced", false, true, "DrawArraysInstanced", []any{Triangles, int32(0), int32(3), int32(3)}},
		{"elements instanced", true, true, "DrawElementsInstanced", []any{Triangles, int32(6), int32(3)}},
	}
	draws := []string{"DrawArrays", "DrawElements", "DrawArraysInstanced", "DrawElementsInstanced"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver()
			m := NewMesh()
			cfg := triangleConfig()
			if tt.indexed {
				cfg.Indices = []uint32{0, 1, 2, 2, 1, 0}
			}
			require.NoError(t, m.Init(d, cfg))
			if tt.instanced {
				require.NoError(t, m.SetInstanceData(instances, 2))
			}
			d.reset()

			m.Draw()

			total := 0
			for _, name := range draws {
				total += d.count(name)
			}
			assert.Equal(t, 1, total, "exactly one draw call")
			got := d.named(tt.want)
			require.Len(t, got, 1)
			assert.Equal(t, tt.args, got[0].args)

			binds := d.named("BindVertexArray")
			require.Len(t, binds, 2)
			assert.NotEqual(t, uint32(0), binds[0].args[0])
			assert.Equal(t, uint32(0), binds[1].args[0])
		})
	}
}

func TestMeshDrawTopology(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	cfg := triangleConfig()
	cfg.Topology = LineLoop
	require.NoError(t, m.Init(d, cfg))
	d.reset()

	m.Draw()
	assert.Equal(t, LineLoop, d.named("DrawArrays")[0].args[0])
}

func TestMeshDelete(t *testing.T) {
	d := newFakeDriver()
	m := NewMesh()
	cfg := triangleConfig()
	cfg.Indices = []uint32{0, 1, 2}
	require.NoError(t, m.Init(d, cfg))
	require.NoError(t, m.SetInstanceData([][]Value{{Float(1)}}, 2))
	d.reset()

	m.Delete()
	assert.Equal(t, 1, d.count("DeleteVertexArray"))
	assert.Equal(t, 3, d.count("DeleteBuffer"))
	assert.False(t, m.Initialized())
	assert.Equal(t, int32(0), m.VertexCount())

	d.reset()
	m.Delete()
	m.Draw()
	assert.Empty(t, d.calls)
}
