package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNormalsFlatQuad(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	normals := GenerateNormals(vertices, []uint32{0, 1, 2, 2, 3, 0})
	require.Len(t, normals, len(vertices))
	for i := 0; i < 4; i++ {
		assert.InDeltaSlice(t, []float32{0, 0, 1}, normals[i*3:i*3+3], 1e-6, "vertex %d", i)
	}
}

func TestGenerateNormalsSmoothsSharedVertices(t *testing.T) {
	// Two faces meeting at a right angle along the x axis.
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	normals := GenerateNormals(vertices, []uint32{0, 1, 2, 0, 3, 1})

	// Vertex 0 and 1 average +z and +y.
	h := float32(0.70710677)
	assert.InDeltaSlice(t, []float32{0, h, h}, normals[0:3], 1e-6)
	assert.InDeltaSlice(t, []float32{0, h, h}, normals[3:6], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, normals[6:9], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, normals[9:12], 1e-6)
}

func TestGenerateNormalsSkipsDegenerate(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		2, 0, 0,
		5, 5, 5,
	}
	normals := GenerateNormals(vertices, []uint32{0, 1, 2, 3})
	assert.Equal(t, make([]float32, 12), normals, "collinear triangle and trailing index contribute nothing")
}
