package render

import "github.com/go-gl/mathgl/mgl32"

// GenerateNormals computes smooth per-vertex normals for an indexed
// triangle list. vertices holds tightly packed xyz positions; the result
// has the same length, one normal per vertex. Each vertex normal is the
// normalized sum of the face normals of the triangles that use it.
// Trailing indices that do not form a full triangle are ignored, as are
// degenerate triangles.
func GenerateNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))
	at := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{vertices[i*3], vertices[i*3+1], vertices[i*3+2]}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		v0 := at(i0)
		face := at(i1).Sub(v0).Cross(at(i2).Sub(v0))
		if face.Len() == 0 {
			continue
		}
		face = face.Normalize()
		for _, i := range [3]uint32{i0, i1, i2} {
			normals[i*3] += face[0]
			normals[i*3+1] += face[1]
			normals[i*3+2] += face[2]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}
