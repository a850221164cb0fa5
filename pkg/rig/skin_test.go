package rig

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

func TestComputeWeightsRowsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	positions := make([]math3d.Vec3, 200)
	for i := range positions {
		positions[i] = math3d.V3(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2)
	}
	bones := []math3d.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 2, Z: 0},
		{X: 1, Y: 1, Z: 0}, {X: -1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1},
	}

	joints, weights, err := ComputeWeights(positions, bones, 4)
	require.NoError(t, err)
	require.Len(t, joints, len(positions)*4)
	require.Len(t, weights, len(positions)*4)

	for vi := range positions {
		var sum float64
		for i := range 4 {
			sum += float64(weights[vi*4+i])
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "vertex %d", vi)
	}
}

func TestComputeWeightsMonotonicInDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	positions := make([]math3d.Vec3, 100)
	for i := range positions {
		positions[i] = math3d.V3(rng.Float64()*6-3, rng.Float64()*6-3, rng.Float64()*6-3)
	}
	bones := make([]math3d.Vec3, 8)
	for i := range bones {
		bones[i] = math3d.V3(rng.Float64()*6-3, rng.Float64()*6-3, rng.Float64()*6-3)
	}

	joints, weights, err := ComputeWeights(positions, bones, 4)
	require.NoError(t, err)

	for vi, pos := range positions {
		for i := range 3 {
			a := vi*4 + i
			b := a + 1
			da := pos.Distance(bones[joints[a]])
			db := pos.Distance(bones[joints[b]])
			if da <= db {
				assert.GreaterOrEqual(t, weights[a], weights[b],
					"vertex %d: nearer bone %d got less weight than bone %d", vi, joints[a], joints[b])
			}
		}
	}
}

func TestComputeWeightsSingleBone(t *testing.T) {
	positions := []math3d.Vec3{{X: 1}, {X: -3, Y: 2}, {Z: 0.5}}
	bones := []math3d.Vec3{{}}

	joints, weights, err := ComputeWeights(positions, bones, 4)
	require.NoError(t, err)

	for vi := range positions {
		base := vi * 4
		assert.Equal(t, []uint16{0, 0, 0, 0}, joints[base:base+4])
		assert.Equal(t, []float32{1, 0, 0, 0}, weights[base:base+4])
	}
}

func TestComputeWeightsExactInverseDistanceValues(t *testing.T) {
	// Four bones at distances 1,2,3,4 along X from a vertex at origin.
	positions := []math3d.Vec3{{}}
	bones := []math3d.Vec3{{X: 1}, {X: 2}, {X: 3}, {X: 4}}

	joints, weights, err := ComputeWeights(positions, bones, 4)
	require.NoError(t, err)

	raw := []float64{
		1 / (1 + distanceEpsilon),
		1 / (2 + distanceEpsilon),
		1 / (3 + distanceEpsilon),
		1 / (4 + distanceEpsilon),
	}
	sum := raw[0] + raw[1] + raw[2] + raw[3]

	for i := range 4 {
		assert.Equal(t, uint16(i), joints[i])
		assert.InDelta(t, raw[i]/sum, float64(weights[i]), 1e-7)
	}
	// Strict ordering w1 > w2 > w3 > w4.
	assert.Greater(t, weights[0], weights[1])
	assert.Greater(t, weights[1], weights[2])
	assert.Greater(t, weights[2], weights[3])
}

func TestComputeWeightsTieBreaksOnFirstBone(t *testing.T) {
	// Bones 1 and 2 are equidistant from the vertex; only one slot is
	// left after bone 0, and the lower index must win it.
	positions := []math3d.Vec3{{}}
	bones := []math3d.Vec3{{X: 0.5}, {Y: 2}, {Y: -2}}

	joints, _, err := ComputeWeights(positions, bones, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), joints[0])
	assert.Equal(t, uint16(1), joints[1])
}

func TestComputeWeightsVertexOnBoneOrigin(t *testing.T) {
	// Coincident vertex and bone: epsilon keeps the weight finite and
	// the coincident bone dominates.
	positions := []math3d.Vec3{{X: 1, Y: 1, Z: 1}}
	bones := []math3d.Vec3{{X: 1, Y: 1, Z: 1}, {X: 5, Y: 5, Z: 5}}

	_, weights, err := ComputeWeights(positions, bones, 2)
	require.NoError(t, err)
	assert.Greater(t, weights[0], float32(0.99))
	var sum float64
	for _, w := range weights[:2] {
		sum += float64(w)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestComputeWeightsErrors(t *testing.T) {
	pos := []math3d.Vec3{{}}
	bones := []math3d.Vec3{{}}

	_, _, err := ComputeWeights(pos, nil, 4)
	assert.ErrorIs(t, err, ErrEmptySkeleton)

	_, _, err = ComputeWeights(nil, bones, 4)
	assert.ErrorIs(t, err, ErrNoVertices)

	_, _, err = ComputeWeights(pos, bones, 0)
	assert.ErrorIs(t, err, ErrBadInfluences)
}

func TestBindWritesVertexAttributes(t *testing.T) {
	mesh := model.NewMesh("strip")
	for i := range 5 {
		mesh.Vertices = append(mesh.Vertices, model.Vertex{
			Position: math3d.V3(0, float64(i), 0),
		})
	}

	skel := model.NewSkeleton()
	_, err := skel.AddBone("root", "", math3d.V3(0, 0, 0))
	require.NoError(t, err)
	_, err = skel.AddBone("top", "root", math3d.V3(0, 4, 0))
	require.NoError(t, err)

	require.NoError(t, Bind(mesh, skel, 4))

	// Bottom vertex binds dominantly to root, top vertex to top.
	assert.Equal(t, uint16(0), mesh.Vertices[0].Joints[0])
	assert.Greater(t, mesh.Vertices[0].Weights[0], float32(0.9))
	assert.Equal(t, uint16(1), mesh.Vertices[4].Joints[0])
	assert.Greater(t, mesh.Vertices[4].Weights[0], float32(0.9))

	// Midpoint splits close to evenly.
	assert.InDelta(t, 0.5, float64(mesh.Vertices[2].Weights[0]), 0.01)
	assert.InDelta(t, 0.5, float64(mesh.Vertices[2].Weights[1]), 0.01)
}

func TestBindRejectsEmptySkeletonAndWideK(t *testing.T) {
	mesh := model.NewMesh("m")
	mesh.Vertices = []model.Vertex{{}}

	err := Bind(mesh, model.NewSkeleton(), 4)
	assert.ErrorIs(t, err, ErrEmptySkeleton)

	skel := model.NewSkeleton()
	_, _ = skel.AddBone("root", "", math3d.Zero3())
	err = Bind(mesh, skel, model.MaxInfluences+1)
	assert.ErrorIs(t, err, ErrTooManyOnMesh)
}
