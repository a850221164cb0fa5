// Package rig builds skeletons and binds meshes to them. Its core is
// automatic skin weighting: each vertex is bound to its k nearest
// bones with inverse-distance weights, so generated characters deform
// plausibly without manual weight painting.
package rig

import (
	"errors"
	"fmt"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// Binding errors. The original tool skipped work silently on bad
// input; here the caller always learns why nothing was written.
var (
	ErrEmptySkeleton = errors.New("skeleton has no bones")
	ErrNoVertices    = errors.New("mesh has no vertex positions")
	ErrBadInfluences = errors.New("influence count must be at least 1")
	ErrTooManyOnMesh = errors.New("influence count exceeds vertex weight lanes")
)

// DefaultInfluences is the standard per-vertex bone influence count.
const DefaultInfluences = model.MaxInfluences

// distanceEpsilon keeps 1/d finite when a vertex coincides with a bone
// origin.
const distanceEpsilon = 1e-3

// ComputeWeights assigns every vertex up to k bone influences by
// inverse distance to the bones' world-space origins.
//
// For each vertex the k nearest bones are selected (equidistant bones
// tie-break toward the lower bone index), weighted 1/(d+eps), and
// normalized to sum to 1. When fewer than k bones exist, the remaining
// slots are padded with bone 0 at weight 0.
//
// The returned slices hold exactly len(positions)*k entries each, in
// vertex-major order.
func ComputeWeights(positions, bonePositions []math3d.Vec3, k int) ([]uint16, []float32, error) {
	if k < 1 {
		return nil, nil, fmt.Errorf("compute weights: k=%d: %w", k, ErrBadInfluences)
	}
	if len(bonePositions) == 0 {
		return nil, nil, fmt.Errorf("compute weights: %w", ErrEmptySkeleton)
	}
	if len(positions) == 0 {
		return nil, nil, fmt.Errorf("compute weights: %w", ErrNoVertices)
	}

	joints := make([]uint16, len(positions)*k)
	weights := make([]float32, len(positions)*k)

	// Per-vertex scratch for the selected influences.
	selIdx := make([]int, 0, k)
	selDist := make([]float64, 0, k)

	for vi, pos := range positions {
		selIdx = selIdx[:0]
		selDist = selDist[:0]

		// Insertion-select the k nearest bones. Strict < on distance
		// keeps the scan stable: the first-seen bone wins ties.
		for bi, bp := range bonePositions {
			d := pos.Distance(bp)

			at := len(selDist)
			for at > 0 && d < selDist[at-1] {
				at--
			}
			if at >= k {
				continue
			}
			if len(selDist) < k {
				selIdx = append(selIdx, 0)
				selDist = append(selDist, 0)
			}
			copy(selIdx[at+1:], selIdx[at:])
			copy(selDist[at+1:], selDist[at:])
			selIdx[at] = bi
			selDist[at] = d
		}

		var sum float64
		raw := make([]float64, len(selDist))
		for i, d := range selDist {
			raw[i] = 1 / (d + distanceEpsilon)
			sum += raw[i]
		}

		base := vi * k
		for i := range raw {
			joints[base+i] = uint16(selIdx[i])
			weights[base+i] = float32(raw[i] / sum)
		}
		// Slots beyond the bone count stay at the zero value:
		// bone 0 with weight 0.
	}

	return joints, weights, nil
}

// Bind computes skin weights for the mesh against the skeleton's
// rest-pose bone positions and writes them into the vertex Joints and
// Weights attributes. k must not exceed the vertex lane count.
func Bind(mesh *model.Mesh, skeleton *model.Skeleton, k int) error {
	if k > model.MaxInfluences {
		return fmt.Errorf("bind %q: k=%d: %w", mesh.Name, k, ErrTooManyOnMesh)
	}
	if skeleton.Len() == 0 {
		return fmt.Errorf("bind %q: %w", mesh.Name, ErrEmptySkeleton)
	}

	joints, weights, err := ComputeWeights(mesh.Positions(), skeleton.WorldPositions(), k)
	if err != nil {
		return fmt.Errorf("bind %q: %w", mesh.Name, err)
	}

	for vi := range mesh.Vertices {
		v := &mesh.Vertices[vi]
		v.Joints = [model.MaxInfluences]uint16{}
		v.Weights = [model.MaxInfluences]float32{}
		base := vi * k
		for i := range k {
			v.Joints[i] = joints[base+i]
			v.Weights[i] = weights[base+i]
		}
	}
	return nil
}
