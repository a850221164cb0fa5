package preview

import (
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// SkinMatrices returns the per-bone skinning matrix for a pose:
// posed world transform times inverse bind matrix.
func SkinMatrices(skel *model.Skeleton, pose model.Pose) []math3d.Mat4 {
	world := skel.WorldMatrices(pose)
	ibms := skel.InverseBindMatrices()
	skin := make([]math3d.Mat4, len(world))
	for i := range world {
		skin[i] = world[i].Mul(ibms[i])
	}
	return skin
}

// SkinnedPositions deforms every vertex by its weighted bone skin
// matrices. Unskinned vertices (all weights zero) stay in place.
func SkinnedPositions(mesh *model.Mesh, skel *model.Skeleton, pose model.Pose) []math3d.Vec3 {
	skin := SkinMatrices(skel, pose)

	out := make([]math3d.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		var blended math3d.Vec3
		var total float64
		for lane := range model.MaxInfluences {
			w := float64(v.Weights[lane])
			if w == 0 {
				continue
			}
			blended = blended.Add(skin[v.Joints[lane]].MulVec3(v.Position).Scale(w))
			total += w
		}
		if total == 0 {
			out[i] = v.Position
			continue
		}
		out[i] = blended
	}
	return out
}

// BonePositions returns posed world positions, used for the skeleton
// overlay.
func BonePositions(skel *model.Skeleton, pose model.Pose) []math3d.Vec3 {
	world := skel.WorldMatrices(pose)
	out := make([]math3d.Vec3, len(world))
	for i, m := range world {
		out[i] = m.Translation()
	}
	return out
}

// MeshEdges extracts the unique undirected edges of a mesh, the line
// set the wireframe draws.
func MeshEdges(mesh *model.Mesh) [][2]int {
	seen := make(map[[2]int]struct{}, len(mesh.Faces)*3)
	edges := make([][2]int, 0, len(mesh.Faces)*3)

	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, key)
	}

	for _, f := range mesh.Faces {
		add(f.V[0], f.V[1])
		add(f.V[1], f.V[2])
		add(f.V[2], f.V[0])
	}
	return edges
}
