package generate

import (
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/rig"
)

// HumanoidGenerator assembles a two-legged figure: a clothed torso
// capsule, limb capsules that follow the skeleton, and a head sphere.
type HumanoidGenerator struct{}

func (HumanoidGenerator) Kind() string { return KindHumanoid }

func (HumanoidGenerator) Generate(p Preset) (*model.Character, error) {
	skel, err := rig.NewBipedSkeleton(p.Proportions)
	if err != nil {
		return nil, err
	}

	mesh := model.NewMesh(p.Name)
	buildBipedBody(mesh, skel, p.Proportions)

	return finish(p, mesh, skel)
}

// buildBipedBody places the shared biped part set against a skeleton's
// rest pose. The monster generator layers extras on top of it.
func buildBipedBody(mesh *model.Mesh, skel *model.Skeleton, pr rig.Proportions) {
	pos := skel.WorldPositions()
	at := func(name string) math3d.Vec3 { return pos[skel.Index(name)] }

	armR := pr.Height * 0.035
	legR := pr.Height * 0.045
	torsoR := pr.ShoulderWidth * 0.32

	// Torso from just below the hips up to the neck base.
	hips := at("hips").Sub(math3d.V3(0, pr.HipWidth*0.3, 0))
	mesh.Merge(limbBetween(hips, at("neck"), torsoR), matSecondary)

	head := Sphere(pr.HeadSize*0.5, defaultRings, defaultSlices)
	mesh.Merge(placedAt(head, at("head").Add(math3d.V3(0, pr.HeadSize*0.2, 0))), matPrimary)

	for _, side := range []string{".L", ".R"} {
		mesh.Merge(limbBetween(at("upper_arm"+side), at("forearm"+side), armR), matPrimary)
		mesh.Merge(limbBetween(at("forearm"+side), at("hand"+side), armR*0.85), matPrimary)
		mesh.Merge(placedAt(Sphere(armR*1.3, 6, 8), at("hand"+side)), matPrimary)

		mesh.Merge(limbBetween(at("thigh"+side), at("shin"+side), legR), matSecondary)
		mesh.Merge(limbBetween(at("shin"+side), at("foot"+side), legR*0.85), matSecondary)

		// Feet extend forward (-Z) from the ankle.
		foot := Box(legR*2.2, legR*1.2, legR*3.5)
		mesh.Merge(placedAt(foot, at("foot"+side).Add(math3d.V3(0, legR*0.3, -legR))), matAccent)
	}
}
