package generate

import (
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/rig"
)

// MechGenerator assembles a hard-surface frame: box plating for the
// torso, pelvis, head, hands, and feet, cylinder struts for the limbs,
// and an antenna with a glowing tip. Boxes keep flat normals so the
// plating shades with hard edges.
type MechGenerator struct{}

func (MechGenerator) Kind() string { return KindMech }

func (MechGenerator) Generate(p Preset) (*model.Character, error) {
	skel, err := rig.NewMechSkeleton(p.Proportions)
	if err != nil {
		return nil, err
	}

	pos := skel.WorldPositions()
	at := func(name string) math3d.Vec3 { return pos[skel.Index(name)] }

	pr := p.Proportions
	mesh := model.NewMesh(p.Name)

	strutR := pr.Height * 0.03

	// Pelvis block around the hips.
	pelvis := Box(pr.HipWidth*1.4, pr.HipWidth*0.8, pr.HipWidth*0.9)
	mesh.Merge(placedAt(pelvis, at("hips")), matSecondary)

	// Torso block spanning spine to chest, as wide as the shoulders.
	torsoC := at("spine").Add(at("chest")).Scale(0.5)
	torsoH := at("chest").Sub(at("spine")).Len() + pr.ShoulderWidth*0.25
	torso := Box(pr.ShoulderWidth, torsoH, pr.ShoulderWidth*0.55)
	mesh.Merge(placedAt(torso, torsoC), matPrimary)

	head := Box(pr.HeadSize, pr.HeadSize*0.8, pr.HeadSize*0.9)
	mesh.Merge(placedAt(head, at("head").Add(math3d.V3(0, pr.HeadSize*0.2, 0))), matPrimary)

	// Antenna mast and beacon.
	mesh.Merge(rodBetween(at("head"), at("antenna"), strutR*0.4), matSecondary)
	mesh.Merge(placedAt(Sphere(strutR*1.2, 6, 8), at("antenna")), matAccent)

	for _, side := range []string{".L", ".R"} {
		// Shoulder pauldron.
		mesh.Merge(placedAt(Box(strutR*4, strutR*3, strutR*4), at("shoulder"+side)), matSecondary)

		mesh.Merge(rodBetween(at("upper_arm"+side), at("forearm"+side), strutR), matPrimary)
		mesh.Merge(rodBetween(at("forearm"+side), at("hand"+side), strutR*0.85), matPrimary)
		mesh.Merge(placedAt(Box(strutR*2.5, strutR*2.5, strutR*2.5), at("hand"+side)), matSecondary)

		mesh.Merge(rodBetween(at("thigh"+side), at("shin"+side), strutR*1.3), matPrimary)
		mesh.Merge(rodBetween(at("shin"+side), at("foot"+side), strutR*1.1), matPrimary)

		foot := Box(strutR*3.5, strutR*1.6, strutR*5)
		mesh.Merge(placedAt(foot, at("foot"+side).Add(math3d.V3(0, strutR*0.5, -strutR))), matSecondary)
	}

	return finish(p, mesh, skel)
}
