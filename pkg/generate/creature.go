package generate

import (
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/rig"
)

// CreatureGenerator assembles a quadruped: a horizontal body capsule,
// four leg columns, a snouted head, ears, and a tapering tail.
type CreatureGenerator struct{}

func (CreatureGenerator) Kind() string { return KindCreature }

func (CreatureGenerator) Generate(p Preset) (*model.Character, error) {
	skel, err := rig.NewQuadrupedSkeleton(p.Proportions)
	if err != nil {
		return nil, err
	}

	pos := skel.WorldPositions()
	at := func(name string) math3d.Vec3 { return pos[skel.Index(name)] }

	pr := p.Proportions
	mesh := model.NewMesh(p.Name)

	bodyR := pr.ShoulderWidth * 0.55
	legR := pr.Height * 0.07
	headR := pr.HeadSize * 0.5

	mesh.Merge(limbBetween(at("hips"), at("chest"), bodyR), matPrimary)

	mesh.Merge(placedAt(Sphere(headR, defaultRings, defaultSlices), at("head")), matPrimary)

	// Snout points forward along +Z, the direction the spine grows.
	snout := at("head").Add(math3d.V3(0, -headR*0.2, headR*0.6))
	mesh.Merge(spikeAt(snout, math3d.V3(0, 0, 1), headR*0.45, headR*1.1), matSecondary)

	for _, side := range []float64{1, -1} {
		ear := at("head").Add(math3d.V3(side*headR*0.5, headR*0.7, -headR*0.2))
		mesh.Merge(spikeAt(ear, math3d.V3(side*0.3, 1, 0), headR*0.25, headR*0.7), matSecondary)
	}

	legLen := pr.Height * pr.LegRatio
	legPairs := [][2]string{{"front_leg", "front_foot"}, {"hind_leg", "hind_foot"}}
	for _, pair := range legPairs {
		for _, side := range []string{".L", ".R"} {
			knee := at(pair[0] + side)
			hipJoint := knee.Add(math3d.V3(0, legLen*0.5, 0))
			mesh.Merge(limbBetween(hipJoint, knee, legR), matPrimary)
			mesh.Merge(limbBetween(knee, at(pair[1]+side), legR*0.8), matSecondary)
		}
	}

	mesh.Merge(limbBetween(at("hips"), at("tail"), bodyR*0.4), matPrimary)
	mesh.Merge(limbBetween(at("tail"), at("tail_tip"), bodyR*0.22), matPrimary)
	tipDir := at("tail_tip").Sub(at("tail"))
	mesh.Merge(spikeAt(at("tail_tip"), tipDir, bodyR*0.2, bodyR*0.5), matAccent)

	return finish(p, mesh, skel)
}
