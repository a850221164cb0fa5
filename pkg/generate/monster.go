package generate

import (
	"math/rand"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/rig"
)

// MonsterGenerator layers horns, extra eyes, back spikes, wings, and a
// tail over the shared biped body. Feature counts are drawn from the
// preset seed, so the same preset always grows the same monster.
type MonsterGenerator struct{}

func (MonsterGenerator) Kind() string { return KindMonster }

func (MonsterGenerator) Generate(p Preset) (*model.Character, error) {
	skel, err := rig.NewMonsterSkeleton(p.Proportions)
	if err != nil {
		return nil, err
	}

	pr := p.Proportions
	mesh := model.NewMesh(p.Name)
	buildBipedBody(mesh, skel, pr)

	pos := skel.WorldPositions()
	at := func(name string) math3d.Vec3 { return pos[skel.Index(name)] }

	rng := rand.New(rand.NewSource(p.Seed))
	headR := pr.HeadSize * 0.5
	headC := at("head").Add(math3d.V3(0, pr.HeadSize*0.2, 0))

	// Horns fan out across the crown.
	horns := 1 + rng.Intn(3)
	for i := range horns {
		tilt := 0.0
		if horns > 1 {
			tilt = -0.6 + 1.2*float64(i)/float64(horns-1)
		}
		base := headC.Add(math3d.V3(tilt*headR*0.8, headR*0.8, 0))
		mesh.Merge(spikeAt(base, math3d.V3(tilt, 1, -0.2), headR*0.22, headR*1.2), matAccent)
	}

	// Eyes stud the face; the face looks down -Z.
	eyes := 2 + rng.Intn(3)
	for i := range eyes {
		u := -0.5 + float64(i)/float64(eyes-1)
		eye := headC.Add(math3d.V3(u*headR, headR*0.15*float64(i%2), -headR*0.9))
		mesh.Merge(placedAt(Sphere(headR*0.14, 6, 8), eye), matAccent)
	}

	// Spikes march up the back from hips to neck.
	spikes := 3 + rng.Intn(4)
	spine := at("hips")
	neck := at("neck")
	torsoR := pr.ShoulderWidth * 0.32
	for i := range spikes {
		t := float64(i) / float64(spikes-1)
		base := spine.Lerp(neck, t).Add(math3d.V3(0, 0, torsoR*0.9))
		mesh.Merge(spikeAt(base, math3d.V3(0, 0.4, 1), torsoR*0.18, torsoR*0.9), matAccent)
	}

	// Wing membranes: thin boxes spanning chest-mounted wing bones.
	for _, side := range []string{".L", ".R"} {
		root, tip := at("wing"+side), at("wing_tip"+side)
		span := tip.Sub(root)
		wing := Box(span.Len()*0.5, span.Len(), span.Len()*0.06)
		wing.Transform(math3d.Compose(root.Add(tip).Scale(0.5), alignY(span), math3d.V3(1, 1, 1)))
		mesh.Merge(wing, matSecondary)
	}

	mesh.Merge(limbBetween(at("hips"), at("tail"), pr.HipWidth*0.35), matPrimary)
	mesh.Merge(limbBetween(at("tail"), at("tail_tip"), pr.HipWidth*0.2), matPrimary)
	tipDir := at("tail_tip").Sub(at("tail"))
	mesh.Merge(spikeAt(at("tail_tip"), tipDir, pr.HipWidth*0.18, pr.HipWidth*0.5), matAccent)

	return finish(p, mesh, skel)
}
