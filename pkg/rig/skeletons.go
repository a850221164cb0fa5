package rig

import (
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// Proportions parameterizes the skeleton preset tables. All lengths
// are in model units; ratios are fractions of Height.
type Proportions struct {
	Height        float64 // Total figure height
	LegRatio      float64 // Fraction of height taken by the legs
	ArmRatio      float64 // Arm length as a fraction of height
	ShoulderWidth float64
	HipWidth      float64
	NeckLength    float64
	HeadSize      float64
	BodyLength    float64 // Quadruped spine length (nose-to-tail direction)
	TailLength    float64
}

// DefaultProportions returns a midsize biped baseline.
func DefaultProportions() Proportions {
	return Proportions{
		Height:        1.8,
		LegRatio:      0.48,
		ArmRatio:      0.40,
		ShoulderWidth: 0.45,
		HipWidth:      0.30,
		NeckLength:    0.10,
		HeadSize:      0.24,
		BodyLength:    1.1,
		TailLength:    0.6,
	}
}

// skeletonBuilder accumulates AddBone calls and keeps the first error.
type skeletonBuilder struct {
	s   *model.Skeleton
	err error
}

func (b *skeletonBuilder) add(name, parent string, offset math3d.Vec3) {
	if b.err != nil {
		return
	}
	_, b.err = b.s.AddBone(name, parent, offset)
}

// addMirrored adds a .L bone and its .R mirror (offset negated on X).
func (b *skeletonBuilder) addMirrored(name, parent string, offset math3d.Vec3) {
	parentL, parentR := parent, parent
	if parent != "" && b.s.Index(parent+".L") >= 0 {
		parentL, parentR = parent+".L", parent+".R"
	}
	b.add(name+".L", parentL, offset)
	b.add(name+".R", parentR, math3d.V3(-offset.X, offset.Y, offset.Z))
}

// NewBipedSkeleton builds the standard two-legged hierarchy:
// hips, spine, chest, neck, head, and mirrored arm and leg chains.
func NewBipedSkeleton(p Proportions) (*model.Skeleton, error) {
	legLen := p.Height * p.LegRatio
	torsoLen := p.Height - legLen - p.NeckLength - p.HeadSize
	armLen := p.Height * p.ArmRatio

	b := &skeletonBuilder{s: model.NewSkeleton()}

	b.add("hips", "", math3d.V3(0, legLen, 0))
	b.add("spine", "hips", math3d.V3(0, torsoLen*0.45, 0))
	b.add("chest", "spine", math3d.V3(0, torsoLen*0.55, 0))
	b.add("neck", "chest", math3d.V3(0, p.NeckLength, 0))
	b.add("head", "neck", math3d.V3(0, p.HeadSize*0.5, 0))

	b.addMirrored("shoulder", "chest", math3d.V3(p.ShoulderWidth*0.5, 0, 0))
	b.addMirrored("upper_arm", "shoulder", math3d.V3(armLen*0.1, 0, 0))
	b.addMirrored("forearm", "upper_arm", math3d.V3(armLen*0.45, 0, 0))
	b.addMirrored("hand", "forearm", math3d.V3(armLen*0.45, 0, 0))

	b.addMirrored("thigh", "hips", math3d.V3(p.HipWidth*0.5, 0, 0))
	b.addMirrored("shin", "thigh", math3d.V3(0, -legLen*0.5, 0))
	b.addMirrored("foot", "shin", math3d.V3(0, -legLen*0.5, 0))

	return b.s, b.err
}

// NewQuadrupedSkeleton builds a four-legged hierarchy along the Z
// axis: hips at the rear, spine/chest forward, neck and head rising,
// four legs dropping, and a tail chain behind.
func NewQuadrupedSkeleton(p Proportions) (*model.Skeleton, error) {
	legLen := p.Height * p.LegRatio
	segment := p.BodyLength * 0.5

	b := &skeletonBuilder{s: model.NewSkeleton()}

	b.add("hips", "", math3d.V3(0, legLen, -segment*0.5))
	b.add("spine", "hips", math3d.V3(0, 0, segment*0.5))
	b.add("chest", "spine", math3d.V3(0, 0, segment*0.5))
	b.add("neck", "chest", math3d.V3(0, p.NeckLength, p.NeckLength))
	b.add("head", "neck", math3d.V3(0, p.HeadSize*0.5, p.HeadSize*0.5))

	b.addMirrored("front_leg", "chest", math3d.V3(p.ShoulderWidth*0.5, -legLen*0.5, 0))
	b.addMirrored("front_foot", "front_leg", math3d.V3(0, -legLen*0.5, 0))
	b.addMirrored("hind_leg", "hips", math3d.V3(p.HipWidth*0.5, -legLen*0.5, 0))
	b.addMirrored("hind_foot", "hind_leg", math3d.V3(0, -legLen*0.5, 0))

	b.add("tail", "hips", math3d.V3(0, 0, -p.TailLength*0.5))
	b.add("tail_tip", "tail", math3d.V3(0, 0, -p.TailLength*0.5))

	return b.s, b.err
}

// NewMonsterSkeleton is a biped with a tail chain and mirrored wing
// bones hanging off the chest.
func NewMonsterSkeleton(p Proportions) (*model.Skeleton, error) {
	s, err := NewBipedSkeleton(p)
	if err != nil {
		return nil, err
	}

	b := &skeletonBuilder{s: s}
	b.add("tail", "hips", math3d.V3(0, -0.05, -p.TailLength*0.5))
	b.add("tail_tip", "tail", math3d.V3(0, -0.05, -p.TailLength*0.5))
	b.addMirrored("wing", "chest", math3d.V3(p.ShoulderWidth*0.4, p.HeadSize*0.3, -0.1))
	b.addMirrored("wing_tip", "wing", math3d.V3(p.ShoulderWidth*0.6, p.HeadSize*0.5, -0.1))

	return b.s, b.err
}

// NewMechSkeleton is a biped frame without the neck joint (the head
// sits rigidly on the chest) plus an antenna bone.
func NewMechSkeleton(p Proportions) (*model.Skeleton, error) {
	legLen := p.Height * p.LegRatio
	torsoLen := p.Height - legLen - p.HeadSize
	armLen := p.Height * p.ArmRatio

	b := &skeletonBuilder{s: model.NewSkeleton()}

	b.add("hips", "", math3d.V3(0, legLen, 0))
	b.add("spine", "hips", math3d.V3(0, torsoLen*0.5, 0))
	b.add("chest", "spine", math3d.V3(0, torsoLen*0.5, 0))
	b.add("head", "chest", math3d.V3(0, p.HeadSize*0.6, 0))
	b.add("antenna", "head", math3d.V3(0, p.HeadSize*0.8, 0))

	b.addMirrored("shoulder", "chest", math3d.V3(p.ShoulderWidth*0.5, 0, 0))
	b.addMirrored("upper_arm", "shoulder", math3d.V3(armLen*0.1, 0, 0))
	b.addMirrored("forearm", "upper_arm", math3d.V3(armLen*0.45, 0, 0))
	b.addMirrored("hand", "forearm", math3d.V3(armLen*0.45, 0, 0))

	b.addMirrored("thigh", "hips", math3d.V3(p.HipWidth*0.5, 0, 0))
	b.addMirrored("shin", "thigh", math3d.V3(0, -legLen*0.5, 0))
	b.addMirrored("foot", "shin", math3d.V3(0, -legLen*0.5, 0))

	return b.s, b.err
}
