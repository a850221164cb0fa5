package generate

import (
	"fmt"
	"math"

	"github.com/figment3d/figment/pkg/anim"
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/rig"
	"github.com/figment3d/figment/pkg/texture"
)

// Material slot indices shared by all generators. Presets fill the
// slots by name; faces reference them by index.
const (
	matPrimary = iota
	matSecondary
	matAccent
)

// Generator produces a rigged character of one kind from a preset.
type Generator interface {
	Kind() string
	Generate(p Preset) (*model.Character, error)
}

// New returns the generator for a kind.
func New(kind string) (Generator, error) {
	switch kind {
	case KindHumanoid:
		return HumanoidGenerator{}, nil
	case KindCreature:
		return CreatureGenerator{}, nil
	case KindMonster:
		return MonsterGenerator{}, nil
	case KindMech:
		return MechGenerator{}, nil
	default:
		return nil, fmt.Errorf("generator for %q: %w", kind, ErrUnknownKind)
	}
}

// Generate validates a preset and runs the matching generator.
func Generate(p Preset) (*model.Character, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := New(p.Kind)
	if err != nil {
		return nil, err
	}
	return g.Generate(p)
}

// finish rigs the assembled mesh, resolves materials, bakes the
// texture, and builds the preset's clips.
func finish(p Preset, mesh *model.Mesh, skel *model.Skeleton) (*model.Character, error) {
	mesh.CalculateBounds()
	if err := rig.Bind(mesh, skel, rig.DefaultInfluences); err != nil {
		return nil, fmt.Errorf("generate %q: %w", p.Name, err)
	}

	c := &model.Character{
		Name:     p.Name,
		Kind:     p.Kind,
		Mesh:     mesh,
		Skeleton: skel,
		Materials: []model.Material{
			model.LookupMaterial(p.Materials.Primary),
			model.LookupMaterial(p.Materials.Secondary),
			model.LookupMaterial(p.Materials.Accent),
		},
	}

	for _, name := range p.Animations {
		clip, err := anim.Build(name, skel)
		if err != nil {
			return nil, fmt.Errorf("generate %q: %w", p.Name, err)
		}
		c.Clips = append(c.Clips, clip)
	}

	recipe, ok, err := p.TextureRecipe()
	if err != nil {
		return nil, err
	}
	if ok {
		size := p.TextureSize()
		img, err := texture.Generate(recipe, size, size)
		if err != nil {
			return nil, fmt.Errorf("generate %q: %w", p.Name, err)
		}
		c.Texture = img
	}

	return c, nil
}

// alignY returns the rotation taking the +Y axis onto dir.
func alignY(dir math3d.Vec3) math3d.Quat {
	d := dir.Normalize()
	dot := math3d.Up().Dot(d)
	switch {
	case dot > 0.9999:
		return math3d.QuatIdentity()
	case dot < -0.9999:
		return math3d.QuatAxisAngle(math3d.Right(), math.Pi)
	}
	axis := math3d.Up().Cross(d).Normalize()
	return math3d.QuatAxisAngle(axis, math.Acos(dot))
}

// limbBetween builds a capsule spanning the segment a..b. The
// hemispherical caps overlap neighbor segments, hiding the joints.
func limbBetween(a, b math3d.Vec3, radius float64) *model.Mesh {
	dir := b.Sub(a)
	h := dir.Len() - radius
	if h < radius*0.25 {
		h = radius * 0.25
	}
	m := Capsule(radius, h, 6, 10)
	m.Transform(math3d.Compose(a.Add(b).Scale(0.5), alignY(dir), math3d.V3(1, 1, 1)))
	return m
}

// rodBetween is limbBetween's hard-surface cousin: a cylinder strut
// spanning a..b, used by the mech generator.
func rodBetween(a, b math3d.Vec3, radius float64) *model.Mesh {
	dir := b.Sub(a)
	m := Cylinder(radius, dir.Len(), 10)
	m.Transform(math3d.Compose(a.Add(b).Scale(0.5), alignY(dir), math3d.V3(1, 1, 1)))
	return m
}

// spikeAt places a cone at base pointing along dir.
func spikeAt(base, dir math3d.Vec3, radius, length float64) *model.Mesh {
	m := Cone(radius, length, 8)
	center := base.Add(dir.Normalize().Scale(length / 2))
	m.Transform(math3d.Compose(center, alignY(dir), math3d.V3(1, 1, 1)))
	return m
}

// placedAt translates a primitive to a world position.
func placedAt(m *model.Mesh, at math3d.Vec3) *model.Mesh {
	m.Transform(math3d.Translate(at))
	return m
}
