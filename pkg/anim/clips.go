// Package anim builds keyframe animation clips against a skeleton.
// Builders only emit tracks for bones the skeleton actually has, so
// the same clip preset serves every body plan.
package anim

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// ErrUnknownClip is returned by Build for names outside the preset
// table.
var ErrUnknownClip = errors.New("unknown animation clip")

const deg = math.Pi / 180

// Names returns the clip preset names in build order.
func Names() []string {
	return []string{"idle", "walk", "wave", "bounce"}
}

// Build constructs the named clip preset for a skeleton.
func Build(name string, s *model.Skeleton) (model.Clip, error) {
	switch name {
	case "idle":
		return Idle(s), nil
	case "walk":
		return Walk(s), nil
	case "wave":
		return Wave(s), nil
	case "bounce":
		return Bounce(s), nil
	default:
		return model.Clip{}, fmt.Errorf("build clip %q: %w", name, ErrUnknownClip)
	}
}

// clipBuilder appends tracks, silently skipping bones the skeleton
// does not have.
type clipBuilder struct {
	s *model.Skeleton
	c model.Clip
}

func newClipBuilder(s *model.Skeleton, name string) *clipBuilder {
	return &clipBuilder{s: s, c: model.Clip{Name: name}}
}

func (b *clipBuilder) rotate(bone string, times []float64, keys []math3d.Quat) {
	if b.s.Index(bone) < 0 {
		return
	}
	b.c.Tracks = append(b.c.Tracks, model.Track{
		Bone: bone, Path: model.PathRotation, Times: times, QuatKeys: keys,
	})
}

func (b *clipBuilder) translate(bone string, times []float64, keys []math3d.Vec3) {
	if b.s.Index(bone) < 0 {
		return
	}
	b.c.Tracks = append(b.c.Tracks, model.Track{
		Bone: bone, Path: model.PathTranslation, Times: times, VecKeys: keys,
	})
}

func (b *clipBuilder) scale(bone string, times []float64, keys []math3d.Vec3) {
	if b.s.Index(bone) < 0 {
		return
	}
	b.c.Tracks = append(b.c.Tracks, model.Track{
		Bone: bone, Path: model.PathScale, Times: times, VecKeys: keys,
	})
}

// swing returns a rotation of the given degrees about the X axis.
func swing(degrees float64) math3d.Quat {
	return math3d.QuatAxisAngle(math3d.Right(), degrees*deg)
}

// Idle is a two-second breathing loop: a slight spine sway, a chest
// scale pulse, a head turn, and a lazy tail swish where tails exist.
func Idle(s *model.Skeleton) model.Clip {
	b := newClipBuilder(s, "idle")

	times := []float64{0, 1, 2}
	ident := math3d.QuatIdentity()
	one := math3d.V3(1, 1, 1)

	b.rotate("spine", times, []math3d.Quat{ident, swing(3), ident})
	b.scale("chest", times, []math3d.Vec3{one, math3d.V3(1.03, 1.03, 1.03), one})
	b.rotate("head", times, []math3d.Quat{
		ident,
		math3d.QuatAxisAngle(math3d.Up(), 6*deg),
		ident,
	})
	b.rotate("tail", times, []math3d.Quat{
		math3d.QuatAxisAngle(math3d.Up(), -10*deg),
		math3d.QuatAxisAngle(math3d.Up(), 10*deg),
		math3d.QuatAxisAngle(math3d.Up(), -10*deg),
	})

	return b.c
}

// Walk is a one-second stride loop. Legs swing in opposition about the
// X axis; arms counter-swing on bipeds; quadrupeds use a diagonal
// gait (front-left with hind-right).
func Walk(s *model.Skeleton) model.Clip {
	b := newClipBuilder(s, "walk")

	times := []float64{0, 0.5, 1}
	fwd, back := swing(30), swing(-30)
	inPhase := []math3d.Quat{fwd, back, fwd}
	outPhase := []math3d.Quat{back, fwd, back}

	b.rotate("thigh.L", times, inPhase)
	b.rotate("thigh.R", times, outPhase)
	b.rotate("upper_arm.L", times, outPhase)
	b.rotate("upper_arm.R", times, inPhase)

	// Shins stay slightly flexed so feet clear the ground.
	flex := []math3d.Quat{swing(-10), swing(-20), swing(-10)}
	b.rotate("shin.L", times, flex)
	b.rotate("shin.R", times, flex)

	b.rotate("front_leg.L", times, inPhase)
	b.rotate("front_leg.R", times, outPhase)
	b.rotate("hind_leg.L", times, outPhase)
	b.rotate("hind_leg.R", times, inPhase)

	b.rotate("tail", times, []math3d.Quat{
		math3d.QuatAxisAngle(math3d.Up(), -15*deg),
		math3d.QuatAxisAngle(math3d.Up(), 15*deg),
		math3d.QuatAxisAngle(math3d.Up(), -15*deg),
	})

	return b.c
}

// Wave raises the right arm and waggles the forearm. On skeletons
// without arms it produces an empty clip.
func Wave(s *model.Skeleton) model.Clip {
	b := newClipBuilder(s, "wave")

	times := []float64{0, 0.3, 0.6, 0.9, 1.2}

	// The .R arm chain extends along -X, so -90° about Z points it up.
	raise := math3d.QuatAxisAngle(math3d.V3(0, 0, 1), -90*deg)
	b.rotate("upper_arm.R", times, []math3d.Quat{raise, raise, raise, raise, raise})

	wag := func(degrees float64) math3d.Quat {
		return math3d.QuatAxisAngle(math3d.V3(0, 0, 1), degrees*deg)
	}
	b.rotate("forearm.R", times, []math3d.Quat{
		wag(-20), wag(25), wag(-20), wag(25), wag(-20),
	})

	return b.c
}

// Bounce samples a damped spring settling the hips back to rest
// height, baked at a fixed frame rate.
const (
	bounceFPS     = 30
	bounceSeconds = 2
)

func Bounce(s *model.Skeleton) model.Clip {
	b := newClipBuilder(s, "bounce")

	idx := s.Index("hips")
	if idx < 0 {
		return b.c
	}
	rest := s.Bones[idx].Offset

	spring := harmonica.NewSpring(harmonica.FPS(bounceFPS), 6.0, 0.25)
	pos := rest.Y + 0.25
	var vel float64

	frames := bounceFPS * bounceSeconds
	times := make([]float64, 0, frames+1)
	keys := make([]math3d.Vec3, 0, frames+1)
	for f := 0; f <= frames; f++ {
		times = append(times, float64(f)/bounceFPS)
		keys = append(keys, math3d.V3(rest.X, pos, rest.Z))
		pos, vel = spring.Update(pos, vel, rest.Y)
	}
	b.translate("hips", times, keys)

	return b.c
}
