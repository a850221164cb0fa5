package model

import (
	"errors"
	"fmt"

	"github.com/figment3d/figment/pkg/math3d"
)

// Skeleton construction errors.
var (
	ErrDuplicateBone = errors.New("duplicate bone name")
	ErrUnknownParent = errors.New("unknown parent bone")
)

// Bone is one joint of a skeletal hierarchy. Offset and Rotation are
// the rest transform relative to the parent bone.
type Bone struct {
	Name     string
	Parent   int // Index of parent bone, -1 for the root
	Offset   math3d.Vec3
	Rotation math3d.Quat
}

// Skeleton is an ordered bone hierarchy. Bones are stored so that a
// parent always precedes its children, which lets world transforms be
// accumulated in a single forward pass.
type Skeleton struct {
	Bones []Bone

	byName map[string]int
}

// NewSkeleton creates an empty skeleton.
func NewSkeleton() *Skeleton {
	return &Skeleton{byName: make(map[string]int)}
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.Bones)
}

// AddBone appends a bone and returns its index. parent is the name of
// an already-added bone, or "" for a root bone. Duplicate names and
// unknown parents are rejected.
func (s *Skeleton) AddBone(name, parent string, offset math3d.Vec3) (int, error) {
	if _, exists := s.byName[name]; exists {
		return -1, fmt.Errorf("add bone %q: %w", name, ErrDuplicateBone)
	}

	parentIdx := -1
	if parent != "" {
		idx, ok := s.byName[parent]
		if !ok {
			return -1, fmt.Errorf("add bone %q: parent %q: %w", name, parent, ErrUnknownParent)
		}
		parentIdx = idx
	}

	idx := len(s.Bones)
	s.Bones = append(s.Bones, Bone{
		Name:     name,
		Parent:   parentIdx,
		Offset:   offset,
		Rotation: math3d.QuatIdentity(),
	})
	s.byName[name] = idx
	return idx, nil
}

// Index returns the index of the named bone, or -1 if absent.
func (s *Skeleton) Index(name string) int {
	if idx, ok := s.byName[name]; ok {
		return idx
	}
	return -1
}

// BonePose is a local TRS transform for one bone.
type BonePose struct {
	Translation math3d.Vec3
	Rotation    math3d.Quat
	Scale       math3d.Vec3
}

// Pose holds a local transform per bone, aligned with Skeleton.Bones.
type Pose []BonePose

// RestPose returns the skeleton's rest pose.
func (s *Skeleton) RestPose() Pose {
	pose := make(Pose, len(s.Bones))
	for i, b := range s.Bones {
		pose[i] = BonePose{
			Translation: b.Offset,
			Rotation:    b.Rotation,
			Scale:       math3d.V3(1, 1, 1),
		}
	}
	return pose
}

// WorldMatrices returns the world transform of every bone under the
// given pose. The pose must have one entry per bone.
func (s *Skeleton) WorldMatrices(pose Pose) []math3d.Mat4 {
	world := make([]math3d.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		local := math3d.Compose(pose[i].Translation, pose[i].Rotation, pose[i].Scale)
		if b.Parent < 0 {
			world[i] = local
		} else {
			world[i] = world[b.Parent].Mul(local)
		}
	}
	return world
}

// WorldPositions returns the rest-pose world position of every bone.
// The rigger measures vertex-to-bone distances against these.
func (s *Skeleton) WorldPositions() []math3d.Vec3 {
	mats := s.WorldMatrices(s.RestPose())
	out := make([]math3d.Vec3, len(mats))
	for i, m := range mats {
		out[i] = m.Translation()
	}
	return out
}

// InverseBindMatrices returns the inverse rest-pose world matrix of
// every bone, as required by glTF skins and CPU skinning.
func (s *Skeleton) InverseBindMatrices() []math3d.Mat4 {
	mats := s.WorldMatrices(s.RestPose())
	out := make([]math3d.Mat4, len(mats))
	for i, m := range mats {
		out[i] = m.Inverse()
	}
	return out
}

// RenameBone changes the name of bone i, keeping lookups consistent.
func (s *Skeleton) RenameBone(i int, name string) error {
	if idx, exists := s.byName[name]; exists && idx != i {
		return fmt.Errorf("rename bone %q: %w", name, ErrDuplicateBone)
	}
	delete(s.byName, s.Bones[i].Name)
	s.Bones[i].Name = name
	s.byName[name] = i
	return nil
}

// Clone creates a deep copy of the skeleton.
func (s *Skeleton) Clone() *Skeleton {
	clone := NewSkeleton()
	clone.Bones = make([]Bone, len(s.Bones))
	copy(clone.Bones, s.Bones)
	for name, idx := range s.byName {
		clone.byName[name] = idx
	}
	return clone
}
