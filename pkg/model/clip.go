package model

import (
	"errors"
	"fmt"

	"github.com/figment3d/figment/pkg/math3d"
)

// Clip validation errors.
var (
	ErrEmptyTrack        = errors.New("track has no keyframes")
	ErrTimesNotAscending = errors.New("track times not strictly ascending")
	ErrKeyCountMismatch  = errors.New("track key count does not match times")
	ErrBadPath           = errors.New("unknown track path")
)

// TrackPath names the bone property a track animates.
type TrackPath string

const (
	PathTranslation TrackPath = "translation"
	PathRotation    TrackPath = "rotation"
	PathScale       TrackPath = "scale"
)

// Track is a timestamped key sequence for one property of one bone.
// VecKeys is used for translation and scale paths, QuatKeys for
// rotation.
type Track struct {
	Bone     string
	Path     TrackPath
	Times    []float64
	VecKeys  []math3d.Vec3
	QuatKeys []math3d.Quat
}

// Clip is a named animation made of keyframe tracks.
type Clip struct {
	Name   string
	Tracks []Track
}

// Validate checks every track for ascending times, matching key
// counts, and a known path.
func (c *Clip) Validate() error {
	for i := range c.Tracks {
		t := &c.Tracks[i]
		if len(t.Times) == 0 {
			return fmt.Errorf("clip %q track %d (%s/%s): %w", c.Name, i, t.Bone, t.Path, ErrEmptyTrack)
		}
		for k := 1; k < len(t.Times); k++ {
			if t.Times[k] <= t.Times[k-1] {
				return fmt.Errorf("clip %q track %d (%s/%s): %w", c.Name, i, t.Bone, t.Path, ErrTimesNotAscending)
			}
		}
		switch t.Path {
		case PathTranslation, PathScale:
			if len(t.VecKeys) != len(t.Times) {
				return fmt.Errorf("clip %q track %d (%s/%s): %w", c.Name, i, t.Bone, t.Path, ErrKeyCountMismatch)
			}
		case PathRotation:
			if len(t.QuatKeys) != len(t.Times) {
				return fmt.Errorf("clip %q track %d (%s/%s): %w", c.Name, i, t.Bone, t.Path, ErrKeyCountMismatch)
			}
		default:
			return fmt.Errorf("clip %q track %d (%s/%q): %w", c.Name, i, t.Bone, t.Path, ErrBadPath)
		}
	}
	return nil
}

// Duration returns the latest keyframe time across all tracks.
func (c *Clip) Duration() float64 {
	var d float64
	for _, t := range c.Tracks {
		if n := len(t.Times); n > 0 && t.Times[n-1] > d {
			d = t.Times[n-1]
		}
	}
	return d
}

// segment locates the keyframe interval containing time and the
// interpolation factor within it. Times outside the track clamp to the
// first or last key.
func (t *Track) segment(time float64) (i int, frac float64) {
	if time <= t.Times[0] {
		return 0, 0
	}
	last := len(t.Times) - 1
	if time >= t.Times[last] {
		return last, 0
	}
	for k := 1; k <= last; k++ {
		if time < t.Times[k] {
			span := t.Times[k] - t.Times[k-1]
			return k - 1, (time - t.Times[k-1]) / span
		}
	}
	return last, 0
}

// SampleVec returns the interpolated Vec3 key at time. Only valid for
// translation and scale tracks.
func (t *Track) SampleVec(time float64) math3d.Vec3 {
	i, frac := t.segment(time)
	if frac == 0 || i+1 >= len(t.VecKeys) {
		return t.VecKeys[i]
	}
	return t.VecKeys[i].Lerp(t.VecKeys[i+1], frac)
}

// SampleQuat returns the slerped rotation key at time. Only valid for
// rotation tracks.
func (t *Track) SampleQuat(time float64) math3d.Quat {
	i, frac := t.segment(time)
	if frac == 0 || i+1 >= len(t.QuatKeys) {
		return t.QuatKeys[i]
	}
	return t.QuatKeys[i].Slerp(t.QuatKeys[i+1], frac)
}

// Pose samples the clip at the given time against a skeleton, starting
// from the rest pose and overriding the animated properties. Tracks
// naming bones the skeleton lacks are skipped, so one clip preset can
// serve several skeleton frames.
func (c *Clip) Pose(s *Skeleton, time float64) Pose {
	pose := s.RestPose()
	for i := range c.Tracks {
		t := &c.Tracks[i]
		idx := s.Index(t.Bone)
		if idx < 0 || len(t.Times) == 0 {
			continue
		}
		switch t.Path {
		case PathTranslation:
			pose[idx].Translation = t.SampleVec(time)
		case PathRotation:
			pose[idx].Rotation = t.SampleQuat(time)
		case PathScale:
			pose[idx].Scale = t.SampleVec(time)
		}
	}
	return pose
}
