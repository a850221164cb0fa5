package export

import (
	"fmt"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/figment3d/figment/pkg/model"
)

// blenderBoneNames maps figment core bone names (without side suffix)
// to the mixamo-style names Blender's retarget tooling auto-detects.
var blenderBoneNames = map[string]string{
	"hips":      "Hips",
	"spine":     "Spine",
	"chest":     "Spine2",
	"neck":      "Neck",
	"head":      "Head",
	"shoulder":  "Shoulder",
	"upper_arm": "Arm",
	"forearm":   "ForeArm",
	"hand":      "Hand",
	"thigh":     "UpLeg",
	"shin":      "Leg",
	"foot":      "Foot",
}

// BlenderBoneName converts a figment bone name to its Blender import
// name: the rename table where a rule exists, otherwise CamelCase. A
// .L/.R suffix becomes a Left/Right prefix either way.
func BlenderBoneName(name string) string {
	side := ""
	switch {
	case strings.HasSuffix(name, ".L"):
		side, name = "Left", strings.TrimSuffix(name, ".L")
	case strings.HasSuffix(name, ".R"):
		side, name = "Right", strings.TrimSuffix(name, ".R")
	}

	mapped, ok := blenderBoneNames[name]
	if !ok {
		parts := strings.Split(name, "_")
		for i, p := range parts {
			if p != "" {
				parts[i] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
		mapped = strings.Join(parts, "")
	}
	return side + mapped
}

// BlenderGLB writes a GLB tuned for Blender import: bones renamed to
// mixamo-style names and clip tracks retargeted to match. The input
// character is not modified.
func BlenderGLB(c *model.Character, path string) error {
	rc := *c
	rc.Skeleton = c.Skeleton.Clone()
	for i, b := range rc.Skeleton.Bones {
		if err := rc.Skeleton.RenameBone(i, BlenderBoneName(b.Name)); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
	}

	rc.Clips = make([]model.Clip, len(c.Clips))
	for i, clip := range c.Clips {
		renamed := model.Clip{Name: clip.Name, Tracks: make([]model.Track, len(clip.Tracks))}
		for j, tr := range clip.Tracks {
			tr.Bone = BlenderBoneName(tr.Bone)
			renamed.Tracks[j] = tr
		}
		rc.Clips[i] = renamed
	}

	doc, err := BuildDocument(&rc)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return gltf.SaveBinary(doc, path)
}
