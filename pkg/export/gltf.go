// Package export writes generated characters to interchange formats:
// glTF/GLB with full skinning and animation, OBJ for static geometry,
// and a Blender-friendly GLB variant with remapped bone names.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/figment3d/figment/pkg/model"
)

// Exporter errors.
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrEmptyMesh     = errors.New("character mesh has no geometry")
	ErrNoSkeleton    = errors.New("character has no skeleton")
)

// Export writes a character to path, picking the format from the file
// extension: .glb, .gltf, or .obj.
func Export(c *model.Character, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return GLTF(c, path)
	case ".obj":
		return OBJ(c, path)
	default:
		return fmt.Errorf("export %s: %w", path, ErrUnknownFormat)
	}
}

// GLTF writes a character as glTF: binary .glb or JSON .gltf by
// extension.
func GLTF(c *model.Character, path string) error {
	doc, err := BuildDocument(c)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

// BuildDocument assembles the full glTF document for a character:
// skinned mesh primitives per material, PBR materials with an optional
// embedded texture, a node per bone, and one animation per clip.
func BuildDocument(c *model.Character) (*gltf.Document, error) {
	if c.Mesh == nil || len(c.Mesh.Vertices) == 0 || len(c.Mesh.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	if c.Skeleton == nil || c.Skeleton.Len() == 0 {
		return nil, ErrNoSkeleton
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "figment"

	texIdx, err := writeTexture(doc, c)
	if err != nil {
		return nil, err
	}
	writeMaterials(doc, c, texIdx)

	prims, err := writePrimitives(doc, c)
	if err != nil {
		return nil, err
	}
	doc.Meshes = []*gltf.Mesh{{Name: c.Mesh.Name, Primitives: prims}}

	meshNode := writeNodes(doc, c)
	writeSkin(doc, c, meshNode)
	if err := writeAnimations(doc, c); err != nil {
		return nil, err
	}

	return doc, nil
}

// writePrimitives uploads shared vertex attributes and one index
// accessor per referenced material.
func writePrimitives(doc *gltf.Document, c *model.Character) ([]*gltf.Primitive, error) {
	mesh := c.Mesh

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	uvs := make([][2]float32, len(mesh.Vertices))
	joints := make([][4]uint16, len(mesh.Vertices))
	weights := make([][4]float32, len(mesh.Vertices))

	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		uvs[i] = [2]float32{float32(v.UV.X), float32(v.UV.Y)}
		joints[i] = v.Joints
		weights[i] = renormalize(v.Weights)
	}

	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.NORMAL:     modeler.WriteNormal(doc, normals),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		gltf.JOINTS_0:   modeler.WriteJoints(doc, joints),
		gltf.WEIGHTS_0:  modeler.WriteWeights(doc, weights),
	}

	// Group faces by material so each material maps to one primitive.
	byMaterial := make(map[int][]uint32)
	order := make([]int, 0, len(c.Materials))
	for _, f := range mesh.Faces {
		if _, seen := byMaterial[f.Material]; !seen {
			order = append(order, f.Material)
		}
		byMaterial[f.Material] = append(byMaterial[f.Material],
			uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	prims := make([]*gltf.Primitive, 0, len(order))
	for _, mat := range order {
		prim := &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, byMaterial[mat])),
		}
		if mat >= 0 && mat < len(c.Materials) {
			prim.Material = gltf.Index(mat)
		}
		prims = append(prims, prim)
	}
	return prims, nil
}

// renormalize nudges a weight row back to an exact sum of 1 after
// float32 narrowing.
func renormalize(w [4]float32) [4]float32 {
	sum := w[0] + w[1] + w[2] + w[3]
	if sum == 0 || math32.Abs(sum-1) <= 1e-7 {
		return w
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// writeTexture embeds the baked texture as a PNG and returns its glTF
// texture index, or -1 when the character has none.
func writeTexture(doc *gltf.Document, c *model.Character) (int, error) {
	if c.Texture == nil {
		return -1, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Texture); err != nil {
		return -1, fmt.Errorf("encode texture: %w", err)
	}
	imgIdx, err := modeler.WriteImage(doc, c.Name+"_basecolor", "image/png", &buf)
	if err != nil {
		return -1, fmt.Errorf("write texture: %w", err)
	}

	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imgIdx)})
	return len(doc.Textures) - 1, nil
}

// writeMaterials maps the character's materials to PBR materials. The
// baked texture, when present, binds to every material's base color.
func writeMaterials(doc *gltf.Document, c *model.Character, texIdx int) {
	for _, m := range c.Materials {
		gm := &gltf.Material{
			Name: m.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2], m.BaseColor[3]},
				MetallicFactor:  gltf.Float(m.Metallic),
				RoughnessFactor: gltf.Float(m.Roughness),
			},
			EmissiveFactor: m.Emissive,
		}
		if texIdx >= 0 {
			gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texIdx}
		}
		doc.Materials = append(doc.Materials, gm)
	}
}

// writeNodes adds the mesh node and one node per bone with rest-pose
// local transforms, and returns the mesh node index. Bone node index =
// meshNode + 1 + bone index, so channel targets are a fixed offset.
func writeNodes(doc *gltf.Document, c *model.Character) int {
	meshNode := len(doc.Nodes)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: c.Name,
		Mesh: gltf.Index(0),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, meshNode)

	base := len(doc.Nodes)
	for _, b := range c.Skeleton.Bones {
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        b.Name,
			Translation: [3]float64{b.Offset.X, b.Offset.Y, b.Offset.Z},
			Rotation:    [4]float64{b.Rotation.X, b.Rotation.Y, b.Rotation.Z, b.Rotation.W},
		})
	}
	for i, b := range c.Skeleton.Bones {
		if b.Parent < 0 {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, base+i)
			continue
		}
		parent := doc.Nodes[base+b.Parent]
		parent.Children = append(parent.Children, base+i)
	}
	return meshNode
}

// writeSkin attaches a skin with inverse bind matrices to the mesh
// node.
func writeSkin(doc *gltf.Document, c *model.Character, meshNode int) {
	ibms := c.Skeleton.InverseBindMatrices()
	mats := make([][4][4]float32, len(ibms))
	for i, m := range ibms {
		mats[i] = m.Array()
	}
	ibmAccessor := modeler.WriteAccessor(doc, 0, mats)

	base := meshNode + 1
	joints := make([]int, c.Skeleton.Len())
	for i := range joints {
		joints[i] = base + i
	}

	doc.Skins = append(doc.Skins, &gltf.Skin{
		Name:                c.Name + "_rig",
		InverseBindMatrices: gltf.Index(ibmAccessor),
		Joints:              joints,
	})
	doc.Nodes[meshNode].Skin = gltf.Index(len(doc.Skins) - 1)
}

// writeAnimations emits one glTF animation per clip, one
// sampler/channel pair per track.
func writeAnimations(doc *gltf.Document, c *model.Character) error {
	// Bone nodes start right after the mesh node (index 0 here, since
	// the mesh node is created first in an empty document).
	const boneBase = 1

	for ci := range c.Clips {
		clip := &c.Clips[ci]
		if err := clip.Validate(); err != nil {
			return fmt.Errorf("clip %q: %w", clip.Name, err)
		}

		ga := &gltf.Animation{Name: clip.Name}
		for ti := range clip.Tracks {
			tr := &clip.Tracks[ti]
			bone := c.Skeleton.Index(tr.Bone)
			if bone < 0 {
				continue
			}

			times := make([]float32, len(tr.Times))
			for i, t := range tr.Times {
				times[i] = float32(t)
			}
			input := modeler.WriteAccessor(doc, 0, times)
			doc.Accessors[input].Min = []float64{tr.Times[0]}
			doc.Accessors[input].Max = []float64{tr.Times[len(tr.Times)-1]}

			var output int
			var path gltf.TRSProperty
			switch tr.Path {
			case model.PathRotation:
				keys := make([][4]float32, len(tr.QuatKeys))
				for i, q := range tr.QuatKeys {
					keys[i] = q.Array()
				}
				output = modeler.WriteAccessor(doc, 0, keys)
				path = gltf.TRSRotation
			case model.PathTranslation, model.PathScale:
				keys := make([][3]float32, len(tr.VecKeys))
				for i, v := range tr.VecKeys {
					keys[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
				}
				output = modeler.WriteAccessor(doc, 0, keys)
				path = gltf.TRSTranslation
				if tr.Path == model.PathScale {
					path = gltf.TRSScale
				}
			}

			sampler := len(ga.Samplers)
			ga.Samplers = append(ga.Samplers, &gltf.AnimationSampler{
				Input:         input,
				Output:        output,
				Interpolation: gltf.InterpolationLinear,
			})
			ga.Channels = append(ga.Channels, &gltf.AnimationChannel{
				Sampler: sampler,
				Target: gltf.AnimationChannelTarget{
					Node: gltf.Index(boneBase + bone),
					Path: path,
				},
			})
		}
		doc.Animations = append(doc.Animations, ga)
	}
	return nil
}
