package export

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/figment3d/figment/pkg/generate"
	"github.com/figment3d/figment/pkg/model"
)

func testCharacter(t *testing.T, preset string) *model.Character {
	t.Helper()
	p, err := generate.LookupPreset(preset)
	if err != nil {
		t.Fatalf("LookupPreset(%s): %v", preset, err)
	}
	c, err := generate.Generate(p)
	if err != nil {
		t.Fatalf("Generate(%s): %v", preset, err)
	}
	return c
}

func TestBuildDocument(t *testing.T) {
	c := testCharacter(t, "villager")

	doc, err := BuildDocument(c)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if len(doc.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(doc.Meshes))
	}
	for _, prim := range doc.Meshes[0].Primitives {
		for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0, gltf.JOINTS_0, gltf.WEIGHTS_0} {
			if _, ok := prim.Attributes[attr]; !ok {
				t.Errorf("primitive missing %s", attr)
			}
		}
		if prim.Indices == nil {
			t.Error("primitive missing indices")
		}
	}

	if len(doc.Materials) != len(c.Materials) {
		t.Errorf("materials = %d, want %d", len(doc.Materials), len(c.Materials))
	}
	if len(doc.Skins) != 1 {
		t.Fatalf("skins = %d, want 1", len(doc.Skins))
	}
	if got := len(doc.Skins[0].Joints); got != c.Skeleton.Len() {
		t.Errorf("skin joints = %d, want %d", got, c.Skeleton.Len())
	}
	if doc.Skins[0].InverseBindMatrices == nil {
		t.Fatal("skin has no inverse bind matrices")
	}
	ibm := doc.Accessors[*doc.Skins[0].InverseBindMatrices]
	if ibm.Type != gltf.AccessorMat4 || int(ibm.Count) != c.Skeleton.Len() {
		t.Errorf("ibm accessor %v x %d, want MAT4 x %d", ibm.Type, ibm.Count, c.Skeleton.Len())
	}
	// Mesh node + one node per bone.
	if got := len(doc.Nodes); got != 1+c.Skeleton.Len() {
		t.Errorf("nodes = %d, want %d", got, 1+c.Skeleton.Len())
	}
	if doc.Nodes[0].Skin == nil {
		t.Error("mesh node has no skin")
	}
	if len(doc.Animations) != len(c.Clips) {
		t.Errorf("animations = %d, want %d", len(doc.Animations), len(c.Clips))
	}
	for _, a := range doc.Animations {
		if len(a.Channels) == 0 || len(a.Channels) != len(a.Samplers) {
			t.Errorf("animation %s: %d channels, %d samplers", a.Name, len(a.Channels), len(a.Samplers))
		}
		for _, ch := range a.Channels {
			if ch.Target.Node == nil || *ch.Target.Node < 1 || *ch.Target.Node >= len(doc.Nodes) {
				t.Errorf("animation %s: channel targets bad node", a.Name)
			}
		}
	}
	if c.Texture != nil && len(doc.Textures) == 0 {
		t.Error("baked texture not embedded")
	}
}

func TestBuildDocumentErrors(t *testing.T) {
	if _, err := BuildDocument(&model.Character{Mesh: model.NewMesh("x")}); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("empty mesh: got %v", err)
	}

	c := testCharacter(t, "scout")
	c.Skeleton = nil
	if _, err := BuildDocument(c); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("no skeleton: got %v", err)
	}
}

func TestExportGLBRoundTrip(t *testing.T) {
	c := testCharacter(t, "imp")
	path := filepath.Join(t.TempDir(), "imp.glb")

	if err := Export(c, path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("reopen glb: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Skins) != 1 {
		t.Errorf("reopened doc: %d meshes, %d skins", len(doc.Meshes), len(doc.Skins))
	}
	if len(doc.Animations) != len(c.Clips) {
		t.Errorf("reopened doc: %d animations, want %d", len(doc.Animations), len(c.Clips))
	}
}

func TestExportUnknownFormat(t *testing.T) {
	c := testCharacter(t, "villager")
	if err := Export(c, "out.fbx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("fbx: got %v", err)
	}
}

func TestOBJ(t *testing.T) {
	c := testCharacter(t, "hound")
	dir := t.TempDir()
	path := filepath.Join(dir, "hound.obj")

	if err := Export(c, path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open obj: %v", err)
	}
	defer f.Close()

	var vCount, vtCount, vnCount, fCount, mtlCount int
	var sawMtllib bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "v "):
			vCount++
		case strings.HasPrefix(line, "vt "):
			vtCount++
		case strings.HasPrefix(line, "vn "):
			vnCount++
		case strings.HasPrefix(line, "f "):
			fCount++
		case strings.HasPrefix(line, "usemtl "):
			mtlCount++
		case strings.HasPrefix(line, "mtllib "):
			sawMtllib = true
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	want := c.Mesh.VertexCount()
	if vCount != want || vtCount != want || vnCount != want {
		t.Errorf("v/vt/vn = %d/%d/%d, want %d each", vCount, vtCount, vnCount, want)
	}
	if fCount != c.Mesh.TriangleCount() {
		t.Errorf("faces = %d, want %d", fCount, c.Mesh.TriangleCount())
	}
	if !sawMtllib {
		t.Error("no mtllib line")
	}
	if mtlCount == 0 {
		t.Error("no usemtl lines")
	}

	if _, err := os.Stat(filepath.Join(dir, "hound.mtl")); err != nil {
		t.Errorf("mtl sidecar: %v", err)
	}
	if c.Texture != nil {
		if _, err := os.Stat(filepath.Join(dir, "hound.png")); err != nil {
			t.Errorf("texture png: %v", err)
		}
	}
}

func TestBlenderBoneName(t *testing.T) {
	tests := map[string]string{
		"hips":         "Hips",
		"chest":        "Spine2",
		"upper_arm.L":  "LeftArm",
		"forearm.R":    "RightForeArm",
		"thigh.L":      "LeftUpLeg",
		"tail_tip":     "TailTip",
		"wing.R":       "RightWing",
		"antenna":      "Antenna",
		"front_leg.L":  "LeftFrontLeg",
		"front_foot.R": "RightFrontFoot",
	}
	for in, want := range tests {
		if got := BlenderBoneName(in); got != want {
			t.Errorf("BlenderBoneName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBlenderGLB(t *testing.T) {
	c := testCharacter(t, "villager")
	path := filepath.Join(t.TempDir(), "villager_blender.glb")

	if err := BlenderGLB(c, path); err != nil {
		t.Fatalf("BlenderGLB: %v", err)
	}

	// Original character keeps its own bone names.
	if c.Skeleton.Index("hips") < 0 {
		t.Error("BlenderGLB renamed the caller's skeleton")
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("reopen glb: %v", err)
	}
	var sawLeftArm bool
	for _, n := range doc.Nodes {
		if strings.Contains(n.Name, ".L") || strings.Contains(n.Name, ".R") {
			t.Errorf("node %q kept a side suffix", n.Name)
		}
		if n.Name == "LeftArm" {
			sawLeftArm = true
		}
	}
	if !sawLeftArm {
		t.Error("no LeftArm node in Blender export")
	}
}
