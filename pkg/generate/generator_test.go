package generate

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/figment3d/figment/pkg/model"
)

func TestGenerateEveryBuiltinPreset(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, err := LookupPreset(name)
			if err != nil {
				t.Fatalf("LookupPreset: %v", err)
			}
			c, err := Generate(p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			if c.Name != name || c.Kind != p.Kind {
				t.Errorf("character %q/%q, want %q/%q", c.Name, c.Kind, name, p.Kind)
			}
			if c.Mesh.VertexCount() == 0 || c.Mesh.TriangleCount() == 0 {
				t.Fatal("empty mesh")
			}
			if c.Skeleton.Len() == 0 {
				t.Fatal("empty skeleton")
			}
			if len(c.Materials) != 3 {
				t.Errorf("materials = %d, want 3", len(c.Materials))
			}
			if len(c.Clips) != len(p.Animations) {
				t.Errorf("clips = %d, want %d", len(c.Clips), len(p.Animations))
			}
			for _, anim := range p.Animations {
				if c.Clip(anim) == nil {
					t.Errorf("clip %q not attached", anim)
				}
			}
			if p.Texture.Pattern != "" && c.Texture == nil {
				t.Error("preset names a pattern but no texture was baked")
			}

			// Every vertex is skinned: weights normalized, joints in range.
			for i, v := range c.Mesh.Vertices {
				var sum float32
				for lane := range model.MaxInfluences {
					sum += v.Weights[lane]
					if int(v.Joints[lane]) >= c.Skeleton.Len() {
						t.Fatalf("vertex %d joint %d out of range", i, v.Joints[lane])
					}
				}
				if math.Abs(float64(sum)-1) > 1e-6 {
					t.Fatalf("vertex %d weights sum to %f", i, sum)
				}
			}

			// Faces only reference declared materials.
			for i, f := range c.Mesh.Faces {
				if f.Material < 0 || f.Material >= len(c.Materials) {
					t.Fatalf("face %d material %d out of range", i, f.Material)
				}
			}

			for _, clip := range c.Clips {
				if err := clip.Validate(); err != nil {
					t.Errorf("clip %s: %v", clip.Name, err)
				}
				for _, tr := range clip.Tracks {
					if c.Skeleton.Index(tr.Bone) < 0 {
						t.Errorf("clip %s targets missing bone %q", clip.Name, tr.Bone)
					}
				}
			}
		})
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	p, _ := LookupPreset("imp")

	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Mesh.VertexCount() != b.Mesh.VertexCount() {
		t.Fatalf("vertex counts differ: %d vs %d", a.Mesh.VertexCount(), b.Mesh.VertexCount())
	}
	for i := range a.Mesh.Vertices {
		if a.Mesh.Vertices[i].Position != b.Mesh.Vertices[i].Position {
			t.Fatalf("vertex %d differs between runs", i)
		}
	}

	p.Seed = 999
	c, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c.Mesh.VertexCount() == a.Mesh.VertexCount() {
		// Feature counts are seed-driven; identical counts across seeds
		// are possible but identical geometry is not required here, so
		// only flag when everything matches.
		same := true
		for i := range a.Mesh.Vertices {
			if a.Mesh.Vertices[i].Position != c.Mesh.Vertices[i].Position {
				same = false
				break
			}
		}
		if same {
			t.Error("different seeds produced identical monsters")
		}
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	if _, err := Generate(Preset{Name: "x", Kind: "blob"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind: got %v", err)
	}
	if _, err := New("blob"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(blob): got %v", err)
	}
}

func TestDefaultPresetFor(t *testing.T) {
	for _, kind := range Kinds() {
		p, err := DefaultPresetFor(kind)
		if err != nil {
			t.Fatalf("DefaultPresetFor(%s): %v", kind, err)
		}
		if p.Kind != kind {
			t.Errorf("DefaultPresetFor(%s) returned kind %s", kind, p.Kind)
		}
	}
	if _, err := DefaultPresetFor("blob"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("DefaultPresetFor(blob): got %v", err)
	}
}

func TestLoadPresetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	doc := `
name = "stalker"
kind = "creature"
seed = 11
animations = ["idle"]

[proportions]
Height = 0.8
LegRatio = 0.5
ArmRatio = 0.3
ShoulderWidth = 0.3
HipWidth = 0.25
NeckLength = 0.1
HeadSize = 0.2
BodyLength = 1.0
TailLength = 0.6

[materials]
primary = "chitin"
secondary = "slime"
accent = "glow"

[texture]
pattern = "noise"
primary = "#445566"
secondary = "#112233"
scale = 8
octaves = 3
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("LoadPresetFile: %v", err)
	}
	if p.Name != "stalker" || p.Kind != KindCreature || p.Proportions.Height != 0.8 {
		t.Errorf("loaded preset = %+v", p)
	}

	if _, err := Generate(p); err != nil {
		t.Errorf("Generate(loaded): %v", err)
	}
}

func TestLoadPresetFileRejectsBadKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("name = \"x\"\nkind = \"blob\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresetFile(path); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("bad kind: got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"#ffffff", false},
		{"#00FF7f", false},
		{"#12345678", false},
		{"#1234", true},
		{"123456", true},
		{"#12345g", true},
		{"", true},
	}
	for _, tc := range tests {
		_, err := ParseHexColor(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseHexColor(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}

	c, _ := ParseHexColor("#8a2f2f")
	if c.R != 0x8a || c.G != 0x2f || c.B != 0x2f || c.A != 255 {
		t.Errorf("ParseHexColor(#8a2f2f) = %v", c)
	}
}
