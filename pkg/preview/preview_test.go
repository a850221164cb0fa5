package preview

import (
	"math"
	"testing"

	"github.com/figment3d/figment/pkg/generate"
	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.DrawLine(0, 0, 7, 7, colorMesh)

	for i := range 8 {
		if fb.GetPixel(i, i) != colorMesh {
			t.Errorf("diagonal pixel (%d,%d) not set", i, i)
		}
	}
	// Out-of-bounds writes are dropped, not panics.
	fb.DrawLine(-5, -5, 20, 20, colorMesh)
}

func TestCameraProjectsOriginToCenter(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.LookAt(math3d.Zero3())

	x, y, ok := cam.WorldToScreen(math3d.Zero3(), 100, 100)
	if !ok {
		t.Fatal("origin not visible")
	}
	if math.Abs(x-50) > 1 || math.Abs(y-50) > 1 {
		t.Errorf("origin projects to (%f,%f), want near (50,50)", x, y)
	}

	if _, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 10), 100, 100); ok {
		t.Error("point behind camera reported visible")
	}
}

func TestCameraOffFrustumKeepsRealCoordinates(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.LookAt(math3d.Zero3())

	// A point well to the right of the frustum is invisible but must
	// still project past the right screen edge, not to the origin, so
	// partially visible edges draw toward the correct side.
	x, y, ok := cam.WorldToScreen(math3d.V3(10, 0, 0), 100, 100)
	if ok {
		t.Error("off-frustum point reported visible")
	}
	if x <= 100 {
		t.Errorf("off-frustum x = %f, want > 100", x)
	}
	if math.Abs(y-50) > 1 {
		t.Errorf("off-frustum y = %f, want near 50", y)
	}

	// Left side mirrors.
	x, _, ok = cam.WorldToScreen(math3d.V3(-10, 0, 0), 100, 100)
	if ok || x >= 0 {
		t.Errorf("off-frustum left: x = %f ok = %v, want x < 0 and invisible", x, ok)
	}
}

func TestSkinnedPositionsFollowBones(t *testing.T) {
	skel := model.NewSkeleton()
	if _, err := skel.AddBone("root", "", math3d.Zero3()); err != nil {
		t.Fatal(err)
	}

	mesh := model.NewMesh("dot")
	mesh.Vertices = append(mesh.Vertices, model.Vertex{
		Position: math3d.V3(1, 0, 0),
		Joints:   [4]uint16{0, 0, 0, 0},
		Weights:  [4]float32{1, 0, 0, 0},
	})

	pose := skel.RestPose()
	pose[0].Translation = math3d.V3(0, 2, 0)

	out := SkinnedPositions(mesh, skel, pose)
	want := math3d.V3(1, 2, 0)
	if out[0].Distance(want) > 1e-9 {
		t.Errorf("skinned position %v, want %v", out[0], want)
	}
}

func TestSkinnedPositionsRestPoseIsIdentity(t *testing.T) {
	p, _ := generate.LookupPreset("villager")
	c, err := generate.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out := SkinnedPositions(c.Mesh, c.Skeleton, c.Skeleton.RestPose())
	for i, v := range c.Mesh.Vertices {
		if out[i].Distance(v.Position) > 1e-6 {
			t.Fatalf("vertex %d moved under rest pose: %v -> %v", i, v.Position, out[i])
		}
	}
}

func TestMeshEdgesUnique(t *testing.T) {
	mesh := model.NewMesh("quad")
	mesh.Vertices = make([]model.Vertex, 4)
	mesh.Faces = []model.Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
	}

	edges := MeshEdges(mesh)
	// Two triangles sharing edge 0-2: 5 unique edges.
	if len(edges) != 5 {
		t.Errorf("edges = %d, want 5", len(edges))
	}
	for _, e := range edges {
		if e[0] >= e[1] {
			t.Errorf("edge %v not ordered", e)
		}
	}
}

func TestViewerDrawsPixels(t *testing.T) {
	p, _ := generate.LookupPreset("scout")
	c, err := generate.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	v := NewViewer(c, 30)
	fb := NewFramebuffer(80, 48)
	cam := NewCamera()
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.LookAt(math3d.Zero3())

	v.DrawFrame(fb, cam)

	var lit int
	for _, px := range fb.Pixels {
		if px.A != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("viewer drew nothing")
	}
}

func TestViewerCycleClip(t *testing.T) {
	p, _ := generate.LookupPreset("imp") // three clips
	c, err := generate.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	v := NewViewer(c, 30)
	names := []string{v.ClipName()}
	for range len(c.Clips) {
		v.CycleClip()
		names = append(names, v.ClipName())
	}

	if names[len(names)-1] != "rest" {
		t.Errorf("cycle did not wrap to rest: %v", names)
	}
	if names[0] != c.Clips[0].Name {
		t.Errorf("viewer did not start on first clip: %v", names)
	}
}

func TestViewerAdvanceLoops(t *testing.T) {
	p, _ := generate.LookupPreset("villager")
	c, err := generate.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	v := NewViewer(c, 30)
	d := c.Clips[0].Duration()
	v.Advance(d * 2.5)
	if v.clipTime < 0 || v.clipTime > d {
		t.Errorf("clip time %f outside [0,%f]", v.clipTime, d)
	}
}
