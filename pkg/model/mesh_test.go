package model

import (
	"math"
	"testing"

	"github.com/figment3d/figment/pkg/math3d"
)

// quad returns a unit quad in the XY plane (two triangles, +Z facing).
func quad() *Mesh {
	m := NewMesh("quad")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(1, 1, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: -1},
		{V: [3]int{0, 2, 3}, Material: -1},
	}
	return m
}

func TestCalculateBounds(t *testing.T) {
	m := quad()
	m.CalculateBounds()

	if m.BoundsMin != math3d.V3(0, 0, 0) {
		t.Errorf("BoundsMin = %v", m.BoundsMin)
	}
	if m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", m.BoundsMax)
	}
	if c := m.Center(); c != math3d.V3(0.5, 0.5, 0) {
		t.Errorf("Center = %v", c)
	}
}

func TestCalculateBoundsEmptyMesh(t *testing.T) {
	m := NewMesh("empty")
	m.CalculateBounds()
	if m.BoundsMin != math3d.Zero3() || m.BoundsMax != math3d.Zero3() {
		t.Errorf("empty mesh bounds = %v..%v, want zero", m.BoundsMin, m.BoundsMax)
	}
}

func TestSmoothNormalsPointOutward(t *testing.T) {
	m := quad()
	m.CalculateSmoothNormals()

	for i, v := range m.Vertices {
		if v.Normal.Distance(math3d.V3(0, 0, 1)) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestFlatNormalsMatchFaces(t *testing.T) {
	m := quad()
	m.CalculateFlatNormals()
	if m.Vertices[0].Normal.Distance(math3d.V3(0, 0, 1)) > 1e-9 {
		t.Errorf("flat normal = %v, want +Z", m.Vertices[0].Normal)
	}
}

func TestMergeOffsetsIndicesAndAssignsMaterial(t *testing.T) {
	a := quad()
	b := quad()
	b.Transform(math3d.Translate(math3d.V3(0, 0, 5)))

	combined := NewMesh("combined")
	combined.Merge(a, 0)
	combined.Merge(b, 2)

	if combined.VertexCount() != 8 {
		t.Fatalf("VertexCount = %d, want 8", combined.VertexCount())
	}
	if combined.TriangleCount() != 4 {
		t.Fatalf("TriangleCount = %d, want 4", combined.TriangleCount())
	}

	// Second part's faces must index the offset vertices.
	f := combined.Faces[2]
	if f.V[0] != 4 || f.V[1] != 5 || f.V[2] != 6 {
		t.Errorf("merged face indices = %v", f.V)
	}
	if f.Material != 2 {
		t.Errorf("merged face material = %d, want 2", f.Material)
	}
	if combined.Faces[0].Material != 0 {
		t.Errorf("first part material = %d, want 0", combined.Faces[0].Material)
	}
}

func TestTransformMovesVerticesAndBounds(t *testing.T) {
	m := quad()
	m.Transform(math3d.Translate(math3d.V3(10, 0, 0)))

	if m.Vertices[0].Position.X != 10 {
		t.Errorf("vertex 0 X = %v, want 10", m.Vertices[0].Position.X)
	}
	if m.BoundsMin.X != 10 || m.BoundsMax.X != 11 {
		t.Errorf("bounds X = %v..%v, want 10..11", m.BoundsMin.X, m.BoundsMax.X)
	}
}

func TestTransformRenormalizesNormals(t *testing.T) {
	m := quad()
	m.CalculateSmoothNormals()
	m.Transform(math3d.Scale(math3d.V3(3, 3, 3)))

	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Errorf("vertex %d normal length = %v after scale", i, v.Normal.Len())
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	m := quad()
	c := m.Clone()
	c.Vertices[0].Position = math3d.V3(9, 9, 9)
	if m.Vertices[0].Position == c.Vertices[0].Position {
		t.Error("clone shares vertex storage")
	}
}

func TestPositionsOrder(t *testing.T) {
	m := quad()
	pos := m.Positions()
	if len(pos) != 4 || pos[2] != math3d.V3(1, 1, 0) {
		t.Errorf("Positions() = %v", pos)
	}
}
