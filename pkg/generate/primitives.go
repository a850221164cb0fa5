// Package generate builds rigged characters from preset tables of
// proportions: primitives are placed per body plan, a skeleton preset
// is attached, skin weights are computed, and materials, textures, and
// animation clips are assigned.
package generate

import (
	"math"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// Default tessellation levels for curved primitives.
const (
	defaultRings  = 12
	defaultSlices = 16
)

// Box builds an axis-aligned box centered at the origin with flat
// per-face normals.
func Box(width, height, depth float64) *model.Mesh {
	m := model.NewMesh("box")
	hw, hh, hd := width/2, height/2, depth/2

	// Each face gets its own four vertices so normals stay hard.
	faces := []struct {
		corners [4]math3d.Vec3
	}{
		// +X
		{[4]math3d.Vec3{{X: hw, Y: -hh, Z: -hd}, {X: hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: hd}, {X: hw, Y: -hh, Z: hd}}},
		// -X
		{[4]math3d.Vec3{{X: -hw, Y: -hh, Z: hd}, {X: -hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: -hd}, {X: -hw, Y: -hh, Z: -hd}}},
		// +Y
		{[4]math3d.Vec3{{X: -hw, Y: hh, Z: hd}, {X: hw, Y: hh, Z: hd}, {X: hw, Y: hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}}},
		// -Y
		{[4]math3d.Vec3{{X: -hw, Y: -hh, Z: -hd}, {X: hw, Y: -hh, Z: -hd}, {X: hw, Y: -hh, Z: hd}, {X: -hw, Y: -hh, Z: hd}}},
		// +Z
		{[4]math3d.Vec3{{X: -hw, Y: -hh, Z: hd}, {X: hw, Y: -hh, Z: hd}, {X: hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: hd}}},
		// -Z
		{[4]math3d.Vec3{{X: hw, Y: -hh, Z: -hd}, {X: -hw, Y: -hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: -hd}}},
	}

	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	for _, f := range faces {
		base := len(m.Vertices)
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, model.Vertex{Position: c, UV: uvs[i]})
		}
		m.Faces = append(m.Faces,
			model.Face{V: [3]int{base, base + 1, base + 2}, Material: -1},
			model.Face{V: [3]int{base, base + 2, base + 3}, Material: -1},
		)
	}

	m.CalculateFlatNormals()
	m.CalculateBounds()
	return m
}

// Sphere builds a UV sphere centered at the origin.
func Sphere(radius float64, rings, slices int) *model.Mesh {
	if rings < 2 {
		rings = 2
	}
	if slices < 3 {
		slices = 3
	}

	m := model.NewMesh("sphere")

	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= slices; s++ {
			phi := 2 * math.Pi * float64(s) / float64(slices)
			m.Vertices = append(m.Vertices, model.Vertex{
				Position: math3d.V3(
					radius*math.Sin(theta)*math.Cos(phi),
					radius*math.Cos(theta),
					radius*math.Sin(theta)*math.Sin(phi),
				),
				UV: math3d.V2(float64(s)/float64(slices), 1-float64(r)/float64(rings)),
			})
		}
	}

	stride := slices + 1
	for r := range rings {
		for s := range slices {
			a := r*stride + s
			b := a + 1
			c := a + stride + 1
			d := a + stride
			m.Faces = append(m.Faces,
				model.Face{V: [3]int{a, b, c}, Material: -1},
				model.Face{V: [3]int{a, c, d}, Material: -1},
			)
		}
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

// Cylinder builds a capped cylinder centered at the origin, axis
// along Y.
func Cylinder(radius, height float64, slices int) *model.Mesh {
	if slices < 3 {
		slices = 3
	}

	m := model.NewMesh("cylinder")
	hh := height / 2

	// Side wall rings (top then bottom), with a seam vertex for UVs.
	for _, y := range []float64{hh, -hh} {
		v := 1.0
		if y < 0 {
			v = 0
		}
		for s := 0; s <= slices; s++ {
			phi := 2 * math.Pi * float64(s) / float64(slices)
			m.Vertices = append(m.Vertices, model.Vertex{
				Position: math3d.V3(radius*math.Cos(phi), y, radius*math.Sin(phi)),
				UV:       math3d.V2(float64(s)/float64(slices), v),
			})
		}
	}

	stride := slices + 1
	for s := range slices {
		a := s
		b := s + 1
		c := stride + s + 1
		d := stride + s
		m.Faces = append(m.Faces,
			model.Face{V: [3]int{a, b, c}, Material: -1},
			model.Face{V: [3]int{a, c, d}, Material: -1},
		)
	}

	// Caps: center fans with their own rim vertices.
	for _, end := range []struct {
		y    float64
		flip bool
	}{{hh, false}, {-hh, true}} {
		center := len(m.Vertices)
		m.Vertices = append(m.Vertices, model.Vertex{
			Position: math3d.V3(0, end.y, 0),
			UV:       math3d.V2(0.5, 0.5),
		})
		rim := len(m.Vertices)
		for s := 0; s <= slices; s++ {
			phi := 2 * math.Pi * float64(s) / float64(slices)
			m.Vertices = append(m.Vertices, model.Vertex{
				Position: math3d.V3(radius*math.Cos(phi), end.y, radius*math.Sin(phi)),
				UV:       math3d.V2(0.5+0.5*math.Cos(phi), 0.5+0.5*math.Sin(phi)),
			})
		}
		for s := range slices {
			if end.flip {
				m.Faces = append(m.Faces, model.Face{V: [3]int{center, rim + s, rim + s + 1}, Material: -1})
			} else {
				m.Faces = append(m.Faces, model.Face{V: [3]int{center, rim + s + 1, rim + s}, Material: -1})
			}
		}
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

// Cone builds a cone centered at the origin, apex up, axis along Y.
func Cone(radius, height float64, slices int) *model.Mesh {
	if slices < 3 {
		slices = 3
	}

	m := model.NewMesh("cone")
	hh := height / 2

	apex := len(m.Vertices)
	m.Vertices = append(m.Vertices, model.Vertex{
		Position: math3d.V3(0, hh, 0),
		UV:       math3d.V2(0.5, 1),
	})

	rim := len(m.Vertices)
	for s := 0; s <= slices; s++ {
		phi := 2 * math.Pi * float64(s) / float64(slices)
		m.Vertices = append(m.Vertices, model.Vertex{
			Position: math3d.V3(radius*math.Cos(phi), -hh, radius*math.Sin(phi)),
			UV:       math3d.V2(float64(s)/float64(slices), 0),
		})
	}
	for s := range slices {
		m.Faces = append(m.Faces, model.Face{V: [3]int{apex, rim + s + 1, rim + s}, Material: -1})
	}

	// Bottom cap.
	center := len(m.Vertices)
	m.Vertices = append(m.Vertices, model.Vertex{
		Position: math3d.V3(0, -hh, 0),
		UV:       math3d.V2(0.5, 0.5),
	})
	for s := range slices {
		m.Faces = append(m.Faces, model.Face{V: [3]int{center, rim + s, rim + s + 1}, Material: -1})
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

// Capsule builds a cylinder with hemispherical end caps, axis along Y.
// height is the cylindrical section; total height is height+2*radius.
func Capsule(radius, height float64, rings, slices int) *model.Mesh {
	if rings < 2 {
		rings = 2
	}
	if rings%2 != 0 {
		rings++
	}
	if slices < 3 {
		slices = 3
	}

	m := model.NewMesh("capsule")
	hh := height / 2

	// Sphere rings, with the equator emitted twice: once shifted up to
	// close the top hemisphere, once shifted down, leaving the wall
	// band between them.
	type row struct {
		theta  float64
		offset float64
	}
	rows := make([]row, 0, rings+2)
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		switch {
		case r < rings/2:
			rows = append(rows, row{theta, hh})
		case r == rings/2:
			rows = append(rows, row{theta, hh}, row{theta, -hh})
		default:
			rows = append(rows, row{theta, -hh})
		}
	}

	for i, rw := range rows {
		for s := 0; s <= slices; s++ {
			phi := 2 * math.Pi * float64(s) / float64(slices)
			m.Vertices = append(m.Vertices, model.Vertex{
				Position: math3d.V3(
					radius*math.Sin(rw.theta)*math.Cos(phi),
					radius*math.Cos(rw.theta)+rw.offset,
					radius*math.Sin(rw.theta)*math.Sin(phi),
				),
				UV: math3d.V2(float64(s)/float64(slices), 1-float64(i)/float64(len(rows)-1)),
			})
		}
	}

	stride := slices + 1
	for i := 0; i < len(rows)-1; i++ {
		for s := range slices {
			a := i*stride + s
			b := a + 1
			c := a + stride + 1
			d := a + stride
			m.Faces = append(m.Faces,
				model.Face{V: [3]int{a, b, c}, Material: -1},
				model.Face{V: [3]int{a, c, d}, Material: -1},
			)
		}
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}
