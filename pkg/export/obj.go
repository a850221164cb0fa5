package export

import (
	"bufio"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/figment3d/figment/pkg/model"
)

// OBJ writes a character as Wavefront OBJ with an MTL sidecar and,
// when a texture was baked, a PNG next to them. OBJ cannot carry
// skinning or animation; both are dropped.
func OBJ(c *model.Character, path string) error {
	if c.Mesh == nil || len(c.Mesh.Vertices) == 0 || len(c.Mesh.Faces) == 0 {
		return fmt.Errorf("export %s: %w", path, ErrEmptyMesh)
	}
	if len(c.Clips) > 0 || c.Skeleton != nil {
		slog.Debug("obj export drops rig and animation", "character", c.Name, "clips", len(c.Clips))
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	mtlPath := base + ".mtl"

	texName := ""
	if c.Texture != nil {
		texName = filepath.Base(base) + ".png"
		if err := writePNG(base+".png", c); err != nil {
			return err
		}
	}

	if err := writeMTL(mtlPath, c, texName); err != nil {
		return err
	}
	return writeOBJ(path, filepath.Base(mtlPath), c)
}

func writePNG(path string, c *model.Character) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export texture: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, c.Texture); err != nil {
		return fmt.Errorf("export texture: %w", err)
	}
	return nil
}

func writeMTL(path string, c *model.Character, texName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export mtl: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# figment material library for %s\n", c.Name)
	for i, m := range c.Materials {
		fmt.Fprintf(w, "\nnewmtl %s\n", mtlName(c, i))
		fmt.Fprintf(w, "Kd %.4f %.4f %.4f\n", m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
		fmt.Fprintf(w, "Ke %.4f %.4f %.4f\n", m.Emissive[0], m.Emissive[1], m.Emissive[2])
		fmt.Fprintf(w, "d %.4f\n", m.BaseColor[3])
		// Rough PBR-to-Phong mapping: shininess from roughness.
		ns := (1 - m.Roughness) * 900
		fmt.Fprintf(w, "Ns %.1f\n", ns)
		fmt.Fprintf(w, "Ks %.4f %.4f %.4f\n", m.Metallic, m.Metallic, m.Metallic)
		if texName != "" {
			fmt.Fprintf(w, "map_Kd %s\n", texName)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export mtl: %w", err)
	}
	return nil
}

// mtlName disambiguates materials that share a name.
func mtlName(c *model.Character, i int) string {
	return fmt.Sprintf("%s_%d", c.Materials[i].Name, i)
}

func writeOBJ(path, mtlFile string, c *model.Character) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export obj: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# figment %s (%s)\n", c.Name, c.Kind)
	fmt.Fprintf(w, "mtllib %s\n", mtlFile)
	fmt.Fprintf(w, "o %s\n", c.Name)

	for _, v := range c.Mesh.Vertices {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v.Position.X, v.Position.Y, v.Position.Z)
	}
	for _, v := range c.Mesh.Vertices {
		fmt.Fprintf(w, "vt %.6f %.6f\n", v.UV.X, v.UV.Y)
	}
	for _, v := range c.Mesh.Vertices {
		fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}

	// Faces grouped by material; OBJ indices are one-based.
	current := -2
	for _, face := range c.Mesh.Faces {
		if face.Material != current {
			current = face.Material
			if current >= 0 && current < len(c.Materials) {
				fmt.Fprintf(w, "usemtl %s\n", mtlName(c, current))
			}
		}
		a, b, cc := face.V[0]+1, face.V[1]+1, face.V[2]+1
		fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, cc, cc, cc)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export obj: %w", err)
	}
	return nil
}
