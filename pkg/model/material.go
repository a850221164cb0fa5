package model

// Material is a PBR metallic-roughness material.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
	Emissive  [3]float64 // Emissive RGB in 0-1 range
}

// builtinMaterials is the named material library. Generators reference
// materials by name through presets; LookupMaterial resolves them.
var builtinMaterials = map[string]Material{
	"skin":    {Name: "skin", BaseColor: [4]float64{0.87, 0.67, 0.53, 1}, Metallic: 0, Roughness: 0.85},
	"hide":    {Name: "hide", BaseColor: [4]float64{0.45, 0.32, 0.2, 1}, Metallic: 0, Roughness: 0.95},
	"chitin":  {Name: "chitin", BaseColor: [4]float64{0.18, 0.22, 0.12, 1}, Metallic: 0.1, Roughness: 0.4},
	"slime":   {Name: "slime", BaseColor: [4]float64{0.3, 0.75, 0.35, 0.85}, Metallic: 0, Roughness: 0.15},
	"bone":    {Name: "bone", BaseColor: [4]float64{0.92, 0.89, 0.8, 1}, Metallic: 0, Roughness: 0.7},
	"metal":   {Name: "metal", BaseColor: [4]float64{0.62, 0.64, 0.68, 1}, Metallic: 1, Roughness: 0.35},
	"rust":    {Name: "rust", BaseColor: [4]float64{0.48, 0.25, 0.12, 1}, Metallic: 0.6, Roughness: 0.8},
	"plastic": {Name: "plastic", BaseColor: [4]float64{0.85, 0.85, 0.88, 1}, Metallic: 0, Roughness: 0.5},
	"glow":    {Name: "glow", BaseColor: [4]float64{0.1, 0.1, 0.1, 1}, Metallic: 0, Roughness: 0.6, Emissive: [3]float64{0.2, 0.9, 1}},
	"cloth":   {Name: "cloth", BaseColor: [4]float64{0.35, 0.3, 0.5, 1}, Metallic: 0, Roughness: 1},
}

// LookupMaterial returns the builtin material with the given name.
// Unknown names fall back to a neutral gray so a typo in a preset
// degrades visibly instead of failing generation.
func LookupMaterial(name string) Material {
	if m, ok := builtinMaterials[name]; ok {
		return m
	}
	return Material{Name: name, BaseColor: [4]float64{0.5, 0.5, 0.5, 1}, Metallic: 0, Roughness: 0.9}
}

// MaterialNames returns the names of all builtin materials.
func MaterialNames() []string {
	names := make([]string, 0, len(builtinMaterials))
	for name := range builtinMaterials {
		names = append(names, name)
	}
	return names
}
