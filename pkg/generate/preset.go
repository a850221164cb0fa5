package generate

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/figment3d/figment/pkg/rig"
	"github.com/figment3d/figment/pkg/texture"
)

// Preset errors.
var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrUnknownKind   = errors.New("unknown character kind")
	ErrBadColor      = errors.New("bad hex color")
)

// Character kinds.
const (
	KindHumanoid = "humanoid"
	KindCreature = "creature"
	KindMonster  = "monster"
	KindMech     = "mech"
)

// Kinds lists the supported character kinds.
func Kinds() []string {
	return []string{KindHumanoid, KindCreature, KindMonster, KindMech}
}

// PresetMaterials names the material slots used by the generators.
type PresetMaterials struct {
	Primary   string `toml:"primary"`   // Body surface
	Secondary string `toml:"secondary"` // Limbs/underside
	Accent    string `toml:"accent"`    // Horns, eyes, trim
}

// PresetTexture describes the baked base-color texture. Colors are
// "#RRGGBB" hex strings.
type PresetTexture struct {
	Pattern   string `toml:"pattern"` // "", solid, checker, stripes, grid, noise
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
	Scale     int    `toml:"scale"`
	Octaves   int    `toml:"octaves"`
	Size      int    `toml:"size"` // Square texture edge in pixels
}

// Preset is a named, fixed bundle of generation parameters.
type Preset struct {
	Name        string          `toml:"name"`
	Kind        string          `toml:"kind"`
	Seed        int64           `toml:"seed"`
	Proportions rig.Proportions `toml:"proportions"`
	Materials   PresetMaterials `toml:"materials"`
	Texture     PresetTexture   `toml:"texture"`
	Animations  []string        `toml:"animations"`
}

// Validate checks the preset references a known kind.
func (p *Preset) Validate() error {
	switch p.Kind {
	case KindHumanoid, KindCreature, KindMonster, KindMech:
		return nil
	default:
		return fmt.Errorf("preset %q: kind %q: %w", p.Name, p.Kind, ErrUnknownKind)
	}
}

// TextureRecipe converts the preset's texture block into a recipe.
// An empty pattern means no baked texture.
func (p *Preset) TextureRecipe() (texture.Recipe, bool, error) {
	if p.Texture.Pattern == "" {
		return texture.Recipe{}, false, nil
	}

	primary, err := ParseHexColor(p.Texture.Primary)
	if err != nil {
		return texture.Recipe{}, false, fmt.Errorf("preset %q: primary: %w", p.Name, err)
	}
	secondary, err := ParseHexColor(p.Texture.Secondary)
	if err != nil {
		return texture.Recipe{}, false, fmt.Errorf("preset %q: secondary: %w", p.Name, err)
	}

	return texture.Recipe{
		Pattern:   texture.Pattern(p.Texture.Pattern),
		Primary:   primary,
		Secondary: secondary,
		Scale:     p.Texture.Scale,
		Octaves:   p.Texture.Octaves,
		Seed:      p.Seed,
	}, true, nil
}

// TextureSize returns the baked texture edge length, defaulting to 256.
func (p *Preset) TextureSize() int {
	if p.Texture.Size > 0 {
		return p.Texture.Size
	}
	return 256
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into a color.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 && len(s) != 9 {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	if s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, ErrBadColor)
	}

	hex := func(i int) (uint8, error) {
		var v uint8
		for _, c := range []byte{s[i], s[i+1]} {
			v <<= 4
			switch {
			case c >= '0' && c <= '9':
				v |= c - '0'
			case c >= 'a' && c <= 'f':
				v |= c - 'a' + 10
			case c >= 'A' && c <= 'F':
				v |= c - 'A' + 10
			default:
				return 0, fmt.Errorf("%q: %w", s, ErrBadColor)
			}
		}
		return v, nil
	}

	r, err := hex(1)
	if err != nil {
		return color.RGBA{}, err
	}
	g, err := hex(3)
	if err != nil {
		return color.RGBA{}, err
	}
	b, err := hex(5)
	if err != nil {
		return color.RGBA{}, err
	}
	a := uint8(255)
	if len(s) == 9 {
		if a, err = hex(7); err != nil {
			return color.RGBA{}, err
		}
	}
	return color.RGBA{r, g, b, a}, nil
}

// builtinPresets is the generation shortcut table.
var builtinPresets = map[string]Preset{
	"villager": {
		Name: "villager", Kind: KindHumanoid, Seed: 1,
		Proportions: rig.DefaultProportions(),
		Materials:   PresetMaterials{Primary: "skin", Secondary: "cloth", Accent: "bone"},
		Texture:     PresetTexture{Pattern: "noise", Primary: "#deaa87", Secondary: "#a97a55", Scale: 16, Octaves: 3},
		Animations:  []string{"idle", "walk"},
	},
	"brute": {
		Name: "brute", Kind: KindHumanoid, Seed: 2,
		Proportions: rig.Proportions{
			Height: 2.2, LegRatio: 0.42, ArmRatio: 0.46,
			ShoulderWidth: 0.8, HipWidth: 0.42, NeckLength: 0.06,
			HeadSize: 0.26, BodyLength: 1.1, TailLength: 0.6,
		},
		Materials:  PresetMaterials{Primary: "hide", Secondary: "hide", Accent: "bone"},
		Texture:    PresetTexture{Pattern: "noise", Primary: "#8a6b4f", Secondary: "#5a4332", Scale: 12, Octaves: 4},
		Animations: []string{"idle", "walk"},
	},
	"hound": {
		Name: "hound", Kind: KindCreature, Seed: 3,
		Proportions: rig.Proportions{
			Height: 0.9, LegRatio: 0.5, ArmRatio: 0.3,
			ShoulderWidth: 0.3, HipWidth: 0.28, NeckLength: 0.14,
			HeadSize: 0.22, BodyLength: 1.0, TailLength: 0.5,
		},
		Materials:  PresetMaterials{Primary: "hide", Secondary: "hide", Accent: "bone"},
		Texture:    PresetTexture{Pattern: "noise", Primary: "#6b4f35", Secondary: "#3f2d1d", Scale: 10, Octaves: 3},
		Animations: []string{"idle", "walk"},
	},
	"lizard": {
		Name: "lizard", Kind: KindCreature, Seed: 4,
		Proportions: rig.Proportions{
			Height: 0.6, LegRatio: 0.45, ArmRatio: 0.25,
			ShoulderWidth: 0.26, HipWidth: 0.26, NeckLength: 0.1,
			HeadSize: 0.18, BodyLength: 1.2, TailLength: 0.9,
		},
		Materials:  PresetMaterials{Primary: "chitin", Secondary: "slime", Accent: "bone"},
		Texture:    PresetTexture{Pattern: "checker", Primary: "#3c5a2e", Secondary: "#2a3f20", Scale: 8},
		Animations: []string{"idle", "walk"},
	},
	"imp": {
		Name: "imp", Kind: KindMonster, Seed: 5,
		Proportions: rig.Proportions{
			Height: 1.1, LegRatio: 0.45, ArmRatio: 0.45,
			ShoulderWidth: 0.34, HipWidth: 0.24, NeckLength: 0.08,
			HeadSize: 0.3, BodyLength: 0.8, TailLength: 0.8,
		},
		Materials:  PresetMaterials{Primary: "hide", Secondary: "chitin", Accent: "glow"},
		Texture:    PresetTexture{Pattern: "noise", Primary: "#8a2f2f", Secondary: "#431414", Scale: 8, Octaves: 4},
		Animations: []string{"idle", "walk", "wave"},
	},
	"dreadmaw": {
		Name: "dreadmaw", Kind: KindMonster, Seed: 6,
		Proportions: rig.Proportions{
			Height: 2.6, LegRatio: 0.4, ArmRatio: 0.5,
			ShoulderWidth: 1.0, HipWidth: 0.5, NeckLength: 0.1,
			HeadSize: 0.4, BodyLength: 1.4, TailLength: 1.2,
		},
		Materials:  PresetMaterials{Primary: "chitin", Secondary: "slime", Accent: "bone"},
		Texture:    PresetTexture{Pattern: "noise", Primary: "#2f4a3a", Secondary: "#14241b", Scale: 14, Octaves: 5},
		Animations: []string{"idle", "walk"},
	},
	"scout": {
		Name: "scout", Kind: KindMech, Seed: 7,
		Proportions: rig.Proportions{
			Height: 1.6, LegRatio: 0.5, ArmRatio: 0.38,
			ShoulderWidth: 0.5, HipWidth: 0.3, NeckLength: 0,
			HeadSize: 0.2, BodyLength: 0.8, TailLength: 0,
		},
		Materials:  PresetMaterials{Primary: "metal", Secondary: "plastic", Accent: "glow"},
		Texture:    PresetTexture{Pattern: "grid", Primary: "#9aa0a8", Secondary: "#3a3e44", Scale: 16},
		Animations: []string{"idle", "walk", "bounce"},
	},
	"titan": {
		Name: "titan", Kind: KindMech, Seed: 8,
		Proportions: rig.Proportions{
			Height: 3.2, LegRatio: 0.46, ArmRatio: 0.42,
			ShoulderWidth: 1.3, HipWidth: 0.7, NeckLength: 0,
			HeadSize: 0.35, BodyLength: 1.4, TailLength: 0,
		},
		Materials:  PresetMaterials{Primary: "rust", Secondary: "metal", Accent: "glow"},
		Texture:    PresetTexture{Pattern: "grid", Primary: "#7a5a42", Secondary: "#2e2620", Scale: 24},
		Animations: []string{"idle", "walk"},
	},
}

// LookupPreset returns a builtin preset by name.
func LookupPreset(name string) (Preset, error) {
	p, ok := builtinPresets[name]
	if !ok {
		return Preset{}, fmt.Errorf("lookup %q: %w", name, ErrUnknownPreset)
	}
	return p, nil
}

// PresetNames returns builtin preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPresetFor returns the builtin preset used when the caller
// names a kind but no preset.
func DefaultPresetFor(kind string) (Preset, error) {
	defaults := map[string]string{
		KindHumanoid: "villager",
		KindCreature: "hound",
		KindMonster:  "imp",
		KindMech:     "scout",
	}
	name, ok := defaults[kind]
	if !ok {
		return Preset{}, fmt.Errorf("default preset: kind %q: %w", kind, ErrUnknownKind)
	}
	return LookupPreset(name)
}

// LoadPresetFile reads a TOML preset file.
func LoadPresetFile(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("load preset: %w", err)
	}

	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("load preset %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}
