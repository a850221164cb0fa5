// Package texture synthesizes procedural base-color textures for
// generated characters: checkerboards, stripes, grids, and seeded
// multi-octave value noise.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Recipe generation errors.
var (
	ErrUnknownPattern = errors.New("unknown texture pattern")
	ErrBadSize        = errors.New("texture size must be positive")
)

// Pattern names a procedural fill.
type Pattern string

const (
	PatternSolid   Pattern = "solid"
	PatternChecker Pattern = "checker"
	PatternStripes Pattern = "stripes"
	PatternGrid    Pattern = "grid"
	PatternNoise   Pattern = "noise"
)

// Recipe is a named, fixed bundle of texture parameters. The same
// recipe always produces the same pixels.
type Recipe struct {
	Pattern   Pattern
	Primary   color.RGBA
	Secondary color.RGBA
	// Scale is the feature size in pixels: checker cell, stripe
	// period, grid spacing, or noise cell size.
	Scale int
	// Octaves layers noise at halving cell sizes. Only the noise
	// pattern uses it.
	Octaves int
	Seed    int64
}

// DefaultRecipe is a neutral checkerboard.
func DefaultRecipe() Recipe {
	return Recipe{
		Pattern:   PatternChecker,
		Primary:   color.RGBA{200, 200, 200, 255},
		Secondary: color.RGBA{100, 100, 100, 255},
		Scale:     8,
		Octaves:   3,
	}
}

// Generate renders the recipe into a new RGBA image.
func Generate(r Recipe, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("generate texture %dx%d: %w", width, height, ErrBadSize)
	}
	if r.Scale <= 0 {
		r.Scale = 8
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	switch r.Pattern {
	case PatternSolid:
		fill(img, func(x, y int) color.RGBA { return r.Primary })
	case PatternChecker:
		fill(img, func(x, y int) color.RGBA {
			if ((x/r.Scale)+(y/r.Scale))%2 == 0 {
				return r.Primary
			}
			return r.Secondary
		})
	case PatternStripes:
		fill(img, func(x, y int) color.RGBA {
			if (y/r.Scale)%2 == 0 {
				return r.Primary
			}
			return r.Secondary
		})
	case PatternGrid:
		fill(img, func(x, y int) color.RGBA {
			if x%r.Scale == 0 || y%r.Scale == 0 {
				return r.Secondary
			}
			return r.Primary
		})
	case PatternNoise:
		octaves := r.Octaves
		if octaves < 1 {
			octaves = 1
		}
		n := newValueNoise(r.Seed)
		fill(img, func(x, y int) color.RGBA {
			t := n.fractal(float64(x)/float64(r.Scale), float64(y)/float64(r.Scale), octaves)
			return lerpRGBA(r.Secondary, r.Primary, t)
		})
	default:
		return nil, fmt.Errorf("generate texture: %q: %w", r.Pattern, ErrUnknownPattern)
	}

	return img, nil
}

func fill(img *image.RGBA, at func(x, y int) color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, at(x, y))
		}
	}
}

// lerpRGBA linearly interpolates between two colors.
func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// valueNoise is seeded lattice noise with smoothstep interpolation,
// layered into fractal octaves. It stands in for the Perlin-like
// canvas noise of the original tool.
type valueNoise struct {
	perm [256]uint8
}

func newValueNoise(seed int64) *valueNoise {
	n := &valueNoise{}
	rng := rand.New(rand.NewSource(seed))
	for i := range n.perm {
		n.perm[i] = uint8(i)
	}
	rng.Shuffle(len(n.perm), func(i, j int) {
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
	})
	return n
}

// lattice returns a deterministic pseudo-random value in [0,1) for an
// integer lattice point.
func (n *valueNoise) lattice(x, y int) float64 {
	h := n.perm[uint8(x)]
	h = n.perm[h^uint8(y)]
	h = n.perm[h^uint8(x>>8)^uint8(y>>8)]
	return float64(h) / 255.0
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// sample returns interpolated noise in [0,1) at a continuous point.
func (n *valueNoise) sample(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	tx := smoothstep(x - math.Floor(x))
	ty := smoothstep(y - math.Floor(y))

	v00 := n.lattice(x0, y0)
	v10 := n.lattice(x0+1, y0)
	v01 := n.lattice(x0, y0+1)
	v11 := n.lattice(x0+1, y0+1)

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}

// fractal layers octaves of sample at doubling frequency and halving
// amplitude, normalized back to [0,1].
func (n *valueNoise) fractal(x, y float64, octaves int) float64 {
	var sum, norm float64
	amp := 1.0
	freq := 1.0
	for range octaves {
		sum += n.sample(x*freq, y*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}
