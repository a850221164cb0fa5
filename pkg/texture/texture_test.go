package texture

import (
	"errors"
	"image/color"
	"testing"
)

func TestGenerateChecker(t *testing.T) {
	r := Recipe{
		Pattern:   PatternChecker,
		Primary:   color.RGBA{255, 255, 255, 255},
		Secondary: color.RGBA{0, 0, 0, 255},
		Scale:     4,
	}
	img, err := Generate(r, 16, 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got := img.RGBAAt(0, 0); got != r.Primary {
		t.Errorf("cell (0,0) = %v, want primary", got)
	}
	if got := img.RGBAAt(4, 0); got != r.Secondary {
		t.Errorf("cell (4,0) = %v, want secondary", got)
	}
	if got := img.RGBAAt(4, 4); got != r.Primary {
		t.Errorf("cell (4,4) = %v, want primary", got)
	}
}

func TestGenerateStripes(t *testing.T) {
	r := Recipe{
		Pattern:   PatternStripes,
		Primary:   color.RGBA{255, 0, 0, 255},
		Secondary: color.RGBA{0, 0, 255, 255},
		Scale:     2,
	}
	img, err := Generate(r, 8, 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Stripes are horizontal: same row, same color.
	for x := range 8 {
		if img.RGBAAt(x, 0) != r.Primary {
			t.Errorf("row 0 col %d = %v, want primary", x, img.RGBAAt(x, 0))
		}
		if img.RGBAAt(x, 2) != r.Secondary {
			t.Errorf("row 2 col %d = %v, want secondary", x, img.RGBAAt(x, 2))
		}
	}
}

func TestGenerateGridLines(t *testing.T) {
	r := Recipe{
		Pattern:   PatternGrid,
		Primary:   color.RGBA{200, 200, 200, 255},
		Secondary: color.RGBA{20, 20, 20, 255},
		Scale:     4,
	}
	img, err := Generate(r, 8, 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if img.RGBAAt(0, 3) != r.Secondary {
		t.Error("grid line column not drawn")
	}
	if img.RGBAAt(3, 3) != r.Primary {
		t.Error("grid interior not filled with primary")
	}
}

func TestGenerateNoiseDeterministicPerSeed(t *testing.T) {
	r := Recipe{
		Pattern:   PatternNoise,
		Primary:   color.RGBA{255, 255, 255, 255},
		Secondary: color.RGBA{0, 0, 0, 255},
		Scale:     8,
		Octaves:   3,
		Seed:      42,
	}

	a, err := Generate(r, 32, 32)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(r, 32, 32)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed produced different pixels at byte %d", i)
		}
	}

	r.Seed = 43
	c, err := Generate(r, 32, 32)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	same := true
	for i := range a.Pix {
		if a.Pix[i] != c.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical noise")
	}
}

func TestGenerateNoiseStaysInPalette(t *testing.T) {
	r := Recipe{
		Pattern:   PatternNoise,
		Primary:   color.RGBA{200, 150, 100, 255},
		Secondary: color.RGBA{50, 40, 30, 255},
		Scale:     4,
		Octaves:   4,
		Seed:      7,
	}
	img, err := Generate(r, 16, 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for y := range 16 {
		for x := range 16 {
			c := img.RGBAAt(x, y)
			if c.R < r.Secondary.R || c.R > r.Primary.R {
				t.Fatalf("pixel (%d,%d) R=%d outside palette range", x, y, c.R)
			}
			if c.A != 255 {
				t.Fatalf("pixel (%d,%d) alpha=%d, want 255", x, y, c.A)
			}
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(Recipe{Pattern: "plaid"}, 8, 8); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("unknown pattern: got %v", err)
	}
	if _, err := Generate(DefaultRecipe(), 0, 8); !errors.Is(err, ErrBadSize) {
		t.Errorf("zero size: got %v", err)
	}
}

func TestGenerateSolid(t *testing.T) {
	r := Recipe{Pattern: PatternSolid, Primary: color.RGBA{10, 20, 30, 255}}
	img, err := Generate(r, 4, 4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			if img.RGBAAt(x, y) != r.Primary {
				t.Fatalf("pixel (%d,%d) = %v", x, y, img.RGBAAt(x, y))
			}
		}
	}
}
