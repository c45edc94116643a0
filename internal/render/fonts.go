package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts hands out faces by pixel size. Sizes of 28px and up use the bold
// weight, as the slide headings do.
type Fonts struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// BoldFrom is the smallest size rendered in bold.
const BoldFrom = 28

func LoadFonts() (*Fonts, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Fonts{regular: regular, bold: bold, faces: make(map[int]font.Face)}, nil
}

// Face returns the cached face for size pixels.
func (f *Fonts) Face(size int) font.Face {
	if size <= 0 {
		size = 14
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	ttf := f.regular
	if size >= BoldFrom {
		ttf = f.bold
	}
	// At 72 DPI one point is one pixel.
	face := truetype.NewFace(ttf, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	f.faces[size] = face
	return face
}
