package image

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"msgcard/internal/card"
)

// FontRegistry maps font families to font files and keeps parsed fonts.
// Faces are created per call since a font.Face is not safe to share between
// concurrent renders.
type FontRegistry struct {
	mu     sync.Mutex
	files  map[string]string
	parsed map[string]*opentype.Font

	regular *opentype.Font
	mono    *opentype.Font
	bold    *opentype.Font
}

func NewFontRegistry() *FontRegistry {
	return &FontRegistry{
		files:   make(map[string]string),
		parsed:  make(map[string]*opentype.Font),
		regular: mustParse(goregular.TTF),
		mono:    mustParse(gomono.TTF),
		bold:    mustParse(gobold.TTF),
	}
}

func mustParse(data []byte) *opentype.Font {
	f, err := opentype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

func (r *FontRegistry) Register(family, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[family] = path
	delete(r.parsed, family)
}

// Ensure makes sure a registered family is parsed and ready for measuring.
// Families that were never registered fall back to Go Regular and are not an
// error.
func (r *FontRegistry) Ensure(family string) error {
	_, err := r.lookup(family)
	return err
}

func (r *FontRegistry) lookup(family string) (*opentype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.parsed[family]; ok {
		return f, nil
	}
	path, ok := r.files[family]
	if !ok {
		return r.regular, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return r.regular, card.NewResourceError(card.KindFont, family, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return r.regular, card.NewResourceError(card.KindFont, family, err)
	}
	r.parsed[family] = f
	return f, nil
}

// Face returns a face for family, falling back to Go Regular when the family
// is unknown or its file is broken.
func (r *FontRegistry) Face(family string, size float64) font.Face {
	f, _ := r.lookup(family)
	return newFace(f, size)
}

func (r *FontRegistry) MonoFace(size float64) font.Face {
	return newFace(r.mono, size)
}

func (r *FontRegistry) BoldFace(size float64) font.Face {
	return newFace(r.bold, size)
}

func newFace(f *opentype.Font, size float64) font.Face {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    max(size, 1),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
