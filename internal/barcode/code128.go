// Package barcode renders order ids as Code 128 bar images.
package barcode

import (
	"errors"
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const (
	DefaultHeight = 160
	moduleWidth   = 2
)

var ErrEmptyContent = errors.New("barcode content is empty")

// Generator produces Code 128 images without a text line or quiet zone.
type Generator struct {
	Height int
}

func NewGenerator(height int) *Generator {
	if height <= 0 {
		height = DefaultHeight
	}
	return &Generator{Height: height}
}

func (g *Generator) Generate(content string) (image.Image, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	raw, err := code128.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encode code128 %q: %w", content, err)
	}

	width := raw.Bounds().Dx() * moduleWidth
	scaled, err := barcode.Scale(raw, width, g.Height)
	if err != nil {
		return nil, fmt.Errorf("scale barcode %q: %w", content, err)
	}
	return scaled, nil
}
