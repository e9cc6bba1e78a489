package image

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"msgcard/internal/card"
)

type Processor struct{}

// Stretch scales img to exactly w x h, ignoring its aspect ratio.
func (p *Processor) Stretch(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 || img.Bounds().Empty() {
		return nil
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}

// Pixelate scales without interpolation so barcode bars keep hard edges.
func (p *Processor) Pixelate(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 || img.Bounds().Empty() {
		return nil
	}
	return resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor)
}

// Place scales img into dst and returns only the part that lands inside a
// w x h surface, together with where it goes. Cover placements can overflow
// the surface by a lot, so the source is cropped before scaling.
func (p *Processor) Place(img image.Image, dst card.Rect, w, h int) (image.Image, image.Point) {
	b := img.Bounds()
	if b.Empty() || dst.W <= 0 || dst.H <= 0 {
		return nil, image.Point{}
	}

	x0 := math.Max(math.Round(dst.X), 0)
	y0 := math.Max(math.Round(dst.Y), 0)
	x1 := math.Min(math.Round(dst.Right()), float64(w))
	y1 := math.Min(math.Round(dst.Bottom()), float64(h))
	if x1 <= x0 || y1 <= y0 {
		return nil, image.Point{}
	}

	sx := dst.W / float64(b.Dx())
	sy := dst.H / float64(b.Dy())
	src := image.Rect(
		b.Min.X+int(math.Floor((x0-dst.X)/sx)),
		b.Min.Y+int(math.Floor((y0-dst.Y)/sy)),
		b.Min.X+int(math.Ceil((x1-dst.X)/sx)),
		b.Min.Y+int(math.Ceil((y1-dst.Y)/sy)),
	).Intersect(b)
	if src.Empty() {
		return nil, image.Point{}
	}

	if src != b {
		img = imaging.Crop(img, src)
	}
	scaled := resize.Resize(uint(x1-x0), uint(y1-y0), img, resize.Lanczos3)
	return scaled, image.Pt(int(x0), int(y0))
}

// DropShadow renders a blurred rectangle into its own layer. The layer is
// padded so the blur has room to fade out; the returned point is where its
// top-left corner belongs.
func (p *Processor) DropShadow(r card.Rect, c color.Color, sigma float64) (image.Image, image.Point) {
	pad := int(math.Ceil(sigma * 3))
	w := int(math.Round(r.W)) + 2*pad
	h := int(math.Round(r.H)) + 2*pad
	if w <= 0 || h <= 0 {
		return nil, image.Point{}
	}

	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	inner := image.Rect(pad, pad, w-pad, h-pad)
	draw.Draw(layer, inner, image.NewUniform(c), image.Point{}, draw.Src)

	origin := image.Pt(int(math.Round(r.X))-pad, int(math.Round(r.Y))-pad)
	if sigma <= 0 {
		return layer, origin
	}
	return imaging.Blur(layer, sigma), origin
}
