package image

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"msgcard/internal/card"
)

const framePadding = 6

var shadowColor = color.NRGBA{A: 46}

// ImageSource resolves a reference (path, URL, data URI) to a decoded image.
type ImageSource interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Compositor draws message cards. It keeps no state between renders.
type Compositor struct {
	source    ImageSource
	processor *Processor
	text      *TextRenderer
}

func NewCompositor(source ImageSource, fonts *FontRegistry) *Compositor {
	return &Compositor{
		source:    source,
		processor: &Processor{},
		text:      &TextRenderer{Fonts: fonts},
	}
}

// Render resolves the background and then redraws dc. If the background
// cannot be loaded nothing is drawn and a card.ResourceError is returned.
func (c *Compositor) Render(ctx context.Context, dc *gg.Context, w, h int, st card.State, opt card.Options) error {
	var bg image.Image
	if st.BackgroundRef != "" {
		loaded, err := c.loadBackground(ctx, st.BackgroundRef)
		if err != nil {
			return err
		}
		bg = loaded
	}

	c.Draw(dc, w, h, bg, st, opt)
	return nil
}

// RenderImage renders onto a fresh w x h surface.
func (c *Compositor) RenderImage(ctx context.Context, w, h int, st card.State, opt card.Options) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	if err := c.Render(ctx, dc, w, h, st, opt); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (c *Compositor) loadBackground(ctx context.Context, ref string) (image.Image, error) {
	if c.source == nil {
		return nil, card.NewResourceError(card.KindBackground, ref, errors.New("no image source"))
	}
	img, err := c.source.Load(ctx, ref)
	if err != nil {
		var re *card.ResourceError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, card.NewResourceError(card.KindBackground, ref, err)
	}
	return img, nil
}

// Draw is the synchronous part of Render. Layers are drawn bottom to top:
// background, photo, message, barcode, guides, watermark.
func (c *Compositor) Draw(dc *gg.Context, w, h int, bg image.Image, st card.State, opt card.Options) {
	dc.SetColor(color.Transparent)
	dc.Clear()

	if bg != nil {
		if stretched := c.processor.Stretch(bg, w, h); stretched != nil {
			dc.DrawImage(stretched, 0, 0)
		}
	}

	if st.Photo != nil {
		c.drawPhoto(dc, w, h, st.Photo, st.Fit, opt.ShowFrame)
	}

	c.text.DrawMessage(dc, w, h, st.Message, opt.ShowTextBand)

	if opt.ShowBarcode && st.Barcode != nil {
		c.drawBarcode(dc, w, h, st, opt.ShowOrderID)
	}

	if opt.ShowGuides {
		c.drawGuides(dc, w, h)
	}

	if opt.ShowWatermark {
		c.text.DrawWatermark(dc, w, h)
	}
}

func (c *Compositor) drawPhoto(dc *gg.Context, w, h int, photo image.Image, fit card.FitPolicy, frame bool) {
	b := photo.Bounds()
	r := card.Fit(b.Dx(), b.Dy(), card.PhotoBox(w, h), fit)
	if r.W <= 0 || r.H <= 0 {
		return
	}

	if frame {
		framed := card.Rect{
			X: r.X - framePadding,
			Y: r.Y - framePadding,
			W: r.W + 2*framePadding,
			H: r.H + 2*framePadding,
		}
		sigma := math.Round(float64(w)*0.015) / 2
		if shadow, at := c.processor.DropShadow(framed, shadowColor, sigma); shadow != nil {
			dc.DrawImage(shadow, at.X, at.Y)
		}
		dc.SetColor(color.White)
		dc.DrawRectangle(framed.X, framed.Y, framed.W, framed.H)
		dc.Fill()
	}

	if placed, at := c.processor.Place(photo, r, w, h); placed != nil {
		dc.DrawImage(placed, at.X, at.Y)
	}
}

func (c *Compositor) drawBarcode(dc *gg.Context, w, h int, st card.State, withID bool) {
	box := card.BarcodeBox(w, h)
	if scaled := c.processor.Pixelate(st.Barcode, int(box.W), int(box.H)); scaled != nil {
		dc.DrawImage(scaled, int(box.X), int(box.Y))
	}

	if withID && st.OrderID != "" {
		size := math.Round(float64(w) * 0.024)
		y := box.Bottom() + math.Round(float64(h)*0.004)
		c.text.DrawCaption(dc, st.OrderID, box.X+box.W/2, y, size)
	}
}

func (c *Compositor) drawGuides(dc *gg.Context, w, h int) {
	dc.SetRGBA(0, 0, 0, 0.2)
	dc.SetLineWidth(1)
	for _, p := range card.GuideLevels {
		y := float64(h) * p
		dc.DrawLine(0, y, float64(w), y)
		dc.Stroke()
	}
}
