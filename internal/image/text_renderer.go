package image

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"msgcard/internal/card"
)

const watermarkText = "SAMPLE"

var (
	bandColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	captionColor   = color.Black
	watermarkColor = color.NRGBA{R: 189, G: 189, B: 189, A: 77}
)

type TextRenderer struct {
	Fonts *FontRegistry
}

// DrawMessage draws the card message centered at the anchor height, on top of
// a translucent band when band is set. Empty text draws nothing.
func (tr *TextRenderer) DrawMessage(dc *gg.Context, w, h int, msg card.Message, band bool) {
	if msg.Text == "" {
		return
	}
	y := card.AnchorY(msg.Anchor, h)

	if band {
		bandH := math.Round(float64(h) * 0.08)
		dc.SetColor(bandColor)
		dc.DrawRectangle(0, y-bandH/2, float64(w), bandH)
		dc.Fill()
	}

	dc.SetFontFace(tr.Fonts.Face(msg.FontFamily, math.Round(float64(w)*0.06)))
	dc.SetColor(card.ParseColor(msg.Color))
	dc.DrawStringAnchored(msg.Text, math.Round(float64(w)*0.5), y, 0.5, 0.5)
}

// DrawCaption draws monospaced text whose top edge sits at y.
func (tr *TextRenderer) DrawCaption(dc *gg.Context, text string, x, y, size float64) {
	dc.SetFontFace(tr.Fonts.MonoFace(size))
	dc.SetColor(captionColor)
	dc.DrawStringAnchored(text, x, y, 0.5, 1)
}

func (tr *TextRenderer) DrawWatermark(dc *gg.Context, w, h int) {
	cx, cy := float64(w)/2, float64(h)/2

	dc.Push()
	defer dc.Pop()

	dc.RotateAbout(gg.Radians(-30), cx, cy)
	dc.SetFontFace(tr.Fonts.BoldFace(math.Round(float64(w) * 0.12)))
	dc.SetColor(watermarkColor)
	dc.DrawStringAnchored(watermarkText, cx, cy, 0.5, 0.5)
}
