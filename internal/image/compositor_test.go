package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"msgcard/internal/card"
)

type stubSource struct {
	images map[string]image.Image
	calls  int
}

func (s *stubSource) Load(_ context.Context, ref string) (image.Image, error) {
	s.calls++
	img, ok := s.images[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	return img, nil
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func rgbaAt(t *testing.T, img image.Image, x, y int) color.RGBA {
	t.Helper()
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func render(t *testing.T, c *Compositor, st card.State, mode card.Mode, tg card.Toggles) *image.RGBA {
	t.Helper()
	img, err := c.RenderImage(context.Background(), 480, 640, st, card.OptionsFor(mode, tg))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return rgba
}

func newTestCompositor(src ImageSource) *Compositor {
	return NewCompositor(src, NewFontRegistry())
}

func TestCompositor_ContainPhotoPlacement(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{
		Photo: solid(400, 300, color.RGBA{R: 255, A: 255}),
		Fit:   card.FitContain,
	}

	img := render(t, c, st, card.ModePreview, card.Toggles{})

	// box starts at 32, photo is 360 tall and 76px below the box top.
	center := rgbaAt(t, img, 240, 288)
	if center.R < 200 || center.G > 50 || center.A != 255 {
		t.Errorf("expected red photo at center, got %v", center)
	}
	if above := rgbaAt(t, img, 240, 104); above.A != 0 {
		t.Errorf("expected letterbox above photo, got %v", above)
	}
	if below := rgbaAt(t, img, 240, 472); below.A != 0 {
		t.Errorf("expected letterbox below photo, got %v", below)
	}
	if edge := rgbaAt(t, img, 1, 288); edge.A == 0 {
		t.Error("expected photo to span full width")
	}
}

func TestCompositor_CoverPhotoFillsBox(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{
		Photo: solid(400, 300, color.RGBA{G: 255, A: 255}),
		Fit:   card.FitCover,
	}

	img := render(t, c, st, card.ModePreview, card.Toggles{})

	for _, p := range []image.Point{{1, 33}, {478, 33}, {1, 542}, {478, 542}} {
		if px := rgbaAt(t, img, p.X, p.Y); px.A == 0 {
			t.Errorf("expected photo at %v, got %v", p, px)
		}
	}
	if px := rgbaAt(t, img, 240, 20); px.A != 0 {
		t.Errorf("expected nothing above the box, got %v", px)
	}
}

func TestCompositor_FrameAroundPhoto(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{Photo: solid(400, 300, color.RGBA{B: 255, A: 255})}

	img := render(t, c, st, card.ModePreview, card.Toggles{Frame: true})

	px := rgbaAt(t, img, 240, 104)
	if px.R != 255 || px.G != 255 || px.B != 255 || px.A != 255 {
		t.Errorf("expected white frame above the photo, got %v", px)
	}
	if shadow := rgbaAt(t, img, 240, 100); shadow.A == 0 {
		t.Error("expected shadow outside the frame")
	}
}

func TestCompositor_EmptyMessageDrawsNothing(t *testing.T) {
	c := newTestCompositor(nil)

	empty := render(t, c, card.State{}, card.ModePreview, card.Toggles{})
	for _, px := range []image.Point{{10, 339}, {240, 339}, {240, 128}} {
		if got := rgbaAt(t, empty, px.X, px.Y); got.A != 0 {
			t.Errorf("expected transparent pixel at %v, got %v", px, got)
		}
	}

	withText := render(t, c, card.State{Message: card.Message{Text: "Hi"}}, card.ModePreview, card.Toggles{})
	if got := rgbaAt(t, withText, 10, 339); got.A == 0 {
		t.Error("expected text band at the canonical midpoint")
	}
}

func TestCompositor_TextAnchorTop(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{Message: card.Message{Text: "Hi", Anchor: card.AnchorTop}}

	img := render(t, c, st, card.ModePreview, card.Toggles{})
	if got := rgbaAt(t, img, 10, 128); got.A == 0 {
		t.Error("expected band at 20% height")
	}
	if got := rgbaAt(t, img, 10, 339); got.A != 0 {
		t.Error("expected no band at the midpoint")
	}
}

func TestCompositor_BarcodeOnlyInPDF(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{
		OrderID: "order_1",
		Barcode: solid(100, 20, color.Black),
	}

	for _, mode := range []card.Mode{card.ModePreview, card.ModeSample} {
		img := render(t, c, st, mode, card.Toggles{})
		if got := rgbaAt(t, img, 336, 590); got.A != 0 {
			t.Errorf("%s: expected no barcode, got %v", mode, got)
		}
	}

	pdf := render(t, c, st, card.ModePDF, card.Toggles{})
	if got := rgbaAt(t, pdf, 336, 590); got.A != 255 || got.R != 0 {
		t.Errorf("pdf: expected black barcode, got %v", got)
	}

	withoutID := st
	withoutID.OrderID = ""
	plain := render(t, c, withoutID, card.ModePDF, card.Toggles{})
	if bytes.Equal(plain.Pix, pdf.Pix) {
		t.Error("expected order id caption below the barcode")
	}
}

func TestCompositor_GuidesOnlyInPreview(t *testing.T) {
	c := newTestCompositor(nil)
	tg := card.Toggles{Guides: true}

	preview := render(t, c, card.State{}, card.ModePreview, tg)
	if got := rgbaAt(t, preview, 10, 128); got.A == 0 {
		t.Error("expected guide line at 20% height")
	}

	pdf := render(t, c, card.State{}, card.ModePDF, tg)
	if got := rgbaAt(t, pdf, 10, 128); got.A != 0 {
		t.Error("expected no guide line in pdf mode")
	}
}

func TestCompositor_WatermarkOnlyInSample(t *testing.T) {
	c := newTestCompositor(nil)
	st := card.State{Photo: solid(40, 30, color.White)}

	preview := render(t, c, st, card.ModePreview, card.Toggles{})
	pdf := render(t, c, st, card.ModePDF, card.Toggles{})
	sample := render(t, c, st, card.ModeSample, card.Toggles{})

	if !bytes.Equal(preview.Pix, pdf.Pix) {
		t.Error("expected preview and pdf to match when there is no barcode")
	}
	if bytes.Equal(preview.Pix, sample.Pix) {
		t.Error("expected watermark to change the sample render")
	}
}

func TestCompositor_Deterministic(t *testing.T) {
	src := &stubSource{images: map[string]image.Image{
		"bg.png": solid(60, 80, color.RGBA{R: 250, G: 240, B: 200, A: 255}),
	}}
	c := newTestCompositor(src)
	st := card.State{
		BackgroundRef: "bg.png",
		Photo:         solid(300, 400, color.RGBA{R: 30, G: 60, B: 90, A: 255}),
		Fit:           card.FitCover,
		Message:       card.Message{Text: "Thank you!", Anchor: card.AnchorBottom, Color: "#aa0000"},
		OrderID:       "order_42",
		Barcode:       solid(50, 10, color.Black),
	}

	for _, mode := range []card.Mode{card.ModePreview, card.ModeSample, card.ModePDF} {
		a := render(t, c, st, mode, card.Toggles{Frame: true, Guides: true})
		b := render(t, c, st, mode, card.Toggles{Frame: true, Guides: true})
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%s: renders differ", mode)
		}
	}
}

func TestCompositor_BackgroundStretched(t *testing.T) {
	src := &stubSource{images: map[string]image.Image{
		"bg.png": solid(10, 10, color.RGBA{B: 255, A: 255}),
	}}
	c := newTestCompositor(src)

	img := render(t, c, card.State{BackgroundRef: "bg.png"}, card.ModePreview, card.Toggles{})
	for _, p := range []image.Point{{0, 0}, {479, 639}, {240, 320}} {
		if got := rgbaAt(t, img, p.X, p.Y); got.B < 250 || got.A != 255 {
			t.Errorf("expected blue background at %v, got %v", p, got)
		}
	}
	if src.calls != 1 {
		t.Errorf("expected one background load, got %d", src.calls)
	}
}

func TestCompositor_BackgroundFailureAborts(t *testing.T) {
	c := newTestCompositor(&stubSource{})
	_, err := c.RenderImage(context.Background(), 480, 640, card.State{BackgroundRef: "missing.png"}, card.Options{})

	if !errors.Is(err, card.ErrResourceLoad) {
		t.Fatalf("expected resource error, got %v", err)
	}
	var re *card.ResourceError
	if !errors.As(err, &re) || re.Kind != card.KindBackground {
		t.Errorf("expected background resource error, got %v", err)
	}
}

func TestCompositor_InvalidSurface(t *testing.T) {
	c := newTestCompositor(nil)
	if _, err := c.RenderImage(context.Background(), 0, 10, card.State{}, card.Options{}); err == nil {
		t.Error("expected error for empty surface")
	}
}
