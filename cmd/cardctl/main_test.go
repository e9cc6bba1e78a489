package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"msgcard/internal/card"
	"msgcard/internal/services"
)

func writeBackground(t *testing.T, dir string) {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, 10, 14))
	for i := range m.Pix {
		m.Pix[i] = 200
	}
	m.Set(0, 0, color.Black)
	f, err := os.Create(filepath.Join(dir, "bg-a.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, m); err != nil {
		t.Fatal(err)
	}
}

func TestRender_PNG(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, dir)
	out := filepath.Join(dir, "card.png")

	err := newApp().RunContext(context.Background(), []string{
		"cardctl", "--assets", dir, "render",
		"--out", out, "--mode", "sample", "--text", "hello", "--width", "60",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 80 {
		t.Errorf("expected 60x80, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_PDFWithBarcode(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, dir)
	out := filepath.Join(dir, "card.pdf")

	err := newApp().RunContext(context.Background(), []string{
		"cardctl", "--assets", dir, "render",
		"--out", out, "--mode", "pdf", "--order-id", "order_1", "--width", "145", "--height", "204",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF file")
	}
}

func TestRender_BadInput(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, dir)

	tests := [][]string{
		{"--out", filepath.Join(dir, "card.gif")},
		{"--out", filepath.Join(dir, "card.png"), "--mode", "poster"},
		{"--out", filepath.Join(dir, "card.png"), "--template", "space"},
		{"--out", filepath.Join(dir, "card.png"), "--photo", filepath.Join(dir, "missing.jpg")},
	}
	for _, args := range tests {
		full := append([]string{"cardctl", "--assets", dir, "render"}, args...)
		if err := newApp().RunContext(context.Background(), full); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestRenderSize(t *testing.T) {
	tests := []struct {
		mode card.Mode
		w, h int
		want services.Size
	}{
		{card.ModePreview, 0, 0, services.PreviewSize},
		{card.ModePDF, 0, 0, services.ExportSize},
		{card.ModePreview, 240, 0, services.Size{Width: 240, Height: 320}},
		{card.ModeSample, 0, 320, services.Size{Width: 240, Height: 320}},
		{card.ModePDF, 100, 100, services.Size{Width: 100, Height: 100}},
	}
	for _, tt := range tests {
		if got := renderSize(tt.mode, tt.w, tt.h); got != tt.want {
			t.Errorf("renderSize(%s, %d, %d) = %+v, want %+v", tt.mode, tt.w, tt.h, got, tt.want)
		}
	}
}
