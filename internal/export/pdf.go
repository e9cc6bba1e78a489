package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"

	"msgcard/internal/card"
)

const (
	A6WidthMM  = 105.0
	A6HeightMM = 148.0
)

type PDFPackager struct {
	Creator string
}

func NewPDFPackager(creator string) *PDFPackager {
	return &PDFPackager{Creator: creator}
}

// Package places img on a single A6 portrait page, scaled to fit and
// centered, and returns the PDF bytes.
func (p *PDFPackager) Package(img image.Image, title string) ([]byte, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot package empty image")
	}

	pngData, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(p.Creator, true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	r := card.Fit(b.Dx(), b.Dy(), card.Rect{W: pageW, H: pageH}, card.FitContain)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("card", opts, bytes.NewReader(pngData))
	pdf.ImageOptions("card", r.X, r.Y, r.W, r.H, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return out.Bytes(), nil
}
