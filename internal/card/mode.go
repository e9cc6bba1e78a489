package card

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModePreview Mode = "preview"
	ModeSample  Mode = "sample"
	ModePDF     Mode = "pdf"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePreview, ModeSample, ModePDF:
		return m, nil
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

// Toggles are the user switches that feed into Options.
type Toggles struct {
	Frame  bool
	Guides bool
}

type Options struct {
	ShowFrame     bool
	ShowGuides    bool
	ShowBarcode   bool
	ShowOrderID   bool
	ShowWatermark bool
	ShowTextBand  bool
}

// OptionsFor derives overlay visibility from the render mode. Guides only
// appear in preview, the watermark only in sample, barcode and order id only
// in pdf.
func OptionsFor(mode Mode, t Toggles) Options {
	return Options{
		ShowFrame:     t.Frame,
		ShowGuides:    mode == ModePreview && t.Guides,
		ShowBarcode:   mode == ModePDF,
		ShowOrderID:   mode == ModePDF,
		ShowWatermark: mode == ModeSample,
		ShowTextBand:  true,
	}
}
