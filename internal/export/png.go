// Package export turns rendered cards into files: PNG for previews and
// samples, a single A6 page PDF for print orders.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

const (
	PreviewWidth  = 480
	PreviewHeight = 640

	// A6 at roughly 350 dpi.
	ExportWidth  = 1447
	ExportHeight = 2039
)

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
