package card

import "math"

const (
	photoBoxTop    = 0.05
	photoBoxHeight = 0.8

	anchorTop    = 0.2
	anchorCenter = 0.53
	anchorBottom = 0.8
)

// GuideLevels are the fractions of the height where preview guides are drawn.
var GuideLevels = []float64{0.2, 0.5, 0.8}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// PhotoBox is the area the photo is fitted into: full width, 80% of the
// height, starting 5% from the top.
func PhotoBox(w, h int) Rect {
	return Rect{
		X: 0,
		Y: math.Round(float64(h) * photoBoxTop),
		W: float64(w),
		H: math.Round(float64(h) * photoBoxHeight),
	}
}

// Fit scales an imgW x imgH image into box and centers it. Contain keeps the
// whole image inside the box; cover fills the box and may overflow it.
func Fit(imgW, imgH int, box Rect, policy FitPolicy) Rect {
	if imgW <= 0 || imgH <= 0 || box.W <= 0 || box.H <= 0 {
		return Rect{X: box.X + box.W/2, Y: box.Y + box.H/2}
	}

	imgRatio := float64(imgW) / float64(imgH)
	boxRatio := box.W / box.H

	var w, h float64
	wider := imgRatio > boxRatio
	if policy == FitCover {
		wider = !wider
	}
	if wider {
		w = box.W
		h = box.W / imgRatio
	} else {
		h = box.H
		w = box.H * imgRatio
	}

	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

func AnchorY(a Anchor, h int) float64 {
	switch a {
	case AnchorTop:
		return math.Round(float64(h) * anchorTop)
	case AnchorBottom:
		return math.Round(float64(h) * anchorBottom)
	}
	return math.Round(float64(h) * anchorCenter)
}

// BarcodeBox is where the barcode goes in pdf mode: half the width, a fifth
// as tall as wide, inset 5% from the right and 4% from the bottom.
func BarcodeBox(w, h int) Rect {
	bw := math.Round(float64(w) * 0.5)
	bh := math.Round(bw * 0.2)
	return Rect{
		X: float64(w) - bw - math.Round(float64(w)*0.05),
		Y: float64(h) - bh - math.Round(float64(h)*0.04),
		W: bw,
		H: bh,
	}
}
