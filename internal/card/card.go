package card

import (
	"image"
	"strings"
)

type FitPolicy string

const (
	FitContain FitPolicy = "contain"
	FitCover   FitPolicy = "cover"
)

func ParseFit(s string) FitPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(FitCover)) {
		return FitCover
	}
	return FitContain
}

type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorCenter Anchor = "center"
	AnchorBottom Anchor = "bottom"
)

func ParseAnchor(s string) Anchor {
	switch Anchor(strings.ToLower(strings.TrimSpace(s))) {
	case AnchorTop:
		return AnchorTop
	case AnchorBottom:
		return AnchorBottom
	}
	return AnchorCenter
}

type Message struct {
	Text       string
	Anchor     Anchor
	FontFamily string
	Color      string
}

// State is a snapshot of everything one render needs. Photo and Barcode are
// already decoded; BackgroundRef is resolved by the compositor.
type State struct {
	BackgroundRef string
	Photo         image.Image
	Fit           FitPolicy
	Message       Message
	OrderID       string
	Barcode       image.Image
}

// Draft holds a user's selections between renders.
type Draft struct {
	Template string
	Photo    image.Image
	Fit      FitPolicy
	Text     string
	Anchor   Anchor
	Font     string
	Color    string
	Toggles  Toggles
}

func NewDraft() Draft {
	return Draft{
		Fit:     FitContain,
		Anchor:  AnchorCenter,
		Color:   DefaultColor,
		Toggles: Toggles{Frame: true},
	}
}
