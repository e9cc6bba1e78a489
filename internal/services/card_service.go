package services

import (
	"context"
	"fmt"
	img "image"
	"strings"

	"go.uber.org/zap"

	"msgcard/internal/barcode"
	"msgcard/internal/card"
	"msgcard/internal/export"
	"msgcard/internal/files"
	"msgcard/internal/image"
)

const DefaultMessage = "いつもありがとう！"

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

var (
	PreviewSize = Size{Width: export.PreviewWidth, Height: export.PreviewHeight}
	ExportSize  = Size{Width: export.ExportWidth, Height: export.ExportHeight}
)

type CardServiceOptions struct {
	DefaultMessage string
	Preview        Size
	Export         Size
}

// CardService turns drafts into card states and renders them.
type CardService struct {
	assets     *files.AssetLoader
	fonts      *image.FontRegistry
	compositor *image.Compositor
	barcodes   *barcode.Generator
	pdf        *export.PDFPackager
	logger     *zap.Logger
	opts       CardServiceOptions
}

func NewCardService(
	assets *files.AssetLoader,
	fonts *image.FontRegistry,
	compositor *image.Compositor,
	barcodes *barcode.Generator,
	pdf *export.PDFPackager,
	logger *zap.Logger,
	opts CardServiceOptions,
) *CardService {
	if opts.DefaultMessage == "" {
		opts.DefaultMessage = DefaultMessage
	}
	if opts.Preview.Width <= 0 || opts.Preview.Height <= 0 {
		opts.Preview = PreviewSize
	}
	if opts.Export.Width <= 0 || opts.Export.Height <= 0 {
		opts.Export = ExportSize
	}

	return &CardService{
		assets:     assets,
		fonts:      fonts,
		compositor: compositor,
		barcodes:   barcodes,
		pdf:        pdf,
		logger:     logger,
		opts:       opts,
	}
}

func (s *CardService) Templates() []string { return s.assets.Templates() }
func (s *CardService) Fonts() []string     { return s.assets.Fonts() }

// Build snapshots a draft into a render state. The background ref is only
// looked up here; the compositor loads it.
func (s *CardService) Build(ctx context.Context, d card.Draft) (card.State, error) {
	bg, err := s.assets.Background(s.templateKey(d))
	if err != nil {
		return card.State{}, err
	}

	font := s.assets.Font(d.Font)
	if err := s.fonts.Ensure(font.Family); err != nil {
		s.logger.Warn("font not ready, using fallback",
			zap.String("family", font.Family), zap.Error(err))
	}

	text := strings.TrimSpace(d.Text)
	if text == "" {
		text = s.opts.DefaultMessage
	}

	color := d.Color
	if !card.ValidColor(color) {
		color = card.DefaultColor
	}

	return card.State{
		BackgroundRef: bg,
		Photo:         d.Photo,
		Fit:           card.ParseFit(string(d.Fit)),
		Message: card.Message{
			Text:       text,
			Anchor:     card.ParseAnchor(string(d.Anchor)),
			FontFamily: font.Family,
			Color:      color,
		},
	}, nil
}

func (s *CardService) Render(ctx context.Context, st card.State, mode card.Mode, t card.Toggles, size Size) (img.Image, error) {
	out, err := s.compositor.RenderImage(ctx, size.Width, size.Height, st, card.OptionsFor(mode, t))
	if err != nil {
		return nil, fmt.Errorf("render %s card: %w", mode, err)
	}
	return out, nil
}

// Preview renders the editing view as PNG.
func (s *CardService) Preview(ctx context.Context, d card.Draft) ([]byte, error) {
	return s.renderPNG(ctx, d, card.ModePreview)
}

// Sample renders the watermarked download as PNG.
func (s *CardService) Sample(ctx context.Context, d card.Draft) ([]byte, error) {
	return s.renderPNG(ctx, d, card.ModeSample)
}

// PDF renders the print version at export size. When orderID is set the
// barcode and its caption are drawn.
func (s *CardService) PDF(ctx context.Context, d card.Draft, orderID string) ([]byte, error) {
	st, err := s.Build(ctx, d)
	if err != nil {
		return nil, err
	}
	st.OrderID = orderID
	return s.packagePDF(ctx, st, d.Toggles)
}

func (s *CardService) renderPNG(ctx context.Context, d card.Draft, mode card.Mode) ([]byte, error) {
	st, err := s.Build(ctx, d)
	if err != nil {
		return nil, err
	}
	out, err := s.Render(ctx, st, mode, d.Toggles, s.opts.Preview)
	if err != nil {
		return nil, err
	}
	return export.EncodePNG(out)
}

// AttachBarcode sets the order id on st and draws its Code 128 barcode.
func (s *CardService) AttachBarcode(st *card.State, orderID string) error {
	code, err := s.barcodes.Generate(orderID)
	if err != nil {
		return card.NewResourceError(card.KindBarcode, orderID, err)
	}
	st.OrderID, st.Barcode = orderID, code
	return nil
}

func (s *CardService) packagePDF(ctx context.Context, st card.State, t card.Toggles) ([]byte, error) {
	if st.OrderID != "" {
		if err := s.AttachBarcode(&st, st.OrderID); err != nil {
			return nil, err
		}
	}

	out, err := s.Render(ctx, st, card.ModePDF, t, s.opts.Export)
	if err != nil {
		return nil, err
	}
	return s.pdf.Package(out, st.OrderID)
}

func (s *CardService) templateKey(d card.Draft) string {
	if strings.TrimSpace(d.Template) == "" {
		return s.assets.DefaultTemplate()
	}
	return d.Template
}

func (s *CardService) fontKey(d card.Draft) string {
	if strings.TrimSpace(d.Font) == "" {
		return s.assets.DefaultFont()
	}
	return strings.ToLower(strings.TrimSpace(d.Font))
}
