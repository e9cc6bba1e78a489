package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"msgcard/internal/card"
	"msgcard/internal/export"
	"msgcard/internal/order"
)

type OrderSubmitter interface {
	Submit(ctx context.Context, s order.Submission) (order.Result, error)
}

type OrderIDs interface {
	Next() string
}

type OrderReceipt struct {
	OrderID  string
	AssetURL string
	PDF      []byte
}

type OrderService struct {
	cards  *CardService
	ids    OrderIDs
	client OrderSubmitter
	logger *zap.Logger
}

func NewOrderService(cards *CardService, ids OrderIDs, client OrderSubmitter, logger *zap.Logger) *OrderService {
	return &OrderService{
		cards:  cards,
		ids:    ids,
		client: client,
		logger: logger,
	}
}

// Place submits the card for printing and returns the print PDF. The
// uploaded image is a preview-size render without the barcode; the barcode
// is only generated once the endpoint has accepted the order.
func (s *OrderService) Place(ctx context.Context, d card.Draft) (OrderReceipt, error) {
	orderID := s.ids.Next()
	log := s.logger.With(zap.String("order_id", orderID))

	st, err := s.cards.Build(ctx, d)
	if err != nil {
		return OrderReceipt{}, err
	}
	st.OrderID = orderID

	upload, err := s.cards.Render(ctx, st, card.ModePDF, d.Toggles, s.cards.opts.Preview)
	if err != nil {
		return OrderReceipt{}, err
	}
	pngData, err := export.EncodePNG(upload)
	if err != nil {
		return OrderReceipt{}, err
	}

	res, err := s.client.Submit(ctx, order.Submission{
		OrderID:    orderID,
		PNG:        pngData,
		Background: s.cards.templateKey(d),
		Message:    st.Message.Text,
		Font:       s.cards.fontKey(d),
		Align:      string(st.Message.Anchor),
	})
	if err != nil {
		return OrderReceipt{}, fmt.Errorf("submit %s: %w", orderID, err)
	}
	log.Info("order accepted", zap.String("url", res.URL))

	pdf, err := s.cards.packagePDF(ctx, st, d.Toggles)
	if err != nil {
		return OrderReceipt{}, fmt.Errorf("print file for %s: %w", orderID, err)
	}

	return OrderReceipt{OrderID: orderID, AssetURL: res.URL, PDF: pdf}, nil
}
