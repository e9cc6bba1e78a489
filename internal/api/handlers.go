package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"msgcard/internal/card"
	"msgcard/internal/files"
	"msgcard/internal/order"
	"msgcard/internal/services"
)

type CardRenderer interface {
	Preview(ctx context.Context, d card.Draft) ([]byte, error)
	Sample(ctx context.Context, d card.Draft) ([]byte, error)
	PDF(ctx context.Context, d card.Draft, orderID string) ([]byte, error)
	Templates() []string
	Fonts() []string
}

type OrderPlacer interface {
	Place(ctx context.Context, d card.Draft) (services.OrderReceipt, error)
}

type Server struct {
	cards       CardRenderer
	orders      OrderPlacer
	maxFileSize int64
}

func NewServer(cards CardRenderer, orders OrderPlacer, maxFileSize int64) *Server {
	return &Server{
		cards:       cards,
		orders:      orders,
		maxFileSize: maxFileSize,
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": s.cards.Templates(),
		"fonts":     s.cards.Fonts(),
	})
}

// renderCard returns the card as PNG (preview, sample) or PDF (pdf).
func (s *Server) renderCard(c *gin.Context) {
	mode, err := card.ParseMode(c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := s.draftFromForm(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	ctx := c.Request.Context()
	switch mode {
	case card.ModePreview, card.ModeSample:
		render := s.cards.Preview
		if mode == card.ModeSample {
			render = s.cards.Sample
		}
		data, err := render(ctx, draft)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", data)
	case card.ModePDF:
		orderID := c.PostForm("order_id")
		data, err := s.cards.PDF(ctx, draft, orderID)
		if err != nil {
			s.abort(c, err)
			return
		}
		name := "card.pdf"
		if orderID != "" {
			name = orderID + ".pdf"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

func (s *Server) placeOrder(c *gin.Context) {
	draft, err := s.draftFromForm(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	if draft.Photo == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}

	receipt, err := s.orders.Place(c.Request.Context(), draft)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": receipt.OrderID, "url": receipt.AssetURL})
}

func (s *Server) abort(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, order.ErrSubmission):
		status = http.StatusBadGateway
	case errors.Is(err, card.ErrResourceLoad):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) draftFromForm(c *gin.Context) (card.Draft, error) {
	d := card.NewDraft()
	d.Template = c.PostForm("template")
	d.Text = c.PostForm("text")
	d.Font = c.PostForm("font")
	d.Fit = card.ParseFit(c.PostForm("fit"))
	d.Anchor = card.ParseAnchor(c.PostForm("align"))
	if color := c.PostForm("color"); color != "" {
		d.Color = color
	}
	d.Toggles.Frame = formBool(c, "frame", true)
	d.Toggles.Guides = formBool(c, "guides", false)

	photo, err := s.readPhoto(c)
	if err != nil {
		return d, err
	}
	d.Photo = photo
	return d, nil
}

func (s *Server) readPhoto(c *gin.Context) (image.Image, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, card.NewResourceError(card.KindPhoto, "photo", err)
	}
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return nil, card.NewResourceError(card.KindPhoto, fh.Filename,
			fmt.Errorf("file is %d bytes, limit is %d", fh.Size, s.maxFileSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, card.NewResourceError(card.KindPhoto, fh.Filename, err)
	}
	defer f.Close()

	img, err := files.Decode(f)
	if err != nil {
		return nil, card.NewResourceError(card.KindPhoto, fh.Filename, err)
	}
	return img, nil
}

func formBool(c *gin.Context, key string, def bool) bool {
	v, ok := c.GetPostForm(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v == "on"
	}
	return b
}
