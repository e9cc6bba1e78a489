package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"msgcard/internal/bot"
	"msgcard/internal/card"
	"msgcard/internal/files"
	"msgcard/internal/order"
	"msgcard/internal/services"
	"msgcard/internal/storage"
)

type CardRenderer interface {
	Preview(ctx context.Context, d card.Draft) ([]byte, error)
	Sample(ctx context.Context, d card.Draft) ([]byte, error)
	Templates() []string
	Fonts() []string
}

type OrderPlacer interface {
	Place(ctx context.Context, d card.Draft) (services.OrderReceipt, error)
}

type CardHandler struct {
	cards       CardRenderer
	orders      OrderPlacer
	bot         bot.Bot
	fileManager files.FileManager
	drafts      *storage.DraftStore
	tempDir     string
	logger      *zap.Logger
}

func NewCardHandler(
	cards CardRenderer,
	orders OrderPlacer,
	bot bot.Bot,
	fileManager files.FileManager,
	drafts *storage.DraftStore,
	tempDir string,
	logger *zap.Logger,
) *CardHandler {
	return &CardHandler{
		cards:       cards,
		orders:      orders,
		bot:         bot,
		fileManager: fileManager,
		drafts:      drafts,
		tempDir:     tempDir,
		logger:      logger,
	}
}

func (h *CardHandler) HandleUpdate(ctx context.Context, update telego.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case hasPhoto(msg):
		_ = h.withProcessing(ctx, chatID, func() error {
			return h.handlePhoto(ctx, msg)
		})
	case strings.HasPrefix(text, "/"):
		h.handleCommand(ctx, chatID, text)
	case text == l10n.T(btnPreview):
		_ = h.withProcessing(ctx, chatID, func() error {
			return h.sendPreview(ctx, chatID, false)
		})
	case text == l10n.T(btnSample):
		_ = h.withProcessing(ctx, chatID, func() error {
			return h.sendPreview(ctx, chatID, true)
		})
	case text == l10n.T(btnOrder):
		_ = h.withProcessing(ctx, chatID, func() error {
			return h.placeOrder(ctx, chatID)
		})
	case text != "":
		h.drafts.Update(chatID, func(d *card.Draft) { d.Text = text })
		_ = h.bot.SendText(ctx, chatID, l10n.T(msgTextSaved))
	default:
		_ = h.bot.ShowMenu(ctx, chatID, l10n.T(msgWelcome), menuButtons())
	}
}

func (h *CardHandler) handleCommand(ctx context.Context, chatID int64, text string) {
	cmd, arg := splitCommand(text)

	var reply string
	switch cmd {
	case "/start":
		h.drafts.Reset(chatID)
		_ = h.bot.ShowMenu(ctx, chatID, l10n.T(msgWelcome), menuButtons())
		return
	case "/template":
		reply = h.setChoice(chatID, arg, h.cards.Templates(), func(d *card.Draft, v string) { d.Template = v })
	case "/font":
		reply = h.setChoice(chatID, arg, h.cards.Fonts(), func(d *card.Draft, v string) { d.Font = v })
	case "/fit":
		reply = h.setChoice(chatID, arg, []string{string(card.FitContain), string(card.FitCover)},
			func(d *card.Draft, v string) { d.Fit = card.FitPolicy(v) })
	case "/align":
		reply = h.setChoice(chatID, arg, []string{string(card.AnchorTop), string(card.AnchorCenter), string(card.AnchorBottom)},
			func(d *card.Draft, v string) { d.Anchor = card.Anchor(v) })
	case "/frame":
		reply = h.setChoice(chatID, arg, switchValues, func(d *card.Draft, v string) { d.Toggles.Frame = v == "on" })
	case "/guides":
		reply = h.setChoice(chatID, arg, switchValues, func(d *card.Draft, v string) { d.Toggles.Guides = v == "on" })
	case "/color":
		if !card.ValidColor(arg) {
			reply = l10n.T(msgBadColor)
			break
		}
		h.drafts.Update(chatID, func(d *card.Draft) { d.Color = arg })
		reply = l10n.T(msgSaved)
	case "/text":
		h.drafts.Update(chatID, func(d *card.Draft) { d.Text = arg })
		if arg == "" {
			reply = l10n.T(msgTextCleared)
		} else {
			reply = l10n.T(msgTextSaved)
		}
	default:
		reply = l10n.T(msgHelp)
	}

	_ = h.bot.SendText(ctx, chatID, reply)
}

var switchValues = []string{"on", "off"}

func (h *CardHandler) setChoice(chatID int64, arg string, allowed []string, apply func(*card.Draft, string)) string {
	v := strings.ToLower(arg)
	if !slices.Contains(allowed, v) {
		return l10n.F(msgBadOption, arg, strings.Join(allowed, ", "))
	}
	h.drafts.Update(chatID, func(d *card.Draft) { apply(d, v) })
	return l10n.T(msgSaved)
}

func (h *CardHandler) handlePhoto(ctx context.Context, msg *telego.Message) error {
	chatID := msg.Chat.ID

	fileID, err := extractFileID(msg)
	if err != nil {
		return h.fail(ctx, chatID, "no file in message", l10n.T(msgPhotoFailed), err)
	}

	photo, err := h.fileManager.FetchImage(ctx, fileID)
	if err != nil {
		return h.fail(ctx, chatID, "photo fetch failed", l10n.T(msgPhotoFailed), err)
	}

	caption := strings.TrimSpace(msg.Caption)
	h.drafts.Update(chatID, func(d *card.Draft) {
		d.Photo = photo
		if caption != "" {
			d.Text = caption
		}
	})

	return h.bot.ShowMenu(ctx, chatID, l10n.T(msgPhotoSaved), menuButtons())
}

func (h *CardHandler) sendPreview(ctx context.Context, chatID int64, sample bool) error {
	_ = h.bot.SendText(ctx, chatID, l10n.T(msgRendering))
	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadPhoto)

	draft := h.drafts.Get(chatID)
	render, pattern := h.cards.Preview, "preview-*.png"
	if sample {
		render, pattern = h.cards.Sample, "sample-*.png"
	}

	data, err := render(ctx, draft)
	if err != nil {
		return h.fail(ctx, chatID, "render failed", userMessage(err), err)
	}

	resultPath, cleanup, err := h.writeTemp(pattern, data)
	if err != nil {
		return h.fail(ctx, chatID, "write result failed", l10n.T(msgRenderFailed), err)
	}
	defer cleanup()

	if sample {
		err = h.bot.SendDocument(ctx, chatID, resultPath)
	} else {
		err = h.bot.SendFileAuto(ctx, chatID, resultPath)
	}
	if err != nil {
		return h.fail(ctx, chatID, "send result failed", l10n.T(msgRenderFailed), err)
	}
	return nil
}

func (h *CardHandler) placeOrder(ctx context.Context, chatID int64) error {
	draft := h.drafts.Get(chatID)
	if draft.Photo == nil {
		return h.bot.SendText(ctx, chatID, l10n.T(msgNeedPhoto))
	}

	_ = h.bot.SendText(ctx, chatID, l10n.T(msgOrdering))
	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadDocument)

	receipt, err := h.orders.Place(ctx, draft)
	if err != nil {
		return h.fail(ctx, chatID, "order failed", userMessage(err), err)
	}
	h.logger.Info("order placed",
		zap.Int64("chat_id", chatID),
		zap.String("order_id", receipt.OrderID),
		zap.String("url", receipt.AssetURL))

	resultPath, cleanup, err := h.writeTemp(receipt.OrderID+"-*.pdf", receipt.PDF)
	if err != nil {
		return h.fail(ctx, chatID, "write order pdf failed", l10n.T(msgRenderFailed), err)
	}
	defer cleanup()

	if err := h.bot.SendDocument(ctx, chatID, resultPath); err != nil {
		return h.fail(ctx, chatID, "send order pdf failed", l10n.T(msgRenderFailed), err)
	}
	return h.bot.SendText(ctx, chatID, l10n.F(msgOrderDone, receipt.OrderID))
}

func (h *CardHandler) writeTemp(pattern string, data []byte) (string, func(), error) {
	f, err := os.CreateTemp(h.tempDir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

func (h *CardHandler) withProcessing(ctx context.Context, chatID int64, fn func() error) error {
	if !h.drafts.TryStart(chatID) {
		_ = h.bot.SendText(ctx, chatID, l10n.T(msgBusy))
		return fmt.Errorf("already processing")
	}
	defer h.drafts.Finish(chatID)
	return fn()
}

func (h *CardHandler) fail(ctx context.Context, chatID int64, logMsg, userMsg string, err error) error {
	h.logger.Error(logMsg, zap.Int64("chat_id", chatID), zap.Error(err))
	_ = h.bot.SendText(ctx, chatID, userMsg)
	return err
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, order.ErrSubmission):
		return l10n.T(msgOrderFailed)
	case errors.Is(err, card.ErrResourceLoad):
		return l10n.T(msgImageFailed)
	}
	return l10n.T(msgRenderFailed)
}

// splitCommand turns "/font@mybot yomogi" into ("/font", "yomogi").
func splitCommand(text string) (string, string) {
	cmd, arg, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func extractFileID(msg *telego.Message) (string, error) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, nil
	}
	if msg.Document != nil {
		return msg.Document.FileID, nil
	}
	return "", fmt.Errorf("no file")
}

func hasPhoto(msg *telego.Message) bool {
	return len(msg.Photo) > 0 || msg.Document != nil
}
