// Package app wires the card services to the bot and HTTP front-ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"msgcard/internal/api"
	"msgcard/internal/barcode"
	"msgcard/internal/bot"
	"msgcard/internal/config"
	"msgcard/internal/export"
	"msgcard/internal/files"
	"msgcard/internal/handlers"
	"msgcard/internal/image"
	"msgcard/internal/order"
	"msgcard/internal/services"
	"msgcard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Cards  *services.CardService
	Orders *services.OrderService

	bot     *bot.TelegramBot
	handler *handlers.CardHandler
	server  *http.Server
	logger  *zap.Logger
}

// NewServices builds the render and order services without any front-end.
// The CLI uses it directly.
func NewServices(cfg *config.Config, logger *zap.Logger) (*services.CardService, *services.OrderService, error) {
	assets := files.NewAssetLoader(cfg.AssetsDir, cfg.Templates, cfg.Fonts)

	fonts := image.NewFontRegistry()
	defaultFont := assets.FontPath(assets.DefaultFont())
	for _, path := range assets.RegisterFonts(fonts) {
		if path == defaultFont {
			// Go Regular has no CJK glyphs; Japanese text renders as boxes.
			logger.Error("default font file missing, Japanese text will not render",
				zap.String("path", path))
			continue
		}
		logger.Warn("font file missing, using fallback", zap.String("path", path))
	}

	resolver := files.NewResolver("", nil, cfg.MaxFileSize)
	compositor := image.NewCompositor(files.NewCached(resolver), fonts)

	cards := services.NewCardService(
		assets,
		fonts,
		compositor,
		barcode.NewGenerator(cfg.BarcodeHeight),
		export.NewPDFPackager("msgcard"),
		logger.Named("cards"),
		services.CardServiceOptions{
			DefaultMessage: cfg.DefaultMessage,
			Preview:        cfg.Preview,
			Export:         cfg.Export,
		},
	)

	ids, err := order.NewIDGenerator(cfg.Order.NodeID)
	if err != nil {
		return nil, nil, err
	}
	client := order.NewClient(cfg.Order.Endpoint, time.Duration(cfg.Order.TimeoutSeconds)*time.Second)
	orders := services.NewOrderService(cards, ids, client, logger.Named("orders"))

	return cards, orders, nil
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	cards, orders, err := NewServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Cards:  cards,
		Orders: orders,
		logger: logger,
	}

	if cfg.BotToken != "" {
		tg, err := bot.NewTelegramBot(cfg.BotToken, logger, cfg.MaxFileSize)
		if err != nil {
			return nil, err
		}
		fileManager := files.NewTelegramFileManager(tg, nil, cfg.MaxFileSize)
		a.bot = tg
		a.handler = handlers.NewCardHandler(
			cards,
			orders,
			tg,
			fileManager,
			storage.NewDraftStore(),
			cfg.TempDir,
			logger.Named("handler"),
		)
	}

	if cfg.HTTPAddr != "" {
		engine := api.NewEngine(api.NewServer(cards, orders, cfg.MaxFileSize), logger.Named("http"))
		a.server = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return a, nil
}

// Run starts the configured front-ends and blocks until ctx is cancelled or
// one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.bot != nil {
		g.Go(func() error {
			err := a.bot.Start(ctx, a.handler.HandleUpdate)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if a.server != nil {
		g.Go(func() error {
			a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
