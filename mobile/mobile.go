// Package mobile exposes start/stop controls for gomobile bindings.
package mobile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"msgcard/internal/app"
	"msgcard/internal/config"
	"msgcard/internal/logging"
)

type BotControl struct {
	mu      sync.Mutex
	current *botRun
}

type botRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBotControl() *BotControl {
	return &BotControl{}
}

// StartBot runs the Telegram bot in the background and reports the outcome
// as a status line for the host app.
func (bc *BotControl) StartBot(token string, assetsDir string, tempDir string) string {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.current != nil {
		return "Bot already started"
	}

	logger, err := logging.New("info")
	if err != nil {
		return fmt.Sprintf("Error creating logger: %v", err)
	}

	cfg := config.Default()
	cfg.BotToken = token
	cfg.AssetsDir = assetsDir
	cfg.TempDir = tempDir
	cfg.MaxFileSize = 50 * 1024 * 1024
	if err := cfg.Validate(); err != nil {
		return fmt.Sprintf("Invalid config: %v", err)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Sprintf("Error creating bot: %v", err)
	}

	bc.launch(logger, application.Run)
	return "Bot started successfully"
}

// launch must be called with bc.mu held.
func (bc *BotControl) launch(logger *zap.Logger, run func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &botRun{cancel: cancel, done: make(chan struct{})}
	bc.current = r

	go func() {
		defer close(r.done)
		defer cancel()

		logger.Info("bot goroutine started")
		if err := run(ctx); err != nil {
			logger.Error("bot stopped", zap.Error(err))
		}

		bc.mu.Lock()
		if bc.current == r {
			bc.current = nil
		}
		bc.mu.Unlock()
	}()
}

func (bc *BotControl) StopBot() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.current != nil {
		bc.current.cancel()
		bc.current = nil
	}
}
