package files

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"msgcard/internal/bot"
	"msgcard/internal/card"
)

// FileLocator is the part of the bot that knows where uploads live.
type FileLocator interface {
	GetFile(ctx context.Context, fileID string) (*bot.File, error)
	FileDownloadURL(filePath string) string
}

type telegramFileManager struct {
	locator     FileLocator
	resolver    *Resolver
	maxFileSize int64
}

func NewTelegramFileManager(locator FileLocator, client *http.Client, maxFileSize int64) FileManager {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &telegramFileManager{
		locator:     locator,
		resolver:    NewResolver("", client, maxFileSize),
		maxFileSize: maxFileSize,
	}
}

func (fm *telegramFileManager) FetchImage(ctx context.Context, fileID string) (image.Image, error) {
	tf, err := fm.locator.GetFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("GetFile error: %w", err)
	}
	if tf == nil || tf.FilePath == "" {
		return nil, fmt.Errorf("invalid file info from telegram for id %s", fileID)
	}
	if fm.maxFileSize > 0 && tf.FileSize > fm.maxFileSize {
		return nil, card.NewResourceError(card.KindPhoto, fileID,
			fmt.Errorf("file is %d bytes, limit is %d", tf.FileSize, fm.maxFileSize))
	}

	data, err := fm.resolver.read(ctx, fm.locator.FileDownloadURL(tf.FilePath))
	if err != nil {
		return nil, card.NewResourceError(card.KindPhoto, fileID, err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, card.NewResourceError(card.KindPhoto, fileID, err)
	}
	return img, nil
}
