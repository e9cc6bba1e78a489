package files

import (
	"context"
	"image"
)

// FileManager fetches user uploads as decoded images.
type FileManager interface {
	FetchImage(ctx context.Context, fileID string) (image.Image, error)
}
