package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"msgcard/internal/card"
)

// Resolver turns image refs into decoded images. A ref is an http(s) URL,
// a data URI or a file path; relative paths are read from baseDir.
type Resolver struct {
	baseDir  string
	client   *http.Client
	maxBytes int64
}

func NewResolver(baseDir string, client *http.Client, maxBytes int64) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Resolver{
		baseDir:  baseDir,
		client:   client,
		maxBytes: maxBytes,
	}
}

// Load resolves a background ref.
func (r *Resolver) Load(ctx context.Context, ref string) (image.Image, error) {
	return r.Fetch(ctx, card.KindBackground, ref)
}

// Fetch resolves ref; failures are reported as kind resource errors.
func (r *Resolver) Fetch(ctx context.Context, kind card.ResourceKind, ref string) (image.Image, error) {
	data, err := r.read(ctx, ref)
	if err != nil {
		return nil, card.NewResourceError(kind, shortRef(ref), err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, card.NewResourceError(kind, shortRef(ref), err)
	}
	return img, nil
}

func (r *Resolver) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, errors.New("empty ref")
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case isRemote(ref):
		return r.download(ctx, ref)
	}

	path := ref
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Resolver) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// the url may carry credentials, keep it out of the message
		var ue *neturl.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %s", resp.Status)
	}
	return readLimited(resp.Body, r.maxBytes)
}

func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}
	return data, nil
}

func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data URI is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(payload)
}

// Decode decodes any supported format, applying EXIF orientation so phone
// photos come out upright.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 32 {
		return ref[:32] + "..."
	}
	return ref
}

// Source is what Cached wraps.
type Source interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Cached remembers successfully decoded images by ref. Template backgrounds
// are shared by every render, so they are decoded once.
type Cached struct {
	next  Source
	mu    sync.RWMutex
	items map[string]image.Image
}

func NewCached(next Source) *Cached {
	return &Cached{
		next:  next,
		items: make(map[string]image.Image),
	}
}

func (c *Cached) Load(ctx context.Context, ref string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.items[ref]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := c.next.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[ref] = img
	c.mu.Unlock()
	return img, nil
}
