package app

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"msgcard/internal/card"
	"msgcard/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "bg-a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 6, 8))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config.Default()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.AssetsDir = dir
	cfg.TempDir = filepath.Join(dir, "tmp")
	cfg.Preview.Width, cfg.Preview.Height = 30, 40
	return cfg
}

func TestNewServices_RendersPreview(t *testing.T) {
	cards, orders, err := NewServices(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	if orders == nil {
		t.Fatal("expected order service")
	}

	data, err := cards.Preview(context.Background(), card.NewDraft())
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected PNG bytes")
	}
}

func TestNewServices_RelativeAssetsDir(t *testing.T) {
	cfg := testConfig(t)
	t.Chdir(filepath.Dir(cfg.AssetsDir))
	cfg.AssetsDir = "./" + filepath.Base(cfg.AssetsDir)

	cards, _, err := NewServices(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	if _, err := cards.Preview(context.Background(), card.NewDraft()); err != nil {
		t.Fatalf("Preview with relative assets dir failed: %v", err)
	}
}

func TestNewServices_MissingDefaultFontIsError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	if _, _, err := NewServices(testConfig(t), zap.New(core)); err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}

	entries := logs.FilterMessage("default font file missing, Japanese text will not render").All()
	if len(entries) != 1 || entries[0].Level != zap.ErrorLevel {
		t.Errorf("expected one error for the default font, got %d", len(entries))
	}
}

func TestNewServices_BarcodeHeightFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.BarcodeHeight = 33

	cards, _, err := NewServices(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}

	var st card.State
	if err := cards.AttachBarcode(&st, "order_7"); err != nil {
		t.Fatalf("AttachBarcode failed: %v", err)
	}
	if st.OrderID != "order_7" || st.Barcode.Bounds().Dy() != 33 {
		t.Errorf("unexpected barcode state %q height %d", st.OrderID, st.Barcode.Bounds().Dy())
	}
}

func TestNewServices_BadNodeID(t *testing.T) {
	cfg := testConfig(t)
	cfg.Order.NodeID = 5000

	if _, _, err := NewServices(cfg, zap.NewNop()); err == nil {
		t.Error("expected node id error")
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.bot != nil || a.server == nil {
		t.Fatal("expected HTTP only without a token")
	}
	if _, err := os.Stat(cfg.TempDir); err != nil {
		t.Errorf("expected temp dir to be created: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}
