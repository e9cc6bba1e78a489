package image

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goitalic"

	"msgcard/internal/card"
)

func TestFontRegistry_UnknownFamilyFallsBack(t *testing.T) {
	r := NewFontRegistry()

	if err := r.Ensure("Not Registered"); err != nil {
		t.Fatalf("expected no error for unknown family, got %v", err)
	}
	if face := r.Face("Not Registered", 24); face == nil {
		t.Fatal("expected fallback face")
	}
}

func TestFontRegistry_RegisteredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "italic.ttf")
	if err := os.WriteFile(path, goitalic.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewFontRegistry()
	r.Register("Go Italic", path)

	if err := r.Ensure("Go Italic"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	face := r.Face("Go Italic", 30)
	if m := face.Metrics(); m.Height <= 0 {
		t.Errorf("expected positive line height, got %v", m.Height)
	}
}

func TestFontRegistry_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttf")
	if err := os.WriteFile(broken, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewFontRegistry()
	r.Register("Broken", broken)
	r.Register("Missing", filepath.Join(dir, "missing.ttf"))

	for _, family := range []string{"Broken", "Missing"} {
		err := r.Ensure(family)
		if !errors.Is(err, card.ErrResourceLoad) {
			t.Errorf("%s: expected resource error, got %v", family, err)
		}
		var re *card.ResourceError
		if errors.As(err, &re) && re.Kind != card.KindFont {
			t.Errorf("%s: expected font kind, got %s", family, re.Kind)
		}
		if r.Face(family, 12) == nil {
			t.Errorf("%s: expected fallback face", family)
		}
	}
}

func TestFontRegistry_MonoAndBold(t *testing.T) {
	r := NewFontRegistry()
	if r.MonoFace(11) == nil || r.BoldFace(58) == nil {
		t.Fatal("expected embedded faces")
	}
}
