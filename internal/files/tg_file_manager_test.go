package files

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"msgcard/internal/bot"
	"msgcard/internal/card"
)

type fakeLocator struct {
	base string
	file *bot.File
	err  error
}

func (l *fakeLocator) GetFile(context.Context, string) (*bot.File, error) {
	return l.file, l.err
}

func (l *fakeLocator) FileDownloadURL(path string) string {
	return l.base + "/file/botSECRET/" + path
}

func TestTelegramFileManager_FetchImage(t *testing.T) {
	data := pngData(t, 6, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/photos/file_1.png") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	loc := &fakeLocator{base: srv.URL, file: &bot.File{FileID: "abc", FilePath: "photos/file_1.png", FileSize: int64(len(data))}}
	img, err := NewTelegramFileManager(loc, srv.Client(), 1<<20).FetchImage(context.Background(), "abc")
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestTelegramFileManager_Failures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	tests := []struct {
		name string
		loc  *fakeLocator
	}{
		{"lookup error", &fakeLocator{err: errors.New("bad request")}},
		{"no path", &fakeLocator{file: &bot.File{FileID: "abc"}}},
		{"too large", &fakeLocator{file: &bot.File{FilePath: "p.png", FileSize: 1 << 30}}},
		{"download fails", &fakeLocator{base: srv.URL, file: &bot.File{FilePath: "p.png"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTelegramFileManager(tt.loc, srv.Client(), 1<<20).FetchImage(context.Background(), "abc")
			if err == nil {
				t.Fatal("expected error")
			}
			if strings.Contains(err.Error(), "SECRET") {
				t.Errorf("error leaks the token: %v", err)
			}
		})
	}
}

func TestTelegramFileManager_PhotoErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	loc := &fakeLocator{base: srv.URL, file: &bot.File{FilePath: "p.png"}}
	_, err := NewTelegramFileManager(loc, srv.Client(), 0).FetchImage(context.Background(), "abc")

	var re *card.ResourceError
	if !errors.As(err, &re) || re.Kind != card.KindPhoto || re.Ref != "abc" {
		t.Errorf("expected photo error for abc, got %v", err)
	}
}
