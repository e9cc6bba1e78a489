package files

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"msgcard/internal/card"
)

// FontRegisterer receives the font files found in the assets dir.
type FontRegisterer interface {
	Register(family, path string)
}

type AssetLoader struct {
	assetsDir   string
	templates   map[string]string
	fonts       map[string]FontAsset
	defaultFont string
}

func NewAssetLoader(assetsDir string, templates map[string]string, fonts map[string]FontAsset) *AssetLoader {
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}
	if len(fonts) == 0 {
		fonts = DefaultFonts()
	}

	defaultFont := DefaultFontKey
	if _, ok := fonts[defaultFont]; !ok {
		defaultFont = sortedKeys(fonts)[0]
	}

	return &AssetLoader{
		assetsDir:   assetsDir,
		templates:   lowerKeys(templates),
		fonts:       lowerKeys(fonts),
		defaultFont: strings.ToLower(defaultFont),
	}
}

func lowerKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Background returns the image ref for a template key.
func (l *AssetLoader) Background(key string) (string, error) {
	file, ok := l.templates[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", card.NewResourceError(card.KindTemplate, key, errors.New("unknown template"))
	}
	return l.resolvePath(file), nil
}

// Font returns the font for key, or the default font for unknown keys.
func (l *AssetLoader) Font(key string) FontAsset {
	if f, ok := l.fonts[strings.ToLower(strings.TrimSpace(key))]; ok {
		return f
	}
	return l.fonts[l.defaultFont]
}

func (l *AssetLoader) DefaultTemplate() string {
	if _, ok := l.templates["classic"]; ok {
		return "classic"
	}
	return sortedKeys(l.templates)[0]
}

func (l *AssetLoader) DefaultFont() string {
	return l.defaultFont
}

// FontPath is where the file for key is expected on disk, or "" for
// families served by the embedded font.
func (l *AssetLoader) FontPath(key string) string {
	f := l.Font(key)
	if f.File == "" {
		return ""
	}
	return l.resolvePath(f.File)
}

func (l *AssetLoader) Templates() []string {
	return sortedKeys(l.templates)
}

func (l *AssetLoader) Fonts() []string {
	return sortedKeys(l.fonts)
}

// RegisterFonts hands every font file that exists on disk to r. Missing
// files are skipped; those families fall back to the embedded font.
func (l *AssetLoader) RegisterFonts(r FontRegisterer) []string {
	var missing []string
	for _, key := range sortedKeys(l.fonts) {
		f := l.fonts[key]
		if f.File == "" {
			continue
		}
		path := l.resolvePath(f.File)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
			continue
		}
		r.Register(f.Family, path)
	}
	return missing
}

func (l *AssetLoader) resolvePath(file string) string {
	if isRemote(file) || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(l.assetsDir, file)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
