package config

import (
	"msgcard/internal/files"
	"msgcard/internal/services"
)

type Config struct {
	BotToken       string                     `yaml:"bot_token"`
	HTTPAddr       string                     `yaml:"http_addr"`
	AssetsDir      string                     `yaml:"assets_dir"`
	TempDir        string                     `yaml:"temp_dir"`
	MaxFileSize    int64                      `yaml:"max_file_size"`
	LogLevel       string                     `yaml:"log_level"`
	DefaultMessage string                     `yaml:"default_message"`
	Templates      map[string]string          `yaml:"templates"`
	Fonts          map[string]files.FontAsset `yaml:"fonts"`
	Preview        services.Size              `yaml:"preview"`
	Export         services.Size              `yaml:"export"`
	BarcodeHeight  int                        `yaml:"barcode_height"`
	Order          OrderConfig                `yaml:"order"`
}

type OrderConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	NodeID         int64  `yaml:"node_id"`
}

func Default() *Config {
	return &Config{
		AssetsDir:      "./assets",
		TempDir:        "./temp",
		MaxFileSize:    10 * 1024 * 1024,
		LogLevel:       "info",
		DefaultMessage: services.DefaultMessage,
		Templates:      files.DefaultTemplates(),
		Fonts:          files.DefaultFonts(),
		Preview:        services.PreviewSize,
		Export:         services.ExportSize,
		Order: OrderConfig{
			TimeoutSeconds: 30,
			NodeID:         1,
		},
	}
}
