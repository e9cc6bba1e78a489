// Command cardctl renders message cards from local files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"msgcard/internal/app"
	"msgcard/internal/card"
	"msgcard/internal/config"
	"msgcard/internal/export"
	"msgcard/internal/files"
	"msgcard/internal/logging"
	"msgcard/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cardctl",
		Usage: "render message cards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "assets", Value: "./assets", Usage: "assets directory", EnvVars: []string{"ASSETS_DIR"}},
			&cli.StringFlag{Name: "config", Usage: "YAML config file", EnvVars: []string{"CONFIG_FILE"}},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			renderCommand(),
			templatesCommand(),
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a card to PNG or PDF",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output file, .png or .pdf"},
			&cli.StringFlag{Name: "photo", Aliases: []string{"p"}, Usage: "photo path or URL"},
			&cli.StringFlag{Name: "mode", Value: string(card.ModePreview), Usage: "preview, sample or pdf"},
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "text"},
			&cli.StringFlag{Name: "align", Value: string(card.AnchorCenter), Usage: "top, center or bottom"},
			&cli.StringFlag{Name: "fit", Value: string(card.FitContain), Usage: "contain or cover"},
			&cli.StringFlag{Name: "font"},
			&cli.StringFlag{Name: "color", Value: card.DefaultColor},
			&cli.BoolFlag{Name: "frame", Value: true},
			&cli.BoolFlag{Name: "guides"},
			&cli.StringFlag{Name: "order-id", Usage: "barcode content in pdf mode"},
			&cli.IntFlag{Name: "width"},
			&cli.IntFlag{Name: "height"},
		},
		Action: runRender,
	}
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "list template and font keys",
		Action: func(c *cli.Context) error {
			cards, _, err := buildServices(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "templates:", strings.Join(cards.Templates(), ", "))
			fmt.Fprintln(c.App.Writer, "fonts:", strings.Join(cards.Fonts(), ", "))
			return nil
		},
	}
}

func buildServices(c *cli.Context) (*services.CardService, *zap.Logger, error) {
	logger, err := logging.NewWithWriter(c.App.ErrWriter, c.String("log-level"), false)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return nil, nil, err
		}
	}
	if c.IsSet("assets") || cfg.AssetsDir == "" {
		cfg.AssetsDir = c.String("assets")
	}

	cards, _, err := app.NewServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cards, logger, nil
}

func runRender(c *cli.Context) error {
	mode, err := card.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	out := c.String("out")
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".png" && ext != ".pdf" {
		return fmt.Errorf("unsupported output %q, use .png or .pdf", out)
	}

	cards, logger, err := buildServices(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := c.Context
	draft := card.NewDraft()
	draft.Template = c.String("template")
	draft.Text = c.String("text")
	draft.Anchor = card.ParseAnchor(c.String("align"))
	draft.Fit = card.ParseFit(c.String("fit"))
	draft.Font = c.String("font")
	draft.Color = c.String("color")
	draft.Toggles = card.Toggles{Frame: c.Bool("frame"), Guides: c.Bool("guides")}

	if ref := c.String("photo"); ref != "" {
		photo, err := files.NewResolver("", nil, 0).Fetch(ctx, card.KindPhoto, ref)
		if err != nil {
			return err
		}
		draft.Photo = photo
	}

	st, err := cards.Build(ctx, draft)
	if err != nil {
		return err
	}
	if id := c.String("order-id"); id != "" && mode == card.ModePDF {
		if err := cards.AttachBarcode(&st, id); err != nil {
			return err
		}
	}

	size := renderSize(mode, c.Int("width"), c.Int("height"))
	img, err := cards.Render(ctx, st, mode, draft.Toggles, size)
	if err != nil {
		return err
	}

	var data []byte
	if ext == ".pdf" {
		data, err = export.NewPDFPackager("cardctl").Package(img, st.OrderID)
	} else {
		data, err = export.EncodePNG(img)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("card written", zap.String("path", out), zap.String("mode", string(mode)),
		zap.Int("width", size.Width), zap.Int("height", size.Height))
	return nil
}

// renderSize defaults to the preview size, or the export size in pdf mode.
// A single given dimension keeps the default aspect ratio.
func renderSize(mode card.Mode, w, h int) services.Size {
	size := services.PreviewSize
	if mode == card.ModePDF {
		size = services.ExportSize
	}

	switch {
	case w > 0 && h > 0:
		return services.Size{Width: w, Height: h}
	case w > 0:
		return services.Size{Width: w, Height: w * size.Height / size.Width}
	case h > 0:
		return services.Size{Width: h * size.Width / size.Height, Height: h}
	}
	return size
}
