package files

// FontAsset ties a font key shown to users to a family name and, optionally,
// a font file inside the assets dir.
type FontAsset struct {
	Family string `yaml:"family"`
	File   string `yaml:"file"`
}

const DefaultFontKey = "noto"

func DefaultTemplates() map[string]string {
	return map[string]string{
		"classic": "bg-a.png",
		"modern":  "bg-b.png",
		"cute":    "bg-c.jpg",
	}
}

func DefaultFonts() map[string]FontAsset {
	return map[string]FontAsset{
		"noto":     {Family: "Noto Sans JP", File: "NotoSansJP-Regular.ttf"},
		"shippori": {Family: "Shippori Mincho B1", File: "ShipporiMinchoB1-Regular.ttf"},
		"zenmaru":  {Family: "Zen Maru Gothic", File: "ZenMaruGothic-Regular.ttf"},
		"yomogi":   {Family: "Yomogi", File: "Yomogi-Regular.ttf"},
	}
}
