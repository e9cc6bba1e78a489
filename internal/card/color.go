package card

import (
	"image/color"
	"strconv"
	"strings"
)

const DefaultColor = "#333333"

var defaultRGBA = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}

// ParseColor accepts #rgb and #rrggbb. Anything else yields the default text
// color.
func ParseColor(s string) color.RGBA {
	if c, ok := parseHex(s); ok {
		return c
	}
	return defaultRGBA
}

func ValidColor(s string) bool {
	_, ok := parseHex(s)
	return ok
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
