package imaging

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default palette for rendered grids.
var (
	DefaultOnColor        color.Color = colorful.Color{R: 0.043, G: 0.239, B: 0.569} // #0B3D91
	DefaultOffColor       color.Color = colorful.Color{R: 1, G: 1, B: 1}
	DefaultHighlightColor color.Color = colorful.Color{R: 0.902, G: 0.224, B: 0.275} // #E63946
	DefaultLineColor      color.Color = colorful.Color{R: 0.6, G: 0.6, B: 0.6}
)

// ParseColor parses a hex color like "#FF0000", "FF0000", or "#F00".
// Invalid or empty input returns fallback.
func ParseColor(hex string, fallback color.Color) color.Color {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return fallback
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

// HexString formats c as "#rrggbb".
func HexString(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}

// TileTints returns n pale colors with evenly spaced hues, used to tell
// neighboring tiles apart in a rendered assembly. The tints stay light
// enough that the grid can still be thresholded back from the image.
func TileTints(n int) []color.Color {
	tints := make([]color.Color, n)
	for i := range tints {
		hue := 360 * float64(i) / float64(n)
		tints[i] = colorful.Hsv(hue, 0.18, 1.0)
	}
	return tints
}
