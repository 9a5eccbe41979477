package display

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseColour converts an RRGGBB hex string to a tcell colour.
func ParseColour(hex string) (tcell.Color, error) {
	c, err := parseHex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	return toTcell(c), nil
}

// Palette converts a list of hex colours.
func Palette(hexes []string) ([]tcell.Color, error) {
	out := make([]tcell.Color, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseColour(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// dim returns c blended halfway toward black, used for the rule line.
func dim(c tcell.Color) tcell.Color {
	if !c.Valid() {
		return c
	}
	r, g, b := c.RGB()
	fc := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return toTcell(fc.BlendLab(colorful.Color{}, 0.5).Clamped())
}

func parseHex(hex string) (colorful.Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return c, nil
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
