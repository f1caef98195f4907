package models

import (
	"fmt"
	"strings"
)

// Color is the display color of a calendar, stored as RGBA channels.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// RGB builds a fully opaque color from red, green and blue channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// ParseColor parses a "#rrggbb" or "#rrggbbaa" hex string.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 6:
		var c Color
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.A = 0xff
		return c, nil
	case 8:
		var c Color
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return c, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
