package canvas

import (
	"fmt"
	"image/color"
)

var connectionPalette = []Color{
	{R: 0xDC, G: 0x26, B: 0x26},
	{R: 0xD9, G: 0x77, B: 0x06},
	{R: 0x05, G: 0x96, B: 0x69},
	{R: 0x7C, G: 0x3A, B: 0xED},
	{R: 0xDB, G: 0x27, B: 0x77},
}

// ConnectionColor maps a connection id to a stable display color.
func ConnectionColor(connectionID int) Color {
	n := len(connectionPalette)
	return connectionPalette[((connectionID%n)+n)%n]
}

// NRGBA converts c for use with image/color based renderers.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// Hex renders c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb or rrggbb.
func ParseHex(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var c Color
	if len(s) != 6 {
		return c, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
