package domain

import (
	"fmt"
	"strings"
)

// Color is a task color tag. The zero value means "no color".
type Color string

// Palette colors.
const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorGray   Color = "gray"
)

// paletteHex maps each palette color to the hex value the board renders it with.
var paletteHex = map[Color]string{
	ColorRed:    "#F36B6B",
	ColorYellow: "#FFD86B",
	ColorBlue:   "#6B9AFF",
	ColorGreen:  "#7BE495",
	ColorGray:   "#BBBBBB",
}

// Palette returns the tag colors in menu order, without ColorNone.
func Palette() []Color {
	return []Color{ColorRed, ColorYellow, ColorBlue, ColorGreen, ColorGray}
}

// IsEmpty reports whether c is ColorNone.
func (c Color) IsEmpty() bool {
	return c == ColorNone
}

// Hex returns the hex value for c, or "" for ColorNone and unknown colors.
func (c Color) Hex() string {
	return paletteHex[c]
}

// Next cycles through the palette, ending with ColorNone.
func (c Color) Next() Color {
	p := Palette()
	if c.IsEmpty() {
		return p[0]
	}
	for i, pc := range p {
		if pc == c {
			if i == len(p)-1 {
				return ColorNone
			}
			return p[i+1]
		}
	}
	return ColorNone
}

// ParseColor parses a palette name ("blue") or its hex value ("#6B9AFF").
// Matching is case-insensitive; "" and "none" parse to ColorNone.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "none" {
		return ColorNone, nil
	}
	if v == "grey" {
		return ColorGray, nil
	}
	for c, hex := range paletteHex {
		if v == string(c) || v == strings.ToLower(hex) {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}
