// Package core provides the cell, style and measurement types shared by the
// renderer, its backends and the widgets.
package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text attributes (bold, reverse, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Swap foreground and background
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a terminal color: the default color, a palette index or RGB.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R holds the palette index.
	Indexed bool
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates a palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ParseColor reads a color from configuration. It accepts "default" (or
// the empty string) and hex colors in "#rgb" or "#rrggbb" form.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "default") {
		return ColorDefault, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

// IsDefault returns true for the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns "default", "idx(n)" or "#RRGGBB".
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithForeground returns a copy of s with the given foreground.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a copy of s with the given background.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Reverse returns a copy of s with reverse video added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Dim returns a copy of s with the dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Theme holds the styles the widgets paint with.
type Theme struct {
	Text      Style
	Selection Style
	Gutter    Style
}

// DefaultTheme paints selections in reverse video and the gutter dimmed.
func DefaultTheme() Theme {
	return Theme{
		Text:      DefaultStyle(),
		Selection: DefaultStyle().Reverse(),
		Gutter:    DefaultStyle().Dim(),
	}
}
