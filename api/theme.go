package api

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Theme int

const (
	ThemeSystem Theme = iota
	ThemeLight
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "system"
	}
}

func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "system", "default":
		return ThemeSystem, nil
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeSystem, fmt.Errorf("unknown theme %q", s)
}

// Resolve maps ThemeSystem onto the current OS preference.
func (t Theme) Resolve(prefersDark bool) Theme {
	if t != ThemeSystem {
		return t
	}
	if prefersDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Theme) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseTheme(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type Corner int

const (
	CornerRound Corner = iota
	CornerSquare
)

func (c Corner) String() string {
	if c == CornerSquare {
		return "square"
	}
	return "round"
}

func (c Corner) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *Corner) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "", "round":
		*c = CornerRound
	case "square":
		*c = CornerSquare
	default:
		return fmt.Errorf("unknown corner style %q", s)
	}
	return nil
}

// Color is a hex color such as "#2b2b2b".
type Color string

func (c Color) RGBA() (color.RGBA, error) {
	v, err := colorful.Hex(string(c))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", string(c), err)
	}
	r, g, b := v.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

type ColorScheme struct {
	Text            Color `yaml:"text"`
	Accelerator     Color `yaml:"accelerator"`
	Border          Color `yaml:"border"`
	Separator       Color `yaml:"separator"`
	Disabled        Color `yaml:"disabled"`
	Background      Color `yaml:"background"`
	HoverBackground Color `yaml:"hoverBackground"`
}

// Palette is a ColorScheme with every color parsed.
type Palette struct {
	Text            color.RGBA
	Accelerator     color.RGBA
	Border          color.RGBA
	Separator       color.RGBA
	Disabled        color.RGBA
	Background      color.RGBA
	HoverBackground color.RGBA
}

func (s ColorScheme) Palette() (Palette, error) {
	var p Palette
	for _, f := range []struct {
		c   Color
		out *color.RGBA
	}{
		{s.Text, &p.Text},
		{s.Accelerator, &p.Accelerator},
		{s.Border, &p.Border},
		{s.Separator, &p.Separator},
		{s.Disabled, &p.Disabled},
		{s.Background, &p.Background},
		{s.HoverBackground, &p.HoverBackground},
	} {
		v, err := f.c.RGBA()
		if err != nil {
			return Palette{}, err
		}
		*f.out = v
	}
	return p, nil
}

func (s *ColorScheme) defaults(d ColorScheme) {
	fill := func(c *Color, v Color) {
		if *c == "" {
			*c = v
		}
	}
	fill(&s.Text, d.Text)
	fill(&s.Accelerator, d.Accelerator)
	fill(&s.Border, d.Border)
	fill(&s.Separator, d.Separator)
	fill(&s.Disabled, d.Disabled)
	fill(&s.Background, d.Background)
	fill(&s.HoverBackground, d.HoverBackground)
}

var (
	DarkColorScheme = ColorScheme{
		Text:            "#ffffff",
		Accelerator:     "#8c8c8c",
		Border:          "#454545",
		Separator:       "#454545",
		Disabled:        "#6d6d6d",
		Background:      "#2b2b2b",
		HoverBackground: "#3d3d3d",
	}
	LightColorScheme = ColorScheme{
		Text:            "#000000",
		Accelerator:     "#6d6d6d",
		Border:          "#cccccc",
		Separator:       "#d7d7d7",
		Disabled:        "#a0a0a0",
		Background:      "#f9f9f9",
		HoverBackground: "#e5e5e5",
	}
)
