package api

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Theme   Theme  `yaml:"theme"`
	Corner  Corner `yaml:"corner"`
	Animate bool   `yaml:"animate"`
	// Zero uses the driver's menu show delay.
	SubmenuDelay time.Duration `yaml:"submenuDelay,omitempty"`
	Size         SizeConfig    `yaml:"size"`
	Font         FontConfig    `yaml:"font"`
	Icon         IconConfig    `yaml:"icon"`
	Colors       struct {
		Dark  ColorScheme `yaml:"dark"`
		Light ColorScheme `yaml:"light"`
	} `yaml:"colors"`
}

type SizeConfig struct {
	BorderWidth           int `yaml:"borderWidth"`
	VerticalPadding       int `yaml:"verticalPadding"`
	HorizontalPadding     int `yaml:"horizontalPadding"`
	ItemVerticalPadding   int `yaml:"itemVerticalPadding"`
	ItemHorizontalPadding int `yaml:"itemHorizontalPadding"`
	SubmenuOffset         int `yaml:"submenuOffset"`
	SeparatorThickness    int `yaml:"separatorThickness"`
	AcceleratorGap        int `yaml:"acceleratorGap"`
	CornerRadius          int `yaml:"cornerRadius"`
}

type FontConfig struct {
	Family      string  `yaml:"family"`
	DarkSize    float64 `yaml:"darkSize"`
	LightSize   float64 `yaml:"lightSize"`
	DarkWeight  int     `yaml:"darkWeight"`
	LightWeight int     `yaml:"lightWeight"`
}

// Font is the resolved font for one theme.
type Font struct {
	Family string
	Size   float64
	Weight int
}

func (f FontConfig) For(theme Theme) Font {
	if theme == ThemeDark {
		return Font{Family: f.Family, Size: f.DarkSize, Weight: f.DarkWeight}
	}
	return Font{Family: f.Family, Size: f.LightSize, Weight: f.LightWeight}
}

type IconConfig struct {
	CheckGlyph       string `yaml:"checkGlyph"`
	ArrowGlyph       string `yaml:"arrowGlyph"`
	ReserveSpace     bool   `yaml:"reserveSpace"`
	HorizontalMargin int    `yaml:"horizontalMargin"`
	Size             int    `yaml:"size"`
}

func DefaultConfig() Config {
	var c Config
	c.Animate = true
	c.Defaults()
	return c
}

func (c *Config) Defaults() {
	if c.Size == (SizeConfig{}) {
		c.Size = SizeConfig{
			BorderWidth:           1,
			VerticalPadding:       3,
			HorizontalPadding:     3,
			ItemVerticalPadding:   4,
			ItemHorizontalPadding: 8,
			SubmenuOffset:         -3,
			SeparatorThickness:    1,
			AcceleratorGap:        24,
			CornerRadius:          6,
		}
	}
	if c.Font.Family == "" {
		c.Font.Family = "Sans"
	}
	if c.Font.DarkSize == 0 {
		c.Font.DarkSize = 10
	}
	if c.Font.LightSize == 0 {
		c.Font.LightSize = 10
	}
	if c.Font.DarkWeight == 0 {
		c.Font.DarkWeight = 400
	}
	if c.Font.LightWeight == 0 {
		c.Font.LightWeight = 400
	}
	if c.Icon.CheckGlyph == "" {
		c.Icon.CheckGlyph = "✓"
	}
	if c.Icon.ArrowGlyph == "" {
		c.Icon.ArrowGlyph = "›"
	}
	if c.Icon.HorizontalMargin == 0 {
		c.Icon.HorizontalMargin = 4
	}
	if c.Icon.Size == 0 {
		c.Icon.Size = 16
	}
	c.Colors.Dark.defaults(DarkColorScheme)
	c.Colors.Light.defaults(LightColorScheme)
}

func (c Config) Validate() error {
	if _, err := c.Colors.Dark.Palette(); err != nil {
		return fmt.Errorf("dark colors: %w", err)
	}
	if _, err := c.Colors.Light.Palette(); err != nil {
		return fmt.Errorf("light colors: %w", err)
	}
	if c.Size.BorderWidth < 0 || c.Size.SeparatorThickness < 0 {
		return errors.New("size: negative border or separator width")
	}
	return nil
}

func DefaultConfigPath() string {
	cd, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	return path.Join(cd, "ctxmenu", "config.yaml")
}

func LoadConfig(file string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.Defaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Save(file string) error {
	if err := os.MkdirAll(path.Dir(file), os.ModePerm); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
