// Package settings holds the typed style configuration of a render pass
// and the schema the host uses to edit it.
package settings

import (
	"fmt"
	"math"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type MapStyle string

const (
	Grayscale MapStyle = "grayscale"
	Satellite MapStyle = "satellite"
	Road      MapStyle = "road"
)

const (
	MinArrowCount = 1
	MaxArrowCount = 48

	DefaultColor = "#4682B4"
)

// MapSettings is forwarded to basemap rendering; the route pipeline
// ignores it.
type MapSettings struct {
	ShowMap  bool     `yaml:"showMap" json:"showMap"`
	MapStyle MapStyle `yaml:"mapStyle" json:"mapStyle"`
}

type PathSettings struct {
	Color     string  `yaml:"color" json:"color"`
	Thickness float64 `yaml:"thickness" json:"thickness"`
	// Opacity is a percentage in [0,100].
	Opacity float64 `yaml:"opacity" json:"opacity"`
}

type GlyphSettings struct {
	StartGlyphColor string  `yaml:"startGlyphColor" json:"startGlyphColor"`
	EndGlyphColor   string  `yaml:"endGlyphColor" json:"endGlyphColor"`
	ArrowColor      string  `yaml:"arrowColor" json:"arrowColor"`
	GlyphSize       float64 `yaml:"glyphSize" json:"glyphSize"`
}

type ArrowSettings struct {
	ShowArrows bool `yaml:"showArrows" json:"showArrows"`
	ArrowCount int  `yaml:"arrowCount" json:"arrowCount"`
}

// StyleConfig is the resolved set of user options for one render pass.
type StyleConfig struct {
	Map   MapSettings   `yaml:"mapSettings" json:"mapSettings"`
	Path  PathSettings  `yaml:"pathSettings" json:"pathSettings"`
	Glyph GlyphSettings `yaml:"glyphSettings" json:"glyphSettings"`
	Arrow ArrowSettings `yaml:"arrowSettings" json:"arrowSettings"`
}

func Defaults() StyleConfig {
	return StyleConfig{
		Map: MapSettings{ShowMap: true, MapStyle: Grayscale},
		Path: PathSettings{
			Color:     DefaultColor,
			Thickness: 2,
			Opacity:   80,
		},
		Glyph: GlyphSettings{
			StartGlyphColor: DefaultColor,
			EndGlyphColor:   DefaultColor,
			ArrowColor:      DefaultColor,
			GlyphSize:       10,
		},
		Arrow: ArrowSettings{ShowArrows: true, ArrowCount: 20},
	}
}

var colorRE = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]+)$`)

// ValidColor accepts #rgb, #rrggbb, #rrggbbaa and CSS colour keywords.
func ValidColor(s string) bool {
	return colorRE.MatchString(s)
}

// Resolve returns c with every field forced into range. Out-of-range
// numbers are clamped, malformed values fall back to the defaults.
func (c StyleConfig) Resolve() StyleConfig {
	d := Defaults()
	switch c.Map.MapStyle {
	case Grayscale, Satellite, Road:
	default:
		c.Map.MapStyle = d.Map.MapStyle
	}

	color := func(s *string, def string) {
		if !ValidColor(*s) {
			*s = def
		}
	}
	color(&c.Path.Color, d.Path.Color)
	color(&c.Glyph.StartGlyphColor, d.Glyph.StartGlyphColor)
	color(&c.Glyph.EndGlyphColor, d.Glyph.EndGlyphColor)
	color(&c.Glyph.ArrowColor, d.Glyph.ArrowColor)

	c.Path.Thickness = clamp(c.Path.Thickness, 0, math.Inf(1), d.Path.Thickness)
	c.Path.Opacity = clamp(c.Path.Opacity, 0, 100, d.Path.Opacity)
	c.Glyph.GlyphSize = clamp(c.Glyph.GlyphSize, 0, math.Inf(1), d.Glyph.GlyphSize)
	c.Arrow.ArrowCount = min(max(c.Arrow.ArrowCount, MinArrowCount), MaxArrowCount)
	return c
}

func clamp(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return min(max(v, lo), hi)
}

// Load reads a YAML file over the defaults and resolves the result.
func Load(path string) (StyleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StyleConfig{}, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and resolves the result.
func Parse(data []byte) (StyleConfig, error) {
	c := Defaults()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return StyleConfig{}, fmt.Errorf("settings: %w", err)
	}
	return c.Resolve(), nil
}
