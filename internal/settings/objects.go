package settings

import (
	"encoding/json"
	"math"
	"strconv"
)

// Objects is the host's property bag: card name, then slice name, then
// value. Colours arrive either as plain strings or as
// {"solid": {"color": "#rrggbb"}}.
type Objects map[string]map[string]any

// FromObjects overlays the recognised entries of o on the defaults.
// Unknown cards, slices and mistyped values are ignored.
func FromObjects(o Objects) StyleConfig {
	c := Defaults()
	get := func(card, slice string) (any, bool) {
		v, ok := o[card][slice]
		return v, ok && v != nil
	}
	setBool := func(card, slice string, dst *bool) {
		if v, ok := get(card, slice); ok {
			if b, ok := v.(bool); ok {
				*dst = b
			}
		}
	}
	setNum := func(card, slice string, dst *float64) {
		if v, ok := get(card, slice); ok {
			if f, ok := number(v); ok {
				*dst = f
			}
		}
	}
	setColor := func(card, slice string, dst *string) {
		if v, ok := get(card, slice); ok {
			if s, ok := colorValue(v); ok {
				*dst = s
			}
		}
	}

	setBool("mapSettings", "showMap", &c.Map.ShowMap)
	if v, ok := get("mapSettings", "mapStyle"); ok {
		switch x := v.(type) {
		case string:
			c.Map.MapStyle = MapStyle(x)
		case map[string]any:
			if s, ok := x["value"].(string); ok {
				c.Map.MapStyle = MapStyle(s)
			}
		}
	}
	setColor("pathSettings", "color", &c.Path.Color)
	setNum("pathSettings", "thickness", &c.Path.Thickness)
	setNum("pathSettings", "opacity", &c.Path.Opacity)
	setColor("glyphSettings", "startGlyphColor", &c.Glyph.StartGlyphColor)
	setColor("glyphSettings", "endGlyphColor", &c.Glyph.EndGlyphColor)
	setColor("glyphSettings", "arrowColor", &c.Glyph.ArrowColor)
	setNum("glyphSettings", "glyphSize", &c.Glyph.GlyphSize)
	setBool("arrowSettings", "showArrows", &c.Arrow.ShowArrows)
	count := float64(c.Arrow.ArrowCount)
	setNum("arrowSettings", "arrowCount", &count)
	if !math.IsNaN(count) {
		c.Arrow.ArrowCount = int(math.Round(min(max(count, MinArrowCount), MaxArrowCount)))
	}
	return c.Resolve()
}

// ParseObjects decodes the host's JSON property bag.
func ParseObjects(data []byte) (StyleConfig, error) {
	var o Objects
	if err := json.Unmarshal(data, &o); err != nil {
		return StyleConfig{}, err
	}
	return FromObjects(o), nil
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func colorValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case map[string]any:
		if solid, ok := x["solid"].(map[string]any); ok {
			s, ok := solid["color"].(string)
			return s, ok
		}
		if s, ok := x["value"].(string); ok {
			return s, true
		}
	}
	return "", false
}
