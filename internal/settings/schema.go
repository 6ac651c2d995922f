package settings

import (
	"encoding/json"

	"github.com/brunoga/deep"
	"github.com/iancoleman/orderedmap"
)

type SliceKind string

const (
	ToggleSwitch SliceKind = "toggleSwitch"
	ItemDropdown SliceKind = "itemDropdown"
	ColorPicker  SliceKind = "colorPicker"
	NumUpDown    SliceKind = "numUpDown"
	Slider       SliceKind = "slider"
)

type Item struct {
	DisplayName string
	Value       string
}

// Slice describes one editable option. Min and Max are nil when the host
// should not validate the value.
type Slice struct {
	Name        string
	DisplayName string
	Kind        SliceKind
	Default     any
	Items       []Item
	Min, Max    *float64
}

type Card struct {
	Name        string
	DisplayName string
	Slices      []Slice
}

func ptr(f float64) *float64 { return &f }

var schema = func() []Card {
	d := Defaults()
	return []Card{
		{
			Name:        "mapSettings",
			DisplayName: "Map Settings",
			Slices: []Slice{
				{Name: "showMap", DisplayName: "Show Map", Kind: ToggleSwitch, Default: d.Map.ShowMap},
				{Name: "mapStyle", DisplayName: "Map Style", Kind: ItemDropdown, Default: string(d.Map.MapStyle),
					Items: []Item{
						{DisplayName: "Grayscale", Value: string(Grayscale)},
						{DisplayName: "Satellite", Value: string(Satellite)},
						{DisplayName: "Road", Value: string(Road)},
					}},
			},
		},
		{
			Name:        "pathSettings",
			DisplayName: "Path Settings",
			Slices: []Slice{
				{Name: "color", DisplayName: "Route Color", Kind: ColorPicker, Default: d.Path.Color},
				{Name: "thickness", DisplayName: "Thickness", Kind: NumUpDown, Default: d.Path.Thickness, Min: ptr(0)},
				{Name: "opacity", DisplayName: "Opacity (%)", Kind: NumUpDown, Default: d.Path.Opacity, Min: ptr(0), Max: ptr(100)},
			},
		},
		{
			Name:        "glyphSettings",
			DisplayName: "Glyph Settings",
			Slices: []Slice{
				{Name: "startGlyphColor", DisplayName: "Start Glyph Color", Kind: ColorPicker, Default: d.Glyph.StartGlyphColor},
				{Name: "endGlyphColor", DisplayName: "End Glyph Color", Kind: ColorPicker, Default: d.Glyph.EndGlyphColor},
				{Name: "arrowColor", DisplayName: "Arrow Color", Kind: ColorPicker, Default: d.Glyph.ArrowColor},
				{Name: "glyphSize", DisplayName: "Glyph Size", Kind: NumUpDown, Default: d.Glyph.GlyphSize, Min: ptr(0)},
			},
		},
		{
			Name:        "arrowSettings",
			DisplayName: "Directional Arrow Settings",
			Slices: []Slice{
				{Name: "showArrows", DisplayName: "Show Arrows", Kind: ToggleSwitch, Default: d.Arrow.ShowArrows},
				{Name: "arrowCount", DisplayName: "Arrow Count", Kind: Slider, Default: d.Arrow.ArrowCount,
					Min: ptr(MinArrowCount), Max: ptr(MaxArrowCount)},
			},
		},
	}
}()

// Schema returns the option cards in display order. The result is a
// private copy.
func Schema() []Card {
	return deep.MustCopy(schema)
}

// SchemaJSON renders Schema with keys in declaration order.
func SchemaJSON() ([]byte, error) {
	var cards []*orderedmap.OrderedMap
	for _, c := range schema {
		var slices []*orderedmap.OrderedMap
		for _, s := range c.Slices {
			om := orderedmap.New()
			om.Set("name", s.Name)
			om.Set("displayName", s.DisplayName)
			om.Set("kind", s.Kind)
			om.Set("default", s.Default)
			if len(s.Items) > 0 {
				var items []*orderedmap.OrderedMap
				for _, it := range s.Items {
					im := orderedmap.New()
					im.Set("displayName", it.DisplayName)
					im.Set("value", it.Value)
					items = append(items, im)
				}
				om.Set("items", items)
			}
			if s.Min != nil {
				om.Set("min", *s.Min)
			}
			if s.Max != nil {
				om.Set("max", *s.Max)
			}
			slices = append(slices, om)
		}
		cm := orderedmap.New()
		cm.Set("name", c.Name)
		cm.Set("displayName", c.DisplayName)
		cm.Set("slices", slices)
		cards = append(cards, cm)
	}
	return json.MarshalIndent(cards, "", "  ")
}
