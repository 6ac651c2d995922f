// Package scene composes route groups into an ordered list of draw
// commands for a drawing surface.
package scene

import (
	"fmt"
	"strings"
	"time"

	"github.com/jbeda/geom"

	"routeviz/internal/curve"
	"routeviz/internal/route"
)

type Kind string

const (
	StrokeCurve Kind = "stroke-curve"
	FillCircle  Kind = "fill-circle"
	FillPolygon Kind = "fill-polygon"
	Text        Kind = "text"
)

// Glyph artwork, authored pointing up (-y) around the origin.
var (
	ShipShape  = []geom.Coord{{X: 0, Y: -8}, {X: -3, Y: -4}, {X: -3, Y: 4}, {X: -1, Y: 8}, {X: 1, Y: 8}, {X: 3, Y: 4}, {X: 3, Y: -4}}
	ArrowShape = []geom.Coord{{X: 0, Y: -4}, {X: -3, Y: 4}, {X: 0, Y: 2}, {X: 3, Y: 4}}
)

const (
	ShipGlyph  = "ship"
	ArrowGlyph = "arrow"

	// MaxArrows caps arrows per path regardless of configuration.
	MaxArrows = 48

	Placeholder = "Add: Path ID, Timestamp, Latitude, Longitude"
)

// Transform applies scale, then rotation (degrees, clockwise in screen
// space), then translation.
type Transform struct {
	Translate geom.Coord `json:"translate" msgpack:"translate"`
	Rotate    float64    `json:"rotate" msgpack:"rotate"`
	Scale     float64    `json:"scale" msgpack:"scale"`
}

// Apply maps a shape-space point to viewport space.
func (t Transform) Apply(p geom.Coord) geom.Coord {
	p = p.Times(t.Scale)
	p = rotate(p, t.Rotate)
	return p.Plus(t.Translate)
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) rotate(%g) scale(%g)", t.Translate.X, t.Translate.Y, t.Rotate, t.Scale)
}

type Style struct {
	Fill        string  `json:"fill,omitempty" msgpack:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" msgpack:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" msgpack:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty" msgpack:"opacity,omitempty"`
	LineJoin    string  `json:"lineJoin,omitempty" msgpack:"lineJoin,omitempty"`
	LineCap     string  `json:"lineCap,omitempty" msgpack:"lineCap,omitempty"`
}

// Meta is the pass-through interactivity data of a point glyph.
type Meta struct {
	Timestamp time.Time            `json:"timestamp" msgpack:"timestamp"`
	Latitude  float64              `json:"latitude" msgpack:"latitude"`
	Longitude float64              `json:"longitude" msgpack:"longitude"`
	Tooltip   []any                `json:"tooltip,omitempty" msgpack:"tooltip,omitempty"`
	Selection route.SelectionToken `json:"selection" msgpack:"selection"`
}

func metaOf(p route.RoutePoint) *Meta {
	return &Meta{
		Timestamp: p.Timestamp,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Tooltip:   p.Tooltip,
		Selection: p.Selection,
	}
}

// Command is one drawing instruction. Which fields are set depends on
// Kind: Segments for strokes, Center and Radius for circles, Glyph, Shape
// and Transform for polygons, Center, Text, FontSize and Anchor for text.
type Command struct {
	Kind     Kind            `json:"kind" msgpack:"kind"`
	PathID   string          `json:"pathId,omitempty" msgpack:"pathId,omitempty"`
	Segments []curve.Segment `json:"segments,omitempty" msgpack:"segments,omitempty"`

	Center geom.Coord `json:"center" msgpack:"center"`
	Radius float64    `json:"radius,omitempty" msgpack:"radius,omitempty"`

	Glyph     string       `json:"glyph,omitempty" msgpack:"glyph,omitempty"`
	Shape     []geom.Coord `json:"shape,omitempty" msgpack:"shape,omitempty"`
	Transform Transform    `json:"transform" msgpack:"transform"`
	// Distance is the arc length at which an arrow sits.
	Distance float64 `json:"distance,omitempty" msgpack:"distance,omitempty"`

	Text     string  `json:"text,omitempty" msgpack:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty" msgpack:"fontSize,omitempty"`
	Anchor   string  `json:"anchor,omitempty" msgpack:"anchor,omitempty"`

	Style Style `json:"style" msgpack:"style"`
	Meta  *Meta `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// Outline returns a polygon command's vertices in viewport space.
func (c Command) Outline() []geom.Coord {
	out := make([]geom.Coord, len(c.Shape))
	for i, p := range c.Shape {
		out[i] = c.Transform.Apply(p)
	}
	return out
}

// PathData renders a closed shape as SVG path data.
func PathData(shape []geom.Coord) string {
	var b strings.Builder
	for i, p := range shape {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		fmt.Fprintf(&b, "%g,%g", p.X, p.Y)
	}
	if len(shape) > 0 {
		b.WriteString(" Z")
	}
	return b.String()
}

// CurveData renders stroke segments as SVG path data.
func CurveData(segs []curve.Segment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%g,%g", segs[0].P0.X, segs[0].P0.Y)
	for _, s := range segs {
		fmt.Fprintf(&b, "C%g,%g,%g,%g,%g,%g", s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.P3.X, s.P3.Y)
	}
	return b.String()
}
