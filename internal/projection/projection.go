// Package projection fits geographic extents into a pixel viewport with
// independent linear scales on each axis.
package projection

import (
	"math"

	"github.com/jbeda/geom"

	"routeviz/internal/route"
)

// DefaultPadding is the margin kept clear on every side of the viewport.
const DefaultPadding = 50

type Viewport struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

func (v Viewport) Center() geom.Coord {
	return geom.Coord{X: v.Width / 2, Y: v.Height / 2}
}

// Bounds returns the lon/lat extent of every point in groups as a rect
// with X = longitude and Y = latitude. ok is false when there are no
// points.
func Bounds(groups []route.PathGroup) (r geom.Rect, ok bool) {
	for _, g := range groups {
		for _, p := range g.Points {
			c := geom.Coord{X: p.Longitude, Y: p.Latitude}
			if !ok {
				r = geom.Rect{Min: c, Max: c}
				ok = true
				continue
			}
			r.ExpandToContainCoord(c)
		}
	}
	return r, ok
}

// Scale is a linear map from a domain to a range. A collapsed domain maps
// everything to the middle of the range.
type Scale struct {
	D0, D1 float64
	R0, R1 float64
}

func (s Scale) Apply(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 || math.IsNaN(span) {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Invert maps a range value back into the domain.
func (s Scale) Invert(v float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return (s.D0 + s.D1) / 2
	}
	return s.D0 + (v-s.R0)/span*(s.D1-s.D0)
}

// Projection maps (lon, lat) to viewport pixels. It is immutable and
// shared by every group of one render pass.
type Projection struct {
	X, Y Scale
}

// New fits bounds into vp leaving padding on all sides. Latitude grows
// upward, so the y range runs from the bottom edge to the top.
func New(bounds geom.Rect, vp Viewport, padding float64) Projection {
	return Projection{
		X: Scale{D0: bounds.Min.X, D1: bounds.Max.X, R0: padding, R1: vp.Width - padding},
		Y: Scale{D0: bounds.Min.Y, D1: bounds.Max.Y, R0: vp.Height - padding, R1: padding},
	}
}

// Build computes the bounds of groups and fits them into vp with
// DefaultPadding.
func Build(groups []route.PathGroup, vp Viewport) Projection {
	b, _ := Bounds(groups)
	return New(b, vp, DefaultPadding)
}

func (p Projection) Project(lon, lat float64) geom.Coord {
	return geom.Coord{X: p.X.Apply(lon), Y: p.Y.Apply(lat)}
}

// Unproject returns the lon/lat under a pixel.
func (p Projection) Unproject(c geom.Coord) (lon, lat float64) {
	return p.X.Invert(c.X), p.Y.Invert(c.Y)
}

// Points projects every point of g.
func (p Projection) Points(g route.PathGroup) []geom.Coord {
	pts := make([]geom.Coord, len(g.Points))
	for i, rp := range g.Points {
		pts[i] = p.Project(rp.Longitude, rp.Latitude)
	}
	return pts
}
