package curve

import (
	"math"
	"sort"

	"github.com/jbeda/geom"
)

const (
	// Epsilon is the arc-length offset on either side of a query used to
	// estimate the tangent.
	Epsilon = 2.0

	flatness = 0.05
	maxDepth = 16
)

// Sampler answers arc-length queries against a curve flattened into a
// polyline fine enough that chord and arc lengths agree to well under a
// pixel.
type Sampler struct {
	pts []geom.Coord
	cum []float64
}

func NewSampler(c *Curve) *Sampler {
	s := &Sampler{}
	if c == nil || len(c.Segments) == 0 {
		return s
	}
	s.pts = append(s.pts, c.Start())
	for _, seg := range c.Segments {
		s.flatten(seg, 0)
	}
	s.cum = make([]float64, len(s.pts))
	for i := 1; i < len(s.pts); i++ {
		s.cum[i] = s.cum[i-1] + s.pts[i].DistanceFrom(s.pts[i-1])
	}
	return s
}

func (s *Sampler) flatten(seg Segment, depth int) {
	if depth >= maxDepth || flat(seg) {
		s.pts = append(s.pts, seg.P3)
		return
	}
	a, b := seg.split()
	s.flatten(a, depth+1)
	s.flatten(b, depth+1)
}

// flat reports whether both handles lie within flatness of the chord.
func flat(seg Segment) bool {
	chord := seg.P3.Minus(seg.P0)
	l := chord.Magnitude()
	if l == 0 {
		return seg.C1.DistanceFrom(seg.P0) <= flatness && seg.C2.DistanceFrom(seg.P0) <= flatness
	}
	dist := func(p geom.Coord) float64 {
		v := p.Minus(seg.P0)
		return math.Abs(v.X*chord.Y-v.Y*chord.X) / l
	}
	return dist(seg.C1) <= flatness && dist(seg.C2) <= flatness
}

func (s *Sampler) TotalLength() float64 {
	if len(s.cum) == 0 {
		return 0
	}
	return s.cum[len(s.cum)-1]
}

// PointAt returns the point d along the curve, with d clamped to
// [0, TotalLength].
func (s *Sampler) PointAt(d float64) geom.Coord {
	if len(s.pts) == 0 {
		return geom.Coord{}
	}
	if d <= 0 || math.IsNaN(d) {
		return s.pts[0]
	}
	if d >= s.TotalLength() {
		return s.pts[len(s.pts)-1]
	}
	i := sort.SearchFloat64s(s.cum, d)
	a, b := s.cum[i-1], s.cum[i]
	if b == a {
		return s.pts[i]
	}
	t := (d - a) / (b - a)
	return s.pts[i-1].Plus(s.pts[i].Minus(s.pts[i-1]).Times(t))
}

// TangentAngleAt is the direction of travel at d in degrees, rotated by
// 90 so artwork drawn pointing up (-y) faces along the curve. The
// direction comes from points Epsilon before and after d, each clamped
// to the curve.
func (s *Sampler) TangentAngleAt(d float64) float64 {
	before := s.PointAt(d - Epsilon)
	after := s.PointAt(d + Epsilon)
	return Heading(before, after)
}

// Heading is the screen-space angle from a to b in degrees plus 90.
func Heading(a, b geom.Coord) float64 {
	v := b.Minus(a)
	return math.Atan2(v.Y, v.X)*180/math.Pi + 90
}

// Polyline returns the flattened points. Callers must not modify it.
func (s *Sampler) Polyline() []geom.Coord {
	return s.pts
}
